// Package fopbridge holds the filter/order plumbing and the small response
// bodies shared by the HTTP bridges.
package fopbridge

import "encoding/json"

// SuccessResponse is the {"success": true} acknowledgement of a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func NewSuccessResponse() SuccessResponse {
	return SuccessResponse{Success: true}
}

func (s SuccessResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json; charset=utf-8", err
}
