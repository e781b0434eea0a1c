package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON error body for failures raised by the framework
// itself, before any application error handling runs.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"-"`
}

func NewError(msg string, status int) ErrorResponse {
	return ErrorResponse{Error: msg, Status: status}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json; charset=utf-8", err
}

func (e ErrorResponse) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}
