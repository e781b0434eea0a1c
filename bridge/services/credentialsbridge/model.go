package credentialsbridge

import (
	"time"

	"github.com/jrazmi/taskboard/core/services/credentials"
)

// CredentialsInput is the signup and signin body.
type CredentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credential is the signup and signin response.
type Credential struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expires_at"`
}

// MarshalToBridge converts an issued credential to its JSON shape.
func MarshalToBridge(c credentials.Credential) Credential {
	return Credential{
		Token:     c.Token,
		Username:  c.Username,
		ExpiresAt: c.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
