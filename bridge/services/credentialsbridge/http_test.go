package credentialsbridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jrazmi/taskboard/bridge/scaffolding/mid"
	"github.com/jrazmi/taskboard/bridge/services/credentialsbridge"
	"github.com/jrazmi/taskboard/core/services/credentials"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/sdk/logger"
)

var expires = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

// service answers from a fixed set of users; "boom" fails as storage would.
type service struct {
	users map[string]string
}

func (s service) Register(ctx context.Context, username, password string) (credentials.Credential, error) {
	switch {
	case username == "boom":
		return credentials.Credential{}, errors.New("database is locked")
	case strings.TrimSpace(username) == "" || password == "":
		return credentials.Credential{}, fmt.Errorf("%w: username and password are required", credentials.ErrInvalidInput)
	}
	if _, ok := s.users[username]; ok {
		return credentials.Credential{}, fmt.Errorf("register %s: %w", username, credentials.ErrConflict)
	}
	return credentials.Credential{Token: "tok-" + username, UserID: "id-" + username, Username: username, ExpiresAt: expires}, nil
}

func (s service) Authenticate(ctx context.Context, username, password string) (credentials.Credential, error) {
	if pw, ok := s.users[username]; !ok || pw != password {
		return credentials.Credential{}, credentials.ErrUnauthorized
	}
	return credentials.Credential{Token: "tok-" + username, UserID: "id-" + username, Username: username, ExpiresAt: expires}, nil
}

func newHandler() http.Handler {
	log := logger.NewDiscard()
	wh := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(
		mid.Errors(log),
		mid.Panics(log),
	))
	credentialsbridge.AddHttpRoutes(wh.Group("/api"), credentialsbridge.Config{
		Log:     log,
		Service: service{users: map[string]string{"erin": "s3cret"}},
	})
	return wh
}

func TestRoutes(t *testing.T) {
	h := newHandler()

	tests := []struct {
		name, path, body string
		wantStatus       int
		wantError        string
	}{
		{"signup", "/api/signup", `{"username":"frank","password":"pw"}`, http.StatusOK, ""},
		{"signup taken", "/api/signup", `{"username":"erin","password":"pw"}`, http.StatusBadRequest, "username already taken"},
		{"signup blank", "/api/signup", `{"username":"","password":"pw"}`, http.StatusBadRequest, ""},
		{"signup no body", "/api/signup", "", http.StatusBadRequest, ""},
		{"signup storage failure", "/api/signup", `{"username":"boom","password":"pw"}`, http.StatusInternalServerError, "Internal Server Error"},
		{"signin", "/api/signin", `{"username":"erin","password":"s3cret"}`, http.StatusOK, ""},
		{"signin wrong password", "/api/signin", `{"username":"erin","password":"guess"}`, http.StatusUnauthorized, "invalid username or password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantError == "" {
				return
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestSignupResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/signup",
		strings.NewReader(`{"username":"gina","password":"pw"}`)))

	var got credentialsbridge.Credential
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := credentialsbridge.Credential{Token: "tok-gina", Username: "gina", ExpiresAt: "2024-01-02T09:00:00Z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("credential (-want +got):\n%s", diff)
	}
}
