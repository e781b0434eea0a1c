package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jrazmi/taskboard/app/taskboard/api"
	"github.com/jrazmi/taskboard/app/taskboard/config"
	"github.com/jrazmi/taskboard/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo/stores/taskssqlitestore"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo/stores/userssqlitestore"
	"github.com/jrazmi/taskboard/core/services/credentials"
	"github.com/jrazmi/taskboard/infrastructure/sqlitedb"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/jrazmi/taskboard/sdk/telemetry"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlitedb.OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := logger.NewDiscard()
	ctx := context.Background()
	if err := sqlitedb.Migrate(ctx, db, log.Logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := usersrepo.NewRepository(log, userssqlitestore.NewStore(log, db))
	creds, err := credentials.NewService(log, users, credentials.Config{
		SigningKey: "api-test-key",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
		Issuer:     "taskboard",
	})
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}

	return api.Handler(config.Taskboard{
		Build:     "test",
		Logger:    log,
		Telemetry: telemetry.NewTelemetry(),
		Repositories: config.Repositories{
			Tasks: tasksrepo.NewRepository(log, taskssqlitestore.NewStore(log, db)),
		},
		Services: config.Services{
			Credentials: creds,
		},
		CORSOrigins: []string{"http://localhost:3000"},
		HealthCheck: func(ctx context.Context) error {
			return sqlitedb.StatusCheck(ctx, db)
		},
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func signup(t *testing.T, h http.Handler, username string) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/api/signup", "", `{"username":"`+username+`","password":"hunter2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup %s: status = %d, body = %s", username, rec.Code, rec.Body.String())
	}
	cred := decode[struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}](t, rec)
	if cred.Username != username || cred.Token == "" {
		t.Fatalf("signup %s: got %+v", username, cred)
	}
	return cred.Token
}

func TestOwnershipScenario(t *testing.T) {
	h := newServer(t)
	alice := signup(t, h, "alice")
	bob := signup(t, h, "bob")

	rec := do(t, h, http.MethodPost, "/api/tasks", alice,
		`{"title":"Buy milk","deadline":"2024-01-01","priority":"high"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	created := decode[tasksrepobridge.Task](t, rec)

	deadline := "2024-01-01"
	want := tasksrepobridge.Task{ID: created.ID, Title: "Buy milk", Done: false, Deadline: &deadline, Priority: "high"}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Errorf("created task (-want +got):\n%s", diff)
	}

	rec = do(t, h, http.MethodGet, "/api/tasks", bob, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("bob list: status = %d", rec.Code)
	}
	if got := decode[[]tasksrepobridge.Task](t, rec); len(got) != 0 {
		t.Errorf("bob sees %d tasks, want 0", len(got))
	}

	path := "/api/tasks/" + strconv.FormatInt(created.ID, 10)
	for _, tt := range []struct {
		method, body string
	}{
		{http.MethodGet, ""},
		{http.MethodPatch, `{"done":true}`},
		{http.MethodDelete, ""},
	} {
		rec = do(t, h, tt.method, path, bob, tt.body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("bob %s: status = %d, want 404", tt.method, rec.Code)
		}
	}

	rec = do(t, h, http.MethodGet, path, alice, "")
	if diff := cmp.Diff(want, decode[tasksrepobridge.Task](t, rec)); diff != "" {
		t.Errorf("alice still sees the original task (-want +got):\n%s", diff)
	}
}

func TestTaskRoutesRequireToken(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name, token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/tasks", tt.token, "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			body := decode[map[string]any](t, rec)
			if _, ok := body["error"]; !ok {
				t.Errorf("body %v has no error", body)
			}
		})
	}
}

func TestSignupAndSignin(t *testing.T) {
	h := newServer(t)
	signup(t, h, "carol")

	tests := []struct {
		name, path, body string
		want             int
	}{
		{"duplicate signup", "/api/signup", `{"username":"carol","password":"x"}`, http.StatusBadRequest},
		{"blank username", "/api/signup", `{"username":"  ","password":"x"}`, http.StatusBadRequest},
		{"signin", "/api/signin", `{"username":"carol","password":"hunter2"}`, http.StatusOK},
		{"wrong password", "/api/signin", `{"username":"carol","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", "/api/signin", `{"username":"dave","password":"hunter2"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, "", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHealthAndPreflight(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz: status = %d", rec.Code)
	}

	r := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}

	rec = do(t, h, http.MethodGet, "/debug/vars", "", "")
	if !strings.Contains(rec.Body.String(), `"requests"`) {
		t.Errorf("debug vars missing request counter: %s", rec.Body.String())
	}
}
