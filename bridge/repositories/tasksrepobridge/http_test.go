package tasksrepobridge_test

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
	"github.com/jrazmi/taskboard/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/taskboard/bridge/scaffolding/mid"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo/stores/taskssqlitestore"
	"github.com/jrazmi/taskboard/infrastructure/sqlitedb"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/sdk/logger"
)

const (
	ownerA = "00000000-0000-0000-0000-0000000000a1"
	ownerB = "00000000-0000-0000-0000-0000000000b2"
)

// tokens maps bearer tokens straight to user ids.
type tokens map[string]string

func (v tokens) Verify(ctx context.Context, token string) (string, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return "", errors.New("unknown token")
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlitedb.OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := logger.NewDiscard()
	if err := sqlitedb.Migrate(context.Background(), db, log.Logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, id := range []string{ownerA, ownerB} {
		if _, err := db.Exec("INSERT INTO users (user_id, username, password_hash) VALUES (?, ?, 'x')", id, id); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}

	today := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := tasksrepo.NewRepository(log, taskssqlitestore.NewStore(log, db),
		tasksrepo.WithClock(func() time.Time { return today }))

	wh := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(
		mid.Logger(log),
		mid.Errors(log),
		mid.Panics(log),
	))
	tasksrepobridge.AddHttpRoutes(wh.Group("/api"), tasksrepobridge.Config{
		Log:        log,
		Repository: repo,
		Middleware: []web.Middleware{mid.Authenticate(tokens{"a": ownerA, "b": ownerB})},
	})
	return wh
}

func call(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func create(t *testing.T, h http.Handler, token, body string) tasksrepobridge.Task {
	t.Helper()

	rec := call(t, h, http.MethodPost, "/api/tasks", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("create %s: status = %d, body = %s", body, rec.Code, rec.Body.String())
	}
	var task tasksrepobridge.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("create %s: %v", body, err)
	}
	return task
}

func list(t *testing.T, h http.Handler, token, query string) []tasksrepobridge.Task {
	t.Helper()

	rec := call(t, h, http.MethodGet, "/api/tasks"+query, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list %s: status = %d, body = %s", query, rec.Code, rec.Body.String())
	}
	var tasks []tasksrepobridge.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("list %s: %v", query, err)
	}
	return tasks
}

func titles(tasks []tasksrepobridge.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func taskPath(id int64) string {
	return fmt.Sprintf("/api/tasks/%d", id)
}

func TestCreateDefaults(t *testing.T) {
	h := newHandler(t)

	got := create(t, h, "a", `{"title":"Water plants","category":"   "}`)
	want := tasksrepobridge.Task{ID: got.ID, Title: "Water plants", Priority: "medium"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("task (-want +got):\n%s", diff)
	}

	raw := call(t, h, http.MethodGet, taskPath(got.ID), "a", "").Body.String()
	for _, key := range []string{`"deadline":null`, `"category":null`, `"done":false`} {
		if !strings.Contains(raw, key) {
			t.Errorf("body %s lacks %s", raw, key)
		}
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name, body string
	}{
		{"empty body", ""},
		{"malformed json", `{"title":`},
		{"blank title", `{"title":"  "}`},
		{"bad priority", `{"title":"x","priority":"urgent"}`},
		{"bad deadline", `{"title":"x","deadline":"01/02/2024"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, h, http.MethodPost, "/api/tasks", "a", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPatchIsPartial(t *testing.T) {
	h := newHandler(t)
	task := create(t, h, "a", `{"title":"Report","deadline":"2024-03-01","priority":"low","category":"work"}`)

	rec := call(t, h, http.MethodPatch, taskPath(task.ID), "a", `{"done":true,"category":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true}` {
		t.Errorf("patch body = %s", got)
	}

	var got tasksrepobridge.Task
	json.Unmarshal(call(t, h, http.MethodGet, taskPath(task.ID), "a", "").Body.Bytes(), &got)

	deadline := "2024-03-01"
	want := tasksrepobridge.Task{ID: task.ID, Title: "Report", Done: true, Deadline: &deadline, Priority: "low"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("after patch (-want +got):\n%s", diff)
	}
}

func TestTaskNotFound(t *testing.T) {
	h := newHandler(t)
	task := create(t, h, "a", `{"title":"Private"}`)

	tests := []struct {
		name, method, path, token, body string
	}{
		{"other owner get", http.MethodGet, taskPath(task.ID), "b", ""},
		{"other owner patch", http.MethodPatch, taskPath(task.ID), "b", `{"done":true}`},
		{"other owner delete", http.MethodDelete, taskPath(task.ID), "b", ""},
		{"unknown id", http.MethodGet, taskPath(task.ID + 100), "a", ""},
		{"non numeric id", http.MethodGet, "/api/tasks/abc", "a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, h, tt.method, tt.path, tt.token, tt.body)
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
		})
	}

	if got := list(t, h, "a", ""); len(got) != 1 || got[0].Done {
		t.Errorf("owner's task was touched: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	h := newHandler(t)
	task := create(t, h, "a", `{"title":"Gone soon"}`)

	if rec := call(t, h, http.MethodDelete, taskPath(task.ID), "a", ""); rec.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	if rec := call(t, h, http.MethodDelete, taskPath(task.ID), "a", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestListView(t *testing.T) {
	h := newHandler(t)
	create(t, h, "a", `{"title":"buy bread","priority":"low","category":"home"}`)
	done := create(t, h, "a", `{"title":"Call bank","priority":"high","deadline":"2024-05-01"}`)
	create(t, h, "a", `{"title":"Buy stamps","priority":"medium","deadline":"2024-04-01","category":"home"}`)
	call(t, h, http.MethodPatch, taskPath(done.ID), "a", `{"done":true}`)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"buy bread", "Call bank", "Buy stamps"}},
		{"?sort=title", []string{"buy bread", "Buy stamps", "Call bank"}},
		{"?sort=date", []string{"Buy stamps", "Call bank", "buy bread"}},
		{"?sort=priority", []string{"Call bank", "Buy stamps", "buy bread"}},
		{"?status=active", []string{"buy bread", "Buy stamps"}},
		{"?status=completed", []string{"Call bank"}},
		{"?category=home&search=BUY", []string{"buy bread", "Buy stamps"}},
		{"?status=active&search=stamps&sort=priority", []string{"Buy stamps"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, titles(list(t, h, "a", tt.query))); diff != "" {
				t.Errorf("titles (-want +got):\n%s", diff)
			}
		})
	}

	for _, q := range []string{"?status=archived", "?sort=random"} {
		if rec := call(t, h, http.MethodGet, "/api/tasks"+q, "a", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}

	if got := list(t, h, "b", ""); len(got) != 0 {
		t.Errorf("other owner sees %d tasks", len(got))
	}
}

func TestReorder(t *testing.T) {
	h := newHandler(t)
	first := create(t, h, "a", `{"title":"first"}`)
	second := create(t, h, "a", `{"title":"second"}`)
	third := create(t, h, "a", `{"title":"third"}`)
	other := create(t, h, "b", `{"title":"not yours"}`)

	body := fmt.Sprintf(`{"ids":[%d,%d,%d]}`, third.ID, first.ID, second.ID)
	if rec := call(t, h, http.MethodPut, "/api/tasks/order", "a", body); rec.Code != http.StatusOK {
		t.Fatalf("reorder: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff([]string{"third", "first", "second"}, titles(list(t, h, "a", ""))); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}

	tests := []struct {
		name, body string
		want       int
	}{
		{"missing task", fmt.Sprintf(`{"ids":[%d,%d]}`, first.ID, second.ID), http.StatusBadRequest},
		{"duplicate", fmt.Sprintf(`{"ids":[%d,%d,%d]}`, first.ID, first.ID, second.ID), http.StatusBadRequest},
		{"foreign task", fmt.Sprintf(`{"ids":[%d,%d,%d]}`, first.ID, second.ID, other.ID), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, h, http.MethodPut, "/api/tasks/order", "a", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestClearCompleted(t *testing.T) {
	h := newHandler(t)
	keep := create(t, h, "a", `{"title":"keep"}`)
	for _, title := range []string{"one", "two"} {
		task := create(t, h, "a", `{"title":"`+title+`"}`)
		call(t, h, http.MethodPatch, taskPath(task.ID), "a", `{"done":true}`)
	}
	theirs := create(t, h, "b", `{"title":"theirs"}`)
	call(t, h, http.MethodPatch, taskPath(theirs.ID), "b", `{"done":true}`)

	rec := call(t, h, http.MethodPost, "/api/tasks/clear-completed", "a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res tasksrepobridge.ClearResult
	json.Unmarshal(rec.Body.Bytes(), &res)
	if diff := cmp.Diff(tasksrepobridge.ClearResult{Deleted: 2, Total: 2}, res); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}

	if got := list(t, h, "a", ""); len(got) != 1 || got[0].ID != keep.ID {
		t.Errorf("remaining = %+v", got)
	}
	if got := list(t, h, "b", ""); len(got) != 1 {
		t.Errorf("other owner's completed task was cleared")
	}
}

func TestCategoriesAndSummary(t *testing.T) {
	h := newHandler(t)
	create(t, h, "a", `{"title":"a","category":"work"}`)
	create(t, h, "a", `{"title":"b","category":"home","deadline":"2024-01-01"}`)
	late := create(t, h, "a", `{"title":"c","category":"work","deadline":"2024-01-15"}`)
	call(t, h, http.MethodPatch, taskPath(late.ID), "a", `{"done":true}`)

	var cats []string
	json.Unmarshal(call(t, h, http.MethodGet, "/api/tasks/categories", "a", "").Body.Bytes(), &cats)
	if diff := cmp.Diff([]string{"home", "work"}, cats); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}

	var sum tasksrepobridge.Summary
	json.Unmarshal(call(t, h, http.MethodGet, "/api/tasks/summary", "a", "").Body.Bytes(), &sum)
	want := tasksrepobridge.Summary{Active: 2, Completed: 1, Total: 3, Overdue: 1}
	if diff := cmp.Diff(want, sum); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}
}

func TestRoutesRequireAuthentication(t *testing.T) {
	h := newHandler(t)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks/summary"},
		{http.MethodPatch, "/api/tasks/1"},
	} {
		for _, token := range []string{"", "stale"} {
			rec := call(t, h, tt.method, tt.path, token, `{"title":"x"}`)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s %s token %q: status = %d, want 401", tt.method, tt.path, token, rec.Code)
			}
		}
	}
}

func TestListMatchesQueryValuesAsSent(t *testing.T) {
	h := newHandler(t)
	create(t, h, "a", `{"title":"Buy milk","category":" home "}`)
	create(t, h, "a", `{"title":"Buyer call","category":"home"}`)

	var cats []string
	json.Unmarshal(call(t, h, http.MethodGet, "/api/tasks/categories", "a", "").Body.Bytes(), &cats)
	if diff := cmp.Diff([]string{" home ", "home"}, cats); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"?category=%20home%20", []string{"Buy milk"}},
		{"?category=home", []string{"Buyer call"}},
		{"?search=buy%20", []string{"Buy milk"}},
		{"?search=buy", []string{"Buy milk", "Buyer call"}},
		{"?search=%20%20&category=", []string{"Buy milk", "Buyer call"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, titles(list(t, h, "a", tt.query))); diff != "" {
				t.Errorf("titles (-want +got):\n%s", diff)
			}
		})
	}
}
