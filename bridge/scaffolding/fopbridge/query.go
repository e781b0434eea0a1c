package fopbridge

import (
	"net/http"
	"strings"

	"github.com/jrazmi/taskboard/sdk/validation"
)

// QueryString returns the trimmed value of key and whether key was present
// with a non-blank value. Use it for enumerated parameters.
func QueryString(r *http.Request, key string) (string, bool) {
	q := r.URL.Query()
	if !q.Has(key) {
		return "", false
	}
	v := strings.TrimSpace(q.Get(key))
	return v, v != ""
}

// QueryValue returns the value of key exactly as sent. A missing or blank
// value reports false and comes back empty, so callers treat it as no
// restriction. Use it for values compared against stored text.
func QueryValue(r *http.Request, key string) (string, bool) {
	v := r.URL.Query().Get(key)
	if validation.IsBlank(v) {
		return "", false
	}
	return v, true
}

// QueryValuePtr is QueryValue returning nil when absent or blank.
func QueryValuePtr(r *http.Request, key string) *string {
	v, ok := QueryValue(r, key)
	if !ok {
		return nil
	}
	return &v
}
