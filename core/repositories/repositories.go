// Package repositories holds the storage errors every store implementation
// translates its driver errors into.
package repositories

import (
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicated entry")
)
