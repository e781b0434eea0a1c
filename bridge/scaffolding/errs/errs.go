// Package errs provides types and support related to web error functionality.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode represents an error code in the system.
type ErrCode struct {
	value int
}

// Value returns the integer value of the error code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the error code.
func (ec ErrCode) String() string {
	return codeNames[ec]
}

// Set of known error codes.
var (
	InvalidArgument = ErrCode{value: 1}
	Unauthenticated = ErrCode{value: 2}
	NotFound        = ErrCode{value: 3}
	AlreadyExists   = ErrCode{value: 4}
	Internal        = ErrCode{value: 5}
	InternalOnlyLog = ErrCode{value: 6}
)

var codeNames = map[ErrCode]string{
	InvalidArgument: "invalid_argument",
	Unauthenticated: "unauthenticated",
	NotFound:        "not_found",
	AlreadyExists:   "already_exists",
	Internal:        "internal",
	InternalOnlyLog: "internal_only_log",
}

var httpStatus = map[ErrCode]int{
	InvalidArgument: http.StatusBadRequest,
	Unauthenticated: http.StatusUnauthorized,
	NotFound:        http.StatusNotFound,
	AlreadyExists:   http.StatusBadRequest,
	Internal:        http.StatusInternalServerError,
	InternalOnlyLog: http.StatusInternalServerError,
}

// Error represents an error in the system. Fields beyond Message are added
// to the JSON body when set.
type Error struct {
	Code     ErrCode        `json:"-"`
	Message  string         `json:"error"`
	Fields   map[string]any `json:"-"`
	FuncName string         `json:"-"`
	FileName string         `json:"-"`
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf constructs an error based on a error message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// WithFields returns a copy of e whose JSON body also carries fields.
func (e *Error) WithFields(fields map[string]any) *Error {
	cp := *e
	cp.Fields = fields
	return &cp
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	body := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		body[k] = v
	}
	body["error"] = e.Message

	data, err := json.Marshal(body)
	return data, "application/json; charset=utf-8", err
}

// HTTPStatus implements the web package httpStatus interface so the
// web framework can use the correct http status.
func (e *Error) HTTPStatus() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Equal provides support for the go-cmp package and testing.
func (e *Error) Equal(e2 *Error) bool {
	return e.Code == e2.Code && e.Message == e2.Message
}

// IsError tests the concrete error is of the Error type.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns a copy of the Error pointer.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return nil
	}
	return er
}
