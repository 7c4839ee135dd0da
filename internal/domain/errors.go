package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateProfile   = errors.New("profile already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSigning            = errors.New("token signing failed")
	ErrInvalidInput       = errors.New("invalid input")
)

// FieldError describes a single failed input check.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// ValidationError collects every failed check for one request. It unwraps
// to ErrInvalidInput so callers can match it with errors.Is.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Msg
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add records a failed check against a body parameter.
func (e *ValidationError) Add(param, msg string) {
	e.Errors = append(e.Errors, FieldError{Msg: msg, Param: param, Location: "body"})
}

// OrNil returns e when at least one check failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// InvalidID reports a path parameter that is not a well-formed object id.
func InvalidID(param string) error {
	return &ValidationError{Errors: []FieldError{{Msg: "Invalid id", Param: param, Location: "params"}}}
}
