// Package errors defines the failure kinds a check can end with. None of them
// abort an evaluation run; each is recovered at the boundary of its check.
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrNetwork              = stderrors.New("network failure")
	ErrManifestMissing      = stderrors.New("manifest missing")
	ErrManifestUnreachable  = stderrors.New("manifest unreachable")
	ErrManifestMalformed    = stderrors.New("manifest malformed")
	ErrManifestIncomplete   = stderrors.New("manifest incomplete")
	ErrManifestIconsInvalid = stderrors.New("manifest icons invalid")
	ErrAutomation           = stderrors.New("browser automation failure")
)

// CheckError records which check failed, with what kind, and why.
type CheckError struct {
	Check string
	Kind  error
	Err   error
}

func (e *CheckError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Check, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Check, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *CheckError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New wraps err as a failure of the given kind in check.
func New(check string, kind, err error) *CheckError {
	return &CheckError{Check: check, Kind: kind, Err: err}
}

// Newf is New with a formatted cause.
func Newf(check string, kind error, format string, args ...any) *CheckError {
	return &CheckError{Check: check, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err is of the given kind.
func Is(err, kind error) bool {
	return stderrors.Is(err, kind)
}

// Cause returns a short user-facing description of err.
func Cause(err error) string {
	var ce *CheckError
	if stderrors.As(err, &ce) && ce.Err != nil {
		return ce.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
