package errors

import (
	"errors"
	"fmt"
)

// Kind groups domain errors by how a caller should react to them.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindBusiness    Kind = "business"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindUnavailable Kind = "unavailable"
	KindInternal    Kind = "internal"
)

// DomainError is a stable, machine readable failure returned across package boundaries.
// Two DomainErrors match under errors.Is when their codes are equal.
type DomainError struct {
	Code      string
	Message   string
	Kind      Kind
	Retryable bool
	Err       error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	c := *e
	c.Err = cause
	return &c
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

func newError(kind Kind, code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: kind}
}

// As extracts the first DomainError in err's chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the domain code of err, or ErrInternal's code when err is not a DomainError.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := As(err); ok {
		return de.Code
	}
	return ErrInternal.Code
}

// IsRetryable reports whether the failure is transient.
func IsRetryable(err error) bool {
	de, ok := As(err)
	return ok && de.Retryable
}

var ErrInternal = newError(KindInternal, "INTERNAL", "internal error")
