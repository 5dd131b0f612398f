package upstream

import (
	"errors"
	"fmt"
)

// Sentinel kinds for upstream errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidJSON      = errors.New("invalid json body")
)

// Kind classifies why an API call produced no usable payload.
type Kind string

// Failure kinds.
const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
)

// FetchError is the failure side of GetJSON.
type FetchError struct {
	Kind   Kind
	Path   string
	Status int // set for KindStatus
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("upstream %s: %s: status %d", e.Path, e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or "" when err is not a *FetchError.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
