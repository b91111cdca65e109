package remote

import (
	"errors"
	"fmt"
)

// FailureClass groups remote failures into the classes the mutation layer
// branches on.
type FailureClass string

const (
	ClassClientError  FailureClass = "client-error"
	ClassServerError  FailureClass = "server-error"
	ClassNetworkError FailureClass = "network-error"
)

// Failure describes a failed gateway request. Detail carries the remote's
// human-readable message when it supplied one.
type Failure struct {
	Class  FailureClass
	Status int
	Detail string
}

func (f *Failure) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", f.Class, f.Status, f.Detail)
	}
	return fmt.Sprintf("%s (%d)", f.Class, f.Status)
}

// Message returns the remote's detail message, or fallback when the remote
// supplied none.
func (f *Failure) Message(fallback string) string {
	if f.Detail != "" {
		return f.Detail
	}
	return fallback
}

// AsFailure unwraps err into a *Failure when the chain contains one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// NetworkFailure wraps a transport-level error (DNS, timeout, refused
// connection) into a network-class failure with no remote detail.
func NetworkFailure(err error) *Failure {
	return &Failure{Class: ClassNetworkError, Detail: ""}
}

func classify(status int) FailureClass {
	if status >= 500 {
		return ClassServerError
	}
	return ClassClientError
}
