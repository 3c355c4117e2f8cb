package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// UnauthenticatedError is the precondition failure class: the caller is
// redirected to login instead of shown an inline error. Expired marks a
// credential rejected as stale, either locally or by the upstream.
type UnauthenticatedError struct {
	Expired bool
	Err     error
}

func (e UnauthenticatedError) Error() string {
	if e.Expired {
		return "Session expired. Please login again."
	}
	return "Not authenticated. Please login to continue."
}

func (e UnauthenticatedError) Unwrap() error { return e.Err }

// UpstreamError carries a collaborator failure whose detail message is
// surfaced to the user verbatim. Status is zero for transport failures.
type UpstreamError struct {
	Status int
	Detail string
	Err    error
}

func (e UpstreamError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

func (e UpstreamError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsUnauthenticated(err error) bool {
	var target UnauthenticatedError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// AsUpstream extracts the typed upstream error when present.
func AsUpstream(err error) (UpstreamError, bool) {
	var target UpstreamError
	ok := errors.As(err, &target)
	return target, ok
}
