// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching a FetchError's kind with errors.Is.
var (
	// ErrTransport indicates a connection failure, timeout, or non-2xx response.
	ErrTransport = errors.New("transport failure")

	// ErrResponseFormat indicates a response body that is not well-formed XML.
	ErrResponseFormat = errors.New("malformed response")
)

// ErrorKind classifies a FetchError.
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindResponseFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindResponseFormat:
		return "response format"
	default:
		return "unknown"
	}
}

// FetchError aborts a search or detail fetch. It is never retried and is
// surfaced to the caller as a single message.
type FetchError struct {
	// Op describes what was being done, e.g. "searching PubMed".
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrResponseFormat:
		return e.Kind == KindResponseFormat
	}
	return false
}

func transportError(op string, err error) *FetchError {
	return &FetchError{Op: op, Kind: KindTransport, Err: err}
}

func formatError(op string, err error) *FetchError {
	return &FetchError{Op: op, Kind: KindResponseFormat, Err: err}
}

// IsTransport reports whether err is a transport-level FetchError.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsResponseFormat reports whether err is a response-format FetchError.
func IsResponseFormat(err error) bool {
	return errors.Is(err, ErrResponseFormat)
}
