package version

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fetch failures.
type ErrorKind int

const (
	// NetworkFailure covers connection, status and body read errors.
	NetworkFailure ErrorKind = iota + 1
	// DecodeFailure means the body was not the expected JSON document.
	DecodeFailure
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case DecodeFailure:
		return "decode failure"
	default:
		return "unknown failure"
	}
}

// FetchError is returned by Fetcher.Fetch.
type FetchError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNetworkFailure reports whether err is a FetchError of kind NetworkFailure.
func IsNetworkFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == NetworkFailure
}

// IsDecodeFailure reports whether err is a FetchError of kind DecodeFailure.
func IsDecodeFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == DecodeFailure
}
