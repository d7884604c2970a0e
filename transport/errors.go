package transport

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	Other ErrorKind = iota
	ConnectionRefused
	Timeout
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectionRefused:
		return "connection refused"
	case Timeout:
		return "timeout"
	default:
		return "other"
	}
}

// Error is returned by Client.Do for every network-level failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the transport error kind of err and whether err is a transport error at all.
func KindOf(err error) (ErrorKind, bool) {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind, true
	}
	return Other, false
}

func classify(err error) *Error {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return &Error{Kind: Timeout, Err: err}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &Error{Kind: ConnectionRefused, Err: err}
	default:
		return &Error{Kind: Other, Err: err}
	}
}
