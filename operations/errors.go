package operations

import (
	"errors"
	"fmt"

	"github.com/JeffreyRichter/pixtester/pix"
	"github.com/JeffreyRichter/pixtester/transport"
)

// ValidationError means operator input was rejected before any network call.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}
func (e *ValidationError) Unwrap() error { return e.Err }

// ProtocolError means the backend answered with an unexpected status or an unparseable body.
type ProtocolError struct {
	StatusCode int
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected response (status %d): %v", e.StatusCode, e.Err)
}
func (e *ProtocolError) Unwrap() error { return e.Err }

// ApplicationError is a well-formed error payload returned by the backend.
type ApplicationError struct {
	StatusCode int
	Message    string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// reasonFor renders err as the Failed reason shown in a status slot.
func reasonFor(err error) string {
	var terr *transport.Error
	if errors.As(err, &terr) {
		switch terr.Kind {
		case transport.ConnectionRefused:
			return "offline"
		case transport.Timeout:
			return "timeout"
		default:
			return "error: " + terr.Err.Error()
		}
	}
	var verr *ValidationError
	var perr *ProtocolError
	var aerr *ApplicationError
	switch {
	case errors.As(err, &verr):
		return "invalid " + verr.Field
	case errors.As(err, &perr):
		if perr.Err == nil {
			return perr.Error()
		}
		return "error: " + perr.Err.Error()
	case errors.As(err, &aerr):
		return aerr.Error()
	default:
		return "error: " + err.Error()
	}
}

// applicationError decodes the backend's error envelope from a non-200 JSON response. An
// envelope that does not decode is a ProtocolError.
func (r *run) applicationError(txn *transport.HTTPTransaction) (*ApplicationError, error) {
	var e pix.ErrorResponse
	if err := txn.Unmarshal(&e); err != nil {
		r.log("❌ Could not read the error response: %v", err)
		return nil, &ProtocolError{StatusCode: txn.StatusCode, Err: err}
	}
	return &ApplicationError{StatusCode: txn.StatusCode, Message: e.Message}, nil
}
