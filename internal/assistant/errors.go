package assistant

import (
	"errors"
	"fmt"

	"finratio/internal/llmservice"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindUnavailable
	KindQuotaExceeded
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindQuotaExceeded:
		return "quota exceeded"
	default:
		return "unknown"
	}
}

// Error is returned by every failed assistant call.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("assistant %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user instead of the raw provider error.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindUnavailable:
		return "The assistant service could not be reached. Check your API key and network connection, then try again."
	case KindQuotaExceeded:
		return "The assistant quota is exhausted. Wait a moment or check your plan, then try again."
	default:
		return fmt.Sprintf("The assistant failed unexpectedly: %v", e.Err)
	}
}

func toError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, llmservice.ErrQuotaExceeded):
		return &Error{Kind: KindQuotaExceeded, Err: err}
	case errors.Is(err, llmservice.ErrUnavailable):
		return &Error{Kind: KindUnavailable, Err: err}
	default:
		return &Error{Kind: KindUnknown, Err: err}
	}
}
