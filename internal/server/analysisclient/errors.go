package analysisclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed engine call.
type Kind int

const (
	KindUnavailable Kind = iota
	KindBadRequest
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	default:
		return "unavailable"
	}
}

// DownstreamError is returned for every failed engine call. StatusCode is 0
// when no response was received.
type DownstreamError struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *DownstreamError) Error() string {
	return e.Message
}

// AsDownstreamError is a shorthand for errors.As.
func AsDownstreamError(err error) (*DownstreamError, bool) {
	var de *DownstreamError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindUnavailable
	}
}

func unavailable(cause error) *DownstreamError {
	return &DownstreamError{
		Kind:    KindUnavailable,
		Message: fmt.Sprintf("factor analysis service is unavailable: %v", cause),
	}
}
