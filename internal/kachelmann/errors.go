package kachelmann

import (
	"errors"
	"fmt"
)

// ErrNotModified reports a 304 response to a conditional trend fetch. The
// caller still holds the previous payload and should keep using it.
var ErrNotModified = errors.New("not modified")

// StatusError is returned when an endpoint answers with a status outside
// the 2xx range after retries are exhausted. The refresh cycle decides per
// endpoint whether this is fatal or degrades to absent data.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// IsStatusError reports whether err carries a non-2xx response status and
// returns the typed error when it does.
func IsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
