package busybusy

import (
	"fmt"
	"strings"
)

// TransportError is a network-level failure talking to the upstream API:
// connection/timeout errors or a non-200 status. Fetches fail fast on it.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("busybusy request failed: %v", e.Err)
	}
	return fmt.Sprintf("busybusy returned HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteDataError is an application-level failure reported inside an
// otherwise successful response: a GraphQL errors array or an undecodable
// payload. Treated exactly like a transport failure by callers.
type RemoteDataError struct {
	Messages []string
}

func (e *RemoteDataError) Error() string {
	return "busybusy graphql errors: " + strings.Join(e.Messages, ", ")
}
