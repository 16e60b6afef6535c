package chain

import (
	"errors"
	"fmt"
)

// RemoteError is an application-level error reported by the remote node. It
// is never retried and never triggers endpoint failover: the network has
// answered, the answer is a rejection.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}

// AllEndpointsUnavailableError indicates every configured endpoint failed
// with a connectivity or parse error.
type AllEndpointsUnavailableError struct {
	Attempted int
	LastErr   error
}

func (e *AllEndpointsUnavailableError) Error() string {
	return fmt.Sprintf("all %d rpc endpoints unavailable, last error: %v", e.Attempted, e.LastErr)
}

func (e *AllEndpointsUnavailableError) Unwrap() error {
	return e.LastErr
}

func IsAllEndpointsUnavailableError(err error) bool {
	var unavailableErr *AllEndpointsUnavailableError
	return errors.As(err, &unavailableErr)
}
