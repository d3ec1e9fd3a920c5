package remote

import (
	"errors"
	"fmt"
)

// TimeoutError is returned when a request exceeded its deadline.
type TimeoutError struct {
	URL   string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("remote: timeout: %s: %v", e.URL, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// ConnectivityError is returned when the round trip failed for any reason
// other than a timeout.
type ConnectivityError struct {
	URL   string
	Cause error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("remote: unreachable: %s: %v", e.URL, e.Cause)
}

func (e *ConnectivityError) Unwrap() error { return e.Cause }

// IsTimeout reports whether err wraps a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsConnectivity reports whether err wraps a ConnectivityError.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}
