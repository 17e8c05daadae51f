package storus

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// sentinel errors
var (
	ErrDefaultNotSet = errors.New("default is not set")
	ErrNotFound      = errors.New("key not found")
)

// StatusError is a failed call reported by stoo or by the gRPC transport.
type StatusError struct {
	Code    codes.Code
	Message string
}

// Error renders the status as "<code> - <message>", e.g. "NotFound - key missing".
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s - %s", e.Code, e.Message)
}

// Is makes errors.Is(err, ErrNotFound) match NotFound statuses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == codes.NotFound
}

// fromStatus converts any error returned by a gRPC call into a StatusError.
// Context errors map to DeadlineExceeded or Canceled, everything else without
// a status becomes Unknown.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		st = status.FromContextError(err)
	}
	return &StatusError{Code: st.Code(), Message: st.Message()}
}
