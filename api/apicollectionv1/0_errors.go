package apicollectionv1

import (
	"errors"
	"fmt"
)

// ErrBadRequest marks errors caused by the request contents.
var ErrBadRequest = errors.New("bad request")

func errBadRequest(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, a...))
}
