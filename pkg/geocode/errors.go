package geocode

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rotisserie/eris"
)

// ErrTimeout is returned when the provider does not answer in time.
var ErrTimeout = errors.New("geocode: request timed out")

// ServiceError reports a non-200 answer from the provider.
type ServiceError struct {
	StatusCode int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("geocode: service returned status %d", e.StatusCode)
}

// classify maps transport failures to ErrTimeout where possible.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return eris.Wrap(err, "geocode: request")
}
