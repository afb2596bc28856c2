package geodvf

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/price-estimator/internal/fetcher"
)

// ErrNothingDownloaded is returned by Open when none of the requested files is cached.
var ErrNothingDownloaded = errors.New("geodvf: nothing downloaded yet, call Download first")

// ValidationError reports an invalid Dataset configuration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("geodvf: invalid %s: %s", e.Field, e.Reason)
}

// StatusError reports the URL and HTTP status of a rejected download.
type StatusError = fetcher.StatusError

// downloadError keeps status failures as *StatusError so callers can inspect
// them, and wraps everything else.
func downloadError(url string, err error) error {
	var se *StatusError
	if errors.As(err, &se) {
		return se
	}
	return eris.Wrapf(err, "geodvf: download %s", url)
}
