package geocode

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider builds the provider used by AddressToCoordinates and
// CoordinatesToAddress. Tests replace it to inject failures.
var NewProvider = func(opts ...Option) Provider {
	return NewNominatim(opts...)
}

// AddressToCoordinates returns the latitude and longitude of the best match
// for address. ok is false when nothing matched or the lookup failed; errors
// are logged, never returned.
func AddressToCoordinates(ctx context.Context, address string, opts ...Option) (lat, lon float64, ok bool) {
	p := NewProvider(append([]Option{WithUserAgent(UserAgent)}, opts...)...)

	loc, err := lookup(func() (*Location, error) { return p.Geocode(ctx, address) })
	if err != nil {
		zap.L().Warn("error geocoding address",
			zap.String("address", address),
			zap.Error(err),
		)
		return 0, 0, false
	}
	if loc == nil {
		return 0, 0, false
	}
	return loc.Latitude, loc.Longitude, true
}

// CoordinatesToAddress returns the address nearest to (lat, lon). ok is false
// when nothing matched or the lookup failed; errors are logged, never returned.
func CoordinatesToAddress(ctx context.Context, lat, lon float64, opts ...Option) (address string, ok bool) {
	p := NewProvider(append([]Option{WithUserAgent(UserAgent)}, opts...)...)

	loc, err := lookup(func() (*Location, error) { return p.Reverse(ctx, lat, lon) })
	if err != nil {
		zap.L().Warn("error reverse geocoding coordinates",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err),
		)
		return "", false
	}
	if loc == nil {
		return "", false
	}
	return loc.DisplayName, true
}

// lookup runs fn and turns a provider panic into an error.
func lookup(fn func() (*Location, error)) (loc *Location, err error) {
	defer func() {
		if r := recover(); r != nil {
			loc = nil
			err = &panicError{value: r}
		}
	}()
	return fn()
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("geocode: provider panicked: %v", e.value)
}
