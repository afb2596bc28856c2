// Package geocode converts addresses to coordinates and back using the
// Nominatim (OpenStreetMap) search API.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/text/language"
)

// DefaultBaseURL is the public Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// UserAgent identifies this project to Nominatim, whose usage policy
// requires a stable application identifier.
const UserAgent = "price_estimator"

// Provider looks up addresses and coordinates. A lookup without a result
// returns a nil Location and a nil error.
type Provider interface {
	// Geocode resolves a free-text address to its best match.
	Geocode(ctx context.Context, address string) (*Location, error)

	// Reverse resolves coordinates to the nearest address.
	Reverse(ctx context.Context, lat, lon float64) (*Location, error)
}

// Location is a single geocoding match.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
	Postcode    string  `json:"postcode,omitempty"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
}

// Option configures the Nominatim client.
type Option func(*Nominatim)

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(n *Nominatim) {
		n.userAgent = ua
	}
}

// WithBaseURL points the client at another Nominatim instance.
func WithBaseURL(baseURL string) Option {
	return func(n *Nominatim) {
		n.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(n *Nominatim) {
		n.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(n *Nominatim) {
		if d > 0 {
			n.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLanguage sets the preferred language of returned addresses.
func WithLanguage(tag language.Tag) Option {
	return func(n *Nominatim) {
		n.language = tag
	}
}
