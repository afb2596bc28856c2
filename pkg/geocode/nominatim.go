package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
)

// Nominatim implements Provider against the Nominatim HTTP API.
type Nominatim struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   language.Tag
}

// NewNominatim creates a Nominatim client with the given options.
func NewNominatim(opts ...Option) *Nominatim {
	n := &Nominatim{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  UserAgent,
		language:   language.French,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.baseURL = strings.TrimRight(n.baseURL, "/")
	return n
}

// nominatimAddress mirrors the address breakdown of a jsonv2 result.
type nominatimAddress struct {
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Country     string `json:"country"`
}

// nominatimPlace mirrors the relevant parts of a search or reverse payload.
type nominatimPlace struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

// Geocode implements Provider.
func (n *Nominatim) Geocode(ctx context.Context, address string) (*Location, error) {
	params := url.Values{
		"q":              {address},
		"format":         {"jsonv2"},
		"limit":          {"1"},
		"addressdetails": {"1"},
	}

	body, err := n.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrap(err, "geocode: parse search response")
	}
	if len(places) == 0 {
		return nil, nil
	}

	return places[0].location()
}

// Reverse implements Provider.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	params := url.Values{
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
	}

	body, err := n.get(ctx, "/reverse", params)
	if err != nil {
		return nil, err
	}

	var place nominatimPlace
	if err := json.Unmarshal(body, &place); err != nil {
		return nil, eris.Wrap(err, "geocode: parse reverse response")
	}
	// Nominatim answers 200 with {"error": "Unable to geocode"} when nothing is near.
	if place.Error != "" || place.DisplayName == "" {
		return nil, nil
	}

	return place.location()
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := n.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept-Language", n.language.String())

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}
	return body, nil
}

func (p nominatimPlace) location() (*Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: parse latitude %q", p.Lat)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: parse longitude %q", p.Lon)
	}

	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}

	return &Location{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: p.DisplayName,
		Postcode:    p.Address.Postcode,
		City:        city,
		Country:     p.Address.Country,
	}, nil
}
