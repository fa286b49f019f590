// Package geocoding talks to a Nominatim-compatible place search service.
package geocoding

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/logging"
)

const (
	// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "travel-tracker/1.0"
	DefaultTimeout   = 10 * time.Second

	// NotFoundMessage is shown when a search has no match.
	NotFoundMessage = "Location not found. Please try another search term."
	// DroppedPinLabel names a reverse lookup without a display name.
	DroppedPinLabel = "Dropped Pin"
)

// Config holds client settings. Zero values use the defaults above.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Limit     int
}

// Client queries the search and reverse endpoints. There are no retries.
type Client struct {
	baseURL    string
	userAgent  string
	limit      int
	httpClient *http.Client
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		limit:      cfg.Limit,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// result is one Nominatim place. Coordinates arrive as strings.
type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Error       string `json:"error"`
}

func (r result) place() (domain.Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("invalid latitude %q: %w", r.Lat, err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("invalid longitude %q: %w", r.Lon, err)
	}
	return domain.Place{
		Name:     r.DisplayName,
		Type:     r.Type,
		Location: domain.Location{Lat: lat, Lng: lng},
	}, nil
}

// Search returns the best match for a free-form query.
func (c *Client) Search(ctx context.Context, query string) (domain.Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", strings.TrimSpace(query))
	params.Set("limit", strconv.Itoa(c.limit))

	var results []result
	if err := c.get(ctx, "search", params, &results); err != nil {
		return domain.Place{}, err
	}
	if len(results) == 0 {
		notFound := errors.NewNotFoundError("place", query)
		notFound.Message = NotFoundMessage
		return domain.Place{}, notFound
	}

	place, err := results[0].place()
	if err != nil {
		return domain.Place{}, errors.NewNetworkError("decode search result", err)
	}
	return place, nil
}

// Reverse names the place at the given coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (domain.Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var r result
	if err := c.get(ctx, "reverse", params, &r); err != nil {
		return domain.Place{}, err
	}
	if r.Error != "" {
		return domain.Place{}, errors.NewNotFoundError("place", fmt.Sprintf("%g, %g", lat, lng))
	}

	place := domain.Place{
		Name:     r.DisplayName,
		Type:     r.Type,
		Location: domain.Location{Lat: lat, Lng: lng},
	}
	if place.Name == "" {
		place.Name = DroppedPinLabel
	}
	return place, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	logging.Debugf("geocoding request: %s\n", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.NewNetworkError(endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
			return errors.NewTimeoutError(endpoint, ctx.Err().Error())
		case ctx.Err() != nil:
			return errors.WrapError(ctx.Err(), errors.ErrorTypeNetwork, endpoint+" request cancelled")
		}
		var netErr net.Error
		if stderrors.As(err, &netErr) && netErr.Timeout() {
			return errors.NewTimeoutError(endpoint, c.httpClient.Timeout.String())
		}
		return errors.NewNetworkError(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewNetworkError(endpoint, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewNetworkError(endpoint, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
