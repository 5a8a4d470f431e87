// Package mapbox forward geocodes free-text place names through the Mapbox
// Geocoding API. It backs the nearest-city fallback of the location resolver.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode converts a place name to coordinates. An unknown place
// yields a zero result and no error.
func (c *Client) ForwardGeocode(ctx context.Context, place string) (domain.GeocodingResult, error) {
	began := time.Now()
	resp, err := c.search(ctx, place)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		c.logger.Warn("mapbox forward geocode failed", "place", place, "error", err)
		return domain.GeocodingResult{}, err
	}

	result, ok := resp.best()
	if !ok {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("mapbox found no place", "place", place)
		return domain.GeocodingResult{}, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return result, nil
}

// search runs one place query restricted to towns and cities.
func (c *Client) search(ctx context.Context, place string) (response, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(place) + ".json?" + url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("forward geocode request: %w", err)
	}
	defer httpResp.Body.Close() //nolint:errcheck // best-effort cleanup

	if httpResp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return response{}, fmt.Errorf("mapbox API error: status %d: %s", httpResp.StatusCode, snippet)
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return response{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

const maxResponseBytes = 1 << 20

type response struct {
	Features []feature `json:"features"`
}

// best returns the first feature that carries a usable [lon, lat] center.
func (r response) best() (domain.GeocodingResult, bool) {
	for _, f := range r.Features {
		if len(f.Center) != 2 {
			continue
		}
		return domain.GeocodingResult{
			Lat:              f.Center[1],
			Lon:              f.Center[0],
			PlaceName:        f.Text,
			FormattedAddress: f.PlaceName,
			Confidence:       f.Relevance,
		}, true
	}
	return domain.GeocodingResult{}, false
}

type feature struct {
	Center    []float64 `json:"center"`
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
