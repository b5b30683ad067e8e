// Package kachelmann talks to the Kachelmann Wetter HTTP API. It owns the
// retry, rate-limit and circuit-breaker plumbing; the per-endpoint failure
// policy (which statuses abort a refresh cycle) lives with the caller.
package kachelmann

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/kachelmann-weather/internal/weather"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.kachelmannwetter.com/v02"

// maxBodyBytes caps how much of a response body gets decoded.
const maxBodyBytes = 8 << 20

// Hourly forecast resolutions understood by the advanced endpoints.
const (
	resolutionFine   = "1h"
	resolutionCoarse = "3h"
)

// Config bundles client settings. Zero-valued fields fall back to
// production defaults; the HTTP client is borrowed from the caller so all
// endpoints share one connection pool.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string // forecast model for the advanced endpoints, e.g. SWISS1X1
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Backoff    BackoffConfig
}

// Client fetches trend, hourly and current weather payloads.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    BackoffConfig
	circuit    *gobreaker.CircuitBreaker
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Backoff.InitialInterval <= 0 {
		cfg.Backoff = defaultBackoff
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kachelmann",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
		limiter:    cfg.Limiter,
		backoff:    cfg.Backoff,
		circuit:    cb,
	}
}

type trendPayload struct {
	Data []weather.DailyEntry `json:"data"`
}

type hourlyPayload struct {
	Data []weather.HourlyEntry `json:"data"`
}

type currentPayload struct {
	Data *weather.CurrentReading `json:"data"`
}

// FetchDailyTrend retrieves the 14-day trend forecast. When etag is
// non-empty the request is conditional; a 304 answer returns ErrNotModified
// together with the etag still in force. On success the entries and the
// response's ETag are returned for the next conditional fetch.
func (c *Client) FetchDailyTrend(ctx context.Context, lat, lon float64, etag string) ([]weather.DailyEntry, string, error) {
	u := fmt.Sprintf("%s/forecast/%s/%s/trend14days", c.baseURL, coord(lat), coord(lon))

	resp, err := c.do(ctx, u, etag)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, etag, ErrNotModified
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	var payload trendPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("decode trend payload: %w", err)
	}
	return payload.Data, resp.Header.Get("ETag"), nil
}

// FetchHourlyFine retrieves the 1-hour-resolution forecast.
func (c *Client) FetchHourlyFine(ctx context.Context, lat, lon float64) ([]weather.HourlyEntry, error) {
	return c.fetchHourly(ctx, lat, lon, resolutionFine)
}

// FetchHourlyCoarse retrieves the 3-hour-resolution forecast, which reaches
// further out than the fine series.
func (c *Client) FetchHourlyCoarse(ctx context.Context, lat, lon float64) ([]weather.HourlyEntry, error) {
	return c.fetchHourly(ctx, lat, lon, resolutionCoarse)
}

func (c *Client) fetchHourly(ctx context.Context, lat, lon float64, resolution string) ([]weather.HourlyEntry, error) {
	u := fmt.Sprintf("%s/forecast/%s/%s/advanced/%s", c.baseURL, coord(lat), coord(lon), resolution)
	if c.model != "" {
		u += "?model=" + url.QueryEscape(c.model)
	}

	resp, err := c.do(ctx, u, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	var payload hourlyPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode hourly payload: %w", err)
	}
	return payload.Data, nil
}

// FetchCurrent retrieves the current station conditions.
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64) (*weather.CurrentReading, error) {
	u := fmt.Sprintf("%s/current/%s/%s", c.baseURL, coord(lat), coord(lon))

	resp, err := c.do(ctx, u, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	var payload currentPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode current payload: %w", err)
	}
	return payload.Data, nil
}

// coord formats a coordinate the way the API expects it in the path, with
// no trailing zeros.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
