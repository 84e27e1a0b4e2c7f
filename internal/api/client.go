// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

/*
client.go - Recommendation API REST Client

This file implements the REST client for the remote recommendation API.
It covers the four read shapes (catalog page, search, similarity recommend,
personalized recommend) and the two mutations (register session, record
interaction) the discovery engine depends on.
*/

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinescout/internal/metrics"
	"github.com/tomtom215/cinescout/internal/models"
)

// ClientInterface defines the operations of the recommendation API.
// Both Client and CircuitBreakerClient implement this interface.
type ClientInterface interface {
	Ping(ctx context.Context) error
	RegisterSession(ctx context.Context) (string, error)
	RecordInteraction(ctx context.Context, event models.InteractionEvent) error
	ListMovies(ctx context.Context, page, limit int) (*models.MovieListPage, error)
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)
	GetRecommendations(ctx context.Context, movieTitle, userID string) ([]models.Movie, error)
	GetUserRecommendations(ctx context.Context, userID string, limit int) ([]models.Movie, error)
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Client provides access to the recommendation API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter // nil disables rate limiting
}

// Options configures a Client.
type Options struct {
	// Timeout bounds each HTTP request. Default: 30s
	Timeout time.Duration

	// RateLimit caps outbound requests per second. 0 disables limiting.
	RateLimit float64

	// RateBurst is the burst size for the rate limiter.
	RateBurst int
}

// NewClient creates a new recommendation API client.
//
// Parameters:
//   - baseURL: API root, e.g. http://localhost:5000
func NewClient(baseURL string, opts Options) *Client {
	// Normalize URL (remove trailing slash)
	baseURL = strings.TrimSuffix(baseURL, "/")

	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: limiter,
	}
}

// Ping tests connectivity to the API root.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.doGet(ctx, "/", nil)
	if err != nil {
		return fmt.Errorf("api ping failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api ping returned status %d", resp.StatusCode)
	}
	return nil
}

// RegisterSession registers a new anonymous session and returns the
// server-assigned user identifier.
func (c *Client) RegisterSession(ctx context.Context) (string, error) {
	start := time.Now()
	resp, err := c.doPost(ctx, "/user/register", nil)
	if err != nil {
		c.observe("register", start, err)
		return "", fmt.Errorf("session registration request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := statusError("session registration", resp)
		c.observe("register", start, err)
		return "", err
	}

	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.observe("register", start, err)
		return "", fmt.Errorf("failed to decode registration response: %w", err)
	}
	if payload.UserID == "" {
		err := fmt.Errorf("session registration returned empty user_id")
		c.observe("register", start, err)
		return "", err
	}

	c.observe("register", start, nil)
	return payload.UserID, nil
}

// RecordInteraction submits a user interaction. The caller decides whether
// a failure matters; this method just reports it.
func (c *Client) RecordInteraction(ctx context.Context, event models.InteractionEvent) error {
	start := time.Now()
	resp, err := c.doPost(ctx, "/user/interact", event)
	if err != nil {
		c.observe("interact", start, err)
		return fmt.Errorf("interaction request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := statusError("interaction", resp)
		c.observe("interact", start, err)
		return err
	}

	c.observe("interact", start, nil)
	return nil
}

// ListMovies retrieves one page of the catalog.
func (c *Client) ListMovies(ctx context.Context, page, limit int) (*models.MovieListPage, error) {
	start := time.Now()
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	resp, err := c.doGet(ctx, "/movies", query)
	if err != nil {
		c.observe("movies", start, err)
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := statusError("catalog", resp)
		c.observe("movies", start, err)
		return nil, err
	}

	var listPage models.MovieListPage
	if err := json.NewDecoder(resp.Body).Decode(&listPage); err != nil {
		c.observe("movies", start, err)
		return nil, fmt.Errorf("failed to decode catalog page: %w", err)
	}

	c.observe("movies", start, nil)
	return &listPage, nil
}

// SearchMovies performs a remote title search. The endpoint has returned
// both {"movies": [...]} and a bare array across API versions; both shapes
// are accepted.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	start := time.Now()
	params := url.Values{}
	params.Set("query", query)

	resp, err := c.doGet(ctx, "/search", params)
	if err != nil {
		c.observe("search", start, err)
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := statusError("search", resp)
		c.observe("search", start, err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe("search", start, err)
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	movies, err := decodeMovieList(body)
	if err != nil {
		c.observe("search", start, err)
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	c.observe("search", start, nil)
	return movies, nil
}

// GetRecommendations retrieves similarity recommendations for a movie
// title. userID is optional; when present the server also records the view
// and blends in personalization.
func (c *Client) GetRecommendations(ctx context.Context, movieTitle, userID string) ([]models.Movie, error) {
	start := time.Now()
	params := url.Values{}
	params.Set("movie_title", movieTitle)
	if userID != "" {
		params.Set("user_id", userID)
	}

	resp, err := c.doGet(ctx, "/recommend", params)
	if err != nil {
		c.observe("recommend", start, err)
		return nil, fmt.Errorf("recommendation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := statusError("recommendation", resp)
		c.observe("recommend", start, err)
		return nil, err
	}

	var movies []models.Movie
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		c.observe("recommend", start, err)
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	c.observe("recommend", start, nil)
	return movies, nil
}

// GetUserRecommendations retrieves top-N personalized recommendations for
// a session.
func (c *Client) GetUserRecommendations(ctx context.Context, userID string, limit int) ([]models.Movie, error) {
	start := time.Now()
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("limit", strconv.Itoa(limit))

	resp, err := c.doGet(ctx, "/user/recommendations", params)
	if err != nil {
		c.observe("user_recommendations", start, err)
		return nil, fmt.Errorf("personalized recommendation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := statusError("personalized recommendation", resp)
		c.observe("user_recommendations", start, err)
		return nil, err
	}

	var movies []models.Movie
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		c.observe("user_recommendations", start, err)
		return nil, fmt.Errorf("failed to decode personalized recommendations: %w", err)
	}

	c.observe("user_recommendations", start, nil)
	return movies, nil
}

// decodeMovieList decodes either {"movies": [...]} or a bare [...] payload.
func decodeMovieList(body []byte) ([]models.Movie, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var movies []models.Movie
		if err := json.Unmarshal(trimmed, &movies); err != nil {
			return nil, err
		}
		return movies, nil
	}

	var wrapped struct {
		Movies []models.Movie `json:"movies"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Movies, nil
}

// statusError builds the error for a non-success response, including the
// body when it can be read.
func statusError(operation string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body)", operation, resp.StatusCode)
	}
	return fmt.Errorf("%s returned status %d: %s", operation, resp.StatusCode, string(body))
}

// observe records request metrics for one API call.
func (c *Client) observe(endpoint string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// doGet performs an HTTP GET request against the API.
func (c *Client) doGet(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	if err := c.waitLimiter(ctx); err != nil {
		return nil, err
	}

	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// doPost performs an HTTP POST request with an optional JSON body.
func (c *Client) doPost(ctx context.Context, endpoint string, body any) (*http.Response, error) {
	if err := c.waitLimiter(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

// waitLimiter blocks until the rate limiter admits the request.
func (c *Client) waitLimiter(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}
	return nil
}
