package cheftonic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

const defaultEndpoint = "https://apidev.cheftonic.com/dev/chftqry"

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the Cheftonic GraphQL endpoint.
type Client struct {
	httpClient HTTPClient
	endpoint   string
	limiter    *rate.Limiter
	logger     *zap.Logger
	loggerM    sync.RWMutex
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoint replaces the GraphQL endpoint url.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithRequestMinInterval enforces a minimum delay between upstream calls.
func WithRequestMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.SetLogger(logger)
	}
}

// NewClient creates a production Cheftonic gateway client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		endpoint:   defaultEndpoint,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger replaces the request trace logger.
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.loggerM.Lock()
	c.logger = logger
	c.loggerM.Unlock()
}

func (c *Client) log() *zap.Logger {
	c.loggerM.RLock()
	defer c.loggerM.RUnlock()
	return c.logger
}

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) doGraphQL(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{OperationName: operation, Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	logger := c.log().With(zap.String("operation", operation), zap.String("url", c.endpoint))
	startedAt := time.Now()
	logger.Debug("upstream request", zap.Int("body_bytes", len(payload)))

	res, err := c.httpClient.Do(req)
	if err != nil {
		upstreamErr := &UpstreamRequestError{Operation: operation, Method: http.MethodPost, URL: c.endpoint, Cause: err}
		logger.Debug("upstream request failed", zap.Error(err), zap.Duration("duration", time.Since(startedAt)))
		return upstreamErr
	}
	defer func() {
		_ = res.Body.Close()
	}()

	rawResponse, err := io.ReadAll(res.Body)
	if err != nil {
		return &UpstreamRequestError{
			Operation:  operation,
			Method:     http.MethodPost,
			URL:        c.endpoint,
			StatusCode: res.StatusCode,
			Cause:      fmt.Errorf("read response body: %w", err),
		}
	}
	logger.Debug("upstream response",
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(rawResponse)),
		zap.Duration("duration", time.Since(startedAt).Round(time.Millisecond)),
	)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &UpstreamRequestError{
			Operation:  operation,
			Method:     http.MethodPost,
			URL:        c.endpoint,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
		}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(rawResponse, &envelope); err != nil {
		return &UpstreamRequestError{
			Operation:  operation,
			Method:     http.MethodPost,
			URL:        c.endpoint,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
			Cause:      fmt.Errorf("decode response body: %w", err),
		}
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, item := range envelope.Errors {
			messages = append(messages, item.Message)
		}
		return &GraphQLError{Operation: operation, Messages: messages}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &UpstreamRequestError{
			Operation:  operation,
			Method:     http.MethodPost,
			URL:        c.endpoint,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
			Cause:      fmt.Errorf("response has no data"),
		}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &UpstreamRequestError{
			Operation:  operation,
			Method:     http.MethodPost,
			URL:        c.endpoint,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
			Cause:      fmt.Errorf("decode response data: %w", err),
		}
	}
	return nil
}

// RestaurantBookingInfo loads the opening and service snapshot of a restaurant.
func (c *Client) RestaurantBookingInfo(ctx context.Context, restaurantID string) (*domain.Restaurant, error) {
	var data struct {
		Restaurant *domain.Restaurant `json:"getRestaurantById"`
	}
	err := c.doGraphQL(ctx, "RestaurantBookingInfo", restaurantBookingInfoQuery, map[string]any{
		"b_r_id": restaurantID,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Restaurant == nil {
		return nil, fmt.Errorf("%w: %s", ErrRestaurantNotFound, restaurantID)
	}
	return data.Restaurant, nil
}

// CreateBookRequest submits a booking request created outside the restaurant's tools.
func (c *Client) CreateBookRequest(ctx context.Context, request domain.BookRequest) (*domain.BookingConfirmation, error) {
	var data struct {
		Confirmation *domain.BookingConfirmation `json:"createExtBookRequest"`
	}
	err := c.doGraphQL(ctx, "BookRequest", createBookRequestMutation, map[string]any{
		"booking_info": request,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Confirmation == nil {
		return nil, fmt.Errorf("%w: booking request was not acknowledged", ErrUpstream)
	}
	return data.Confirmation, nil
}

// MasterData returns the localized labels stored under key.
func (c *Client) MasterData(ctx context.Context, key string, lang string) ([]domain.Label, error) {
	var data struct {
		Entry *struct {
			OptID string `json:"opt_id"`
			Lang  string `json:"lang"`
			Value string `json:"value"`
		} `json:"getMasterDataKey"`
	}
	err := c.doGraphQL(ctx, "MasterData", masterDataQuery, map[string]any{
		"opt_id": key,
		"lang":   lang,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Entry == nil || strings.TrimSpace(data.Entry.Value) == "" {
		return nil, fmt.Errorf("%w: master data %q missing for %q", ErrUpstream, key, lang)
	}
	return decodeLabels(data.Entry.Value)
}

// decodeLabels accepts a JSON array of {key, value} objects or of plain strings.
func decodeLabels(raw string) ([]domain.Label, error) {
	var labels []domain.Label
	if err := json.Unmarshal([]byte(raw), &labels); err == nil {
		return labels, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("%w: decode master data value: %v", ErrUpstream, err)
	}
	labels = make([]domain.Label, 0, len(values))
	for _, value := range values {
		labels = append(labels, domain.Label{Value: value})
	}
	return labels, nil
}
