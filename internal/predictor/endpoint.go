package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"aqi_predictor/internal/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20 // 1 MB
)

var (
	ErrEndpointStatus    = errors.New("prediction endpoint returned a non-success status")
	ErrMalformedResponse = errors.New("prediction endpoint returned a malformed body")
)

// Client holds what all endpoint sources share: the HTTP client, the outbound
// rate limit and the per-request timeout.
type Client struct {
	client  *http.Client
	limit   *rate.Limiter
	log     *zap.Logger
	timeout time.Duration
}

type Option func(c *Client) error

func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		log:     zap.L(),
		limit:   rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout: defaultTimeout,
	}

	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		c.client = hc
		return nil
	}
}

func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) error {
		if l == nil {
			return errors.New("rate limiter is nil")
		}
		c.limit = l
		return nil
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		c.timeout = d
		return nil
	}
}

// Endpoint returns a Source that posts to url.
func (c *Client) Endpoint(url string) *Endpoint {
	return &Endpoint{client: c, url: url}
}

// Endpoint is a Source backed by an external prediction API.
type Endpoint struct {
	client *Client
	url    string
}

func (e *Endpoint) URL() string { return e.url }

func (e *Endpoint) Estimate(ctx context.Context, location string) (Estimate, error) {
	return e.client.fetch(ctx, e.url, location)
}

type predictRequest struct {
	Location string `json:"location"`
}

type predictResponse struct {
	AQI        *float64           `json:"aqi"`
	Pollutants *models.Pollutants `json:"pollutants"`
}

// fetch issues a single request; there is no retry.
func (c *Client) fetch(ctx context.Context, url, location string) (Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(predictRequest{Location: location})
	if err != nil {
		return Estimate{}, fmt.Errorf("encode request: %w", err)
	}

	c.log.Debug("requesting prediction", zap.String("url", url), zap.String("location", location))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.log.Error("cannot create request", zap.Error(err))
		return Estimate{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if err := c.limit.Wait(ctx); err != nil {
		c.log.Error("cannot await rate limit", zap.Error(err))
		return Estimate{}, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("error calling prediction endpoint", zap.String("url", url), zap.Error(err))
		return Estimate{}, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return Estimate{}, fmt.Errorf("%w: %d", ErrEndpointStatus, resp.StatusCode)
	}

	var data predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&data); err != nil {
		c.log.Error("error decoding prediction", zap.Error(err))
		return Estimate{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if data.AQI == nil {
		return Estimate{}, fmt.Errorf("%w: missing aqi", ErrMalformedResponse)
	}
	index := math.Round(*data.AQI)
	if index > math.MaxInt32 || index < math.MinInt32 {
		return Estimate{}, fmt.Errorf("%w: aqi %g does not fit an index", ErrMalformedResponse, *data.AQI)
	}

	est := Estimate{Index: int(index), Origin: models.OriginEndpoint}
	if data.Pollutants != nil {
		est.Pollutants = *data.Pollutants
	}
	return est, nil
}
