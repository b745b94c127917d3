// Package client is a typed HTTP client for the taskboard service. It keeps
// the access token in memory and notifies listeners when the caller signs
// in or out.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
)

// Config describes how to reach the service.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Dial overrides the connection dialer, e.g. with an in-memory listener.
	Dial fasthttp.DialFunc
	// BreakerFailures is the number of consecutive transport or 5xx
	// failures that opens the circuit.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	Logger          *zap.Logger
}

// APIError is a non-2xx response decoded from the service envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("backend unavailable")

type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger

	mu        sync.RWMutex
	token     string
	listeners map[int]AuthListener
	nextID    int
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	failures := cfg.BreakerFailures
	logger := cfg.Logger
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http: &fasthttp.Client{
			Name:         "taskboard-client",
			Dial:         cfg.Dial,
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "taskboard",
			Timeout: cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
		logger:    logger,
		listeners: make(map[int]AuthListener),
	}
}

// do sends one request. Only transport errors and 5xx responses count
// against the circuit breaker.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.http.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, decodeError(resp)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		}
		return err
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return decodeError(resp)
	}
	if out == nil || status == http.StatusNoContent {
		return nil
	}

	var env transport.RawEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.HasData() {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func decodeError(resp *fasthttp.Response) error {
	apiErr := &APIError{Status: resp.StatusCode()}
	var env transport.RawEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		apiErr.Message = strings.TrimSpace(string(resp.Body()))
		return apiErr
	}
	apiErr.Code = env.Code
	apiErr.Message = env.ErrorMessage()
	return apiErr
}
