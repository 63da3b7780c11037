package albert

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Request is the view of an outgoing HTTP request given to interceptors.
type Request struct {
	Method   string
	Path     string
	Query    string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response is the view of an HTTP response given to interceptors.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain runs interceptors in registration order.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor appends a request interceptor.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) *InterceptorChain {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)

	return c
}

// AddResponseInterceptor appends a response interceptor.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) *InterceptorChain {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)

	return c
}

// ExecuteRequestInterceptors runs all request interceptors, stopping at the first error.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors, stopping at the first error.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method":     req.Method,
			"path":       req.Path,
			"query":      req.Query,
			"request_id": req.Headers.Get(HeaderRequestID),
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses. Failures are logged at warn level.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil || resp.StatusCode >= http.StatusBadRequest {
			logger.Warn("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// RequestIDInterceptor sets X-Request-ID to a fresh UUID unless one is present.
func RequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		if req.Headers.Get(HeaderRequestID) == "" {
			req.Headers.Set(HeaderRequestID, uuid.NewString())
		}

		return nil
	}
}

// HeaderInterceptor adds fixed headers to every request.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// CallStats aggregates calls to one endpoint.
type CallStats struct {
	Requests       int64
	Errors         int64
	TotalLatency   time.Duration
	AverageLatency time.Duration
	LastRequest    time.Time
}

// StatsCollector records per-endpoint call statistics. Not safe for
// concurrent use, like the rest of the client.
type StatsCollector struct {
	stats map[string]*CallStats
}

// NewStatsCollector creates an empty collector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{stats: make(map[string]*CallStats)}
}

// Stats returns the statistics for "METHOD path", or nil.
func (s *StatsCollector) Stats(endpoint string) *CallStats {
	return s.stats[endpoint]
}

// Install registers the collector's interceptors on chain.
func (s *StatsCollector) Install(chain *InterceptorChain) {
	chain.AddRequestInterceptor(func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata["start_time"] = time.Now()

		return nil
	})

	chain.AddResponseInterceptor(func(ctx context.Context, req *Request, resp *Response) error {
		endpoint := req.Method + " " + req.Path

		stats, ok := s.stats[endpoint]
		if !ok {
			stats = &CallStats{}
			s.stats[endpoint] = stats
		}

		stats.Requests++
		stats.LastRequest = time.Now()

		if start, ok := req.Metadata["start_time"].(time.Time); ok {
			stats.TotalLatency += time.Since(start)
			stats.AverageLatency = stats.TotalLatency / time.Duration(stats.Requests)
		}

		if resp.Error != nil || resp.StatusCode >= http.StatusBadRequest {
			stats.Errors++
		}

		return nil
	})
}
