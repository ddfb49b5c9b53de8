// Package fiware talks to the two FIWARE services the dashboard depends on:
// STH-Comet for historical attribute values and Orion for actuator commands.
package fiware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Tenant headers used by every FIWARE request.
const (
	headerService     = "fiware-service"
	headerServicePath = "fiware-servicepath"
)

const (
	defaultTimeout = 5 * time.Second
	maxErrBody     = 256
)

// ErrMalformedResponse is returned when a 2xx body does not have the expected shape.
var ErrMalformedResponse = errors.New("malformed fiware response")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Config holds endpoint and tenant settings.
type Config struct {
	STHURL      string
	OrionURL    string
	Service     string
	ServicePath string
	EntityID    string
	EntityType  string
	Timeout     time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a client. httpClient may be nil; a client with cfg.Timeout is created then.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// setTenantHeaders adds the service and service-path headers.
func (c *Client) setTenantHeaders(req *http.Request) {
	req.Header.Set(headerService, c.cfg.Service)
	req.Header.Set(headerServicePath, c.cfg.ServicePath)
}

// checkStatus turns a non-2xx response into a *StatusError, keeping a short body excerpt.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	return &StatusError{
		Method:     resp.Request.Method,
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       string(b),
	}
}

// drain lets the transport reuse the connection.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
