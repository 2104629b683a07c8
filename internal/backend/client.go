// Package backend is a typed client for the licensing REST backend, which
// owns request state and decides whether transitions are legal.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const maxBodySize = 4 << 20

// Observer receives one call per backend round trip.
type Observer func(operation string, statusCode int, duration time.Duration)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	observe    Observer
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	observe := opts.Observer
	if observe == nil {
		observe = func(string, int, time.Duration) {}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    opts.BaseURL,
		observe:    observe,
	}
}

type call struct {
	operation string
	method    string
	path      string
	query     url.Values
	token     string
	body      interface{}
}

// do performs the call and returns the unwrapped payload of a 2xx response:
// the "data" member when the backend wraps its answer, the body otherwise.
func (c *Client) do(ctx context.Context, req call) (gjson.Result, error) {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("failed to encode %s body: %w", req.operation, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, bodyReader)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to build %s request: %w", req.operation, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(req.operation, 0, time.Since(start))
		return gjson.Result{}, fmt.Errorf("%s: %w: %w", req.operation, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	duration := time.Since(start)
	c.observe(req.operation, resp.StatusCode, duration)

	logrus.WithFields(logrus.Fields{
		"operation": req.operation,
		"method":    req.method,
		"path":      req.path,
		"status":    resp.StatusCode,
		"duration":  duration.Milliseconds(),
	}).Debug("Backend call")

	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read %s response: %w", req.operation, err)
	}

	if resp.StatusCode >= 400 {
		return gjson.Result{}, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(resp.StatusCode, body),
		}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, malformed("%s returned a non-JSON body", req.operation)
	}

	parsed := gjson.ParseBytes(body)
	if data := parsed.Get("data"); data.Exists() && (data.IsObject() || data.IsArray()) {
		return data, nil
	}
	return parsed, nil
}

// decode unmarshals a payload into out, reporting schema mismatches as malformed.
func decode(operation string, payload gjson.Result, out interface{}) error {
	if !payload.Exists() {
		return malformed("%s returned an empty body", operation)
	}
	if err := json.Unmarshal([]byte(payload.Raw), out); err != nil {
		return malformed("%s: %v", operation, err)
	}
	return nil
}
