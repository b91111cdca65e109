package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Gateway is the abstract contract to the remote system of record. It
// performs no retries and no transition validation; those belong to the
// caller. Implementations must be substitutable with deterministic fakes
// in tests.
type Gateway interface {
	Request(ctx context.Context, method, path string, body, out interface{}) *Failure
}

// Client is the HTTP implementation of Gateway for the marketplace API
type Client struct {
	baseURL    string
	httpClient *http.Client
	header     http.Header
}

// NewClient creates a gateway client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		header: make(http.Header),
	}
}

// SetHeader sets a header carried on every request. The session cookie is
// passed through here opaquely; the client never inspects it.
func (c *Client) SetHeader(key, value string) {
	c.header.Set(key, value)
}

// remoteError is the error envelope the marketplace API uses. FastAPI-style
// responses put the message under "detail"; older endpoints use "error".
type remoteError struct {
	Detail string `json:"detail"`
	Err    string `json:"error"`
}

func (e remoteError) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Err
}

// Request performs one JSON request against the remote. A non-nil body is
// JSON-encoded; a non-nil out receives the decoded success payload. The
// returned Failure is nil on success.
func (c *Client) Request(ctx context.Context, method, path string, body, out interface{}) *Failure {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Failure{Class: ClassClientError, Detail: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Failure{Class: ClassClientError, Detail: fmt.Sprintf("build request: %v", err)}
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.L().WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Warn("remote request failed")
		return NetworkFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope remoteError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		_ = json.Unmarshal(raw, &envelope)
		return &Failure{
			Class:  classify(resp.StatusCode),
			Status: resp.StatusCode,
			Detail: envelope.message(),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Failure{
				Class:  ClassServerError,
				Status: resp.StatusCode,
				Detail: "malformed response from server",
			}
		}
	}
	return nil
}
