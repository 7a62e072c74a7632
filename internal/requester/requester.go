// Package requester is the shared HTTP request primitive used by the API
// clients. It resolves paths against the configured base URL, attaches the
// session token and a request id, and turns non-2xx answers into errors.
package requester

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/patric-chuzhbe/materials/internal/logger"
	"github.com/patric-chuzhbe/materials/internal/models"
	"github.com/patric-chuzhbe/materials/internal/token"
)

// RequestIDHeader carries the id generated for every request.
const RequestIDHeader = "X-Request-ID"

// Options describes one request. A nil Data sends no body.
type Options struct {
	URL    string
	Method string
	Data   any
}

// Response is a received 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON response body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// Client sends requests to one API server.
type Client struct {
	http   *resty.Client
	tokens token.Store
}

// New creates a Client for baseURL. When tokens is not nil, the token
// field of the stored user info is sent as a bearer token.
func New(baseURL string, timeout time.Duration, tokens token.Store) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAllowGetMethodPayload(true).
		OnBeforeRequest(logger.LogRestyRequest).
		OnAfterResponse(logger.LogRestyResponse)

	return &Client{
		http:   httpClient,
		tokens: tokens,
	}
}

// Request sends the request described by options.
func (c *Client) Request(ctx context.Context, options Options) (*Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())

	if c.tokens != nil {
		userInfo, err := token.GetTokenData[models.UserInfo](c.tokens)
		if err != nil {
			return nil, err
		}
		if userInfo != nil && userInfo.Token != "" {
			req.SetAuthToken(userInfo.Token)
		}
	}

	if options.Data != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(options.Data)
	}

	resp, err := req.Execute(options.Method, options.URL)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", options.Method, options.URL, err)
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{
			Method:     options.Method,
			URL:        options.URL,
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
