package api

import (
	"context"
	"ecosync-hub/internal/pkg/helper"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	ProxyURL      string
	SkipTLSVerify bool
	Headers       map[string]string
}

// Client is the storefront CRUD client. Paths are joined onto BaseURL.
type Client struct {
	baseURL string
	token   string
	headers map[string]string
	http    *helper.HTTPClient
}

type IClient interface {
	Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		headers: headers,
		http: helper.NewHTTPClient(&helper.HTTPClientConfig{
			ProxyURL:       cfg.ProxyURL,
			SkipTLSVerify:  cfg.SkipTLSVerify,
			RequestTimeout: timeout,
		}),
	}
}

// WithToken returns a copy of the client that authenticates as token.
// The transport is shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type requestOptions struct {
	headers http.Header
	params  map[string]string
}

type RequestOption func(*requestOptions)

func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Set(key, value)
	}
}

func WithIdempotencyKey(key string) RequestOption {
	return WithHeader("Idempotency-Key", key)
}

func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.params[key] = value
	}
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, helper.GET, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, helper.POST, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, helper.PUT, path, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, helper.DELETE, path, nil, opts)
}

func (c *Client) do(ctx context.Context, method helper.MethodEnum, path string, body any, opts []RequestOption) (*Response, error) {
	ro := &requestOptions{headers: http.Header{}, params: map[string]string{}}
	for k, v := range c.headers {
		ro.headers.Set(k, v)
	}
	if c.token != "" {
		ro.headers.Set("Authorization", "Bearer "+c.token)
	}
	for _, opt := range opts {
		opt(ro)
	}

	res, err := c.http.Do(&helper.HTTPRequestPayload{
		Method: method,
		URL:    c.url(path),
		Body:   body,
		Params: ro.params,
	}, &helper.HTTPRequestConfig{
		Ctx:     ctx,
		Headers: ro.headers,
	})
	if err != nil {
		return nil, &Error{Err: err}
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{
			StatusCode: res.StatusCode,
			Message:    messageOf(res.Data),
			Body:       res.Data,
		}
	}

	return &Response{StatusCode: res.StatusCode, Data: res.Data}, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
