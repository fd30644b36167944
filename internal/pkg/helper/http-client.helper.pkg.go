package helper

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"ecosync-hub/internal/pkg/logger"
)

// HTTPClientConfig configures the outbound transport.
type HTTPClientConfig struct {
	ProxyURL       string
	SkipTLSVerify  bool
	RequestTimeout time.Duration
}

// HTTPClient is a thin wrapper over http.Client with proxy and TLS knobs.
type HTTPClient struct {
	Client *http.Client
	Config *HTTPClientConfig
}

func NewHTTPClient(cfg *HTTPClientConfig) *HTTPClient {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConnsPerHost: 10,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.SkipTLSVerify,
		},
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			logger.Error.Printf("Invalid proxy URL: %v", err)
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.Debug.Printf("Using proxy: %s", cfg.ProxyURL)
		}
	}

	return &HTTPClient{
		Client: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		Config: cfg,
	}
}

// Do performs the request and returns the raw body whatever the status code.
// Only transport failures are returned as errors.
func (h *HTTPClient) Do(payload *HTTPRequestPayload, config *HTTPRequestConfig) (*HTTPAPIResponse, error) {
	if config == nil {
		config = &HTTPRequestConfig{}
	}
	if config.Ctx == nil {
		config.Ctx = context.Background()
	}

	body, err := handleRequestBody(payload, config)
	if err != nil {
		return nil, err
	}

	req, err := h.prepareRequest(payload, body, config)
	if err != nil {
		return nil, err
	}

	return h.execute(req)
}

func (h *HTTPClient) prepareRequest(payload *HTTPRequestPayload, body io.Reader, config *HTTPRequestConfig) (*http.Request, error) {
	req, err := http.NewRequestWithContext(config.Ctx, payload.Method.ToString(), payload.URL, body)
	if err != nil {
		return nil, err
	}

	for key, values := range config.Headers {
		req.Header[key] = append(req.Header[key], values...)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	if config.Auth != nil {
		req.SetBasicAuth(config.Auth.Username, config.Auth.Password)
	}

	if len(payload.Params) > 0 {
		q := req.URL.Query()
		for key, value := range payload.Params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

func (h *HTTPClient) execute(req *http.Request) (*HTTPAPIResponse, error) {
	logger.Debug.Printf("%s %s", req.Method, req.URL.String())

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := parseResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug.Printf("%s %s -> %d", req.Method, req.URL.String(), resp.StatusCode)

	return &HTTPAPIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Data:       data,
	}, nil
}
