package helper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type MethodEnum string

const (
	GET    MethodEnum = "GET"
	POST   MethodEnum = "POST"
	PUT    MethodEnum = "PUT"
	PATCH  MethodEnum = "PATCH"
	DELETE MethodEnum = "DELETE"
)

func (e MethodEnum) ToString() string {
	return string(e)
}

type HTTPRequestPayload struct {
	Method MethodEnum
	URL    string
	Body   any
	Params map[string]string
}

type BasicAuth struct {
	Username string
	Password string
}

type HTTPRequestConfig struct {
	Ctx     context.Context
	Headers http.Header
	Auth    *BasicAuth
}

type HTTPAPIResponse struct {
	StatusCode int
	Headers    http.Header
	Data       json.RawMessage
}

func handleRequestBody(payload *HTTPRequestPayload, config *HTTPRequestConfig) (io.Reader, error) {
	if payload.Body == nil {
		return nil, nil
	}

	if config.Headers == nil {
		config.Headers = http.Header{}
	}

	switch v := payload.Body.(type) {
	case []byte:
		return bytes.NewReader(v), nil
	case string:
		return bytes.NewReader([]byte(v)), nil
	default:
		body, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		if config.Headers.Get("Content-Type") == "" {
			config.Headers.Set("Content-Type", "application/json")
		}
		return bytes.NewReader(body), nil
	}
}

func parseResponseBody(resp *http.Response) (json.RawMessage, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return body, nil
}
