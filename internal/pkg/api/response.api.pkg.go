package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type Response struct {
	StatusCode int
	Data       json.RawMessage
}

type envelope struct {
	Status  *int            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Decode unmarshals the body into v, unwrapping the {status, message, data}
// envelope when the body carries one.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	if inner, ok := unwrap(r.Data); ok {
		if len(inner) == 0 || string(inner) == "null" {
			return nil
		}
		return json.Unmarshal(inner, v)
	}
	return json.Unmarshal(r.Data, v)
}

func unwrap(body json.RawMessage) (json.RawMessage, bool) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	if env.Status == nil || env.Data == nil {
		return nil, false
	}
	return env.Data, true
}

func messageOf(body json.RawMessage) string {
	var env envelope
	if len(body) == 0 || json.Unmarshal(body, &env) != nil {
		return ""
	}
	return env.Message
}

// Error is returned for transport failures (StatusCode 0) and non-2xx answers.
// Message is the payload's message field, empty when it has none.
type Error struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("api request failed: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
