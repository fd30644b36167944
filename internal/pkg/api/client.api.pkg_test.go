package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

func TestClientPostSendsHeadersAndBody(t *testing.T) {
	var (
		gotAuth, gotKey, gotType, gotExtra string
		gotBody                            map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		gotType = r.Header.Get("Content-Type")
		gotExtra = r.Header.Get("X-Client")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":201,"message":"Order created","data":{"id":7,"status":"pending"}}`))
	}))
	defer srv.Close()

	client := New(Config{
		BaseURL: srv.URL + "/api/v1/",
		Token:   "tok",
		Headers: map[string]string{"X-Client": "cli"},
	})

	res, err := client.Post(context.Background(), "/orders", map[string]any{"total_amount": 10}, WithIdempotencyKey("abc-1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var o order
	require.NoError(t, res.Decode(&o))
	assert.Equal(t, order{ID: 7, Status: "pending"}, o)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "abc-1", gotKey)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "cli", gotExtra)
	assert.EqualValues(t, 10, gotBody["total_amount"])
}

func TestClientWithTokenDoesNotMutateOriginal(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	base := New(Config{BaseURL: srv.URL})
	_, err := base.WithToken("user-token").Get(context.Background(), "orders")
	require.NoError(t, err)
	_, err = base.Get(context.Background(), "orders", WithQuery("page", "2"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer user-token", ""}, seen)
}

func TestClientErrorCarriesPayloadMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":400,"message":"Insufficient stock"}`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Post(context.Background(), "orders", map[string]any{})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Insufficient stock", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "Insufficient stock")
}

func TestClientErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Get(context.Background(), "orders")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "api error 502: Bad Gateway", apiErr.Error())
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(Config{BaseURL: url}).Get(context.Background(), "orders")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Zero(t, apiErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(apiErr))
}

func TestResponseDecode(t *testing.T) {
	t.Run("bare body", func(t *testing.T) {
		var o order
		res := &Response{Data: json.RawMessage(`{"id":3,"status":"paid"}`)}
		require.NoError(t, res.Decode(&o))
		assert.Equal(t, uint64(3), o.ID)
	})

	t.Run("message without data is not an envelope", func(t *testing.T) {
		var body struct {
			Message string `json:"message"`
			OrderID uint64 `json:"orderId"`
		}
		res := &Response{Data: json.RawMessage(`{"message":"Order created","orderId":9}`)}
		require.NoError(t, res.Decode(&body))
		assert.Equal(t, uint64(9), body.OrderID)
	})

	t.Run("null data", func(t *testing.T) {
		o := order{ID: 1}
		res := &Response{Data: json.RawMessage(`{"status":200,"data":null}`)}
		require.NoError(t, res.Decode(&o))
		assert.Equal(t, uint64(1), o.ID)
	})

	t.Run("empty body", func(t *testing.T) {
		var o order
		require.NoError(t, (&Response{}).Decode(&o))
	})
}
