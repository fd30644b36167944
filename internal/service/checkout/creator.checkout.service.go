package checkout

import (
	"context"
	"ecosync-hub/internal/pkg/api"
)

const OrdersEndpoint = "/orders"

// APIOrderCreator posts orders to the storefront API.
type APIOrderCreator struct {
	Client api.IClient
	Path   string
}

func NewAPIOrderCreator(client api.IClient) *APIOrderCreator {
	return &APIOrderCreator{Client: client, Path: OrdersEndpoint}
}

func (c *APIOrderCreator) CreateOrder(ctx context.Context, req OrderRequest, idempotencyKey string) (*OrderResult, error) {
	var opts []api.RequestOption
	if idempotencyKey != "" {
		opts = append(opts, api.WithIdempotencyKey(idempotencyKey))
	}

	path := c.Path
	if path == "" {
		path = OrdersEndpoint
	}

	res, err := c.Client.Post(ctx, path, req, opts...)
	if err != nil {
		subErr := &OrderSubmissionError{Err: err}
		if apiErr, ok := api.AsError(err); ok {
			subErr.Message = apiErr.Message
		}
		return nil, subErr
	}

	var out OrderResult
	if err := res.Decode(&out); err != nil {
		return nil, &OrderSubmissionError{Err: err}
	}
	return &out, nil
}
