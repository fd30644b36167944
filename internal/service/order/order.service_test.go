package order

import (
	"context"
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/receipt"
	"ecosync-hub/internal/pkg/redis"
	s3aws "ecosync-hub/internal/pkg/storage/s3"
	"ecosync-hub/internal/repository"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID uint64
	orders map[uint64]*models.Order
	err    error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uint64]*models.Order{}}
}

func (r *fakeOrderRepo) CreateWithItems(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = uint64(i + 1)
		order.Items[i].OrderID = order.ID
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) FindByUser(ctx context.Context, userID uint64) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for id := r.nextID; id > 0; id-- {
		if o, ok := r.orders[id]; ok && o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	queues []string
	events []any
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, queue string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.queues = append(p.queues, queue)
	p.events = append(p.events, payload)
	return nil
}

type fixture struct {
	svc       IService
	repo      *fakeOrderRepo
	rds       *redis.Memory
	publisher *fakePublisher
	s3        *s3aws.Memory
}

func newFixture() *fixture {
	fx := &fixture{
		repo:      newFakeOrderRepo(),
		rds:       redis.NewMemory(),
		publisher: &fakePublisher{},
		s3:        s3aws.NewMemory("receipts"),
	}
	fx.svc = NewService(context.Background(), &repository.IRepository{Order: fx.repo}, fx.rds, fx.publisher, fx.s3)
	return fx
}

var user = types.UserWithAuth{ID: 1}

func validRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		TotalAmount:     1250,
		ShippingAddress: "Rahim\nDhaka",
		OrderItems: []OrderItemRequest{
			{ProductID: 1, Quantity: 2, Price: 500},
			{ProductID: 2, Quantity: 1, Price: 250},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	fx := newFixture()

	res := fx.svc.CreateOrder(user, "", validRequest())

	require.Equal(t, http.StatusCreated, res.Code)
	order := res.Data.(OrderResponse)
	assert.Equal(t, uint64(1), order.ID)
	assert.Equal(t, order.ID, order.OrderID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "pending", order.PaymentStatus)
	assert.Len(t, order.OrderItems, 2)

	require.Len(t, fx.publisher.events, 1)
	assert.Equal(t, enum.ORDER_CREATED_QUEUE.ToString(), fx.publisher.queues[0])
	event := fx.publisher.events[0].(types.OrderCreatedEvent)
	assert.Equal(t, uint64(1), event.OrderID)
	assert.Equal(t, 1250.0, event.TotalAmount)
}

func TestCreateOrderRejectsMissingContext(t *testing.T) {
	cases := map[string]*CreateOrderRequest{
		"nil":        nil,
		"zero total": {OrderItems: validRequest().OrderItems},
		"no items":   {TotalAmount: 10},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			fx := newFixture()

			res := fx.svc.CreateOrder(user, "", req)

			assert.Equal(t, http.StatusBadRequest, res.Code)
			assert.Equal(t, MessageOrderRequired, res.Message)
			assert.Empty(t, fx.repo.orders)
			assert.Empty(t, fx.publisher.events)
		})
	}
}

func TestCreateOrderIdempotencyKey(t *testing.T) {
	fx := newFixture()

	first := fx.svc.CreateOrder(user, "checkout-s-1", validRequest())
	second := fx.svc.CreateOrder(user, "checkout-s-1", validRequest())

	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Data.(OrderResponse).ID, second.Data.(OrderResponse).ID)
	assert.Len(t, fx.repo.orders, 1)
	assert.Len(t, fx.publisher.events, 1)

	other := fx.svc.CreateOrder(types.UserWithAuth{ID: 2}, "checkout-s-1", validRequest())
	assert.Equal(t, http.StatusCreated, other.Code)
}

func TestCreateOrderKeyInProgress(t *testing.T) {
	fx := newFixture()
	_, err := fx.rds.SetNX(idempotencyKey(user.ID, "k"), uint64(0), time.Minute)
	require.NoError(t, err)

	res := fx.svc.CreateOrder(user, "k", validRequest())

	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Empty(t, fx.repo.orders)
}

func TestCreateOrderFailureReleasesKey(t *testing.T) {
	fx := newFixture()
	fx.repo.err = errors.New("db down")

	res := fx.svc.CreateOrder(user, "k", validRequest())
	assert.Equal(t, http.StatusInternalServerError, res.Code)

	fx.repo.err = nil
	res = fx.svc.CreateOrder(user, "k", validRequest())
	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestCreateOrderSurvivesPublishFailure(t *testing.T) {
	fx := newFixture()
	fx.publisher.err = errors.New("broker down")

	res := fx.svc.CreateOrder(user, "", validRequest())

	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Len(t, fx.repo.orders, 1)
}

func TestListAndGetOrders(t *testing.T) {
	fx := newFixture()
	fx.svc.CreateOrder(user, "", validRequest())
	fx.svc.CreateOrder(user, "", validRequest())
	fx.svc.CreateOrder(types.UserWithAuth{ID: 2}, "", validRequest())

	list := fx.svc.ListOrders(user).Data.([]OrderResponse)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(2), list[0].ID)

	assert.Equal(t, http.StatusOK, fx.svc.GetOrder(user, 1).Code)
	assert.Equal(t, http.StatusNotFound, fx.svc.GetOrder(user, 3).Code)
	assert.Equal(t, http.StatusNotFound, fx.svc.GetOrder(user, 99).Code)
}

func TestGetReceipt(t *testing.T) {
	fx := newFixture()
	fx.svc.CreateOrder(user, "", validRequest())

	res := fx.svc.GetReceipt(user, 1)
	require.Equal(t, http.StatusOK, res.Code)
	rc := res.Data.(*receipt.Receipt)
	assert.Equal(t, "BDT 1,250.00", rc.Total)
	assert.Empty(t, rc.ArchiveURL)

	fx.repo.orders[1].Status = enum.ORDER_PAID
	fx.repo.orders[1].Payment = &models.Payment{Status: enum.PAYMENT_SUCCEEDED}
	require.NoError(t, fx.s3.UploadFile(context.Background(), receipt.Key(1), []byte("receipt"), ""))

	rc = fx.svc.GetReceipt(user, 1).Data.(*receipt.Receipt)
	assert.Equal(t, "memory://receipts/receipts/1.txt", rc.ArchiveURL)
	assert.Equal(t, enum.PAYMENT_SUCCEEDED, rc.PaymentStatus)

	assert.Equal(t, http.StatusNotFound, fx.svc.GetReceipt(types.UserWithAuth{ID: 2}, 1).Code)
}
