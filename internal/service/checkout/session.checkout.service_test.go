package checkout

import (
	"context"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/api"
	"ecosync-hub/internal/pkg/redis"
	"ecosync-hub/internal/repository"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAddressRepo struct {
	addresses map[uint64]models.Address
}

func (r *stubAddressRepo) FindByUser(ctx context.Context, userID uint64) ([]models.Address, error) {
	return nil, nil
}

func (r *stubAddressRepo) FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Address, error) {
	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *stubAddressRepo) Create(ctx context.Context, address *models.Address) error { return nil }
func (r *stubAddressRepo) Update(ctx context.Context, address *models.Address) error { return nil }
func (r *stubAddressRepo) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	return 0, nil
}

type sessionFixture struct {
	svc     *Service
	rds     *redis.Memory
	creator *fakeCreator
	tokens  []string
}

func newSessionFixture(t *testing.T, cfg Config) *sessionFixture {
	t.Helper()
	if cfg.PaymentDelay == 0 {
		cfg.PaymentDelay = time.Millisecond
	}
	if cfg.RedirectDelay == 0 {
		cfg.RedirectDelay = time.Millisecond
	}

	fx := &sessionFixture{rds: redis.NewMemory(), creator: &fakeCreator{}}
	rp := &repository.IRepository{Address: &stubAddressRepo{addresses: map[uint64]models.Address{
		3: {ID: 3, UserID: 1, FullName: "Rahim", HouseFlatNo: "12", ThanaUpazila: "Gulshan", District: "Dhaka", PostalCode: "1212"},
	}}}

	fx.svc = NewService(context.Background(), rp, fx.rds, api.New(api.Config{BaseURL: "http://orders.invalid"}), cfg)
	fx.svc.creator = func(token string) OrderCreator {
		fx.tokens = append(fx.tokens, token)
		return fx.creator
	}
	return fx
}

var alice = types.UserWithAuth{ID: 1, Email: "alice@example.com"}
var bob = types.UserWithAuth{ID: 2, Email: "bob@example.com"}

func startRequest() *StartCheckoutRequest {
	c := validContext()
	return &StartCheckoutRequest{Total: c.Total, Address: c.Address, OrderItems: c.OrderItems}
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(context.Background(), &repository.IRepository{}, redis.NewMemory(), api.New(api.Config{}), Config{})

	assert.Equal(t, DefaultPaymentDelay, svc.cfg.PaymentDelay)
	assert.Equal(t, DefaultRedirectDelay, svc.cfg.RedirectDelay)
	assert.Equal(t, 30*time.Minute, svc.cfg.SessionTTL)
	assert.Greater(t, svc.cfg.LockTTL, DefaultPaymentDelay+DefaultRedirectDelay)

	svc = NewService(context.Background(), &repository.IRepository{}, redis.NewMemory(), api.New(api.Config{}), Config{PaymentDelay: 250 * time.Millisecond})
	assert.Equal(t, 250*time.Millisecond, svc.cfg.PaymentDelay)
}

func TestStartCheckoutMissingContext(t *testing.T) {
	fx := newSessionFixture(t, Config{})

	res := fx.svc.StartCheckout(alice, "tok", &StartCheckoutRequest{Total: 10})

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, map[string]string{"redirect_to": CartPath}, res.Data)
	assert.Equal(t, CartPath, res.Headers["Location"])
	assert.Empty(t, fx.svc.sessions)
}

func TestStartCheckoutResolvesAddressBook(t *testing.T) {
	fx := newSessionFixture(t, Config{})
	req := startRequest()
	req.Address = ""
	req.AddressID = 3

	res := fx.svc.StartCheckout(alice, "tok", req)
	require.Equal(t, http.StatusCreated, res.Code)

	view := res.Data.(SessionView)
	assert.Equal(t, "Rahim\n12\nGulshan\nDhaka\n1212\nBANGLADESH", view.Checkout.Address)
	assert.Equal(t, "idle", view.State)

	bobReq := startRequest()
	bobReq.Address = ""
	bobReq.AddressID = 3
	assert.Equal(t, http.StatusNotFound, fx.svc.StartCheckout(bob, "tok", bobReq).Code)
}

func TestSubmitPaymentSession(t *testing.T) {
	fx := newSessionFixture(t, Config{})
	view := fx.svc.StartCheckout(alice, "tok-1", startRequest()).Data.(SessionView)

	res := fx.svc.SubmitPayment(alice, "tok-2", view.ID)

	require.Equal(t, http.StatusOK, res.Code)
	paid := res.Data.(SessionView)
	assert.Equal(t, "succeeded", paid.State)
	assert.Equal(t, uint64(42), paid.OrderID)
	assert.Equal(t, []string{"tok-2"}, fx.tokens)
	assert.Equal(t, []string{"checkout-" + view.ID + "-1"}, fx.creator.keys)

	// The snapshot picks up the receipt path once the redirect fires.
	require.Eventually(t, func() bool {
		got := fx.svc.GetSession(alice, view.ID).Data.(SessionView)
		return got.RedirectTo == "/order/42/receipt"
	}, time.Second, 5*time.Millisecond)

	again := fx.svc.SubmitPayment(alice, "tok-2", view.ID)
	assert.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "Order already placed", again.Message)
	assert.Equal(t, int32(1), fx.creator.calls.Load())
}

func TestSubmitPaymentSessionFailure(t *testing.T) {
	fx := newSessionFixture(t, Config{})
	fx.creator.fn = func(ctx context.Context, req OrderRequest) (*OrderResult, error) {
		return nil, &OrderSubmissionError{Message: "Card declined"}
	}
	view := fx.svc.StartCheckout(alice, "tok", startRequest()).Data.(SessionView)

	res := fx.svc.SubmitPayment(alice, "tok", view.ID)

	assert.Equal(t, http.StatusPaymentRequired, res.Code)
	assert.Equal(t, "Card declined", res.Message)
	assert.Equal(t, "failed", res.Data.(SessionView).State)
}

func TestSubmitPaymentSessionInFlight(t *testing.T) {
	fx := newSessionFixture(t, Config{PaymentDelay: 200 * time.Millisecond})
	view := fx.svc.StartCheckout(alice, "tok", startRequest()).Data.(SessionView)

	first := make(chan *types.Response, 1)
	go func() { first <- fx.svc.SubmitPayment(alice, "tok", view.ID) }()

	require.Eventually(t, func() bool {
		return fx.svc.GetSession(alice, view.ID).Data.(SessionView).State == "processing"
	}, time.Second, 5*time.Millisecond)

	second := fx.svc.SubmitPayment(alice, "tok", view.ID)
	assert.Equal(t, http.StatusConflict, second.Code)

	assert.Equal(t, http.StatusOK, (<-first).Code)
	assert.Equal(t, int32(1), fx.creator.calls.Load())
}

func TestSessionsBelongToTheirUser(t *testing.T) {
	fx := newSessionFixture(t, Config{})
	view := fx.svc.StartCheckout(alice, "tok", startRequest()).Data.(SessionView)

	assert.Equal(t, http.StatusNotFound, fx.svc.GetSession(bob, view.ID).Code)
	assert.Equal(t, http.StatusNotFound, fx.svc.SubmitPayment(bob, "tok", view.ID).Code)
	assert.Equal(t, http.StatusNotFound, fx.svc.CloseSession(bob, view.ID).Code)
	assert.Equal(t, http.StatusNotFound, fx.svc.GetSession(alice, "missing").Code)
}

func TestGetSessionFallsBackToSnapshot(t *testing.T) {
	fx := newSessionFixture(t, Config{})
	view := fx.svc.StartCheckout(alice, "tok", startRequest()).Data.(SessionView)

	// Another instance only sees the redis snapshot.
	other := NewService(context.Background(), &repository.IRepository{}, fx.rds, api.New(api.Config{}), Config{})
	res := other.GetSession(alice, view.ID)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, view.ID, res.Data.(SessionView).ID)
	assert.Equal(t, http.StatusNotFound, other.GetSession(bob, view.ID).Code)
}

func TestCloseSession(t *testing.T) {
	fx := newSessionFixture(t, Config{})
	view := fx.svc.StartCheckout(alice, "tok", startRequest()).Data.(SessionView)

	assert.Equal(t, http.StatusOK, fx.svc.CloseSession(alice, view.ID).Code)
	assert.Equal(t, http.StatusNotFound, fx.svc.GetSession(alice, view.ID).Code)
	assert.Equal(t, http.StatusNotFound, fx.svc.SubmitPayment(alice, "tok", view.ID).Code)
}

func TestSweepIdle(t *testing.T) {
	fx := newSessionFixture(t, Config{SessionTTL: time.Minute})
	view := fx.svc.StartCheckout(alice, "tok", startRequest()).Data.(SessionView)

	assert.Zero(t, fx.svc.SweepIdle(time.Now()))
	assert.Equal(t, 1, fx.svc.SweepIdle(time.Now().Add(2*time.Minute)))
	assert.Equal(t, http.StatusNotFound, fx.svc.GetSession(alice, view.ID).Code)
}

func TestClosedSessionStaysClosedAfterInFlightPayment(t *testing.T) {
	fx := newSessionFixture(t, Config{})
	release := make(chan struct{})
	fx.creator.fn = func(ctx context.Context, req OrderRequest) (*OrderResult, error) {
		<-release
		return &OrderResult{ID: 42}, nil
	}
	view := fx.svc.StartCheckout(alice, "tok", startRequest()).Data.(SessionView)

	paid := make(chan *types.Response, 1)
	go func() { paid <- fx.svc.SubmitPayment(alice, "tok", view.ID) }()

	require.Eventually(t, func() bool { return fx.creator.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, http.StatusOK, fx.svc.CloseSession(alice, view.ID).Code)

	close(release)
	assert.Equal(t, http.StatusOK, (<-paid).Code)

	assert.Equal(t, http.StatusNotFound, fx.svc.GetSession(alice, view.ID).Code)
	raw, err := fx.rds.Get(snapshotKey(view.ID))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestPersistKeepsNewestSnapshot(t *testing.T) {
	fx := newSessionFixture(t, Config{})
	view := fx.svc.StartCheckout(alice, "tok", startRequest()).Data.(SessionView)

	fx.svc.mu.Lock()
	sess := fx.svc.sessions[view.ID]
	fx.svc.mu.Unlock()

	var wg sync.WaitGroup
	for v := uint64(1); v <= 50; v++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			fx.svc.persist(sess, Snapshot{State: "processing", Version: v})
		}(v)
	}
	wg.Wait()

	var stored SessionView
	found, err := redis.GetJSON(fx.rds, snapshotKey(view.ID), &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(50), stored.Version)

	fx.svc.persist(sess, Snapshot{State: "idle", Version: 3})
	_, err = redis.GetJSON(fx.rds, snapshotKey(view.ID), &stored)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), stored.Version)
}
