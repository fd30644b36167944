package checkout

import (
	"context"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/api"
	"ecosync-hub/internal/pkg/redis"
	"ecosync-hub/internal/repository"
	"sync"
	"time"
)

// Config of the session service. Unset delays and TTLs take the defaults.
type Config struct {
	PaymentDelay  time.Duration
	RedirectDelay time.Duration
	CancelOnClose bool
	SessionTTL    time.Duration

	// LockTTL bounds the cross-instance submit lock.
	LockTTL time.Duration
}

type Service struct {
	ctx    context.Context
	rp     *repository.IRepository
	rds    redis.IRedis
	client *api.Client
	cfg    Config

	// creator overrides the api-backed creator; tests set it.
	creator func(token string) OrderCreator

	mu       sync.Mutex
	sessions map[string]*session
}

type IService interface {
	StartCheckout(user types.UserWithAuth, token string, req *StartCheckoutRequest) *types.Response
	SubmitPayment(user types.UserWithAuth, token string, sessionID string) *types.Response
	GetSession(user types.UserWithAuth, sessionID string) *types.Response
	CloseSession(user types.UserWithAuth, sessionID string) *types.Response
	SweepIdle(now time.Time) int
}

func NewService(ctx context.Context, rp *repository.IRepository, rds redis.IRedis, client *api.Client, cfg Config) *Service {
	if cfg.PaymentDelay <= 0 {
		cfg.PaymentDelay = DefaultPaymentDelay
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = DefaultRedirectDelay
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.PaymentDelay + cfg.RedirectDelay + time.Minute
	}

	s := &Service{
		ctx:      ctx,
		rp:       rp,
		rds:      rds,
		client:   client,
		cfg:      cfg,
		sessions: make(map[string]*session),
	}
	s.creator = func(token string) OrderCreator {
		return NewAPIOrderCreator(s.client.WithToken(token))
	}
	return s
}

type StartCheckoutRequest struct {
	Total      float64     `json:"total"`
	Address    string      `json:"address"`
	AddressID  uint64      `json:"address_id"`
	OrderItems []OrderItem `json:"order_items" binding:"omitempty,dive"`
}

type SessionView struct {
	ID       string  `json:"id"`
	UserID   uint64  `json:"user_id"`
	Checkout Context `json:"checkout"`
	Snapshot
}
