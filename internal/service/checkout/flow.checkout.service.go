package checkout

import (
	"context"
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/pkg/logger"
	"fmt"
	"slices"
	"sync"
	"time"
)

const (
	DefaultPaymentDelay  = 2 * time.Second
	DefaultRedirectDelay = 2 * time.Second
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest, idempotencyKey string) (*OrderResult, error)
}

type OrderCreatorFunc func(ctx context.Context, req OrderRequest, idempotencyKey string) (*OrderResult, error)

func (f OrderCreatorFunc) CreateOrder(ctx context.Context, req OrderRequest, idempotencyKey string) (*OrderResult, error) {
	return f(ctx, req, idempotencyKey)
}

type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

var transitions = map[enum.CheckoutStateEnum][]enum.CheckoutStateEnum{
	enum.CHECKOUT_IDLE:       {enum.CHECKOUT_PROCESSING},
	enum.CHECKOUT_PROCESSING: {enum.CHECKOUT_SUCCEEDED, enum.CHECKOUT_FAILED},
	enum.CHECKOUT_FAILED:     {enum.CHECKOUT_PROCESSING},
	enum.CHECKOUT_SUCCEEDED:  {},
}

type options struct {
	paymentDelay      time.Duration
	redirectDelay     time.Duration
	cancelOnClose     bool
	idempotencyPrefix string
	listener          func(Snapshot)
}

type Option func(*options)

func WithPaymentDelay(d time.Duration) Option {
	return func(o *options) { o.paymentDelay = d }
}

func WithRedirectDelay(d time.Duration) Option {
	return func(o *options) { o.redirectDelay = d }
}

// WithCancelOnClose makes Close abort an in-flight submission as well as the redirect.
func WithCancelOnClose(cancel bool) Option {
	return func(o *options) { o.cancelOnClose = cancel }
}

// WithIdempotencyPrefix sends "<prefix>-<attempt>" as the idempotency key of each submission.
func WithIdempotencyPrefix(prefix string) Option {
	return func(o *options) { o.idempotencyPrefix = prefix }
}

// WithStateListener is called with a fresh snapshot after every state change.
func WithStateListener(fn func(Snapshot)) Option {
	return func(o *options) { o.listener = fn }
}

// Flow drives one checkout: simulated payment, a single order request and
// the redirect to the receipt.
type Flow struct {
	checkout  Context
	creator   OrderCreator
	navigator Navigator
	opts      options

	mu         sync.Mutex
	state      enum.CheckoutStateEnum
	message    string
	orderID    uint64
	redirectTo string
	attempt    int
	version    uint64
	updatedAt  time.Time
	closed     bool
	cancel     context.CancelFunc
	timer      *time.Timer

	navigated     chan struct{}
	navigatedOnce sync.Once
}

// New checks the checkout context and builds an idle flow. A context without
// total or items navigates to the cart and returns ErrMissingCheckoutContext.
func New(checkout Context, creator OrderCreator, navigator Navigator, opts ...Option) (*Flow, error) {
	if !checkout.Valid() {
		if navigator != nil {
			navigator.Navigate(CartPath)
		}
		return nil, ErrMissingCheckoutContext
	}
	if creator == nil {
		return nil, fmt.Errorf("checkout: order creator is required")
	}
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}

	o := options{
		paymentDelay:  DefaultPaymentDelay,
		redirectDelay: DefaultRedirectDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}

	checkout.OrderItems = slices.Clone(checkout.OrderItems)

	return &Flow{
		checkout:  checkout,
		creator:   creator,
		navigator: navigator,
		opts:      o,
		state:     enum.CHECKOUT_IDLE,
		updatedAt: time.Now(),
		navigated: make(chan struct{}),
	}, nil
}

// SubmitPayment waits the payment delay, then issues exactly one order request.
// ctx cancels both the delay and the request.
func (f *Flow) SubmitPayment(ctx context.Context) (*OrderResult, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrFlowClosed
	}
	if !f.state.CanSubmit() {
		err := ErrSubmissionInFlight
		if f.state == enum.CHECKOUT_SUCCEEDED {
			err = ErrAlreadySucceeded
		}
		f.mu.Unlock()
		return nil, err
	}

	if err := f.transition(enum.CHECKOUT_PROCESSING); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.message = ""
	f.attempt++
	key := f.idempotencyKey()

	runCtx := ctx
	if f.opts.cancelOnClose {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithCancel(ctx)
		f.cancel = cancel
	}
	snap := f.snapshot()
	f.mu.Unlock()
	f.notify(snap)

	res, err := f.submit(runCtx, key)

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	if err != nil {
		msg := failureMessage(err)
		_ = f.transition(enum.CHECKOUT_FAILED)
		f.message = msg
		snap = f.snapshot()
		f.mu.Unlock()
		f.notify(snap)
		return nil, &OrderSubmissionError{Message: msg, Err: err}
	}

	_ = f.transition(enum.CHECKOUT_SUCCEEDED)
	f.orderID = res.OrderID()
	target := OrdersPath
	if f.orderID != 0 {
		target = fmt.Sprintf("/order/%d/receipt", f.orderID)
	} else {
		logger.Warning.Println("checkout: order created without an id, redirecting to the order list")
	}
	if !f.closed {
		f.timer = time.AfterFunc(f.opts.redirectDelay, func() { f.redirect(target) })
	}
	snap = f.snapshot()
	f.mu.Unlock()
	f.notify(snap)

	return res, nil
}

func (f *Flow) submit(ctx context.Context, key string) (*OrderResult, error) {
	if err := sleep(ctx, f.opts.paymentDelay); err != nil {
		return nil, err
	}

	res, err := f.creator.CreateOrder(ctx, OrderRequest{
		TotalAmount:     f.checkout.Total,
		ShippingAddress: f.checkout.Address,
		OrderItems:      f.checkout.OrderItems,
	}, key)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &OrderResult{}
	}
	return res, nil
}

func (f *Flow) redirect(target string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.redirectTo = target
	f.touch()
	snap := f.snapshot()
	f.mu.Unlock()

	f.navigator.Navigate(target)
	f.navigatedOnce.Do(func() { close(f.navigated) })
	f.notify(snap)
}

// Close is the navigate-away signal. It always stops a pending redirect and
// aborts an in-flight submission only under WithCancelOnClose.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true

	if f.timer != nil {
		f.timer.Stop()
	}
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

// Submitting reports whether the pay action is disabled.
func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == enum.CHECKOUT_PROCESSING
}

// Navigated is closed once the post-success redirect has fired.
func (f *Flow) Navigated() <-chan struct{} {
	return f.navigated
}

func (f *Flow) Checkout() Context {
	return f.checkout
}

// transition must be called with mu held.
func (f *Flow) transition(to enum.CheckoutStateEnum) error {
	if !slices.Contains(transitions[f.state], to) {
		logger.Error.Printf("checkout: illegal transition %s -> %s", f.state, to)
		return fmt.Errorf("checkout: illegal transition %s -> %s", f.state, to)
	}
	f.state = to
	f.touch()
	return nil
}

func (f *Flow) touch() {
	f.version++
	f.updatedAt = time.Now()
}

func (f *Flow) snapshot() Snapshot {
	return Snapshot{
		State:      f.state.ToString(),
		Error:      f.message,
		OrderID:    f.orderID,
		RedirectTo: f.redirectTo,
		Attempt:    f.attempt,
		Version:    f.version,
		UpdatedAt:  f.updatedAt,
	}
}

func (f *Flow) idempotencyKey() string {
	if f.opts.idempotencyPrefix == "" {
		return ""
	}
	return fmt.Sprintf("%s-%d", f.opts.idempotencyPrefix, f.attempt)
}

func (f *Flow) notify(s Snapshot) {
	if f.opts.listener != nil {
		f.opts.listener(s)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
