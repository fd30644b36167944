package checkout

import (
	"context"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/logger"
	"ecosync-hub/internal/pkg/redis"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type session struct {
	id       string
	userID   uint64
	flow     *Flow
	mu       sync.Mutex
	token    string
	lastSeen time.Time

	// snapshotMu orders snapshot writes against each other and against close.
	snapshotMu sync.Mutex
	closed     bool
}

func (s *session) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.lastSeen = time.Now()
}

func (s *session) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func snapshotKey(id string) string {
	return "checkout:session:" + id
}

func lockKey(id string) string {
	return "checkout:lock:" + id
}

func (s *Service) StartCheckout(user types.UserWithAuth, token string, req *StartCheckoutRequest) *types.Response {
	checkout := Context{
		Total:      req.Total,
		Address:    req.Address,
		OrderItems: req.OrderItems,
	}

	if checkout.Address == "" && req.AddressID != 0 {
		address, err := s.rp.Address.FindByIDForUser(s.ctx, req.AddressID, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Address not found"})
			}
			return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to load address", Error: err})
		}
		checkout.Address = address.Format()
	}

	id := uuid.NewString()
	sess := &session{id: id, userID: user.ID, token: token, lastSeen: time.Now()}

	var redirect string
	flow, err := New(checkout, sess.creatorFor(s), NavigatorFunc(func(path string) {
		redirect = path
		logger.Info.Printf("checkout session %s navigated to %s", id, path)
	}),
		WithPaymentDelay(s.cfg.PaymentDelay),
		WithRedirectDelay(s.cfg.RedirectDelay),
		WithCancelOnClose(s.cfg.CancelOnClose),
		WithIdempotencyPrefix("checkout-"+id),
		WithStateListener(func(snap Snapshot) { s.persist(sess, snap) }),
	)
	if errors.Is(err, ErrMissingCheckoutContext) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusSeeOther,
			Message: "Checkout context missing, return to cart",
			Data:    map[string]string{"redirect_to": redirect},
			Headers: map[string]string{"Location": redirect},
		})
	}
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to start checkout", Error: err})
	}
	sess.flow = flow

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	view := s.view(sess, flow.Snapshot())
	s.persist(sess, view.Snapshot)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Checkout session created",
		Data:    view,
	})
}

func (sess *session) creatorFor(s *Service) OrderCreator {
	return OrderCreatorFunc(func(ctx context.Context, req OrderRequest, key string) (*OrderResult, error) {
		return s.creator(sess.currentToken()).CreateOrder(ctx, req, key)
	})
}

func (s *Service) SubmitPayment(user types.UserWithAuth, token string, sessionID string) *types.Response {
	sess, ok := s.lookup(user, sessionID)
	if !ok {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Checkout session not found"})
	}
	if token != "" {
		sess.setToken(token)
	}

	acquired, err := s.rds.SetNX(lockKey(sessionID), user.ID, s.cfg.LockTTL)
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to lock checkout session", Error: err})
	}
	if !acquired {
		return helper.ParseResponse(&types.Response{Code: http.StatusConflict, Message: "Payment is already being processed"})
	}
	defer func() {
		if err := s.rds.Del(lockKey(sessionID)); err != nil {
			logger.Warning.Printf("failed to release checkout lock %s: %v", sessionID, err)
		}
	}()

	_, err = sess.flow.SubmitPayment(s.ctx)
	view := s.view(sess, sess.flow.Snapshot())

	var subErr *OrderSubmissionError
	switch {
	case err == nil:
		return helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Payment successful", Data: view})
	case errors.Is(err, ErrSubmissionInFlight):
		return helper.ParseResponse(&types.Response{Code: http.StatusConflict, Message: "Payment is already being processed", Data: view})
	case errors.Is(err, ErrAlreadySucceeded):
		return helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Order already placed", Data: view})
	case errors.Is(err, ErrFlowClosed):
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Checkout session not found"})
	case errors.As(err, &subErr):
		logger.Warning.Printf("checkout session %s payment failed: %v", sessionID, err)
		return helper.ParseResponse(&types.Response{Code: http.StatusPaymentRequired, Message: subErr.Message, Data: view})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to submit payment", Error: err})
}

func (s *Service) GetSession(user types.UserWithAuth, sessionID string) *types.Response {
	if sess, ok := s.lookup(user, sessionID); ok {
		return helper.ParseResponse(&types.Response{Data: s.view(sess, sess.flow.Snapshot())})
	}

	var view SessionView
	found, err := redis.GetJSON(s.rds, snapshotKey(sessionID), &view)
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to load checkout session", Error: err})
	}
	if !found || view.UserID != user.ID {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Checkout session not found"})
	}
	return helper.ParseResponse(&types.Response{Data: view})
}

func (s *Service) CloseSession(user types.UserWithAuth, sessionID string) *types.Response {
	sess, ok := s.lookup(user, sessionID)
	if !ok {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Checkout session not found"})
	}

	s.close(sess)
	return helper.ParseResponse(&types.Response{Message: "Checkout session closed"})
}

// SweepIdle closes sessions not touched within the session TTL and returns how many it closed.
func (s *Service) SweepIdle(now time.Time) int {
	s.mu.Lock()
	var idle []*session
	for _, sess := range s.sessions {
		if now.Sub(sess.idleSince()) >= s.cfg.SessionTTL && !sess.flow.Submitting() {
			idle = append(idle, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		s.close(sess)
	}
	return len(idle)
}

// RunSweeper calls SweepIdle every interval until the service context ends.
func (s *Service) RunSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.SweepIdle(now); n > 0 {
				logger.Info.Printf("closed %d idle checkout session(s)", n)
			}
		}
	}
}

func (s *Service) close(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()

	sess.flow.Close()

	sess.snapshotMu.Lock()
	defer sess.snapshotMu.Unlock()
	sess.closed = true
	if err := s.rds.Del(snapshotKey(sess.id)); err != nil {
		logger.Warning.Printf("failed to drop checkout snapshot %s: %v", sess.id, err)
	}
}

func (s *Service) lookup(user types.UserWithAuth, id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.userID != user.ID {
		return nil, false
	}
	return sess, true
}

func (s *Service) view(sess *session, snap Snapshot) SessionView {
	return SessionView{
		ID:       sess.id,
		UserID:   sess.userID,
		Checkout: sess.flow.Checkout(),
		Snapshot: snap,
	}
}

// persist writes the snapshot unless the session is closed or a newer one is stored.
// A submission left running after close finishes without bringing the session back.
func (s *Service) persist(sess *session, snap Snapshot) {
	if sess.flow == nil {
		return
	}

	sess.snapshotMu.Lock()
	defer sess.snapshotMu.Unlock()
	if sess.closed {
		return
	}
	s.persistView(s.view(sess, snap))
}

// persistView must be called with the session's snapshotMu held.
func (s *Service) persistView(view SessionView) {
	var current SessionView
	if found, err := redis.GetJSON(s.rds, snapshotKey(view.ID), &current); err == nil && found && current.Version > view.Version {
		return
	}
	if err := s.rds.Set(snapshotKey(view.ID), view, s.cfg.SessionTTL); err != nil {
		logger.Warning.Printf("failed to persist checkout snapshot %s: %v", view.ID, err)
	}
}

var _ IService = (*Service)(nil)
