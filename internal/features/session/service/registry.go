package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/core/logger"
	cartports "storefront-checkout/internal/features/cart/ports"
	cartservice "storefront-checkout/internal/features/cart/service"
	checkoutservice "storefront-checkout/internal/features/checkout/service"
	"storefront-checkout/internal/features/session/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Active is a live session: the shopper's token, cart store and checkout.
type Active struct {
	domain.Session
	Cart     *cartservice.Store
	Checkout *checkoutservice.Checkout

	token    string
	lastSeen atomic.Int64
}

func (a *Active) touch(at time.Time) {
	a.lastSeen.Store(at.UnixNano())
}

// LastSeen returns when the session was last started or looked up.
func (a *Active) LastSeen() time.Time {
	return time.Unix(0, a.lastSeen.Load()).UTC()
}

// Context returns ctx carrying the session's bearer token.
func (a *Active) Context(ctx context.Context) context.Context {
	return httpclient.WithBearerToken(ctx, a.token)
}

// Registry holds the active sessions. Nothing is persisted.
type Registry struct {
	gateway cartports.CartGateway
	flow    *checkoutservice.Flow
	log     *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Active
}

// NewRegistry creates a Registry. Every session gets its own cart store over gateway.
func NewRegistry(gateway cartports.CartGateway, flow *checkoutservice.Flow) *Registry {
	return &Registry{
		gateway:  gateway,
		flow:     flow,
		log:      logger.Named("session"),
		now:      time.Now,
		sessions: make(map[string]*Active),
	}
}

// Start signs the shopper in with token and loads their cart.
// If the cart cannot be loaded the session is not kept.
func (r *Registry) Start(ctx context.Context, token string) (*Active, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	store := cartservice.NewStore(r.gateway)
	active := &Active{
		Session:  domain.Session{ID: uuid.NewString(), CreatedAt: r.now().UTC()},
		Cart:     store,
		Checkout: r.flow.For(store),
		token:    token,
	}
	active.touch(active.CreatedAt)

	if _, err := store.Load(active.Context(ctx)); err != nil {
		store.Close()
		return nil, fmt.Errorf("service: failed to start session: %w", err)
	}

	r.mu.Lock()
	r.sessions[active.ID] = active
	r.mu.Unlock()

	r.log.Info("Session started", zap.String("session_id", active.ID))
	return active, nil
}

// Get returns the active session with id and marks it as seen.
func (r *Registry) Get(id string) (*Active, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	active.touch(r.now())
	return active, nil
}

// End signs the session out. Its cart store is closed and its checkout dropped.
func (r *Registry) End(id string) error {
	r.mu.Lock()
	active, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}

	active.Cart.Close()
	r.log.Info("Session ended", zap.String("session_id", id))
	return nil
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep ends every session not seen for longer than idle and returns how many were ended.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle).UnixNano()

	r.mu.RLock()
	var expired []string
	for id, active := range r.sessions {
		if active.lastSeen.Load() < cutoff {
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	ended := 0
	for _, id := range expired {
		if err := r.End(id); err == nil {
			ended++
		}
	}
	if ended > 0 {
		r.log.Info("Idle sessions ended", zap.Int("count", ended), zap.Duration("idle", idle))
	}
	return ended
}

// RunSweeper calls Sweep every interval until ctx is done. A non-positive idle disables it.
func (r *Registry) RunSweeper(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}
