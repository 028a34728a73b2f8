package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in memory and drops them after a period without use.
type Store struct {
	cache    *ttlcache.Cache[string, *Session]
	provider catalog.Provider
	opts     Options
	logger   *zap.Logger
}

// NewStore creates a store. Call Start to run expiry and Stop to end it.
func NewStore(provider catalog.Provider, ttl time.Duration, opts Options) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cache := ttlcache.New[string, *Session](
		ttlcache.WithTTL[string, *Session](ttl),
	)
	cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *Session]) {
		item.Value().Close()
		if reason == ttlcache.EvictionReasonExpired {
			logger.Info("Session expired", zap.String("session_id", item.Key()))
		}
	})

	return &Store{cache: cache, provider: provider, opts: opts, logger: logger}
}

// Start runs the expiry loop until Stop is called. It blocks.
func (st *Store) Start() {
	st.cache.Start()
}

// Stop ends the expiry loop.
func (st *Store) Stop() {
	st.cache.Stop()
}

// Create opens a new session on the given domain.
func (st *Store) Create(domainID string) *Session {
	s := New(uuid.New().String(), st.provider, st.opts)
	s.SelectDomain(domainID)
	st.cache.Set(s.ID(), s, ttlcache.DefaultTTL)
	st.logger.Info("Session created", zap.String("session_id", s.ID()), zap.String("domain", domainID))
	return s
}

// Get returns a live session and extends its lifetime.
func (st *Store) Get(id string) (*Session, error) {
	item := st.cache.Get(id)
	if item == nil {
		return nil, ErrNotFound
	}
	return item.Value(), nil
}

// Delete removes a session and closes its subscriptions.
func (st *Store) Delete(id string) {
	st.cache.Delete(id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	return st.cache.Len()
}
