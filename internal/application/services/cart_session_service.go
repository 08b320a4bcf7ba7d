// Package services provides application-level orchestration services
package services

import (
	"context"
	"sync"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/domain/repositories"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/backend"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/caching/interfaces"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
)

// CartSessionService bridges authentication state to cart storage keys.
// Each session resolves to exactly one active storage key: its own
// guest key while anonymous, the per-user key once authenticated. Key
// switching is strictly ordered: the active key changes before any
// merge or sync runs, so writes issued after a transition can never
// land under the previous identity's key.
type CartSessionService struct {
	carts       interfaces.CartCache
	repo        repositories.CartRepository
	sync        *backend.SyncClient
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker

	mu       sync.Mutex
	sessions map[string]string          // sessionID -> last-seen userID ("" = guest)
	merged   map[string]map[string]bool // sessionID -> userIDs already merged into
}

// NewCartSessionService creates a new cart session service
func NewCartSessionService(carts interfaces.CartCache, repo repositories.CartRepository, sync *backend.SyncClient, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CartSessionService {
	return &CartSessionService{
		carts:       carts,
		repo:        repo,
		sync:        sync,
		logger:      logger,
		perfTracker: perfTracker,
		sessions:    make(map[string]string),
		merged:      make(map[string]map[string]bool),
	}
}

// TransitionResult describes the outcome of an auth state change
type TransitionResult struct {
	ActiveKey   string          `json:"activeKey"`
	Items       []cart.LineItem `json:"items"`
	MergedItems int             `json:"mergedItems"`
	Switched    bool            `json:"switched"`
}

// ActiveKey resolves the cart storage key for a session's current auth
// state without mutating anything.
func (s *CartSessionService) ActiveKey(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID := s.sessions[sessionID]; userID != "" {
		return cart.UserKey(userID)
	}
	return cart.GuestKey(sessionID)
}

// HandleLogin transitions a session to the authenticated key and folds
// the session's guest cart into the user's cart. Repeated calls for
// the same user on the same session are no-ops, and the merge record
// ensures each guest cart is folded into a given user at most once,
// even across a logout and re-login.
func (s *CartSessionService) HandleLogin(ctx context.Context, sessionID, userID, token string) (*TransitionResult, error) {
	marker := s.perfTracker.StartOperation("session_login_transition")
	defer marker.Complete()

	userKey := cart.UserKey(userID)

	s.mu.Lock()
	if s.sessions[sessionID] == userID {
		s.mu.Unlock()
		marker.SetSuccess(true)
		snapshot := s.snapshot(ctx, userKey)
		return &TransitionResult{ActiveKey: userKey, Items: snapshot.Items, Switched: false}, nil
	}
	// Switch first. From this point every cart write for the session
	// targets the user key, regardless of how long the merge takes.
	s.sessions[sessionID] = userID
	alreadyMerged := s.merged[sessionID][userID]
	if !alreadyMerged {
		if s.merged[sessionID] == nil {
			s.merged[sessionID] = make(map[string]bool)
		}
		s.merged[sessionID][userID] = true
	}
	s.mu.Unlock()

	s.logger.Cart().Info("Session authenticated, switching cart key", "sessionId", sessionID)

	if alreadyMerged {
		// Re-login on a session whose guest cart was already folded in:
		// just resume the user's cart.
		marker.SetSuccess(true)
		snapshot := s.snapshot(ctx, userKey)
		return &TransitionResult{ActiveKey: userKey, Items: snapshot.Items, Switched: true}, nil
	}

	guestKey := cart.GuestKey(sessionID)

	// Seed the user cart: remote state wins over local persistence when
	// the sync backend is reachable.
	userItems := s.pullOrLoad(ctx, userKey, userID, token)

	guestSnapshot, hasGuest := s.carts.GetCart(guestKey)
	if !hasGuest {
		items, err := s.repo.Load(ctx, guestKey)
		if err != nil {
			s.logger.Cart().Warn("Discarding unreadable guest cart during merge", "error", err)
			items = []cart.LineItem{}
		}
		guestSnapshot = s.carts.SetCart(guestKey, items)
	}

	// Merge by copy. The guest cart stays intact under its own key, so
	// a login/logout round trip hands the visitor their cart back; the
	// merge record above is what prevents folding it in twice.
	merged := cart.NewCart(userKey)
	merged.Items = userItems
	mergedCount := merged.MergeItems(guestSnapshot.Items)

	snapshot := s.carts.SetCart(userKey, merged.Items)
	if err := s.repo.Save(ctx, userKey, snapshot.Items); err != nil {
		s.logger.Cart().Error("Failed to persist merged cart", "key", userKey, "error", err)
	}

	if s.sync != nil && mergedCount > 0 {
		go func(items []cart.LineItem) {
			pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.sync.Merge(pushCtx, userID, token, items); err != nil {
				s.logger.Sync().Debug("Remote merge deferred", "error", err)
			}
		}(snapshot.Clone().Items)
	}

	marker.AddMetadata("mergedItems", mergedCount)
	marker.SetSuccess(true)
	return &TransitionResult{
		ActiveKey:   userKey,
		Items:       snapshot.Items,
		MergedItems: mergedCount,
		Switched:    true,
	}, nil
}

// HandleLogout transitions a session back to its guest key. The user's
// cart stays under its own key and the guest cart resumes exactly as
// the visitor left it before logging in.
func (s *CartSessionService) HandleLogout(ctx context.Context, sessionID string) (*TransitionResult, error) {
	marker := s.perfTracker.StartOperation("session_logout_transition")
	defer marker.Complete()

	guestKey := cart.GuestKey(sessionID)

	s.mu.Lock()
	wasUser := s.sessions[sessionID]
	if wasUser == "" {
		s.mu.Unlock()
		marker.SetSuccess(true)
		snapshot := s.snapshot(ctx, guestKey)
		return &TransitionResult{ActiveKey: guestKey, Items: snapshot.Items, Switched: false}, nil
	}
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	s.logger.Cart().Info("Session signed out, reverting to guest cart key", "sessionId", sessionID)

	snapshot := s.snapshot(ctx, guestKey)
	marker.SetSuccess(true)
	return &TransitionResult{
		ActiveKey: guestKey,
		Items:     snapshot.Items,
		Switched:  true,
	}, nil
}

// DropSession forgets a session's auth mapping and merge record
// (session expiry path).
func (s *CartSessionService) DropSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	delete(s.merged, sessionID)
}

// pullOrLoad seeds user cart items from the remote sync backend,
// falling back to local persistence when the backend is unavailable.
func (s *CartSessionService) pullOrLoad(ctx context.Context, userKey, userID, token string) []cart.LineItem {
	if s.sync != nil && s.sync.Healthy() {
		if items, err := s.sync.Pull(ctx, userID, token); err == nil {
			return items
		}
	}
	items, err := s.repo.Load(ctx, userKey)
	if err != nil {
		s.logger.Cart().Warn("Discarding unreadable persisted cart", "key", userKey, "error", err)
		return []cart.LineItem{}
	}
	return items
}

// snapshot returns the in-memory cart for key, hydrating from
// persistence when absent.
func (s *CartSessionService) snapshot(ctx context.Context, key string) *cart.Cart {
	if c, exists := s.carts.GetCart(key); exists {
		return c
	}
	items, err := s.repo.Load(ctx, key)
	if err != nil {
		items = []cart.LineItem{}
	}
	return s.carts.SetCart(key, items)
}
