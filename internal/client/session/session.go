// Package session owns the process-wide authenticated identity. The Store is
// the single source of truth: no other component keeps a private copy of the
// token, and every mutation goes through Login or Logout.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/facturapp/billing-system/internal/client/token"
	"github.com/facturapp/billing-system/internal/core/domain"
)

// Subscriber receives a copy of the session after every mutation.
type Subscriber func(domain.Session)

// RoleWatcher is notified with the session's role id after every Login — even
// when the role did not change — and with "" after Logout. The privilege
// cache hangs off this hook.
type RoleWatcher func(roleID string)

// Store holds the current session and persists it through a Backend.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	current domain.Session

	backend Backend
	codec   token.Codec
	log     zerolog.Logger

	subscribers  []Subscriber
	roleWatchers []RoleWatcher
}

// NewStore builds a Store hydrated from the backend's persisted snapshot.
// A missing snapshot, or one without a token, starts the session
// unauthenticated. Storage read failures are logged and degrade to the same.
func NewStore(ctx context.Context, backend Backend, codec token.Codec, log zerolog.Logger) *Store {
	s := &Store{
		backend: backend,
		codec:   codec,
		log:     log,
		current: domain.Session{TokenType: domain.DefaultTokenType},
	}

	snapshot, err := backend.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session hydration failed, starting unauthenticated")
		return s
	}
	if snapshot[keyToken] == "" {
		// Token absent means every other field is void, whatever the
		// snapshot says — partial state must not survive hydration.
		return s
	}

	s.current = domain.Session{
		Token:       snapshot[keyToken],
		TokenType:   snapshot[keyTokenType],
		UserID:      snapshot[keyID],
		RoleName:    snapshot[keyRole],
		RoleID:      snapshot[keyRoleID],
		DisplayName: snapshot[keyName],
	}
	if s.current.TokenType == "" {
		s.current.TokenType = domain.DefaultTokenType
	}
	return s
}

// Current returns a copy of the session as of the latest write.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers a subscriber for session changes. Not for use after
// Login/Logout traffic has started.
func (s *Store) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// OnRoleChange registers a role watcher. Same registration window as Subscribe.
func (s *Store) OnRoleChange(w RoleWatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleWatchers = append(s.roleWatchers, w)
}

// Login installs a fresh token. Each identity field resolves independently:
// the explicit user record wins over the decoded claim, the claim wins over
// leaving the field alone, and a field absent from both keeps its prior
// value. Claims that fail to decode are treated as absent, never as an error.
func (s *Store) Login(ctx context.Context, rawToken, tokenType string, explicit *domain.UserRecord) {
	claims := s.codec.Decode(rawToken)
	if claims == nil {
		claims = &domain.Claims{}
	}
	if explicit == nil {
		explicit = &domain.UserRecord{}
	}
	if tokenType == "" {
		tokenType = domain.DefaultTokenType
	}

	s.mu.Lock()
	s.current.Token = rawToken
	s.current.TokenType = tokenType
	s.current.UserID = resolve(explicit.ID, claims.UserID, s.current.UserID)
	s.current.RoleName = resolve(explicit.Role, claims.RoleName, s.current.RoleName)
	s.current.RoleID = resolve(explicit.RoleID, claims.RoleID, s.current.RoleID)
	s.current.DisplayName = resolve(explicit.Name, claims.DisplayName, s.current.DisplayName)
	snapshot := s.current
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify(snapshot)
}

// Logout clears the session and removes the persisted snapshot. Role
// watchers are told the role is gone so cached privileges get dropped.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = domain.Session{TokenType: domain.DefaultTokenType}
	snapshot := s.current
	s.mu.Unlock()

	if err := s.backend.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove persisted session")
	}
	s.notify(snapshot)
}

func (s *Store) persist(ctx context.Context, sess domain.Session) {
	if !sess.Authenticated() {
		// Never persist an all-empty snapshot; absence is the signal.
		if err := s.backend.Clear(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to remove persisted session")
		}
		return
	}

	err := s.backend.Save(ctx, map[string]string{
		keyToken:     sess.Token,
		keyTokenType: sess.TokenType,
		keyID:        sess.UserID,
		keyRole:      sess.RoleName,
		keyRoleID:    sess.RoleID,
		keyName:      sess.DisplayName,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session snapshot")
	}
}

// notify runs outside the store lock so subscribers may read the store.
func (s *Store) notify(sess domain.Session) {
	s.mu.RLock()
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	watchers := make([]RoleWatcher, len(s.roleWatchers))
	copy(watchers, s.roleWatchers)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub(sess)
	}
	for _, w := range watchers {
		w(sess.RoleID)
	}
}

func resolve(explicit, claim, current string) string {
	if explicit != "" {
		return explicit
	}
	if claim != "" {
		return claim
	}
	return current
}
