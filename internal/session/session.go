// package session manages the locally persisted login session
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/shared"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// State enumerates the session lifecycle.
type State int

const (
	Uninitialized State = iota
	Restoring
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Restoring:
		return "restoring"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return ""
	}
}

const (
	tokenFile    = "token"
	identityFile = "user.json"
)

// Store holds the current bearer credential and display identity, persisted
// across runs as two files under the state directory. The credential and
// identity are always both present or both absent.
//
// Store implements [oauth2.TokenSource] so the gateway pulls the live
// credential on every call instead of caching it.
type Store struct {
	mu          sync.RWMutex
	state       State
	token       string
	identity    *models.Identity
	dir         string
	gateway     services.Gateway
	subscribers map[int]func(State)
	nextSubID   int
}

// StoreOpts contains construction options for [Store].
type StoreOpts struct {
	Dir     string // state directory holding the persisted pair
	Gateway services.Gateway
}

// NewStore creates a session store in the Uninitialized state.
//
// The gateway may be bound later with [Store.SetGateway] when construction
// order requires the store to exist first (the gateway's token source is
// usually the store itself).
func NewStore(opts StoreOpts) *Store {
	return &Store{
		state:       Uninitialized,
		dir:         opts.Dir,
		gateway:     opts.Gateway,
		subscribers: make(map[int]func(State)),
	}
}

// SetGateway binds the API gateway used by Login and Register.
func (s *Store) SetGateway(gw services.Gateway) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gateway = gw
}

// Restore loads a previously persisted credential+identity pair without
// contacting the server. A missing or malformed pair resolves to Anonymous
// rather than an error; an expired token is only discovered on the next
// failing API call.
func (s *Store) Restore() {
	s.setState(Restoring, "", nil)

	token, identity, ok := s.readPersisted()
	if !ok {
		s.setState(Anonymous, "", nil)
		return
	}

	s.setState(Authenticated, token, identity)
}

// Login exchanges credentials for a session. On failure the prior state is
// left untouched.
func (s *Store) Login(ctx context.Context, username, password string) error {
	gw := s.currentGateway()
	if gw == nil {
		return fmt.Errorf("%w: no gateway bound", shared.ErrServiceUnavailable)
	}

	creds, err := gw.Login(ctx, username, password)
	if err != nil {
		return err
	}

	identity := &models.Identity{Username: creds.Username}
	if err := s.writePersisted(creds.AccessToken, identity); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.setState(Authenticated, creds.AccessToken, identity)
	return nil
}

// Register creates an account and immediately logs in with the same
// credentials (auto-login, matching the service's expected flow).
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	gw := s.currentGateway()
	if gw == nil {
		return fmt.Errorf("%w: no gateway bound", shared.ErrServiceUnavailable)
	}

	if err := gw.Register(ctx, username, email, password); err != nil {
		return err
	}

	return s.Login(ctx, username, password)
}

// Logout clears the persisted pair and resets to Anonymous. Always succeeds
// locally; the server is not consulted.
func (s *Store) Logout() {
	s.clearPersisted()
	s.setState(Anonymous, "", nil)
}

// IsAuthenticated reports whether a credential is present. Safe to call
// before restoration completes (false until it resolves).
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Authenticated && s.token != ""
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the signed-in user's display identity, if any.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Token implements [oauth2.TokenSource] over the session credential.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

// Claims decodes the credential's JWT claims without verifying the
// signature. Display-only: expiry shown here is informational and never
// gates API calls.
func (s *Store) Claims() (jwt.MapClaims, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token claims: %w", err)
	}
	return claims, nil
}

// Subscribe registers a callback invoked on every state transition. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// setState transitions the session, keeping credential and identity in
// lockstep, and notifies subscribers outside the lock.
func (s *Store) setState(state State, token string, identity *models.Identity) {
	s.mu.Lock()
	s.state = state
	s.token = token
	s.identity = identity

	notify := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(state)
	}
}

func (s *Store) currentGateway() services.Gateway {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gateway
}

// readPersisted loads the token and identity files. Returns ok=false when
// either is missing or malformed -- a partial pair is treated as no session.
func (s *Store) readPersisted() (string, *models.Identity, bool) {
	raw, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return "", nil, false
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", nil, false
	}

	data, err := os.ReadFile(filepath.Join(s.dir, identityFile))
	if err != nil {
		return "", nil, false
	}

	var identity models.Identity
	if err := json.Unmarshal(data, &identity); err != nil || identity.Username == "" {
		return "", nil, false
	}

	return token, &identity, true
}

// writePersisted stores the pair together; a failure on either file removes
// both so a partial pair never survives.
func (s *Store) writePersisted(token string, identity *models.Identity) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0600); err != nil {
		s.clearPersisted()
		return fmt.Errorf("failed to write token: %w", err)
	}

	data, err := json.Marshal(identity)
	if err != nil {
		s.clearPersisted()
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, identityFile), data, 0600); err != nil {
		s.clearPersisted()
		return fmt.Errorf("failed to write identity: %w", err)
	}

	return nil
}

func (s *Store) clearPersisted() {
	os.Remove(filepath.Join(s.dir, tokenFile))
	os.Remove(filepath.Join(s.dir, identityFile))
}

var _ oauth2.TokenSource = (*Store)(nil)
