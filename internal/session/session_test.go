package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/shared"
	testhelpers "github.com/desertthunder/snipvault/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistPair(t *testing.T, dir, token, username string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte(token), 0600))
	data, err := json.Marshal(map[string]string{"username": username})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), data, 0600))
}

func TestRestore(t *testing.T) {
	t.Run("restores a persisted pair without network calls", func(t *testing.T) {
		dir := t.TempDir()
		persistPair(t, dir, "abc123", "alice")

		gw := &testhelpers.MockGateway{
			LoginFn: func(ctx context.Context, username, password string) (*services.Credentials, error) {
				t.Fatal("restore must not contact the server")
				return nil, nil
			},
		}

		store := NewStore(StoreOpts{Dir: dir, Gateway: gw})
		assert.False(t, store.IsAuthenticated(), "must be false before restoration")

		store.Restore()

		assert.True(t, store.IsAuthenticated())
		assert.Equal(t, Authenticated, store.State())
		identity, ok := store.Identity()
		require.True(t, ok)
		assert.Equal(t, "alice", identity.Username)
	})

	t.Run("no persisted pair resolves to anonymous", func(t *testing.T) {
		store := NewStore(StoreOpts{Dir: t.TempDir()})
		store.Restore()

		assert.Equal(t, Anonymous, store.State())
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("partial pair is treated as no session", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("abc123"), 0600))

		store := NewStore(StoreOpts{Dir: dir})
		store.Restore()

		assert.Equal(t, Anonymous, store.State())
	})

	t.Run("malformed identity is treated as no session", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("abc123"), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte("{not json"), 0600))

		store := NewStore(StoreOpts{Dir: dir})
		store.Restore()

		assert.Equal(t, Anonymous, store.State())
	})
}

func TestLogin(t *testing.T) {
	t.Run("successful login persists pair and transitions state", func(t *testing.T) {
		dir := t.TempDir()
		gw := &testhelpers.MockGateway{
			LoginFn: func(ctx context.Context, username, password string) (*services.Credentials, error) {
				assert.Equal(t, "alice", username)
				assert.Equal(t, "secret", password)
				return &services.Credentials{Username: "alice", AccessToken: "tok-1"}, nil
			},
		}

		store := NewStore(StoreOpts{Dir: dir, Gateway: gw})
		store.Restore()
		require.NoError(t, store.Login(context.Background(), "alice", "secret"))

		assert.True(t, store.IsAuthenticated())

		restored := NewStore(StoreOpts{Dir: dir})
		restored.Restore()
		assert.True(t, restored.IsAuthenticated(), "pair must survive a restart")
	})

	t.Run("failed login leaves state untouched", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			LoginFn: func(ctx context.Context, username, password string) (*services.Credentials, error) {
				return nil, fmt.Errorf("%w: bad credentials", shared.ErrInvalidCredentials)
			},
		}

		store := NewStore(StoreOpts{Dir: t.TempDir(), Gateway: gw})
		store.Restore()

		err := store.Login(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		assert.Equal(t, Anonymous, store.State())
		assert.False(t, store.IsAuthenticated())
	})
}

func TestRegister(t *testing.T) {
	t.Run("register auto-logs-in with the same credentials", func(t *testing.T) {
		var registered, loggedIn bool
		gw := &testhelpers.MockGateway{
			RegisterFn: func(ctx context.Context, username, email, password string) error {
				registered = true
				assert.Equal(t, "bob@example.com", email)
				return nil
			},
			LoginFn: func(ctx context.Context, username, password string) (*services.Credentials, error) {
				loggedIn = true
				assert.Equal(t, "bob", username)
				assert.Equal(t, "pw", password)
				return &services.Credentials{Username: "bob", AccessToken: "tok-2"}, nil
			},
		}

		store := NewStore(StoreOpts{Dir: t.TempDir(), Gateway: gw})
		store.Restore()
		require.NoError(t, store.Register(context.Background(), "bob", "bob@example.com", "pw"))

		assert.True(t, registered)
		assert.True(t, loggedIn)
		assert.True(t, store.IsAuthenticated())
	})

	t.Run("duplicate username surfaces validation error", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			RegisterFn: func(ctx context.Context, username, email, password string) error {
				return fmt.Errorf("%w: username already taken", shared.ErrValidation)
			},
		}

		store := NewStore(StoreOpts{Dir: t.TempDir(), Gateway: gw})
		store.Restore()

		err := store.Register(context.Background(), "bob", "b@e.c", "pw")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.False(t, store.IsAuthenticated())
	})
}

func TestLogout(t *testing.T) {
	dir := t.TempDir()
	persistPair(t, dir, "abc123", "alice")

	store := NewStore(StoreOpts{Dir: dir})
	store.Restore()
	require.True(t, store.IsAuthenticated())

	store.Logout()

	assert.Equal(t, Anonymous, store.State())
	assert.False(t, store.IsAuthenticated())
	_, ok := store.Identity()
	assert.False(t, ok)

	_, err := os.Stat(filepath.Join(dir, "token"))
	assert.True(t, os.IsNotExist(err), "token file must be removed")
	_, err = os.Stat(filepath.Join(dir, "user.json"))
	assert.True(t, os.IsNotExist(err), "identity file must be removed")
}

func TestTokenSource(t *testing.T) {
	t.Run("authenticated store yields bearer token", func(t *testing.T) {
		dir := t.TempDir()
		persistPair(t, dir, "abc123", "alice")

		store := NewStore(StoreOpts{Dir: dir})
		store.Restore()

		token, err := store.Token()
		require.NoError(t, err)
		assert.Equal(t, "abc123", token.AccessToken)
		assert.Equal(t, "Bearer", token.TokenType)
	})

	t.Run("anonymous store errors", func(t *testing.T) {
		store := NewStore(StoreOpts{Dir: t.TempDir()})
		store.Restore()

		_, err := store.Token()
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})
}

func TestSubscribe(t *testing.T) {
	store := NewStore(StoreOpts{Dir: t.TempDir()})

	var transitions []State
	unsubscribe := store.Subscribe(func(s State) {
		transitions = append(transitions, s)
	})

	store.Restore()
	store.Logout()

	require.GreaterOrEqual(t, len(transitions), 3)
	assert.Equal(t, Restoring, transitions[0])
	assert.Equal(t, Anonymous, transitions[1])

	unsubscribe()
	seen := len(transitions)
	store.Logout()
	assert.Len(t, transitions, seen, "unsubscribed callback must not fire")
}

func TestClaims(t *testing.T) {
	t.Run("decodes unverified claims", func(t *testing.T) {
		// header {"alg":"HS256","typ":"JWT"} and claims {"sub":"alice","exp":4102444800}
		token := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
			"eyJzdWIiOiJhbGljZSIsImV4cCI6NDEwMjQ0NDgwMH0." +
			"c2lnbmF0dXJl"

		dir := t.TempDir()
		persistPair(t, dir, token, "alice")

		store := NewStore(StoreOpts{Dir: dir})
		store.Restore()

		claims, err := store.Claims()
		require.NoError(t, err)
		assert.Equal(t, "alice", claims["sub"])
	})

	t.Run("anonymous store errors", func(t *testing.T) {
		store := NewStore(StoreOpts{Dir: t.TempDir()})
		store.Restore()

		_, err := store.Claims()
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})
}
