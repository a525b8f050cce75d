package guard

import (
	"testing"

	"github.com/desertthunder/snipvault/internal/session"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name  string
		state session.State
		want  Decision
	}{
		{"uninitialized defers", session.Uninitialized, Defer},
		{"restoring defers and never redirects", session.Restoring, Defer},
		{"authenticated allows", session.Authenticated, Allow},
		{"anonymous redirects to login", session.Anonymous, RedirectToLogin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.state); got != tc.want {
				t.Errorf("Resolve(%v) = %v, want %v", tc.state, got, tc.want)
			}
		})
	}
}

func TestResolveFollowsTransitions(t *testing.T) {
	store := session.NewStore(session.StoreOpts{Dir: t.TempDir()})

	var decisions []Decision
	store.Subscribe(func(s session.State) {
		decisions = append(decisions, Resolve(s))
	})

	store.Restore() // no persisted pair: Restoring then Anonymous

	if len(decisions) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(decisions))
	}
	if decisions[0] != Defer {
		t.Errorf("expected Defer while restoring, got %v", decisions[0])
	}
	if decisions[1] != RedirectToLogin {
		t.Errorf("expected RedirectToLogin once anonymous, got %v", decisions[1])
	}
}
