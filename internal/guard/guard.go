// package guard gates navigation to protected views on session state
package guard

import "github.com/desertthunder/snipvault/internal/session"

// Decision is the outcome of evaluating a protected-view request.
type Decision int

const (
	// Defer means restoration has not resolved yet: render a loading
	// placeholder and re-evaluate on the next session transition. Never
	// redirect while deferred.
	Defer Decision = iota
	// Allow renders the requested protected view.
	Allow
	// RedirectToLogin sends the user to the login entry point.
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case Defer:
		return "defer"
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	default:
		return ""
	}
}

// Resolve maps the current session state to a navigation decision. Callers
// must re-invoke it whenever the session transitions; a logout while a
// protected view is mounted must immediately yield RedirectToLogin.
func Resolve(state session.State) Decision {
	switch state {
	case session.Authenticated:
		return Allow
	case session.Anonymous:
		return RedirectToLogin
	default:
		// Uninitialized and Restoring both defer; redirecting before
		// restoration resolves would bounce users with a valid persisted
		// session.
		return Defer
	}
}
