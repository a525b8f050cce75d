// package services defines interface Gateway for the vault service REST API
package services

import (
	"context"

	"github.com/desertthunder/snipvault/internal/models"
)

// Gateway is the typed client surface over the vault service's REST
// endpoints. Authenticated operations carry the session's bearer
// credential; the client never pre-validates it beyond navigation gating.
type Gateway interface {
	// Register creates a new account. The caller is expected to follow a
	// successful registration with Login (auto-login).
	Register(ctx context.Context, username, email, password string) error

	// Login exchanges credentials for a bearer token and display identity.
	Login(ctx context.Context, username, password string) (*Credentials, error)

	// MySnippets retrieves the signed-in user's snippets.
	MySnippets(ctx context.Context) ([]models.Snippet, error)

	// PublicSnippets retrieves all public snippets; no credential required.
	PublicSnippets(ctx context.Context) ([]models.Snippet, error)

	// Favorites retrieves the signed-in user's favorited snippets.
	Favorites(ctx context.Context) ([]models.Snippet, error)

	// CreateSnippet creates a snippet from the draft and returns the stored copy.
	CreateSnippet(ctx context.Context, draft models.Draft) (*models.Snippet, error)

	// UpdateSnippet replaces the snippet's fields with the draft's.
	UpdateSnippet(ctx context.Context, id int64, draft models.Draft) (*models.Snippet, error)

	// DeleteSnippet removes a snippet owned by the signed-in user.
	DeleteSnippet(ctx context.Context, id int64) error

	// ToggleFavorite flips the favorite flag server-side and returns the
	// updated snippet.
	ToggleFavorite(ctx context.Context, id int64) (*models.Snippet, error)

	// SearchMine performs a server-side keyword search over the user's snippets.
	SearchMine(ctx context.Context, keyword string) ([]models.Snippet, error)

	// SearchPublic performs a server-side keyword search over public snippets.
	SearchPublic(ctx context.Context, keyword string) ([]models.Snippet, error)

	// PublicSnippet retrieves a single public snippet by id (share pages).
	PublicSnippet(ctx context.Context, id int64) (*models.Snippet, error)

	// Tags lists the signed-in user's tags with usage counts.
	Tags(ctx context.Context) ([]models.Tag, error)

	// PopularTags lists the most-used tags across public snippets.
	PopularTags(ctx context.Context) ([]models.Tag, error)
}

// Credentials is the vault service's login response.
type Credentials struct {
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}
