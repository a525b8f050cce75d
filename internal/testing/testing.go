// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/services"
)

// MockGateway is a configurable test double for [services.Gateway].
// Unset function fields return zero values.
type MockGateway struct {
	RegisterFn       func(ctx context.Context, username, email, password string) error
	LoginFn          func(ctx context.Context, username, password string) (*services.Credentials, error)
	MySnippetsFn     func(ctx context.Context) ([]models.Snippet, error)
	PublicSnippetsFn func(ctx context.Context) ([]models.Snippet, error)
	FavoritesFn      func(ctx context.Context) ([]models.Snippet, error)
	CreateSnippetFn  func(ctx context.Context, draft models.Draft) (*models.Snippet, error)
	UpdateSnippetFn  func(ctx context.Context, id int64, draft models.Draft) (*models.Snippet, error)
	DeleteSnippetFn  func(ctx context.Context, id int64) error
	ToggleFavoriteFn func(ctx context.Context, id int64) (*models.Snippet, error)
	SearchMineFn     func(ctx context.Context, keyword string) ([]models.Snippet, error)
	SearchPublicFn   func(ctx context.Context, keyword string) ([]models.Snippet, error)
	PublicSnippetFn  func(ctx context.Context, id int64) (*models.Snippet, error)
	TagsFn           func(ctx context.Context) ([]models.Tag, error)
	PopularTagsFn    func(ctx context.Context) ([]models.Tag, error)
}

func (m *MockGateway) Register(ctx context.Context, username, email, password string) error {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, username, email, password)
	}
	return nil
}

func (m *MockGateway) Login(ctx context.Context, username, password string) (*services.Credentials, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, username, password)
	}
	return &services.Credentials{Username: username, AccessToken: "test-token"}, nil
}

func (m *MockGateway) MySnippets(ctx context.Context) ([]models.Snippet, error) {
	if m.MySnippetsFn != nil {
		return m.MySnippetsFn(ctx)
	}
	return []models.Snippet{}, nil
}

func (m *MockGateway) PublicSnippets(ctx context.Context) ([]models.Snippet, error) {
	if m.PublicSnippetsFn != nil {
		return m.PublicSnippetsFn(ctx)
	}
	return []models.Snippet{}, nil
}

func (m *MockGateway) Favorites(ctx context.Context) ([]models.Snippet, error) {
	if m.FavoritesFn != nil {
		return m.FavoritesFn(ctx)
	}
	return []models.Snippet{}, nil
}

func (m *MockGateway) CreateSnippet(ctx context.Context, draft models.Draft) (*models.Snippet, error) {
	if m.CreateSnippetFn != nil {
		return m.CreateSnippetFn(ctx, draft)
	}
	return &models.Snippet{}, nil
}

func (m *MockGateway) UpdateSnippet(ctx context.Context, id int64, draft models.Draft) (*models.Snippet, error) {
	if m.UpdateSnippetFn != nil {
		return m.UpdateSnippetFn(ctx, id, draft)
	}
	return &models.Snippet{ID: id}, nil
}

func (m *MockGateway) DeleteSnippet(ctx context.Context, id int64) error {
	if m.DeleteSnippetFn != nil {
		return m.DeleteSnippetFn(ctx, id)
	}
	return nil
}

func (m *MockGateway) ToggleFavorite(ctx context.Context, id int64) (*models.Snippet, error) {
	if m.ToggleFavoriteFn != nil {
		return m.ToggleFavoriteFn(ctx, id)
	}
	return &models.Snippet{ID: id}, nil
}

func (m *MockGateway) SearchMine(ctx context.Context, keyword string) ([]models.Snippet, error) {
	if m.SearchMineFn != nil {
		return m.SearchMineFn(ctx, keyword)
	}
	return []models.Snippet{}, nil
}

func (m *MockGateway) SearchPublic(ctx context.Context, keyword string) ([]models.Snippet, error) {
	if m.SearchPublicFn != nil {
		return m.SearchPublicFn(ctx, keyword)
	}
	return []models.Snippet{}, nil
}

func (m *MockGateway) PublicSnippet(ctx context.Context, id int64) (*models.Snippet, error) {
	if m.PublicSnippetFn != nil {
		return m.PublicSnippetFn(ctx, id)
	}
	return &models.Snippet{ID: id}, nil
}

func (m *MockGateway) Tags(ctx context.Context) ([]models.Tag, error) {
	if m.TagsFn != nil {
		return m.TagsFn(ctx)
	}
	return []models.Tag{}, nil
}

func (m *MockGateway) PopularTags(ctx context.Context) ([]models.Tag, error) {
	if m.PopularTagsFn != nil {
		return m.PopularTagsFn(ctx)
	}
	return []models.Tag{}, nil
}

var _ services.Gateway = (*MockGateway)(nil)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// Snippets builds a small fixture collection used across package tests.
func Snippets() []models.Snippet {
	return []models.Snippet{
		{ID: 1, Title: "Hello", Content: "print('hi')", Language: "python", IsFavorite: false, IsPublic: true},
		{ID: 2, Title: "Fib", Content: "func fib(n int) int { return n }", Language: "go", IsFavorite: true, IsPublic: false},
		{ID: 3, Title: "Sort", Content: "xs.sort()", Language: "python", IsFavorite: true, IsPublic: true},
		{ID: 4, Title: "Query", Content: "SELECT 1", Language: "sql", IsFavorite: false, IsPublic: false},
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
