// Vault service implementation of [Gateway]
//
// Endpoint paths mirror the service's SnippetController and AuthController.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// APIError is a non-2xx response from the vault service, carrying the
// server-supplied message when one was present in the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vault service error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("vault service error: status %d", e.StatusCode)
}

// Unwrap maps the status code onto the shared error taxonomy so callers can
// classify with [errors.Is].
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return shared.ErrAuthFailed
	case e.StatusCode == http.StatusNotFound:
		return shared.ErrNotFound
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return shared.ErrValidation
	default:
		return shared.ErrServiceUnavailable
	}
}

// VaultService implements [Gateway] against the vault service REST API.
//
// The bearer credential is pulled from an [oauth2.TokenSource] on every
// request, so the current session's token is always the one attached --
// there is no module-level credential state.
type VaultService struct {
	baseURL       string
	httpClient    *http.Client
	tokens        oauth2.TokenSource
	searchLimiter *rate.Limiter
}

// VaultOpts contains construction options for [VaultService].
type VaultOpts struct {
	BaseURL         string
	HTTPClient      *http.Client
	Tokens          oauth2.TokenSource
	SearchRateLimit float64
	Timeout         time.Duration
}

// NewVaultService creates a vault service client.
//
// Tokens may be nil for an anonymous client (public endpoints only).
func NewVaultService(opts VaultOpts) *VaultService {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080/api"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Timeout > 0 && opts.HTTPClient == http.DefaultClient {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.SearchRateLimit <= 0 {
		opts.SearchRateLimit = 5.0
	}

	return &VaultService{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		httpClient:    opts.HTTPClient,
		tokens:        opts.Tokens,
		searchLimiter: rate.NewLimiter(rate.Limit(opts.SearchRateLimit), 1),
	}
}

// SetTokenSource swaps the credential source consulted on each request.
func (v *VaultService) SetTokenSource(ts oauth2.TokenSource) {
	v.tokens = ts
}

// doRequest performs an HTTP request against the vault service, attaching the
// current bearer credential when one is available.
func (v *VaultService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	apiURL := v.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if v.tokens != nil {
		if token, err := v.tokens.Token(); err == nil && token.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		}
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeErrorMessage extracts the server's message field from an error body.
// Returns "" when the body is empty or not the expected shape.
func decodeErrorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func (v *VaultService) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return v.doRequest(ctx, http.MethodPost, "/auth/register", body, nil)
}

func (v *VaultService) Login(ctx context.Context, username, password string) (*Credentials, error) {
	body := map[string]string{"username": username, "password": password}

	var creds Credentials
	if err := v.doRequest(ctx, http.MethodPost, "/auth/login", body, &creds); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}

	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response missing access token", shared.ErrAuthFailed)
	}

	return &creds, nil
}

func (v *VaultService) MySnippets(ctx context.Context) ([]models.Snippet, error) {
	var snippets []models.Snippet
	if err := v.doRequest(ctx, http.MethodGet, "/snippets/my", nil, &snippets); err != nil {
		return nil, err
	}
	return snippets, nil
}

func (v *VaultService) PublicSnippets(ctx context.Context) ([]models.Snippet, error) {
	var snippets []models.Snippet
	if err := v.doRequest(ctx, http.MethodGet, "/snippets/public", nil, &snippets); err != nil {
		return nil, err
	}
	return snippets, nil
}

func (v *VaultService) Favorites(ctx context.Context) ([]models.Snippet, error) {
	var snippets []models.Snippet
	if err := v.doRequest(ctx, http.MethodGet, "/snippets/favorites", nil, &snippets); err != nil {
		return nil, err
	}
	return snippets, nil
}

func (v *VaultService) CreateSnippet(ctx context.Context, draft models.Draft) (*models.Snippet, error) {
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	var snippet models.Snippet
	if err := v.doRequest(ctx, http.MethodPost, "/snippets", draft, &snippet); err != nil {
		return nil, err
	}
	return &snippet, nil
}

func (v *VaultService) UpdateSnippet(ctx context.Context, id int64, draft models.Draft) (*models.Snippet, error) {
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	var snippet models.Snippet
	endpoint := fmt.Sprintf("/snippets/%d", id)
	if err := v.doRequest(ctx, http.MethodPut, endpoint, draft, &snippet); err != nil {
		return nil, err
	}
	return &snippet, nil
}

func (v *VaultService) DeleteSnippet(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("/snippets/%d", id)
	return v.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (v *VaultService) ToggleFavorite(ctx context.Context, id int64) (*models.Snippet, error) {
	var snippet models.Snippet
	endpoint := fmt.Sprintf("/snippets/%d/favorite", id)
	if err := v.doRequest(ctx, http.MethodPatch, endpoint, nil, &snippet); err != nil {
		return nil, err
	}
	return &snippet, nil
}

// SearchMine is rate limited client-side; the limiter wait respects ctx.
func (v *VaultService) SearchMine(ctx context.Context, keyword string) ([]models.Snippet, error) {
	return v.search(ctx, "/snippets/search", keyword)
}

func (v *VaultService) SearchPublic(ctx context.Context, keyword string) ([]models.Snippet, error) {
	return v.search(ctx, "/snippets/public/search", keyword)
}

func (v *VaultService) search(ctx context.Context, path, keyword string) ([]models.Snippet, error) {
	if err := v.searchLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s?keyword=%s", path, url.QueryEscape(keyword))

	var snippets []models.Snippet
	if err := v.doRequest(ctx, http.MethodGet, endpoint, nil, &snippets); err != nil {
		return nil, err
	}
	return snippets, nil
}

func (v *VaultService) PublicSnippet(ctx context.Context, id int64) (*models.Snippet, error) {
	var snippet models.Snippet
	endpoint := fmt.Sprintf("/snippets/public/%d", id)
	if err := v.doRequest(ctx, http.MethodGet, endpoint, nil, &snippet); err != nil {
		return nil, err
	}
	return &snippet, nil
}

func (v *VaultService) Tags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := v.doRequest(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (v *VaultService) PopularTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := v.doRequest(ctx, http.MethodGet, "/tags/popular", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

var _ Gateway = (*VaultService)(nil)
