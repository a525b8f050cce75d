// package collection implements the per-scope snippet list view-model
package collection

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/shared"
)

// Scope identifies which server endpoint backs a snippet list.
type Scope string

const (
	Mine      Scope = "mine"
	Public    Scope = "public"
	Favorites Scope = "favorites"
)

// ParseScope validates a user-supplied scope name.
func ParseScope(raw string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case Mine:
		return Mine, nil
	case Public:
		return Public, nil
	case Favorites:
		return Favorites, nil
	default:
		return "", fmt.Errorf("%w: unknown scope %q", shared.ErrInvalidArgument, raw)
	}
}

// TogglePolicy selects how a favorite toggle patches the local collection.
type TogglePolicy int

const (
	// FlipInPlace flips the isFavorite flag and keeps the item (mine scope).
	FlipInPlace TogglePolicy = iota
	// RemoveFromList drops the item entirely, since it no longer belongs to
	// the favorites set (favorites scope).
	RemoveFromList
)

// TogglePolicy returns the favorite-toggle policy appropriate for the scope.
func (s Scope) TogglePolicy() TogglePolicy {
	if s == Favorites {
		return RemoveFromList
	}
	return FlipInPlace
}

// Filter returns the order-preserving subsequence of snippets whose language
// matches tag case-insensitively. An empty tag returns snippets unchanged.
func Filter(snippets []models.Snippet, tag string) []models.Snippet {
	if tag == "" {
		return snippets
	}

	tag = strings.ToLower(tag)
	filtered := make([]models.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if strings.ToLower(s.Language) == tag {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// FacetCounts maps each lowercase language tag to its occurrence count over
// the collection, sorted descending by count with ties kept in
// first-encountered order. The counts always sum to len(snippets).
func FacetCounts(snippets []models.Snippet) []models.LanguageCount {
	counts := make(map[string]int)
	var order []string

	for _, s := range snippets {
		lang := strings.ToLower(s.Language)
		if _, seen := counts[lang]; !seen {
			order = append(order, lang)
		}
		counts[lang]++
	}

	facets := make([]models.LanguageCount, 0, len(order))
	for _, lang := range order {
		facets = append(facets, models.LanguageCount{Name: lang, Count: counts[lang]})
	}

	// Insertion sort keeps first-encountered order stable between equal counts.
	for i := 1; i < len(facets); i++ {
		for j := i; j > 0 && facets[j].Count > facets[j-1].Count; j-- {
			facets[j], facets[j-1] = facets[j-1], facets[j]
		}
	}

	return facets
}

// ApplyDelete removes the snippet with the given id, if present. Reports
// whether an element was removed; at most one is.
func ApplyDelete(snippets []models.Snippet, id int64) ([]models.Snippet, bool) {
	for i, s := range snippets {
		if s.ID == id {
			out := make([]models.Snippet, 0, len(snippets)-1)
			out = append(out, snippets[:i]...)
			return append(out, snippets[i+1:]...), true
		}
	}
	return snippets, false
}

// ApplyFavoriteToggle patches the collection after a successful server-side
// toggle, according to the caller-selected policy.
func ApplyFavoriteToggle(snippets []models.Snippet, id int64, policy TogglePolicy) []models.Snippet {
	if policy == RemoveFromList {
		out, _ := ApplyDelete(snippets, id)
		return out
	}

	out := make([]models.Snippet, len(snippets))
	copy(out, snippets)
	for i := range out {
		if out[i].ID == id {
			out[i].IsFavorite = !out[i].IsFavorite
			break
		}
	}
	return out
}

// Store is the in-memory projection of one scope's snippet list: the full
// collection as last fetched, an optional selected-language facet, and the
// keyword that produced the collection (empty for a plain fetch).
//
// The in-flight guard serializes requests, so a superseding fetch can only
// be issued after the prior response resolved; responses therefore apply in
// issuance order. Mutation methods patch the full collection; the filtered
// view and facet counts are always recomputed, never hand-mutated.
type Store struct {
	mu       sync.Mutex
	scope    Scope
	gateway  services.Gateway
	snippets []models.Snippet
	language string
	keyword  string
	busy     bool
	fetched  bool
}

// NewStore creates an empty view-model for the given scope.
func NewStore(scope Scope, gateway services.Gateway) *Store {
	return &Store{scope: scope, gateway: gateway}
}

func (st *Store) Scope() Scope { return st.scope }

// Fetch replaces the full collection with the scope's server-side list. The
// fetched set is the new baseline: any keyword association is cleared. On
// failure the prior collection is left untouched.
func (st *Store) Fetch(ctx context.Context) error {
	if err := st.begin(); err != nil {
		return err
	}
	defer st.end()

	snippets, err := st.list(ctx)
	if err != nil {
		return err
	}

	st.mu.Lock()
	st.snippets = snippets
	st.keyword = ""
	st.fetched = true
	st.mu.Unlock()
	return nil
}

// Search replaces the collection with server-side keyword results and clears
// the selected language facet (search and filter are mutually resetting). An
// empty or whitespace keyword behaves as Fetch and also clears the facet.
// An empty result set is a valid, non-error outcome.
func (st *Store) Search(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		st.SetLanguageFilter("")
		return st.Fetch(ctx)
	}

	if err := st.begin(); err != nil {
		return err
	}
	defer st.end()

	var snippets []models.Snippet
	var err error
	switch st.scope {
	case Mine:
		snippets, err = st.gateway.SearchMine(ctx, keyword)
	case Public:
		snippets, err = st.gateway.SearchPublic(ctx, keyword)
	default:
		// The service has no favorites search endpoint.
		return fmt.Errorf("%w: search is not available in the %s scope", shared.ErrInvalidArgument, st.scope)
	}
	if err != nil {
		return err
	}

	st.mu.Lock()
	st.snippets = snippets
	st.keyword = keyword
	st.language = ""
	st.fetched = true
	st.mu.Unlock()
	return nil
}

// SetLanguageFilter sets or clears the selected-language facet without
// refetching; "" clears. The filtered view is derived on read.
func (st *Store) SetLanguageFilter(tag string) {
	st.mu.Lock()
	st.language = strings.ToLower(strings.TrimSpace(tag))
	st.mu.Unlock()
}

// ApplyLocalDelete patches the collection after a successful server-side
// delete, avoiding a refetch.
func (st *Store) ApplyLocalDelete(id int64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	var removed bool
	st.snippets, removed = ApplyDelete(st.snippets, id)
	return removed
}

// ApplyLocalFavoriteToggle patches the collection after a successful
// server-side favorite toggle. The caller selects the policy, usually via
// [Scope.TogglePolicy].
func (st *Store) ApplyLocalFavoriteToggle(id int64, policy TogglePolicy) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snippets = ApplyFavoriteToggle(st.snippets, id, policy)
}

// Snippets returns a copy of the full collection.
func (st *Store) Snippets() []models.Snippet {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]models.Snippet, len(st.snippets))
	copy(out, st.snippets)
	return out
}

// Filtered returns the derived view: the full collection narrowed by the
// selected language, or the whole collection when no facet is selected.
func (st *Store) Filtered() []models.Snippet {
	st.mu.Lock()
	defer st.mu.Unlock()
	return Filter(st.snippets, st.language)
}

// Facets returns the per-language counts over the full collection.
func (st *Store) Facets() []models.LanguageCount {
	st.mu.Lock()
	defer st.mu.Unlock()
	return FacetCounts(st.snippets)
}

// Language returns the selected facet tag, "" when none.
func (st *Store) Language() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.language
}

// Keyword returns the keyword that produced the current collection, "" for a
// plain fetch.
func (st *Store) Keyword() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.keyword
}

// Fetched reports whether any fetch or search has completed. Lets callers
// distinguish "not loaded yet" from a legitimately empty scope.
func (st *Store) Fetched() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.fetched
}

// InFlight reports whether a request is currently outstanding; callers use
// it to disable duplicate triggers and drive loading indicators.
func (st *Store) InFlight() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.busy
}

func (st *Store) begin() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.busy {
		return shared.ErrRequestInFlight
	}
	st.busy = true
	return nil
}

func (st *Store) end() {
	st.mu.Lock()
	st.busy = false
	st.mu.Unlock()
}

func (st *Store) list(ctx context.Context) ([]models.Snippet, error) {
	switch st.scope {
	case Mine:
		return st.gateway.MySnippets(ctx)
	case Public:
		return st.gateway.PublicSnippets(ctx)
	case Favorites:
		return st.gateway.Favorites(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", shared.ErrInvalidArgument, st.scope)
	}
}
