package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/shared"
	testhelpers "github.com/desertthunder/snipvault/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	t.Run("accepts known scopes case-insensitively", func(t *testing.T) {
		for raw, want := range map[string]Scope{"mine": Mine, "Public": Public, " FAVORITES ": Favorites} {
			got, err := ParseScope(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("rejects unknown scope", func(t *testing.T) {
		_, err := ParseScope("trending")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

func TestFilter(t *testing.T) {
	snippets := testhelpers.Snippets()

	t.Run("empty tag returns full collection", func(t *testing.T) {
		assert.Equal(t, snippets, Filter(snippets, ""))
	})

	t.Run("matches case-insensitively and preserves order", func(t *testing.T) {
		got := Filter(snippets, "Python")
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	})

	t.Run("unmatched tag yields empty", func(t *testing.T) {
		assert.Empty(t, Filter(snippets, "rust"))
	})
}

func TestFacetCounts(t *testing.T) {
	t.Run("counts sum to collection size", func(t *testing.T) {
		snippets := testhelpers.Snippets()
		facets := FacetCounts(snippets)

		total := 0
		for _, f := range facets {
			total += f.Count
		}
		assert.Equal(t, len(snippets), total)
	})

	t.Run("sorted descending with ties in first-encountered order", func(t *testing.T) {
		facets := FacetCounts(testhelpers.Snippets())
		require.Len(t, facets, 3)
		assert.Equal(t, models.LanguageCount{Name: "python", Count: 2}, facets[0])
		assert.Equal(t, models.LanguageCount{Name: "go", Count: 1}, facets[1])
		assert.Equal(t, models.LanguageCount{Name: "sql", Count: 1}, facets[2])
	})

	t.Run("lowercases mixed-case tags into one bucket", func(t *testing.T) {
		facets := FacetCounts([]models.Snippet{
			{ID: 1, Language: "Go"},
			{ID: 2, Language: "go"},
		})
		require.Len(t, facets, 1)
		assert.Equal(t, models.LanguageCount{Name: "go", Count: 2}, facets[0])
	})

	t.Run("empty collection yields no facets", func(t *testing.T) {
		assert.Empty(t, FacetCounts(nil))
	})
}

func TestApplyDelete(t *testing.T) {
	snippets := testhelpers.Snippets()

	t.Run("removes exactly one matching element", func(t *testing.T) {
		out, removed := ApplyDelete(snippets, 2)
		assert.True(t, removed)
		require.Len(t, out, len(snippets)-1)
		for _, s := range out {
			assert.NotEqual(t, int64(2), s.ID)
		}
	})

	t.Run("absent id leaves collection unchanged", func(t *testing.T) {
		out, removed := ApplyDelete(snippets, 99)
		assert.False(t, removed)
		assert.Equal(t, snippets, out)
	})
}

func TestApplyFavoriteToggle(t *testing.T) {
	t.Run("flip in place keeps length and flips the flag", func(t *testing.T) {
		snippets := testhelpers.Snippets()
		out := ApplyFavoriteToggle(snippets, 1, FlipInPlace)
		require.Len(t, out, len(snippets))
		assert.True(t, out[0].IsFavorite)
		// source collection untouched
		assert.False(t, snippets[0].IsFavorite)
	})

	t.Run("remove from list drops the item", func(t *testing.T) {
		snippets := testhelpers.Snippets()
		out := ApplyFavoriteToggle(snippets, 2, RemoveFromList)
		require.Len(t, out, len(snippets)-1)
	})

	t.Run("absent id is a no-op for both policies", func(t *testing.T) {
		snippets := testhelpers.Snippets()
		assert.Equal(t, snippets, ApplyFavoriteToggle(snippets, 99, FlipInPlace))
		assert.Equal(t, snippets, ApplyFavoriteToggle(snippets, 99, RemoveFromList))
	})
}

func TestScopeTogglePolicy(t *testing.T) {
	assert.Equal(t, FlipInPlace, Mine.TogglePolicy())
	assert.Equal(t, FlipInPlace, Public.TogglePolicy())
	assert.Equal(t, RemoveFromList, Favorites.TogglePolicy())
}

func TestStoreFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("routes to the scope's listing endpoint", func(t *testing.T) {
		var mineCalls, favCalls int
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
				mineCalls++
				return testhelpers.Snippets(), nil
			},
			FavoritesFn: func(context.Context) ([]models.Snippet, error) {
				favCalls++
				return testhelpers.Snippets()[1:3], nil
			},
		}

		mine := NewStore(Mine, gw)
		require.NoError(t, mine.Fetch(ctx))
		assert.Len(t, mine.Snippets(), 4)
		assert.Equal(t, 1, mineCalls)
		assert.True(t, mine.Fetched())

		favs := NewStore(Favorites, gw)
		require.NoError(t, favs.Fetch(ctx))
		assert.Len(t, favs.Snippets(), 2)
		assert.Equal(t, 1, favCalls)
	})

	t.Run("failure leaves the prior collection untouched", func(t *testing.T) {
		fail := false
		gw := &testhelpers.MockGateway{
			PublicSnippetsFn: func(context.Context) ([]models.Snippet, error) {
				if fail {
					return nil, shared.ErrNetwork
				}
				return testhelpers.Snippets(), nil
			},
		}

		st := NewStore(Public, gw)
		require.NoError(t, st.Fetch(ctx))

		fail = true
		err := st.Fetch(ctx)
		assert.ErrorIs(t, err, shared.ErrNetwork)
		assert.Len(t, st.Snippets(), 4)
	})

	t.Run("empty listing is a valid outcome", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) { return nil, nil },
		}
		st := NewStore(Mine, gw)
		require.NoError(t, st.Fetch(ctx))
		assert.Empty(t, st.Snippets())
		assert.True(t, st.Fetched())
	})
}

func TestStoreSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the collection and clears the language facet", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
				return testhelpers.Snippets(), nil
			},
			SearchMineFn: func(_ context.Context, keyword string) ([]models.Snippet, error) {
				assert.Equal(t, "fib", keyword)
				return testhelpers.Snippets()[1:2], nil
			},
		}

		st := NewStore(Mine, gw)
		require.NoError(t, st.Fetch(ctx))
		st.SetLanguageFilter("python")
		require.Len(t, st.Filtered(), 2)

		require.NoError(t, st.Search(ctx, "fib"))
		assert.Equal(t, "fib", st.Keyword())
		assert.Empty(t, st.Language())
		assert.Len(t, st.Snippets(), 1)
		assert.Len(t, st.Filtered(), 1)
	})

	t.Run("blank keyword behaves as fetch", func(t *testing.T) {
		var fetches, searches int
		gw := &testhelpers.MockGateway{
			PublicSnippetsFn: func(context.Context) ([]models.Snippet, error) {
				fetches++
				return testhelpers.Snippets(), nil
			},
			SearchPublicFn: func(context.Context, string) ([]models.Snippet, error) {
				searches++
				return nil, nil
			},
		}

		st := NewStore(Public, gw)
		st.SetLanguageFilter("go")
		require.NoError(t, st.Search(ctx, "   "))
		assert.Equal(t, 1, fetches)
		assert.Zero(t, searches)
		assert.Empty(t, st.Keyword())
		assert.Empty(t, st.Language())
	})

	t.Run("empty result set is not an error", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			SearchPublicFn: func(context.Context, string) ([]models.Snippet, error) { return nil, nil },
		}
		st := NewStore(Public, gw)
		require.NoError(t, st.Search(ctx, "nothing"))
		assert.Empty(t, st.Snippets())
	})

	t.Run("failure preserves the prior collection and keyword", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
				return testhelpers.Snippets(), nil
			},
			SearchMineFn: func(context.Context, string) ([]models.Snippet, error) {
				return nil, shared.ErrServiceUnavailable
			},
		}

		st := NewStore(Mine, gw)
		require.NoError(t, st.Fetch(ctx))

		err := st.Search(ctx, "boom")
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
		assert.Len(t, st.Snippets(), 4)
		assert.Empty(t, st.Keyword())
	})

	t.Run("favorites scope has no search", func(t *testing.T) {
		st := NewStore(Favorites, &testhelpers.MockGateway{})
		err := st.Search(ctx, "anything")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

func TestStoreInFlightGuard(t *testing.T) {
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	gw := &testhelpers.MockGateway{
		MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
			close(started)
			<-release
			return testhelpers.Snippets(), nil
		},
	}

	st := NewStore(Mine, gw)

	done := make(chan error, 1)
	go func() { done <- st.Fetch(ctx) }()

	<-started
	assert.True(t, st.InFlight())
	assert.ErrorIs(t, st.Fetch(ctx), shared.ErrRequestInFlight)
	assert.ErrorIs(t, st.Search(ctx, "x"), shared.ErrRequestInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, st.InFlight())

	// Guard releases after failure too.
	st2 := NewStore(Mine, &testhelpers.MockGateway{
		MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
			return nil, errors.New("transient")
		},
	})
	assert.Error(t, st2.Fetch(ctx))
	assert.False(t, st2.InFlight())
}

func TestStoreLocalMutations(t *testing.T) {
	ctx := context.Background()
	gw := &testhelpers.MockGateway{
		MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
			return testhelpers.Snippets(), nil
		},
	}

	st := NewStore(Mine, gw)
	require.NoError(t, st.Fetch(ctx))

	t.Run("local delete shrinks the collection by one", func(t *testing.T) {
		assert.True(t, st.ApplyLocalDelete(4))
		assert.Len(t, st.Snippets(), 3)
		assert.False(t, st.ApplyLocalDelete(4))
	})

	t.Run("facets track the patched collection", func(t *testing.T) {
		facets := st.Facets()
		require.Len(t, facets, 2)
		assert.Equal(t, "python", facets[0].Name)
	})

	t.Run("toggle flips in place for the mine scope", func(t *testing.T) {
		st.ApplyLocalFavoriteToggle(1, st.Scope().TogglePolicy())
		assert.Len(t, st.Snippets(), 3)
		assert.True(t, st.Snippets()[0].IsFavorite)
	})
}

func TestStoreFavoritesScenario(t *testing.T) {
	ctx := context.Background()
	gw := &testhelpers.MockGateway{
		FavoritesFn: func(context.Context) ([]models.Snippet, error) {
			return testhelpers.Snippets()[1:3], nil
		},
	}

	st := NewStore(Favorites, gw)
	require.NoError(t, st.Fetch(ctx))
	require.Len(t, st.Snippets(), 2)

	// Unfavoriting from the favorites view removes the row entirely.
	st.ApplyLocalFavoriteToggle(2, st.Scope().TogglePolicy())
	snippets := st.Snippets()
	require.Len(t, snippets, 1)
	assert.Equal(t, int64(3), snippets[0].ID)
}
