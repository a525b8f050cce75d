package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/session"
	"github.com/desertthunder/snipvault/internal/shared"
	testhelpers "github.com/desertthunder/snipvault/internal/testing"
	"github.com/urfave/cli/v3"
)

// testRunner builds a Runner with a signed-in session, a mock gateway, and
// an isolated cache database.
func testRunner(t *testing.T, gw *testhelpers.MockGateway) (*Runner, *bytes.Buffer) {
	t.Helper()

	loginGW := &testhelpers.MockGateway{
		LoginFn: func(context.Context, string, string) (*services.Credentials, error) {
			return &services.Credentials{Username: "alice", AccessToken: "tok"}, nil
		},
	}
	sess := session.NewStore(session.StoreOpts{Dir: t.TempDir(), Gateway: loginGW})
	if err := sess.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "cache.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Gateway: gw,
		Session: sess,
		Logger:  shared.NewLogger(&bytes.Buffer{}),
		Output:  output,
	})
	return runner, output
}

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "snipvault", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"snipvault"}, args...))
}

func TestSnippetsList(t *testing.T) {
	t.Run("prints the mine scope", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
				return testhelpers.Snippets(), nil
			},
		}
		r, output := testRunner(t, gw)

		if err := runCommand(t, r, "snippets", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		got := output.String()
		for _, want := range []string{"Hello", "Fib", "Sort", "Query"} {
			if !strings.Contains(got, want) {
				t.Errorf("missing %q in output:\n%s", want, got)
			}
		}
	})

	t.Run("language flag narrows the listing", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
				return testhelpers.Snippets(), nil
			},
		}
		r, output := testRunner(t, gw)

		if err := runCommand(t, r, "snippets", "list", "--language", "python"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Hello") || strings.Contains(got, "Fib") {
			t.Errorf("unexpected filtered output:\n%s", got)
		}
	})

	t.Run("facets flag prints language counts", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
				return testhelpers.Snippets(), nil
			},
		}
		r, output := testRunner(t, gw)

		if err := runCommand(t, r, "snippets", "list", "--facets"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		if !strings.Contains(output.String(), "python") {
			t.Errorf("missing facet output:\n%s", output.String())
		}
	})

	t.Run("network failure falls back to the offline cache", func(t *testing.T) {
		online := true
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
				if !online {
					return nil, shared.ErrNetwork
				}
				return testhelpers.Snippets(), nil
			},
		}
		r, output := testRunner(t, gw)

		// First listing populates the cache.
		if err := runCommand(t, r, "snippets", "list"); err != nil {
			t.Fatalf("warm listing failed: %v", err)
		}
		output.Reset()

		online = false
		if err := runCommand(t, r, "snippets", "list"); err != nil {
			t.Fatalf("offline listing failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "offline") || !strings.Contains(got, "Hello") {
			t.Errorf("expected cached offline output, got:\n%s", got)
		}
	})

	t.Run("network failure with a cold cache reports the sync gap", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
				return nil, shared.ErrNetwork
			},
		}
		r, _ := testRunner(t, gw)

		err := runCommand(t, r, "snippets", "list")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not-found for unsynced scope, got %v", err)
		}
	})
}

func TestSnippetsSearch(t *testing.T) {
	t.Run("passes the keyword through", func(t *testing.T) {
		var got string
		gw := &testhelpers.MockGateway{
			SearchMineFn: func(_ context.Context, keyword string) ([]models.Snippet, error) {
				got = keyword
				return testhelpers.Snippets()[:1], nil
			},
		}
		r, output := testRunner(t, gw)

		if err := runCommand(t, r, "snippets", "search", "hello world"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if got != "hello world" {
			t.Errorf("keyword = %q", got)
		}
		if !strings.Contains(output.String(), "Hello") {
			t.Errorf("missing result:\n%s", output.String())
		}
	})

	t.Run("empty result set prints a notice", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			SearchPublicFn: func(context.Context, string) ([]models.Snippet, error) {
				return nil, nil
			},
		}
		r, output := testRunner(t, gw)

		if err := runCommand(t, r, "snippets", "search", "--scope", "public", "nothing"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(output.String(), "No snippets matched") {
			t.Errorf("missing notice:\n%s", output.String())
		}
	})
}

func TestSnippetsCreate(t *testing.T) {
	t.Run("creates from a content file", func(t *testing.T) {
		var created models.Draft
		gw := &testhelpers.MockGateway{
			CreateSnippetFn: func(_ context.Context, d models.Draft) (*models.Snippet, error) {
				created = d
				return &models.Snippet{ID: 9, Title: d.Title}, nil
			},
		}
		r, output := testRunner(t, gw)

		contentFile := filepath.Join(t.TempDir(), "snippet.go")
		if err := os.WriteFile(contentFile, []byte("package main"), 0644); err != nil {
			t.Fatal(err)
		}

		err := runCommand(t, r,
			"snippets", "create",
			"--title", "Main", "--language", "go",
			"--tags", "starter, tooling", "--public",
			"--file", contentFile,
		)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		if created.Content != "package main" || !created.IsPublic {
			t.Errorf("unexpected draft: %+v", created)
		}
		if len(created.Tags) != 2 || created.Tags[0] != "starter" {
			t.Errorf("unexpected tags: %v", created.Tags)
		}
		if !strings.Contains(output.String(), "#9") {
			t.Errorf("missing confirmation:\n%s", output.String())
		}
	})

	t.Run("missing content is rejected before the network", func(t *testing.T) {
		gw := &testhelpers.MockGateway{
			CreateSnippetFn: func(context.Context, models.Draft) (*models.Snippet, error) {
				t.Fatal("create must not be called")
				return nil, nil
			},
		}
		r, _ := testRunner(t, gw)

		err := runCommand(t, r, "snippets", "create", "--title", "x", "--language", "go")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing-argument error, got %v", err)
		}
	})
}

func TestSnippetsEdit(t *testing.T) {
	var updatedID int64
	var updated models.Draft
	gw := &testhelpers.MockGateway{
		MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
			return testhelpers.Snippets(), nil
		},
		UpdateSnippetFn: func(_ context.Context, id int64, d models.Draft) (*models.Snippet, error) {
			updatedID = id
			updated = d
			return &models.Snippet{ID: id, Title: d.Title}, nil
		},
	}
	r, _ := testRunner(t, gw)

	if err := runCommand(t, r, "snippets", "edit", "--id", "2", "--title", "Fib v2"); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if updatedID != 2 {
		t.Errorf("updated id = %d", updatedID)
	}
	if updated.Title != "Fib v2" {
		t.Errorf("title = %q", updated.Title)
	}
	// Untouched fields carry over from the loaded snippet.
	if updated.Language != "go" {
		t.Errorf("language = %q", updated.Language)
	}
}

func TestSnippetsDeleteAndFavorite(t *testing.T) {
	var deleted, toggled int64
	gw := &testhelpers.MockGateway{
		DeleteSnippetFn: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		},
		ToggleFavoriteFn: func(_ context.Context, id int64) (*models.Snippet, error) {
			toggled = id
			return &models.Snippet{ID: id, Title: "Hello", IsFavorite: true}, nil
		},
	}
	r, output := testRunner(t, gw)

	if err := runCommand(t, r, "snippets", "delete", "--id", "3"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted id = %d", deleted)
	}

	if err := runCommand(t, r, "snippets", "favorite", "--id", "1"); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}
	if toggled != 1 {
		t.Errorf("toggled id = %d", toggled)
	}
	if !strings.Contains(output.String(), "★ Favorited") {
		t.Errorf("missing favorite confirmation:\n%s", output.String())
	}
}

func TestRequireAuth(t *testing.T) {
	gw := &testhelpers.MockGateway{}
	sess := session.NewStore(session.StoreOpts{Dir: t.TempDir(), Gateway: gw})
	sess.Restore()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "cache.db")

	r := NewRunner(RunnerOpts{
		Config:  config,
		Gateway: gw,
		Session: sess,
		Logger:  shared.NewLogger(&bytes.Buffer{}),
		Output:  &bytes.Buffer{},
	})

	err := runCommand(t, r, "snippets", "list")
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected not-authenticated, got %v", err)
	}

	// Public listings do not need a session.
	r.gateway = &testhelpers.MockGateway{
		PublicSnippetsFn: func(context.Context) ([]models.Snippet, error) {
			return testhelpers.Snippets()[:1], nil
		},
	}
	if err := runCommand(t, r, "snippets", "list", "--scope", "public"); err != nil {
		t.Errorf("public listing failed: %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	gw := &testhelpers.MockGateway{
		MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
			return testhelpers.Snippets(), nil
		},
		PublicSnippetsFn: func(context.Context) ([]models.Snippet, error) {
			return testhelpers.Snippets()[:2], nil
		},
		FavoritesFn: func(context.Context) ([]models.Snippet, error) {
			return testhelpers.Snippets()[1:3], nil
		},
	}
	r, output := testRunner(t, gw)

	if err := runCommand(t, r, "cache", "sync"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if !strings.Contains(output.String(), "Synced mine (4 snippets)") {
		t.Errorf("missing sync confirmation:\n%s", output.String())
	}

	output.Reset()
	if err := runCommand(t, r, "cache", "status"); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, scope := range []string{"mine", "public", "favorites"} {
		if !strings.Contains(output.String(), scope) {
			t.Errorf("missing %s in status:\n%s", scope, output.String())
		}
	}

	output.Reset()
	if err := runCommand(t, r, "cache", "clear", "--scope", "mine"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	output.Reset()
	if err := runCommand(t, r, "cache", "status"); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if strings.Contains(output.String(), "mine ") {
		t.Errorf("mine scope still cached:\n%s", output.String())
	}
}

func TestExportCommand(t *testing.T) {
	gw := &testhelpers.MockGateway{
		MySnippetsFn: func(context.Context) ([]models.Snippet, error) {
			return testhelpers.Snippets()[:2], nil
		},
	}
	r, output := testRunner(t, gw)

	dir := filepath.Join(t.TempDir(), "out")
	if err := runCommand(t, r, "export", "--format", "markdown", "--output", dir); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if !strings.Contains(output.String(), "Exported 2/2 snippets") {
		t.Errorf("missing export summary:\n%s", output.String())
	}
}

func TestAuthStatus(t *testing.T) {
	r, output := testRunner(t, &testhelpers.MockGateway{})

	if err := runCommand(t, r, "auth", "status"); err != nil {
		t.Fatalf("status failed: %v", err)
	}

	got := output.String()
	if !strings.Contains(got, "authenticated") || !strings.Contains(got, "alice") {
		t.Errorf("unexpected status output:\n%s", got)
	}
}

func TestWriteJSONFailure(t *testing.T) {
	r := NewRunner(RunnerOpts{Output: &testhelpers.FWriter{}, Logger: shared.NewLogger(&bytes.Buffer{})})
	if err := r.writeJSON(map[string]string{"k": "v"}, false); err == nil {
		t.Error("expected write error")
	}
}
