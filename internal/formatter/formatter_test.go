package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/snipvault/internal/models"
	testhelpers "github.com/desertthunder/snipvault/internal/testing"
)

func sampleSnippet() models.Snippet {
	return models.Snippet{
		ID:            42,
		Title:         "Binary Search",
		Content:       "def search(xs, x):\n    pass",
		Language:      "python",
		Tags:          []string{"algorithms", "search"},
		IsPublic:      true,
		OwnerUsername: "alice",
	}
}

func TestFileExtension(t *testing.T) {
	t.Run("maps known languages", func(t *testing.T) {
		cases := map[string]string{
			"python":     ".py",
			"Go":         ".go",
			"TYPESCRIPT": ".ts",
			"bash":       ".sh",
		}
		for lang, want := range cases {
			if got := FileExtension(lang); got != want {
				t.Errorf("FileExtension(%q) = %q, want %q", lang, got, want)
			}
		}
	})

	t.Run("every accepted language has an extension", func(t *testing.T) {
		for _, lang := range models.Languages {
			if FileExtension(lang) == ".txt" {
				t.Errorf("language %q falls back to .txt", lang)
			}
		}
	})

	t.Run("unknown language falls back to txt", func(t *testing.T) {
		if got := FileExtension("brainfuck"); got != ".txt" {
			t.Errorf("expected .txt, got %q", got)
		}
	})
}

func TestSlug(t *testing.T) {
	t.Run("collapses punctuation and spaces", func(t *testing.T) {
		s := sampleSnippet()
		s.Title = "Hello, World! (v2)"
		if got := Slug(s); got != "hello_world_v2" {
			t.Errorf("expected hello_world_v2, got %q", got)
		}
	})

	t.Run("empty title falls back to id", func(t *testing.T) {
		s := sampleSnippet()
		s.Title = "!!!"
		if got := Slug(s); got != "snippet_42" {
			t.Errorf("expected snippet_42, got %q", got)
		}
	})
}

func TestToMarkdown(t *testing.T) {
	md := string(ToMarkdown(sampleSnippet()))

	t.Run("includes title header", func(t *testing.T) {
		if !strings.HasPrefix(md, "# Binary Search\n") {
			t.Errorf("missing title header in:\n%s", md)
		}
	})

	t.Run("includes fenced code block tagged by language", func(t *testing.T) {
		if !strings.Contains(md, "```python\ndef search(xs, x):\n    pass\n```") {
			t.Errorf("missing fenced block in:\n%s", md)
		}
	})

	t.Run("includes metadata lines", func(t *testing.T) {
		for _, want := range []string{"**Language**: python", "**Tags**: algorithms, search", "**Visibility**: public", "**Author**: alice"} {
			if !strings.Contains(md, want) {
				t.Errorf("missing %q in:\n%s", want, md)
			}
		}
	})

	t.Run("private snippet renders private visibility", func(t *testing.T) {
		s := sampleSnippet()
		s.IsPublic = false
		if !strings.Contains(string(ToMarkdown(s)), "**Visibility**: private") {
			t.Error("expected private visibility")
		}
	})
}

func TestToText(t *testing.T) {
	text := string(ToText(sampleSnippet()))

	if !strings.Contains(text, "Title: Binary Search\n") {
		t.Errorf("missing title in:\n%s", text)
	}
	if !strings.Contains(text, "def search(xs, x):") {
		t.Errorf("missing content in:\n%s", text)
	}
	if !strings.HasSuffix(text, "\n") {
		t.Error("text output should end with a newline")
	}
}

func TestToMetadataJSON(t *testing.T) {
	data, err := ToMetadataJSON(sampleSnippet())
	if err != nil {
		t.Fatalf("ToMetadataJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if decoded["title"] != "Binary Search" {
		t.Errorf("expected title, got %v", decoded["title"])
	}
	if decoded["content"] != "" {
		t.Errorf("content should be stripped, got %v", decoded["content"])
	}
	if decoded["isPublic"] != true {
		t.Errorf("expected isPublic true, got %v", decoded["isPublic"])
	}
}

func TestWriteSourceExport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "binary_search")

	result, err := WriteSourceExport(sampleSnippet(), base)
	if err != nil {
		t.Fatalf("WriteSourceExport failed: %v", err)
	}

	if result.SourceFile != base+".py" {
		t.Errorf("unexpected source file %q", result.SourceFile)
	}

	if content := testhelpers.MustReadFile(t, result.SourceFile); content != sampleSnippet().Content {
		t.Errorf("source file content mismatch: %q", content)
	}
	testhelpers.AssertFileExists(t, result.MetadataFile)
}

func TestWriteMarkdownExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := WriteMarkdownExport(sampleSnippet(), dir)
	if err != nil {
		t.Fatalf("WriteMarkdownExport failed: %v", err)
	}

	if filepath.Base(path) != "binary_search.md" {
		t.Errorf("unexpected file name %q", path)
	}

	if content := testhelpers.MustReadFile(t, path); !strings.Contains(content, "# Binary Search") {
		t.Errorf("markdown file missing title:\n%s", content)
	}
}
