// package formatter provides functions to render snippets to various formats (Markdown, plain text, raw source)
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/desertthunder/snipvault/internal/models"
)

var extensions = map[string]string{
	"javascript": ".js",
	"python":     ".py",
	"java":       ".java",
	"csharp":     ".cs",
	"cpp":        ".cpp",
	"c":          ".c",
	"go":         ".go",
	"rust":       ".rs",
	"ruby":       ".rb",
	"php":        ".php",
	"swift":      ".swift",
	"kotlin":     ".kt",
	"typescript": ".ts",
	"sql":        ".sql",
	"html":       ".html",
	"css":        ".css",
	"bash":       ".sh",
	"powershell": ".ps1",
	"json":       ".json",
	"yaml":       ".yaml",
	"markdown":   ".md",
}

// FileExtension returns the conventional source file extension for a language
// tag, falling back to ".txt" for unknown tags.
func FileExtension(language string) string {
	if ext, ok := extensions[strings.ToLower(language)]; ok {
		return ext
	}
	return ".txt"
}

// Slug derives a filesystem-safe base name from a snippet title.
//
// Non-alphanumeric runs collapse to single underscores; an empty result falls
// back to the snippet id.
func Slug(snippet models.Snippet) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(snippet.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return fmt.Sprintf("snippet_%d", snippet.ID)
	}
	return slug
}

// ToMarkdown renders a snippet as a Markdown document with a fenced code
// block tagged by language.
func ToMarkdown(snippet models.Snippet) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", snippet.Title))
	buf.WriteString(fmt.Sprintf("**Language**: %s\n", snippet.Language))
	if len(snippet.Tags) > 0 {
		buf.WriteString(fmt.Sprintf("**Tags**: %s\n", strings.Join(snippet.Tags, ", ")))
	}
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n", visibility(snippet.IsPublic)))
	if snippet.OwnerUsername != "" {
		buf.WriteString(fmt.Sprintf("**Author**: %s\n", snippet.OwnerUsername))
	}
	if !snippet.UpdatedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Updated**: %s\n", snippet.UpdatedAt.Format("2006-01-02 15:04")))
	}

	buf.WriteString(fmt.Sprintf("\n```%s\n", strings.ToLower(snippet.Language)))
	buf.WriteString(snippet.Content)
	if !strings.HasSuffix(snippet.Content, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("```\n")

	return buf.Bytes()
}

// ToText renders a snippet as plain text with a minimal header.
func ToText(snippet models.Snippet) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Title: %s\n", snippet.Title))
	buf.WriteString(fmt.Sprintf("Language: %s\n", snippet.Language))
	if len(snippet.Tags) > 0 {
		buf.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(snippet.Tags, ", ")))
	}
	buf.WriteString("\n")
	buf.WriteString(snippet.Content)
	if !strings.HasSuffix(snippet.Content, "\n") {
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// ToMetadataJSON generates an indented JSON representation of a snippet's
// metadata without its content.
func ToMetadataJSON(snippet models.Snippet) ([]byte, error) {
	snippet.Content = ""
	data, err := json.MarshalIndent(snippet, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snippet metadata: %w", err)
	}
	return data, nil
}

// SourceExportResult contains the paths of files created by WriteSourceExport
type SourceExportResult struct {
	SourceFile   string
	MetadataFile string
}

// WriteSourceExport writes a snippet's raw content to {base}{ext} with an
// accompanying {base}_metadata.json.
//
// The base path defaults to the slug derived from the title.
func WriteSourceExport(snippet models.Snippet, basePath string) (*SourceExportResult, error) {
	if basePath == "" {
		basePath = Slug(snippet)
	}

	sourceFile := basePath + FileExtension(snippet.Language)
	if err := os.WriteFile(sourceFile, []byte(snippet.Content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write source file: %w", err)
	}

	metadata, err := ToMetadataJSON(snippet)
	if err != nil {
		return nil, err
	}

	metadataFile := basePath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadata, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &SourceExportResult{SourceFile: sourceFile, MetadataFile: metadataFile}, nil
}

// WriteMarkdownExport writes a snippet's Markdown rendering into outputDir,
// named {slug}.md. The directory is created when missing.
func WriteMarkdownExport(snippet models.Snippet, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "."
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdFile := filepath.Join(outputDir, Slug(snippet)+".md")
	if err := os.WriteFile(mdFile, ToMarkdown(snippet), 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// CopyContent places a snippet's raw content on the system clipboard.
func CopyContent(snippet models.Snippet) error {
	if err := clipboard.WriteAll(snippet.Content); err != nil {
		return fmt.Errorf("failed to copy snippet to clipboard: %w", err)
	}
	return nil
}

// CopyText places arbitrary text on the system clipboard.
func CopyText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}
