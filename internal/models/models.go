// package models defines the data model shared by the snippet vault client
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Languages is the fixed set of language tags the vault service accepts.
var Languages = []string{
	"javascript", "python", "java", "csharp", "cpp", "c", "go", "rust",
	"ruby", "php", "swift", "kotlin", "typescript", "sql", "html", "css",
	"bash", "powershell", "json", "yaml", "markdown",
}

// ValidLanguage reports whether tag is one of [Languages] (case-insensitive).
func ValidLanguage(tag string) bool {
	tag = strings.ToLower(tag)
	for _, l := range Languages {
		if l == tag {
			return true
		}
	}
	return false
}

// Timestamp wraps [time.Time] to accept the vault service's zone-less
// timestamps ("2006-01-02T15:04:05") in addition to RFC 3339.
type Timestamp struct {
	time.Time
}

const bareLayout = "2006-01-02T15:04:05"

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(bareLayout, raw)
	if err != nil {
		return fmt.Errorf("unrecognized timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Snippet represents a snippet as served by the vault service.
//
// The isFavorite/isPublic JSON names match the service DTO exactly.
type Snippet struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Language      string    `json:"language"`
	Tags          []string  `json:"tags,omitempty"`
	IsFavorite    bool      `json:"isFavorite"`
	IsPublic      bool      `json:"isPublic"`
	OwnerUsername string    `json:"ownerUsername,omitempty"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

// Identity is the locally persisted display identity of the signed-in user.
type Identity struct {
	Username string `json:"username"`
}

// Tag represents a snippet tag with its usage count across snippets.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usageCount"`
}

// LanguageCount is one row of the per-language facet over a collection.
type LanguageCount struct {
	Name  string
	Count int
}

// Draft holds the create/edit form fields before submission.
type Draft struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Language   string   `json:"language"`
	Tags       []string `json:"tags,omitempty"`
	IsPublic   bool     `json:"isPublic"`
	IsFavorite bool     `json:"isFavorite"`
}

// Validate checks that the draft's required fields are non-empty after
// trimming, mirroring the service's NotBlank constraints.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// FromSnippet seeds a draft from an existing snippet for edit mode.
func FromSnippet(s Snippet) Draft {
	return Draft{
		Title:      s.Title,
		Content:    s.Content,
		Language:   s.Language,
		Tags:       s.Tags,
		IsPublic:   s.IsPublic,
		IsFavorite: s.IsFavorite,
	}
}
