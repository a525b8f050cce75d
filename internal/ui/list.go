package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/snipvault/internal/models"
)

var (
	_ list.Item = snippetItem{}
	_ list.Item = facetItem{}
)

// snippetItem wraps [models.Snippet] to implement [list.Item].
type snippetItem struct {
	snippet models.Snippet
}

func (i snippetItem) FilterValue() string { return i.snippet.Title }
func (i snippetItem) Title() string {
	title := i.snippet.Title
	if i.snippet.IsFavorite {
		title = "★ " + title
	}
	return title
}
func (i snippetItem) Description() string {
	desc := i.snippet.Language
	if len(i.snippet.Tags) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(i.snippet.Tags, ", "))
	}
	if i.snippet.OwnerUsername != "" {
		desc = fmt.Sprintf("%s • by %s", desc, i.snippet.OwnerUsername)
	}
	return desc
}

// facetItem wraps [models.LanguageCount] to implement [list.Item].
type facetItem struct {
	facet models.LanguageCount
}

func (i facetItem) FilterValue() string { return i.facet.Name }
func (i facetItem) Title() string       { return i.facet.Name }
func (i facetItem) Description() string {
	return fmt.Sprintf("%d snippets", i.facet.Count)
}
