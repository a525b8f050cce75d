// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for the snippet vault:
//  1. [LoginView] : Sign in or register against the vault service
//  2. [ListView] : Browse a scope (mine, public, favorites) with search and language facets
//  3. [DetailView] : Read one snippet with copy-to-clipboard
//  4. [FormView] : Create or edit a snippet draft
//  5. [ConfirmDeleteView] : Confirm a destructive delete
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Session state is restored before the first frame, and the route decision
// (show login or the list) comes from the guard package, so an expired or
// missing token never flashes protected content.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
