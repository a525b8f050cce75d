package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/snipvault/internal/collection"
	"github.com/desertthunder/snipvault/internal/form"
	"github.com/desertthunder/snipvault/internal/formatter"
	"github.com/desertthunder/snipvault/internal/guard"
	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	ListView
	DetailView
	FormView
	ConfirmDeleteView
	FacetView
)

var scopeOrder = []collection.Scope{collection.Mine, collection.Public, collection.Favorites}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	session *session.Store
	gateway services.Gateway
	stores  map[collection.Scope]*collection.Store
	scope   collection.Scope
	form    *form.Controller

	width  int
	height int

	snippetList list.Model
	facetList   list.Model
	listReady   bool

	username textinput.Model
	email    textinput.Model
	password textinput.Model
	register bool
	loginIdx int

	searchInput textinput.Model
	searching   bool

	titleInput   textinput.Model
	tagsInput    textinput.Model
	contentInput textarea.Model
	langIdx      int
	public       bool
	formFocus    int

	detail       *models.Snippet
	deleteTarget *models.Snippet

	status string
	err    error
	help   help.Model
	keys   keyMap
}

type sessionRestoredMsg struct {
	decision guard.Decision
}

type authResultMsg struct {
	err error
}

type collectionLoadedMsg struct {
	scope collection.Scope
	err   error
}

type snippetSavedMsg struct {
	snippet *models.Snippet
	err     error
}

type deleteDoneMsg struct {
	id  int64
	err error
}

type favoriteDoneMsg struct {
	id  int64
	err error
}

type copyDoneMsg struct {
	err error
}

type formLoadedMsg struct{}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess *session.Store, gateway services.Gateway) *Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	searchInput := textinput.New()
	searchInput.Placeholder = "search snippets..."

	titleInput := textinput.New()
	titleInput.Placeholder = "title"

	tagsInput := textinput.New()
	tagsInput.Placeholder = "tags (comma separated)"

	contentInput := textarea.New()
	contentInput.Placeholder = "snippet content"

	return &Model{
		ctx:     ctx,
		view:    LoginView,
		session: sess,
		gateway: gateway,
		stores: map[collection.Scope]*collection.Store{
			collection.Mine:      collection.NewStore(collection.Mine, gateway),
			collection.Public:    collection.NewStore(collection.Public, gateway),
			collection.Favorites: collection.NewStore(collection.Favorites, gateway),
		},
		scope:        collection.Mine,
		form:         form.NewController(gateway),
		username:     username,
		email:        email,
		password:     password,
		searchInput:  searchInput,
		titleInput:   titleInput,
		tagsInput:    tagsInput,
		contentInput: contentInput,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init restores the persisted session before the first frame renders.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		m.session.Restore()
		return sessionRestoredMsg{decision: guard.Resolve(m.session.State())}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.snippetList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FormView:
			return m.handleFormKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		case FacetView:
			return m.handleFacetKeys(msg)
		}

	case sessionRestoredMsg:
		if msg.decision == guard.Allow {
			m.view = ListView
			return m, m.fetchScope(m.scope)
		}
		m.view = LoginView
		return m, nil

	case authResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.password.SetValue("")
		m.view = ListView
		return m, m.fetchScope(m.scope)

	case collectionLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.scope == m.scope {
			m.rebuildList()
		}
		return m, nil

	case formLoadedMsg:
		m.err = nil
		m.populateFormInputs()
		m.view = FormView
		return m, nil

	case snippetSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Saved %q", msg.snippet.Title)
		m.view = ListView
		return m, m.fetchScope(collection.Mine)

	case deleteDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ListView
			return m, nil
		}
		m.err = nil
		for _, store := range m.stores {
			store.ApplyLocalDelete(msg.id)
		}
		m.status = "Snippet deleted"
		m.view = ListView
		m.rebuildList()
		return m, nil

	case favoriteDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		for scope, store := range m.stores {
			store.ApplyLocalFavoriteToggle(msg.id, scope.TogglePolicy())
		}
		m.rebuildList()
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Copied to clipboard"
		}
		return m, nil
	}

	return m.updateActiveComponent(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	case FormView:
		return m.renderForm()
	case ConfirmDeleteView:
		return m.renderConfirm()
	case FacetView:
		return m.renderFacets()
	default:
		return ""
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+r":
		m.register = !m.register
		m.err = nil
		return m, nil
	case "tab", "shift+tab":
		m.cycleLoginFocus(msg.String() == "tab")
		return m, nil
	case "enter":
		return m, m.submitAuth()
	}

	var cmd tea.Cmd
	switch m.loginIdx {
	case 0:
		m.username, cmd = m.username.Update(msg)
	case 1:
		if m.register {
			m.email, cmd = m.email.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case 2:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleLoginFocus(forward bool) {
	fields := 2
	if m.register {
		fields = 3
	}
	if forward {
		m.loginIdx = (m.loginIdx + 1) % fields
	} else {
		m.loginIdx = (m.loginIdx + fields - 1) % fields
	}

	m.username.Blur()
	m.email.Blur()
	m.password.Blur()
	switch m.loginIdx {
	case 0:
		m.username.Focus()
	case 1:
		if m.register {
			m.email.Focus()
		} else {
			m.password.Focus()
		}
	case 2:
		m.password.Focus()
	}
}

func (m *Model) submitAuth() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	register := m.register

	return func() tea.Msg {
		var err error
		if register {
			err = m.session.Register(m.ctx, username, email, password)
		} else {
			err = m.session.Login(m.ctx, username, password)
		}
		return authResultMsg{err: err}
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, m.runSearch(m.searchInput.Value())
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.scope):
		m.cycleScope()
		store := m.stores[m.scope]
		m.rebuildList()
		if !store.Fetched() {
			return m, m.fetchScope(m.scope)
		}
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.searching = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, nil
	case key.Matches(msg, m.keys.filter):
		m.openFacets()
		return m, nil
	case key.Matches(msg, m.keys.create):
		m.form.Reset()
		m.populateFormInputs()
		m.view = FormView
		return m, nil
	case key.Matches(msg, m.keys.edit):
		if m.scope != collection.Mine {
			m.status = "Only your own snippets can be edited"
			return m, nil
		}
		if snippet, ok := m.selectedSnippet(); ok {
			return m, m.loadForEdit(snippet.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if m.scope != collection.Mine {
			m.status = "Only your own snippets can be deleted"
			return m, nil
		}
		if snippet, ok := m.selectedSnippet(); ok {
			m.deleteTarget = &snippet
			m.view = ConfirmDeleteView
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if snippet, ok := m.selectedSnippet(); ok {
			return m, m.toggleFavorite(snippet.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if snippet, ok := m.selectedSnippet(); ok {
			m.detail = &snippet
			m.view = DetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.snippetList, cmd = m.snippetList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.detail = nil
		m.view = ListView
		return m, nil
	case key.Matches(msg, m.keys.copy):
		if m.detail != nil {
			snippet := *m.detail
			return m, func() tea.Msg {
				return copyDoneMsg{err: formatter.CopyContent(snippet)}
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ListView
		return m, nil
	case "tab":
		m.cycleFormFocus()
		return m, nil
	case "ctrl+l":
		m.langIdx = (m.langIdx + 1) % len(models.Languages)
		return m, nil
	case "ctrl+p":
		m.public = !m.public
		return m, nil
	case "ctrl+s":
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case 0:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case 1:
		m.contentInput, cmd = m.contentInput.Update(msg)
	case 2:
		m.tagsInput, cmd = m.tagsInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleFormFocus() {
	m.formFocus = (m.formFocus + 1) % 3
	m.titleInput.Blur()
	m.contentInput.Blur()
	m.tagsInput.Blur()
	switch m.formFocus {
	case 0:
		m.titleInput.Focus()
	case 1:
		m.contentInput.Focus()
	case 2:
		m.tagsInput.Focus()
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.deleteTarget = nil
		m.view = ListView
		return m, nil
	case "y":
		target := m.deleteTarget
		m.deleteTarget = nil
		if target == nil {
			m.view = ListView
			return m, nil
		}
		return m, func() tea.Msg {
			return deleteDoneMsg{id: target.ID, err: m.gateway.DeleteSnippet(m.ctx, target.ID)}
		}
	}
	return m, nil
}

func (m *Model) handleFacetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ListView
		return m, nil
	case "enter":
		if selected := m.facetList.SelectedItem(); selected != nil {
			if facet, ok := selected.(facetItem); ok {
				tag := facet.facet.Name
				if tag == "all languages" {
					tag = ""
				}
				m.stores[m.scope].SetLanguageFilter(tag)
				m.rebuildList()
			}
		}
		m.view = ListView
		return m, nil
	}

	var cmd tea.Cmd
	m.facetList, cmd = m.facetList.Update(msg)
	return m, cmd
}

func (m *Model) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListView:
		if m.listReady {
			m.snippetList, cmd = m.snippetList.Update(msg)
		}
	case FacetView:
		m.facetList, cmd = m.facetList.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleScope() {
	for i, scope := range scopeOrder {
		if scope == m.scope {
			m.scope = scopeOrder[(i+1)%len(scopeOrder)]
			return
		}
	}
}

func (m *Model) selectedSnippet() (models.Snippet, bool) {
	if !m.listReady {
		return models.Snippet{}, false
	}
	selected := m.snippetList.SelectedItem()
	if selected == nil {
		return models.Snippet{}, false
	}
	item, ok := selected.(snippetItem)
	return item.snippet, ok
}

func (m *Model) rebuildList() {
	store := m.stores[m.scope]
	snippets := store.Filtered()

	items := make([]list.Item, len(snippets))
	for i, snippet := range snippets {
		items[i] = snippetItem{snippet: snippet}
	}

	m.snippetList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.snippetList.Title = m.listTitle(store)
	m.snippetList.SetSize(m.width-4, m.height-8)
	m.listReady = true
}

func (m *Model) listTitle(store *collection.Store) string {
	title := fmt.Sprintf("Snippets: %s", m.scope)
	if keyword := store.Keyword(); keyword != "" {
		title = fmt.Sprintf("%s (search: %q)", title, keyword)
	}
	if lang := store.Language(); lang != "" {
		title = fmt.Sprintf("%s [%s]", title, lang)
	}
	return title
}

func (m *Model) openFacets() {
	facets := m.stores[m.scope].Facets()

	items := make([]list.Item, 0, len(facets)+1)
	items = append(items, facetItem{facet: models.LanguageCount{Name: "all languages", Count: len(m.stores[m.scope].Snippets())}})
	for _, facet := range facets {
		items = append(items, facetItem{facet: facet})
	}

	m.facetList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
	m.facetList.Title = "Filter by language"
	m.view = FacetView
}

func (m *Model) populateFormInputs() {
	draft := m.form.Draft()
	m.titleInput.SetValue(draft.Title)
	m.contentInput.SetValue(draft.Content)
	m.tagsInput.SetValue(strings.Join(draft.Tags, ", "))
	m.public = draft.IsPublic
	m.langIdx = 0
	for i, lang := range models.Languages {
		if lang == draft.Language {
			m.langIdx = i
			break
		}
	}
	m.formFocus = 0
	m.titleInput.Focus()
	m.contentInput.Blur()
	m.tagsInput.Blur()
}

func (m *Model) fetchScope(scope collection.Scope) tea.Cmd {
	store := m.stores[scope]
	return func() tea.Msg {
		return collectionLoadedMsg{scope: scope, err: store.Fetch(m.ctx)}
	}
}

func (m *Model) runSearch(keyword string) tea.Cmd {
	scope := m.scope
	store := m.stores[scope]
	return func() tea.Msg {
		return collectionLoadedMsg{scope: scope, err: store.Search(m.ctx, keyword)}
	}
}

func (m *Model) toggleFavorite(id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := m.gateway.ToggleFavorite(m.ctx, id)
		return favoriteDoneMsg{id: id, err: err}
	}
}

func (m *Model) loadForEdit(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.form.LoadForEdit(m.ctx, id); err != nil {
			return collectionLoadedMsg{scope: m.scope, err: err}
		}
		return formLoadedMsg{}
	}
}

func (m *Model) submitForm() tea.Cmd {
	draft := models.Draft{
		Title:    strings.TrimSpace(m.titleInput.Value()),
		Content:  m.contentInput.Value(),
		Language: models.Languages[m.langIdx],
		Tags:     parseTags(m.tagsInput.Value()),
		IsPublic: m.public,
	}
	m.form.SetDraft(draft)

	return func() tea.Msg {
		snippet, err := m.form.Submit(m.ctx)
		return snippetSavedMsg{snippet: snippet, err: err}
	}
}

func parseTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (m *Model) renderLogin() string {
	mode := "Sign in"
	hint := "ctrl+r to register instead"
	if m.register {
		mode = "Create an account"
		hint = "ctrl+r to sign in instead"
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("snipvault: %s", mode)))
	b.WriteString("\n\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")
	if m.register {
		b.WriteString(m.email.View())
		b.WriteString("\n")
	}
	b.WriteString(m.password.View())
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.help.Render(fmt.Sprintf("enter to submit • tab to switch fields • %s • ctrl+c to quit", hint)))
	return b.String()
}

func (m *Model) renderList() string {
	if !m.listReady {
		return styles.help.Render("Loading snippets...")
	}

	var b strings.Builder
	b.WriteString(m.snippetList.View())
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.scope, m.keys.search, m.keys.filter, m.keys.create, m.keys.favorite, m.keys.quit}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return styles.err.Render("No snippet selected")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(m.detail.Title))
	b.WriteString("\n")
	meta := m.detail.Language
	if len(m.detail.Tags) > 0 {
		meta = fmt.Sprintf("%s • %s", meta, strings.Join(m.detail.Tags, ", "))
	}
	if m.detail.OwnerUsername != "" {
		meta = fmt.Sprintf("%s • by %s", meta, m.detail.OwnerUsername)
	}
	b.WriteString(styles.help.Render(meta))
	b.WriteString("\n\n")
	b.WriteString(m.detail.Content)
	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.copy, m.keys.back, m.keys.quit}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderForm() string {
	header := "New snippet"
	if m.form.Editing() {
		header = fmt.Sprintf("Edit snippet #%d", m.form.BoundID())
	}

	visibility := "private"
	if m.public {
		visibility = "public"
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(header))
	b.WriteString("\n")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.contentInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.tagsInput.View())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Language: %s (ctrl+l to cycle)  Visibility: %s (ctrl+p to toggle)", models.Languages[m.langIdx], visibility))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(styles.help.Render("tab to switch fields • ctrl+s to save • esc to cancel"))
	return b.String()
}

func (m *Model) renderConfirm() string {
	if m.deleteTarget == nil {
		return ""
	}

	title := styles.warn.Render(fmt.Sprintf("Delete %q?", m.deleteTarget.Title))
	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	return fmt.Sprintf("%s\n\nThis cannot be undone.\n\n%s", title, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderFacets() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.facetList.View(), m.help.ShortHelpView(helpKeys))
}
