// Package web implements an HTMX-based web application mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the TUI workflow using server-side rendering with
// HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Snippet List: Server-rendered table scoped to mine/public/favorites
//  2. Facet Sidebar: HTMX partial swapping the list on language selection
//  3. Snippet Detail: Read-only view with share link and copy button
//  4. Snippet Form: Create/edit form posting drafts with inline validation
//  5. Search: hx-get with debounced keyword input replacing the list
//
// Core Components
//
//   - HTTP Server: extends the internal/server router and middleware stack
//   - Service Integration: Uses the same services.Gateway as the CLI and TUI
//   - Session Management: Cookie-based sessions carrying the vault bearer token
//   - Preview Reuse: /share/{id} pages come from server.PreviewHandler as-is
//
// Routes
//
//	GET  /                    → Snippet list, mine scope (requires auth)
//	GET  /login               → Login form
//	POST /login               → Authenticate against the vault service
//	POST /register            → Create an account then sign in
//	GET  /snippets?scope=     → HTMX partial: scoped list with facets
//	GET  /snippets/search     → HTMX partial: keyword results
//	GET  /snippets/{id}       → Detail view
//	POST /snippets            → Create snippet
//	PUT  /snippets/{id}       → Update snippet
//	DELETE /snippets/{id}     → Delete snippet
//	PATCH /snippets/{id}/star → Toggle favorite, returns updated row partial
//
// Templates
//
//   - base.html: Layout with navigation, auth status
//   - list.html: Scoped table with facet sidebar partials
//   - detail.html: Snippet view with highlighted code block
//   - form.html: Create/edit form with language select
//
// # State Management
//
// Unlike the TUI's in-memory state, the web app persists state in:
//   - Session cookies: the vault access token and username pair
//   - Query parameters: scope, keyword, and selected language facet
//
// Authentication Flow
//
//  1. User visits /, redirected to /login when the session lacks a token
//  2. POST /login exchanges credentials for a bearer token via the gateway
//  3. Session middleware injects the token into gateway calls on protected routes
//  4. A 401 from the vault clears the session and redirects to /login
//
// Dependencies
//
//   - html/template: Server-side rendering
//   - net/http: HTTP server
//   - gorilla/sessions or similar: Cookie management
//
// Implementation Tasks
//
//  1. HTTP server setup reusing server.BasicRouter and RequestLogger
//  2. Template structure with HTMX integration
//  3. Session middleware bridging cookies to the gateway token source
//  4. Scoped list handler with facet partials
//  5. Search handler mirroring the collection view-model semantics
//  6. Form handlers delegating validation to models.Draft
//  7. Favorite toggle returning row partials per scope policy
//  8. Error handling and validation
//
// # Testing Strategy
//
// Use httptest:
//   - Mock services.Gateway for snippet data
//   - Validate HTMX headers and response structure
//   - Test facet partial rendering against collection.FacetCounts
package web
