package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/shared"
	lru "github.com/hashicorp/golang-lru/v2"
)

const previewCacheSize = 128

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}} - snipvault</title>
  <style>
    body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
    pre { background: #f4f4f4; padding: 1rem; overflow-x: auto; border-radius: 4px; }
    .meta { color: #666; font-size: 0.9rem; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p class="meta">{{.Language}}{{if .OwnerUsername}} &middot; by {{.OwnerUsername}}{{end}}{{if .Tags}} &middot; {{range .Tags}}#{{.}} {{end}}{{end}}</p>
  <pre><code>{{.Content}}</code></pre>
</body>
</html>
`))

// PreviewHandler renders read-only HTML previews of publicly shared snippets.
// Implements the Handler interface for registration with a Router.
//
// Successful lookups are memoized in a fixed-size LRU cache so repeated hits
// on a popular share link do not refetch from the vault service. Misses and
// errors are never cached, so a snippet made public after a failed lookup
// becomes visible immediately.
type PreviewHandler struct {
	gateway services.Gateway
	cache   *lru.Cache[int64, models.Snippet]
	logger  *log.Logger
}

// NewPreviewHandler creates a preview handler backed by the given gateway.
func NewPreviewHandler(gateway services.Gateway, logger *log.Logger) (*PreviewHandler, error) {
	cache, err := lru.New[int64, models.Snippet](previewCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create preview cache: %w", err)
	}

	return &PreviewHandler{gateway: gateway, cache: cache, logger: logger}, nil
}

// Routes returns the HTTP routes this handler serves.
func (h *PreviewHandler) Routes() []string {
	return []string{"GET /share/{id}"}
}

// ServeHTTP resolves the snippet id, fetches (or recalls) the public
// snippet, and renders the preview page.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid snippet id", http.StatusBadRequest)
		return
	}

	snippet, ok := h.cache.Get(id)
	if !ok {
		fetched, err := h.gateway.PublicSnippet(r.Context(), id)
		if err != nil {
			h.logger.Warn("preview lookup failed", "id", id, "error", err)
			if errors.Is(err, shared.ErrNotFound) {
				http.Error(w, "Snippet not found or not public", http.StatusNotFound)
				return
			}
			http.Error(w, "Snippet service unavailable", http.StatusBadGateway)
			return
		}
		snippet = *fetched
		h.cache.Add(id, snippet)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, snippet); err != nil {
		h.logger.Error("failed to render preview", "id", id, "error", err)
	}
}

// PreviewServer hosts the share preview handler on a local HTTP listener.
type PreviewServer struct {
	router *BasicRouter
	addr   string
	logger *log.Logger
}

// NewPreviewServer wires a router with request logging, a health endpoint,
// and the share preview handler.
func NewPreviewServer(gateway services.Gateway, host string, port int, logger *log.Logger) (*PreviewServer, error) {
	handler, err := NewPreviewHandler(gateway, logger)
	if err != nil {
		return nil, err
	}

	router := NewBasicRouter()
	router.Use(RequestLogger(logger))
	router.Handler(handler)
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}))

	return &PreviewServer{
		router: router,
		addr:   net.JoinHostPort(host, strconv.Itoa(port)),
		logger: logger,
	}, nil
}

// Addr returns the listen address.
func (s *PreviewServer) Addr() string {
	return s.addr
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully with a short drain window.
func (s *PreviewServer) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", s.addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down preview server: %w", err)
		}
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server failed: %w", err)
	}
}
