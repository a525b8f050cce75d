// Package services provides the typed HTTP client for the vault service.
//
// The [Gateway] interface lists every REST operation the client consumes:
// auth (register/login), snippet CRUD, per-scope listing, server-side
// keyword search, favorite toggling, public share lookup, and tag facets.
//
// [VaultService] is the production implementation. Each call injects the
// current bearer credential from an [oauth2.TokenSource] supplied by the
// session layer, so credential rotation after login/logout needs no client
// rebuild. Non-2xx responses become [APIError] values that unwrap to the
// sentinels in internal/shared/errors.go:
//
//	401        → shared.ErrAuthFailed
//	404        → shared.ErrNotFound
//	other 4xx  → shared.ErrValidation (server message preserved)
//	5xx        → shared.ErrServiceUnavailable
//
// Transport failures wrap shared.ErrNetwork. Search endpoints are throttled
// with a client-side [rate.Limiter].
package services
