// Package server provides HTTP routing, middleware, OAuth callback handling,
// and the transfer review API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation routes
// on [http.ServeMux] method patterns.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow for
// CLI authentication: a temporary server on localhost handles the callback,
// validates the state parameter, exchanges the code, and delivers the token
// through a channel before shutting down. It only processes one callback to
// prevent replay.
//
// # Transfer Review API
//
// [TransferHandler] exposes the review workflow over JSON:
//
//	POST /api/transfers               start a transfer, returns the session
//	GET  /api/transfers               list session summaries
//	GET  /api/transfers/{id}          session detail with per-track results
//	POST /api/transfers/{id}/review   submit decisions for ambiguous tracks
//	POST /api/transfers/{id}/execute  commit the reviewed transfer
//
// Resolution and commit run in the background; clients poll the session
// status to follow progress through the lifecycle in [session.ReviewSession].
package server
