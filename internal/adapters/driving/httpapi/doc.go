// Package httpapi serves the JSON API over HTTP.
//
// Requests are scoped by header: X-User-ID carries a registered user's
// numeric id, X-Session-ID an anonymous session. Requests with neither are
// rejected with 401.
//
// Routes:
//
//	POST   /v1/search
//	POST   /v1/ask
//	PUT    /v1/videos/{videoId}
//	DELETE /v1/videos/{videoId}
//	PUT    /v1/videos/{videoId}/content/{contentType}
//	POST   /v1/videos/{videoId}/conversation
//	PUT    /v1/collections/{collectionId}/videos/{videoId}
//	GET    /v1/history
//	GET    /healthz
package httpapi
