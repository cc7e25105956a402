// Package httpapi exposes the engine over HTTP: a chi router with JSON
// request/response envelopes, bearer-token auth for protected routes, and
// an HttpOnly cookie channel for refresh tokens. Engine failures are
// decoded into status codes exactly once, here.
package httpapi
