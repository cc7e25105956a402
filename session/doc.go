// Package session is the refresh-session registry: it binds refresh-token
// identifiers to user ids in Redis so refresh tokens can be rotated and
// revoked server-side. A signed refresh token whose identifier no longer
// resolves here is dead regardless of its remaining signature validity.
package session
