// Package zencode implements the credential and session lifecycle engine
// behind the zenCode platform: OTP-gated registration, password login with
// rotating refresh tokens, single-use password-reset tokens, and
// invite-based mentor activation.
//
// All short-lived state (OTP codes, pending registrations, resend counters,
// refresh sessions, reset and invite tokens) lives in Redis under
// deterministic key templates with per-key TTLs. Durable identity records
// live behind the [UserStore] interface; outbound mail behind [Mailer].
// The engine itself holds no mutable in-process state and is safe for
// concurrent use after construction through [Builder.Build].
//
// # Architecture boundaries
//
// zencode is the public surface. It exposes [Engine], [Builder], [Config],
// the error taxonomy in errors.go, and the value types callers exchange
// with it. Token signing lives in the jwt subpackage, refresh-session
// bookkeeping in session, and password hashing in password. The HTTP layer
// (httpapi) and the Mongo-backed user store (userstore) are consumers of
// this package, never the other way around.
package zencode
