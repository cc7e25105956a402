// Package password provides Argon2id hashing in PHC string format and
// constant-time comparison against stored digests.
package password
