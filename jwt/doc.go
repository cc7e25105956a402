// Package jwt mints and verifies the engine's signed token pairs. Access
// and refresh tokens are HS256-signed with independent secrets and carry a
// type discriminant, so a token of the wrong class fails verification even
// when its signature is sound.
package jwt
