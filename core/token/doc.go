// Package token issues and validates the bearer tokens used by the catalog API.
//
// Tokens are HS256 JWTs carrying the user id (sub), username and admin flag.
// Every token has a unique id (jti); logout stores that id in the revoked_tokens
// table and Validate rejects it from then on.
package token
