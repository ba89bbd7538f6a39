// Package accounts provides registration, login and logout.
//
// Passwords are stored as bcrypt hashes. Login returns a signed JWT from
// core/token; logout records the token's jti as revoked so the auth
// middleware rejects it until it expires. Admin accounts are created from
// the CLI with `video-catalog user create --admin`.
package accounts
