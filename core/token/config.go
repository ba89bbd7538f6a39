package token

import (
	"fmt"
	"time"
)

// minSecretLength is the shortest accepted HMAC secret.
const minSecretLength = 32

// Config holds configuration for token issuance.
type Config struct {
	// JWTSecret signs and verifies tokens (HS256).
	JWTSecret string `mapstructure:"jwt_secret" default:""`
	// TokenTTLMinutes is the lifetime of an issued token.
	TokenTTLMinutes int `mapstructure:"token_ttl_minutes" default:"1440"`
	// Issuer is written to and required in the iss claim.
	Issuer string `mapstructure:"issuer" default:"video-catalog"`
}

// TTL returns the token lifetime.
func (c Config) TTL() time.Duration {
	if c.TokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Validate checks that tokens can be signed safely.
func (c Config) Validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("auth jwt secret must be at least %d characters", minSecretLength)
	}
	return nil
}
