package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalid is returned for malformed, tampered or expired tokens.
	ErrInvalid = errors.New("invalid token")
	// ErrRevoked is returned for tokens revoked through logout.
	ErrRevoked = errors.New("token has been revoked")
)

// Subject is the identity a token is issued for.
type Subject struct {
	UserID   uint
	Username string
	IsAdmin  bool
}

// Claims are the JWT claims carried by catalog tokens.
type Claims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id stored in the subject claim.
func (c *Claims) UserID() uint {
	id, _ := strconv.ParseUint(c.Subject, 10, 64)
	return uint(id)
}

// RevokedToken records a logged-out token until it would have expired.
type RevokedToken struct {
	JTI       string    `gorm:"column:jti;type:varchar(36);primaryKey"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	RevokedAt time.Time `gorm:"column:revoked_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

// Manager issues, validates and revokes tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	db     *gorm.DB
	now    func() time.Time
}

// NewManager creates a token manager. db stores revocations and may be nil,
// in which case revocation is unavailable.
func NewManager(cfg Config, db *gorm.DB) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TTL(),
		issuer: cfg.Issuer,
		db:     db,
		now:    time.Now,
	}, nil
}

// Issue signs a new token for subject.
func (m *Manager) Issue(subject Subject) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		Username: subject.Username,
		Admin:    subject.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(subject.UserID), 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate parses tokenString and checks signature, expiry, issuer and revocation.
func (m *Manager) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalid
	}

	revoked, err := m.isRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke stores the token id so later validations fail.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if m.db == nil {
		return fmt.Errorf("token revocation requires a database")
	}
	if claims == nil || claims.ID == "" {
		return ErrInvalid
	}

	entry := RevokedToken{JTI: claims.ID, RevokedAt: m.now()}
	if claims.ExpiresAt != nil {
		entry.ExpiresAt = claims.ExpiresAt.Time
	}
	err := m.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// PurgeExpired deletes revocation entries for tokens that have expired anyway.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	if m.db == nil {
		return 0, nil
	}
	res := m.db.WithContext(ctx).Where("expires_at < ?", m.now()).Delete(&RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (m *Manager) isRevoked(ctx context.Context, jti string) (bool, error) {
	if m.db == nil {
		return false, nil
	}
	var count int64
	if err := m.db.WithContext(ctx).Model(&RevokedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return count > 0, nil
}
