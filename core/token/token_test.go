package token

import (
	"context"
	"strings"
	"testing"
	"time"

	"video-catalog/core/database"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&RevokedToken{}))

	m, err := NewManager(Config{JWTSecret: testSecret, TokenTTLMinutes: 60, Issuer: "test"}, db)
	require.NoError(t, err)
	return m
}

func TestNewManager_RejectsShortSecret(t *testing.T) {
	_, err := NewManager(Config{JWTSecret: "short"}, nil)
	assert.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	m := newTestManager(t)

	signed, issued, err := m.Issue(Subject{UserID: 42, Username: "alice", IsAdmin: true})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Validate(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID())
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.Admin)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestValidate_Rejects(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.Validate(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("Tampered", func(t *testing.T) {
		signed, _, err := m.Issue(Subject{UserID: 1, Username: "bob"})
		require.NoError(t, err)
		parts := strings.Split(signed, ".")
		parts[2] = strings.Repeat("A", len(parts[2]))
		_, err = m.Validate(ctx, strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("OtherSecret", func(t *testing.T) {
		other, err := NewManager(Config{JWTSecret: strings.Repeat("z", 32), Issuer: "test"}, nil)
		require.NoError(t, err)
		signed, _, err := other.Issue(Subject{UserID: 1})
		require.NoError(t, err)
		_, err = m.Validate(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("Expired", func(t *testing.T) {
		signed, _, err := m.Issue(Subject{UserID: 1})
		require.NoError(t, err)
		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { m.now = time.Now }()
		_, err = m.Validate(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "x", Issuer: "test"}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Validate(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestRevoke(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	signed, claims, err := m.Issue(Subject{UserID: 7, Username: "carol"})
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims))
	// Revoking twice is harmless.
	require.NoError(t, m.Revoke(ctx, claims))

	_, err = m.Validate(ctx, signed)
	assert.ErrorIs(t, err, ErrRevoked)

	m.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	purged, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestRevoke_WithoutDatabase(t *testing.T) {
	m, err := NewManager(Config{JWTSecret: testSecret}, nil)
	require.NoError(t, err)
	_, claims, err := m.Issue(Subject{UserID: 1})
	require.NoError(t, err)
	assert.Error(t, m.Revoke(context.Background(), claims))
}
