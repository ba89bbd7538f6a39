package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"video-catalog/core/database"
	"video-catalog/core/token"
	"video-catalog/core/validation"
	"video-catalog/feature/accounts/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testSecret = strings.Repeat("s", 32)

func setupService(t *testing.T) (*Service, *token.Manager, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &models.User{}, &token.RevokedToken{}))

	tokens, err := token.NewManager(token.Config{JWTSecret: testSecret, TokenTTLMinutes: 60, Issuer: "test"}, db)
	require.NoError(t, err)

	svc := NewService(db, tokens, zap.NewNop())
	svc.cost = bcrypt.MinCost
	return svc, tokens, db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens, db := setupService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Username: " alice ", Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice", session.User.Username)
	assert.False(t, session.User.IsAdmin)

	claims, err := tokens.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID())
	assert.Equal(t, "alice", claims.Username)

	var stored models.User
	require.NoError(t, db.First(&stored, session.User.ID).Error)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)

	loggedIn, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, loggedIn.Token)

	_, err = svc.Login(ctx, LoginInput{Username: "alice", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Username: "bob", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "", Password: "short"})
	var vErr *validation.RequestValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "username is required; password must be at least 8 characters", err.Error())

	_, err = svc.Register(ctx, RegisterInput{Username: "carol", Email: "nope", Password: "long enough"})
	assert.EqualError(t, err, "email must be a valid email address")

	_, err = svc.Register(ctx, RegisterInput{Username: "carol", Password: "long enough"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "carol", Password: "long enough"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, tokens, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Username: "dave", Password: "password1"})
	require.NoError(t, err)
	claims, err := tokens.Validate(ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = tokens.Validate(ctx, session.Token)
	assert.ErrorIs(t, err, token.ErrRevoked)
	assert.ErrorIs(t, svc.Logout(ctx, nil), token.ErrInvalid)
}

func TestCreateUser(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	admin, err := svc.CreateUser(ctx, "root", "x", true)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	session, err := svc.Login(ctx, LoginInput{Username: "root", Password: "x"})
	require.NoError(t, err)
	assert.True(t, session.User.IsAdmin)

	_, err = svc.CreateUser(ctx, " ", "x", false)
	assert.Error(t, err)
	_, err = svc.CreateUser(ctx, "root", "y", false)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_MultiBytePasswordTooLong(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()

	// 72 characters, 144 bytes.
	password := strings.Repeat("é", 72)
	_, err := svc.Register(ctx, RegisterInput{Username: "frank", Password: password})
	var vErr *validation.RequestValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "password must be at most 72 bytes", err.Error())

	_, err = svc.CreateUser(ctx, "root", password, true)
	assert.True(t, errors.As(err, &vErr))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	// 36 characters, 72 bytes.
	_, err = svc.Register(ctx, RegisterInput{Username: "frank", Password: strings.Repeat("é", 36)})
	assert.NoError(t, err)
}

func TestIsAdmin(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "helen", "password1", true)
	require.NoError(t, err)

	admin, err := svc.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, admin)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_admin", false).Error)
	admin, err = svc.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, admin)

	_, err = svc.IsAdmin(ctx, user.ID+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
