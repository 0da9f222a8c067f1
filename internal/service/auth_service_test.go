package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cloud-classroom/internal/models"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	dir, _ := seedDirectory(t)
	return NewAuthService(dir, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "test"})
}

func TestAuthServiceLogin(t *testing.T) {
	svc := newAuthService(t)

	session, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "alice123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, models.RoleStudent, session.Role)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "alice"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAuthServiceTokenLifecycle(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.IssueToken(context.Background(), models.LoginRequest{Username: "teacher1", Password: "teachpass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "Teacher", resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 2, claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, models.Session{UserID: 2, Username: "teacher1", Role: models.RoleTeacher}, claims.Session())

	require.NoError(t, svc.Logout(context.Background(), claims))
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	again, err := svc.IssueToken(context.Background(), models.LoginRequest{Username: "teacher1", Password: "teachpass"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(again.AccessToken)
	assert.NoError(t, err)
}

func TestAuthServiceRejectsForeignTokens(t *testing.T) {
	svc := newAuthService(t)
	other := newAuthService(t)
	other.config.AccessTokenSecret = "different"

	resp, err := other.IssueToken(context.Background(), models.LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceExpiredToken(t *testing.T) {
	svc := newAuthService(t)
	resp, err := svc.IssueToken(context.Background(), models.LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceLogoutRequiresClaims(t *testing.T) {
	svc := newAuthService(t)
	assert.ErrorIs(t, svc.Logout(context.Background(), nil), appErrors.ErrUnauthorized)
}
