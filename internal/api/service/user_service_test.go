package service

import (
	"context"
	"errors"
	"neonttt/Tic-Tac-Toe/internal/api/models"
	"neonttt/Tic-Tac-Toe/internal/api/repository"
	"neonttt/Tic-Tac-Toe/internal/db"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-0123456789")

func newUserService(t *testing.T) UserService {
	t.Helper()
	conn, err := db.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.InitializeDB(conn))
	return NewUserService(repository.NewUserRepository(conn), secret)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestRegisterLoginParseToken(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	registered, err := s.Register(ctx, &models.RegisterRequest{Username: "bob", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "bob", registered.Username)
	assert.Equal(t, UserPlayerID(registered.ID), registered.PlayerID)

	_, err = s.Register(ctx, &models.RegisterRequest{Username: "bob", Password: "other1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := s.Login(ctx, &models.LoginRequest{Username: "bob", Password: "hunter22"})
	require.NoError(t, err)

	userID, err := s.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, registered.PlayerID, resp.PlayerID)
}

func TestParseTokenRejects(t *testing.T) {
	s := newUserService(t)
	now := time.Now()
	valid := jwt.RegisteredClaims{Subject: "7", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}

	tests := []struct {
		name  string
		token string
	}{
		{name: "Garbage", token: "not-a-token"},
		{name: "Wrong secret", token: sign(t, jwt.SigningMethodHS256, []byte("another-secret-0000"), Claims{RegisteredClaims: valid})},
		{name: "Other algorithm", token: sign(t, jwt.SigningMethodHS512, secret, Claims{RegisteredClaims: valid})},
		{name: "Expired", token: sign(t, jwt.SigningMethodHS256, secret, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		}})},
		{name: "No expiry", token: sign(t, jwt.SigningMethodHS256, secret, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "7"}})},
		{name: "Non-numeric subject", token: sign(t, jwt.SigningMethodHS256, secret, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ParseToken(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), err)
		})
	}

	id, err := s.ParseToken(sign(t, jwt.SigningMethodHS256, secret, Claims{RegisteredClaims: valid}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestGuestLogin(t *testing.T) {
	s := newUserService(t)
	a, err := s.GuestLogin(context.Background())
	require.NoError(t, err)
	b, err := s.GuestLogin(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
