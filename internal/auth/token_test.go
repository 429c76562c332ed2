package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/internal/config"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
)

func newManager(ttl time.Duration) *TokenManager {
	return NewTokenManager("secret-key", config.Auth{AccessTokenTTL: ttl, RefreshTokenTTL: ttl})
}

func TestVerifyToken(t *testing.T) {
	c := context.Background()
	userID := uuid.New()
	tokens, err := newManager(time.Minute).IssueTokens(c, userID, RoleAdmin)
	assert.NoError(t, err)

	testCases := []struct {
		name        string
		manager     *TokenManager
		token       string
		audience    string
		expectedErr error
	}{
		{
			name:     "access token verifies as access",
			manager:  newManager(time.Minute),
			token:    tokens.AccessToken,
			audience: constants.AUDIENCE_ACCESS,
		},
		{
			name:     "refresh token verifies as refresh",
			manager:  newManager(time.Minute),
			token:    tokens.RefreshToken,
			audience: constants.AUDIENCE_REFRESH,
		},
		{
			name:        "refresh token is rejected as access",
			manager:     newManager(time.Minute),
			token:       tokens.RefreshToken,
			audience:    constants.AUDIENCE_ACCESS,
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name:        "wrong secret",
			manager:     NewTokenManager("other-secret", config.Auth{AccessTokenTTL: time.Minute}),
			token:       tokens.AccessToken,
			audience:    constants.AUDIENCE_ACCESS,
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name:        "garbage",
			manager:     newManager(time.Minute),
			token:       "not-a-jwt",
			audience:    constants.AUDIENCE_ACCESS,
			expectedErr: inErrors.ErrTokenInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := tc.manager.VerifyToken(c, tc.token, tc.audience)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, claims)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, userID.String(), claims.Subject)
			assert.Equal(t, RoleAdmin, claims.Role)
		})
	}
}

func TestExpiredToken(t *testing.T) {
	c := context.Background()
	manager := newManager(-time.Minute)
	tokens, err := manager.IssueTokens(c, uuid.New(), RoleUser)
	assert.NoError(t, err)

	_, err = manager.VerifyToken(c, tokens.AccessToken, constants.AUDIENCE_ACCESS)
	assert.ErrorIs(t, err, inErrors.ErrTokenInvalid)
}

func TestUserIdFromContext(t *testing.T) {
	userID := uuid.New()

	_, err := UserIdFromContext(context.Background())
	assert.ErrorIs(t, err, inErrors.ErrEmptyAuth)

	c := AttachClaims(context.Background(), &Claims{Role: RoleUser, RegisteredClaims: claimsWithSubject(userID.String())})
	actual, err := UserIdFromContext(c)
	assert.NoError(t, err)
	assert.Equal(t, userID, actual)

	c = AttachClaims(context.Background(), &Claims{RegisteredClaims: claimsWithSubject("nope")})
	_, err = UserIdFromContext(c)
	assert.ErrorIs(t, err, inErrors.ErrTokenInvalid)
}

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hashed)

	assert.NoError(t, ComparePassword(hashed, "password123"))
	assert.ErrorIs(t, ComparePassword(hashed, "password124"), inErrors.ErrInvalidCredentials)
}

func claimsWithSubject(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: subject}
}
