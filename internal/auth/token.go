// Package auth issues and verifies the HS256 access and refresh tokens and hashes
// passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/dailycoffee/internal/config"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/otel"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type TokenManager struct {
	secretKey       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewTokenManager(secretKey string, cfg config.Auth) *TokenManager {
	return &TokenManager{
		secretKey:       []byte(secretKey),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

func (m *TokenManager) sign(userID uuid.UUID, role string, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.APP_DAILY_COFFEE,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
}

func (m *TokenManager) IssueTokens(c context.Context, userID uuid.UUID, role string) (Tokens, error) {
	c, span := otel.Tracer.Start(c, "TokenManager IssueTokens")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "TokenManager IssueTokens").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ROLE, role).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "signing access token").Logger()
	logger.Trace().Msg("signing access token")
	accessToken, err := m.sign(userID, role, constants.AUDIENCE_ACCESS, m.accessTokenTTL)
	if err != nil {
		err = fmt.Errorf("failed signing access token with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Tokens{}, err
	}
	logger.Trace().Msg("signed access token")

	logger = logger.With().Str(constants.KEY_PROCESS, "signing refresh token").Logger()
	logger.Trace().Msg("signing refresh token")
	refreshToken, err := m.sign(userID, role, constants.AUDIENCE_REFRESH, m.refreshTokenTTL)
	if err != nil {
		err = fmt.Errorf("failed signing refresh token with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Tokens{}, err
	}
	logger.Trace().Msg("signed refresh token")

	return Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyToken accepts only tokens signed for audience, so a refresh token can not be
// used as an access token and the other way around.
func (m *TokenManager) VerifyToken(c context.Context, token string, audience string) (*Claims, error) {
	c, span := otel.Tracer.Start(c, "TokenManager VerifyToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "TokenManager VerifyToken").
		Str("audience", audience).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	claims := &Claims{}
	jwtToken, err := jwt.ParseWithClaims(token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secretKey, nil
		},
		jwt.WithAudience(audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.APP_DAILY_COFFEE),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%s: %w", err.Error(), inErrors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("parsed claims")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating token").Logger()
	logger.Trace().Msg("validating token")
	if !jwtToken.Valid {
		err = fmt.Errorf("failed validating token with error=%w", inErrors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return nil, err
	}
	if claims.Subject == "" {
		err = fmt.Errorf("failed validating token with error=%w", inErrors.ErrEmptySubject)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Str(constants.KEY_USER_ID, claims.Subject).Msg("validated token")

	return claims, nil
}

type claimsKey struct{}

func AttachClaims(c context.Context, claims *Claims) context.Context {
	return context.WithValue(c, claimsKey{}, claims)
}

func ClaimsFromContext(c context.Context) (*Claims, bool) {
	claims, ok := c.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

func UserIdFromContext(c context.Context) (uuid.UUID, error) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return uuid.Nil, inErrors.ErrEmptyAuth
	}
	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing subject=%s with error=%s: %w", claims.Subject, err.Error(), inErrors.ErrTokenInvalid)
	}
	return userId, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Join(inErrors.ErrFailedHashPassword, err)
	}
	return string(hashed), nil
}

func ComparePassword(hashed string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	if err != nil {
		return inErrors.ErrInvalidCredentials
	}
	return nil
}
