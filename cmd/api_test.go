package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/config"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/testutil"
)

func TestNewRouter(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	redisClient := testutil.StartRedis(t, c)
	queries := repository.New(pool)

	tokens := auth.NewTokenManager("secret-key", config.Auth{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	router := NewRouter(c, zerolog.Nop(), pool, redisClient, tokens)

	user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
	userTokens, err := tokens.IssueTokens(c, user.ID, string(user.Role))
	assert.NoError(t, err)

	testCases := []struct {
		name               string
		method             string
		target             string
		token              string
		expectedStatusCode int
	}{
		{name: "health check", method: http.MethodGet, target: "/healthz", expectedStatusCode: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", expectedStatusCode: http.StatusOK},
		{name: "public product list", method: http.MethodGet, target: "/products", expectedStatusCode: http.StatusOK},
		{name: "categories", method: http.MethodGet, target: "/categories", expectedStatusCode: http.StatusOK},
		{name: "orders need a token", method: http.MethodGet, target: "/orders", expectedStatusCode: http.StatusUnauthorized},
		{name: "own orders", method: http.MethodGet, target: "/orders", token: userTokens.AccessToken, expectedStatusCode: http.StatusOK},
		{name: "own cart", method: http.MethodGet, target: "/cart", token: userTokens.AccessToken, expectedStatusCode: http.StatusOK},
		{name: "own profile", method: http.MethodGet, target: "/auth/me", token: userTokens.AccessToken, expectedStatusCode: http.StatusOK},
		{name: "admin is forbidden to users", method: http.MethodGet, target: "/admin/users", token: userTokens.AccessToken, expectedStatusCode: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tc.method, tc.target, nil)
			if tc.token != "" {
				r.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, "Bearer "+tc.token)
			}

			router.ServeHTTP(w, r)

			assert.Equal(t, tc.expectedStatusCode, w.Code)
		})
	}
}
