package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/config"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	inHttp.WriteSuccess(r.Context(), w, http.StatusOK, "ok")
}

func TestAuthenticateAndRequireAdmin(t *testing.T) {
	tokens := auth.NewTokenManager("secret-key", config.Auth{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	user, err := tokens.IssueTokens(context.Background(), uuid.New(), auth.RoleUser)
	assert.NoError(t, err)
	admin, err := tokens.IssueTokens(context.Background(), uuid.New(), auth.RoleAdmin)
	assert.NoError(t, err)

	protected := Authenticate(tokens)(RequireAdmin(http.HandlerFunc(okHandler)))

	testCases := []struct {
		name               string
		authorization      string
		expectedStatusCode int
	}{
		{name: "no header", authorization: "", expectedStatusCode: http.StatusUnauthorized},
		{name: "not bearer", authorization: "Basic abc", expectedStatusCode: http.StatusUnauthorized},
		{name: "invalid token", authorization: "Bearer abc", expectedStatusCode: http.StatusUnauthorized},
		{
			name:               "refresh token as access",
			authorization:      "Bearer " + user.RefreshToken,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{name: "user role", authorization: "Bearer " + user.AccessToken, expectedStatusCode: http.StatusForbidden},
		{name: "admin role", authorization: "Bearer " + admin.AccessToken, expectedStatusCode: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPut, "/admin/orders/1/status", nil)
			if tc.authorization != "" {
				r.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, tc.authorization)
			}

			protected.ServeHTTP(w, r)

			assert.Equal(t, tc.expectedStatusCode, w.Code)
			body := envelope{}
			assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tc.expectedStatusCode == http.StatusOK, body.Success)
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	handler := RecoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := envelope{}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.Success)
}

func TestMaskBody(t *testing.T) {
	actual := maskBody([]byte(`{"email":"kim@dailycoffee.test","password":"secret"}`))

	assert.Equal(t, "kim@dailycoffee.test", actual["email"])
	assert.Equal(t, "****", actual["password"])
	assert.Empty(t, maskBody(nil))
	assert.Empty(t, maskBody([]byte("not json")))
}

func TestLoggingSetsRequestID(t *testing.T) {
	handler := Logging(zerolog.Nop())(http.HandlerFunc(okHandler))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, "req-1")
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(inHttp.KEY_HEADER_REQUEST_ID))
}
