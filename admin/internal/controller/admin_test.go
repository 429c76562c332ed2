package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/admin/internal/service"
	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/config"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/middleware"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/testutil"
)

type envelope struct {
	Data struct {
		Status string `json:"status"`
	} `json:"data"`
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func TestUpdateOrderStatus(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	redisClient := testutil.StartRedis(t, c)
	queries := repository.New(pool)

	tokens := auth.NewTokenManager("secret-key", config.Auth{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	router := mux.NewRouter()
	AttachAdminController(router, service.NewAdminService(pool, queries, redisClient), middleware.Authenticate(tokens))

	buyer := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
	admin := testutil.SeedUser(t, c, queries, repository.UserRoleADMIN)
	order, err := queries.InsertOrder(c, repository.InsertOrderParams{
		UserID:          buyer.ID,
		ShippingAddress: []byte(`{"name":"Kim Minji","phone":"010-1234-5678","zipCode":"04524","address1":"Sejong-daero"}`),
		PaymentMethod:   "CARD",
		TotalAmount:     repository.NumericFromDecimal(decimal.NewFromInt(41600)),
	})
	assert.NoError(t, err)

	buyerTokens, err := tokens.IssueTokens(c, buyer.ID, string(buyer.Role))
	assert.NoError(t, err)
	adminTokens, err := tokens.IssueTokens(c, admin.ID, string(admin.Role))
	assert.NoError(t, err)

	testCases := []struct {
		name               string
		token              string
		body               string
		expectedStatusCode int
		expectedStatus     repository.OrderStatus
	}{
		{
			name:               "without token",
			body:               `{"status":"PAID"}`,
			expectedStatusCode: http.StatusUnauthorized,
			expectedStatus:     repository.OrderStatusPENDING,
		},
		{
			name:               "non admin is forbidden",
			token:              buyerTokens.AccessToken,
			body:               `{"status":"PAID"}`,
			expectedStatusCode: http.StatusForbidden,
			expectedStatus:     repository.OrderStatusPENDING,
		},
		{
			name:               "unknown status",
			token:              adminTokens.AccessToken,
			body:               `{"status":"LOST"}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedStatus:     repository.OrderStatusPENDING,
		},
		{
			name:               "admin updates status",
			token:              adminTokens.AccessToken,
			body:               `{"status":"PAID"}`,
			expectedStatusCode: http.StatusOK,
			expectedStatus:     repository.OrderStatusPAID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(
				http.MethodPut,
				"/admin/orders/"+order.ID.String()+"/status",
				strings.NewReader(tc.body),
			)
			if tc.token != "" {
				r.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, "Bearer "+tc.token)
			}

			router.ServeHTTP(w, r)

			assert.Equal(t, tc.expectedStatusCode, w.Code)
			body := envelope{}
			assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tc.expectedStatusCode == http.StatusOK, body.Success)
			if body.Success {
				assert.Equal(t, string(tc.expectedStatus), body.Data.Status)
			}

			row, err := queries.FindOrderById(c, order.ID)
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, row.Order.Status)
		})
	}
}

func TestAdminRoutes(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	redisClient := testutil.StartRedis(t, c)
	queries := repository.New(pool)

	tokens := auth.NewTokenManager("secret-key", config.Auth{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	router := mux.NewRouter()
	AttachAdminController(router, service.NewAdminService(pool, queries, redisClient), middleware.Authenticate(tokens))

	admin := testutil.SeedUser(t, c, queries, repository.UserRoleADMIN)
	adminTokens, err := tokens.IssueTokens(c, admin.ID, string(admin.Role))
	assert.NoError(t, err)

	testCases := []struct {
		name               string
		method             string
		target             string
		body               string
		expectedStatusCode int
	}{
		{name: "list products", method: http.MethodGet, target: "/admin/products", expectedStatusCode: http.StatusOK},
		{name: "list orders", method: http.MethodGet, target: "/admin/orders?status=PAID", expectedStatusCode: http.StatusOK},
		{name: "list orders with unknown status", method: http.MethodGet, target: "/admin/orders?status=LOST", expectedStatusCode: http.StatusBadRequest},
		{name: "list users", method: http.MethodGet, target: "/admin/users?limit=5", expectedStatusCode: http.StatusOK},
		{name: "invalid limit", method: http.MethodGet, target: "/admin/users?limit=500", expectedStatusCode: http.StatusBadRequest},
		{
			name:               "create product without name",
			method:             http.MethodPost,
			target:             "/admin/products",
			body:               `{"slug":"no-name","price":1000}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{name: "delete with invalid id", method: http.MethodDelete, target: "/admin/products/abc", expectedStatusCode: http.StatusBadRequest},
		{
			name:               "delete unknown product",
			method:             http.MethodDelete,
			target:             "/admin/products/4b8e7c4e-8f62-4f0e-9d55-5d1f3b2a9c10",
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			r.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, "Bearer "+adminTokens.AccessToken)

			router.ServeHTTP(w, r)

			assert.Equal(t, tc.expectedStatusCode, w.Code)
		})
	}
}
