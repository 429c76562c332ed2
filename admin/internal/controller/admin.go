package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inOtel "github.com/Alturino/dailycoffee/admin/internal/otel"
	"github.com/Alturino/dailycoffee/admin/internal/service"
	"github.com/Alturino/dailycoffee/admin/pkg/request"
	"github.com/Alturino/dailycoffee/internal/constants"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/middleware"
	"github.com/Alturino/dailycoffee/internal/otel"
	productRequest "github.com/Alturino/dailycoffee/product/pkg/request"
)

const (
	defaultAdminLimit = 20
	maxAdminLimit     = 100
)

type AdminController struct {
	service *service.AdminService
}

func AttachAdminController(router *mux.Router, service *service.AdminService, authenticate mux.MiddlewareFunc) {
	controller := AdminController{service: service}

	router = router.PathPrefix("/admin").Subrouter()
	router.Use(authenticate, middleware.RequireAdmin)
	router.HandleFunc("/products", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/products", controller.CreateProduct).Methods(http.MethodPost)
	router.HandleFunc("/products/{productId}", controller.UpdateProduct).Methods(http.MethodPut)
	router.HandleFunc("/products/{productId}", controller.DeleteProduct).Methods(http.MethodDelete)
	router.HandleFunc("/orders", controller.FindOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/{orderId}/status", controller.UpdateOrderStatus).Methods(http.MethodPut)
	router.HandleFunc("/users", controller.FindUsers).Methods(http.MethodGet)
}

func (a AdminController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AdminController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AdminController FindProducts").Logger()

	pagination, err := inHttp.ParsePagination(r, defaultAdminLimit, maxAdminLimit)
	if err != nil {
		err = fmt.Errorf("failed parsing pagination with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products").Logger()
	logger.Info().Msg("finding products")
	c = logger.WithContext(c)
	products, meta, err := a.service.FindProducts(c, pagination)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found products")

	inHttp.WriteSuccessWithMeta(c, w, http.StatusOK, products, meta)
}

func (a AdminController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AdminController CreateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AdminController CreateProduct").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := productRequest.Product{}
	err := inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "creating product").Logger()
	logger.Info().Msg("creating product")
	c = logger.WithContext(c)
	product, err := a.service.CreateProduct(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("created product")

	inHttp.WriteSuccess(c, w, http.StatusCreated, product)
}

func (a AdminController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AdminController UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AdminController UpdateProduct").Logger()

	productID, err := inHttp.PathUUID(r, "productId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PRODUCT_ID, productID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := productRequest.UpdateProduct{}
	err = inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating product").Logger()
	logger.Info().Msg("updating product")
	c = logger.WithContext(c)
	product, err := a.service.UpdateProduct(c, productID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("updated product")

	inHttp.WriteSuccess(c, w, http.StatusOK, product)
}

func (a AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AdminController DeleteProduct")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AdminController DeleteProduct").Logger()

	productID, err := inHttp.PathUUID(r, "productId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Str(constants.KEY_PROCESS, "deleting product").
		Logger()
	logger.Info().Msg("deleting product")
	c = logger.WithContext(c)
	err = a.service.DeleteProduct(c, productID)
	if err != nil {
		err = fmt.Errorf("failed deleting product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("deleted product")

	inHttp.WriteSuccess(c, w, http.StatusOK, map[string]string{"id": productID.String()})
}

func (a AdminController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AdminController FindOrders")
	defer span.End()

	status := r.URL.Query().Get("status")
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AdminController FindOrders").
		Str(constants.KEY_ORDER_STATUS, status).
		Logger()

	pagination, err := inHttp.ParsePagination(r, defaultAdminLimit, maxAdminLimit)
	if err != nil {
		err = fmt.Errorf("failed parsing pagination with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	orders, meta, err := a.service.FindOrders(c, status, pagination)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found orders")

	inHttp.WriteSuccessWithMeta(c, w, http.StatusOK, orders, meta)
}

func (a AdminController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AdminController UpdateOrderStatus")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AdminController UpdateOrderStatus").Logger()

	orderID, err := inHttp.PathUUID(r, "orderId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, orderID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.UpdateOrderStatus{}
	err = inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating order status").Logger()
	logger.Info().Msg("updating order status")
	c = logger.WithContext(c)
	order, err := a.service.UpdateOrderStatus(c, orderID, reqBody.Status)
	if err != nil {
		err = fmt.Errorf("failed updating order status with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("updated order status")

	inHttp.WriteSuccess(c, w, http.StatusOK, order)
}

func (a AdminController) FindUsers(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AdminController FindUsers")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AdminController FindUsers").Logger()

	pagination, err := inHttp.ParsePagination(r, defaultAdminLimit, maxAdminLimit)
	if err != nil {
		err = fmt.Errorf("failed parsing pagination with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding users").Logger()
	logger.Info().Msg("finding users")
	c = logger.WithContext(c)
	users, meta, err := a.service.FindUsers(c, pagination)
	if err != nil {
		err = fmt.Errorf("failed finding users with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found users")

	inHttp.WriteSuccessWithMeta(c, w, http.StatusOK, users, meta)
}
