package controller

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/validate"
	inOtel "github.com/Alturino/dailycoffee/product/internal/otel"
	"github.com/Alturino/dailycoffee/product/internal/service"
	"github.com/Alturino/dailycoffee/product/pkg/request"
)

const defaultProductLimit = 12

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(router *mux.Router, service *service.ProductService) {
	controller := ProductController{service: service}

	products := router.PathPrefix("/products").Subrouter()
	products.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	products.HandleFunc("/featured", controller.FindFeaturedProducts).Methods(http.MethodGet)
	products.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)

	categories := router.PathPrefix("/categories").Subrouter()
	categories.HandleFunc("", controller.FindCategories).Methods(http.MethodGet)
	categories.HandleFunc("/{slug}/products", controller.FindCategoryProducts).Methods(http.MethodGet)
}

func parseListProducts(r *http.Request) (request.ListProducts, error) {
	query := r.URL.Query()
	param := request.ListProducts{Search: query.Get("search"), Sort: query.Get("sort")}
	if raw := query.Get("categoryId"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return request.ListProducts{}, fmt.Errorf("categoryId=%s: %w", raw, inErrors.ErrInvalidID)
		}
		param.CategoryID = &categoryID
	}
	return param, nil
}

func (p ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "ProductController FindProducts").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating query").Logger()
	logger.Info().Msg("validating query")
	pagination, err := inHttp.ParsePagination(r, defaultProductLimit, 100)
	if err != nil {
		err = fmt.Errorf("failed parsing pagination with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	param, err := parseListProducts(r)
	if err == nil {
		err = validate.Struct(c, param)
	}
	if err != nil {
		err = fmt.Errorf("failed validating query with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated query")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products").Logger()
	logger.Info().Msg("finding products")
	c = logger.WithContext(c)
	products, meta, err := p.service.FindProducts(c, param, pagination)
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

func (p ProductController) FindFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ProductController FindFeaturedProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindFeaturedProducts").
		Str(constants.KEY_PROCESS, "finding featured products").
		Logger()

	logger.Info().Msg("finding featured products")
	c = logger.WithContext(c)
	products, err := p.service.FindFeaturedProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding featured products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found featured products")

	inHttp.WriteSuccess(c, w, http.StatusOK, products)
}

func (p ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "ProductController FindProductById").Logger()

	productID, err := inHttp.PathUUID(r, "productId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Str(constants.KEY_PROCESS, "finding product by id").
		Logger()
	logger.Info().Msg("finding product by id")
	c = logger.WithContext(c)
	product, err := p.service.FindProductById(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding product by id with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found product by id")

	inHttp.WriteSuccess(c, w, http.StatusOK, product)
}

func (p ProductController) FindCategories(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ProductController FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindCategories").
		Str(constants.KEY_PROCESS, "finding categories").
		Logger()

	logger.Info().Msg("finding categories")
	c = logger.WithContext(c)
	categories, err := p.service.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found categories")

	inHttp.WriteSuccess(c, w, http.StatusOK, categories)
}

func (p ProductController) FindCategoryProducts(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ProductController FindCategoryProducts")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindCategoryProducts").
		Str(constants.KEY_CATEGORY_SLUG, slug).
		Str(constants.KEY_PROCESS, "finding category products").
		Logger()

	logger.Info().Msg("finding category products")
	c = logger.WithContext(c)
	res, err := p.service.FindCategoryProducts(c, slug)
	if err != nil {
		err = fmt.Errorf("failed finding category products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found category products")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}
