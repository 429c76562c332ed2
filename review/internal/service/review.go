package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/repository"
	inOtel "github.com/Alturino/dailycoffee/review/internal/otel"
	"github.com/Alturino/dailycoffee/review/pkg/request"
	"github.com/Alturino/dailycoffee/review/pkg/response"
)

type ReviewService struct {
	queries *repository.Queries
}

func NewReviewService(queries *repository.Queries) *ReviewService {
	return &ReviewService{queries: queries}
}

func (s *ReviewService) FindReviews(
	c context.Context,
	productID uuid.UUID,
	pagination inHttp.Pagination,
) ([]response.Review, inHttp.Meta, error) {
	c, span := inOtel.Tracer.Start(c, "ReviewService FindReviews")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ReviewService FindReviews").
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Any(constants.KEY_PAGINATION, pagination).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Info().Msg("finding product")
	_, err := s.queries.FindProductById(c, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = inErrors.ErrProductNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Msg("found product")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding reviews").Logger()
	logger.Info().Msg("finding reviews")
	rows, err := s.queries.FindReviewsByProductId(c, repository.FindReviewsByProductIdParams{
		ProductID: productID,
		Limit:     pagination.Limit,
		Offset:    pagination.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding reviews with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int("count", len(rows)).Msg("found reviews")

	logger = logger.With().Str(constants.KEY_PROCESS, "counting reviews").Logger()
	logger.Info().Msg("counting reviews")
	total, err := s.queries.CountReviewsByProductId(c, productID)
	if err != nil {
		err = fmt.Errorf("failed counting reviews with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int64("total", total).Msg("counted reviews")

	reviews := make([]response.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.Response())
	}
	return reviews, pagination.Meta(total), nil
}

// CreateReview stores a review of an existing product. The referenced order, when
// given, must belong to the reviewer.
func (s *ReviewService) CreateReview(
	c context.Context,
	userID uuid.UUID,
	param request.CreateReview,
) (response.Review, error) {
	c, span := inOtel.Tracer.Start(c, "ReviewService CreateReview")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ReviewService CreateReview").
		Str(constants.KEY_USER_ID, userID.String()).
		Object(constants.KEY_REQUEST, param).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Info().Msg("finding product")
	_, err := s.queries.FindProductById(c, param.ProductID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = inErrors.ErrProductNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Review{}, err
	}
	logger.Info().Msg("found product")

	if param.OrderID != nil {
		logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
		logger.Info().Msg("finding order")
		_, err = s.queries.FindOrderByIdAndUserId(c, repository.FindOrderByIdAndUserIdParams{
			ID:     *param.OrderID,
			UserID: userID,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		if err != nil {
			err = fmt.Errorf("failed finding order with error=%w", err)
			otel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			return response.Review{}, err
		}
		logger.Info().Msg("found order")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting review").Logger()
	logger.Info().Msg("inserting review")
	review, err := s.queries.InsertReview(c, repository.InsertReviewParams{
		UserID:    userID,
		ProductID: param.ProductID,
		OrderID:   repository.NullUUIDFromPointer(param.OrderID),
		Rating:    param.Rating,
		Content:   param.Content,
		Images:    param.Images,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting review with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Review{}, err
	}
	logger.Info().Str(constants.KEY_REVIEW_ID, review.ID.String()).Msg("inserted review")

	return review.Response(), nil
}

func (s *ReviewService) LikeReview(c context.Context, reviewID uuid.UUID) (response.Review, error) {
	c, span := inOtel.Tracer.Start(c, "ReviewService LikeReview")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ReviewService LikeReview").
		Str(constants.KEY_REVIEW_ID, reviewID.String()).
		Str(constants.KEY_PROCESS, "incrementing review likes").
		Logger()

	logger.Info().Msg("incrementing review likes")
	review, err := s.queries.IncrementReviewLikes(c, reviewID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = inErrors.ErrReviewNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed incrementing review likes with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Review{}, err
	}
	logger.Info().Int32("likes", review.Likes).Msg("incremented review likes")

	return review.Response(), nil
}
