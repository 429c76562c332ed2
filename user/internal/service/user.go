package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/repository"
	inOtel "github.com/Alturino/dailycoffee/user/internal/otel"
	"github.com/Alturino/dailycoffee/user/pkg/request"
	"github.com/Alturino/dailycoffee/user/pkg/response"
)

type UserService struct {
	queries *repository.Queries
	tokens  *auth.TokenManager
}

func NewUserService(queries *repository.Queries, tokens *auth.TokenManager) *UserService {
	return &UserService{queries: queries, tokens: tokens}
}

func (s *UserService) issue(c context.Context, user repository.User) (response.Auth, error) {
	tokens, err := s.tokens.IssueTokens(c, user.ID, string(user.Role))
	if err != nil {
		return response.Auth{}, err
	}
	return response.Auth{
		User:         user.Response(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *UserService) Register(c context.Context, param request.Register) (response.Auth, error) {
	c, span := inOtel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Register").
		Str(constants.KEY_EMAIL, param.Email).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "hashing password").Logger()
	logger.Info().Msg("hashing password")
	hashed, err := auth.HashPassword(param.Password)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting user").Logger()
	logger.Info().Msg("inserting user")
	user, err := s.queries.InsertUser(c, repository.InsertUserParams{
		Email:    param.Email,
		Password: hashed,
		Name:     param.Name,
		Phone:    repository.TextFromString(param.Phone),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			err = inErrors.ErrEmailExist
		}
		err = fmt.Errorf("failed inserting user with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger = logger.With().Str(constants.KEY_USER_ID, user.ID.String()).Logger()
	logger.Info().Msg("inserted user")

	logger = logger.With().Str(constants.KEY_PROCESS, "issuing tokens").Logger()
	logger.Info().Msg("issuing tokens")
	res, err := s.issue(c, user)
	if err != nil {
		err = fmt.Errorf("failed issuing tokens with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("issued tokens")

	return res, nil
}

func (s *UserService) Login(c context.Context, param request.Login) (response.Auth, error) {
	c, span := inOtel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Login").
		Str(constants.KEY_EMAIL, param.Email).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user by email").Logger()
	logger.Info().Msg("finding user by email")
	user, err := s.queries.FindUserByEmail(c, param.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding user by email with error=%w", inErrors.ErrInvalidCredentials)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding user by email with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger = logger.With().Str(constants.KEY_USER_ID, user.ID.String()).Logger()
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(constants.KEY_PROCESS, "verifying password").Logger()
	logger.Info().Msg("verifying password")
	err = auth.ComparePassword(user.Password, param.Password)
	if err != nil {
		err = fmt.Errorf("failed verifying password with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(constants.KEY_PROCESS, "issuing tokens").Logger()
	logger.Info().Msg("issuing tokens")
	res, err := s.issue(c, user)
	if err != nil {
		err = fmt.Errorf("failed issuing tokens with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("issued tokens")

	return res, nil
}

func (s *UserService) Refresh(c context.Context, param request.Refresh) (response.Auth, error) {
	c, span := inOtel.Tracer.Start(c, "UserService Refresh")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "UserService Refresh").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "verifying refresh token").Logger()
	logger.Info().Msg("verifying refresh token")
	claims, err := s.tokens.VerifyToken(c, param.RefreshToken, constants.AUDIENCE_REFRESH)
	if err != nil {
		err = fmt.Errorf("failed verifying refresh token with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("verified refresh token")

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		err = fmt.Errorf("failed parsing subject with error=%w", inErrors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "finding user by id").
		Str(constants.KEY_USER_ID, userID.String()).
		Logger()
	logger.Info().Msg("finding user by id")
	user, err := s.queries.FindUserById(c, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding user by id with error=%w", inErrors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding user by id with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("found user by id")

	logger = logger.With().Str(constants.KEY_PROCESS, "issuing tokens").Logger()
	logger.Info().Msg("issuing tokens")
	res, err := s.issue(c, user)
	if err != nil {
		err = fmt.Errorf("failed issuing tokens with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("issued tokens")

	return res, nil
}

func (s *UserService) FindUserById(c context.Context, userID uuid.UUID) (response.User, error) {
	c, span := inOtel.Tracer.Start(c, "UserService FindUserById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService FindUserById").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PROCESS, "finding user by id").
		Logger()

	logger.Info().Msg("finding user by id")
	user, err := s.queries.FindUserById(c, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = inErrors.ErrUserNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding user by id with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("found user by id")

	return user.Response(), nil
}
