package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	inOtel "github.com/Alturino/dailycoffee/address/internal/otel"
	"github.com/Alturino/dailycoffee/address/pkg/request"
	"github.com/Alturino/dailycoffee/address/pkg/response"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/repository"
)

type AddressService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
}

func NewAddressService(pool *pgxpool.Pool, queries *repository.Queries) *AddressService {
	return &AddressService{pool: pool, queries: queries}
}

// inTx runs fn inside a transaction and commits when fn returns nil.
func (s *AddressService) inTx(c context.Context, fn func(qtx *repository.Queries) error) error {
	logger := zerolog.Ctx(c)

	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed initializing transaction with error=%w", err)
	}
	defer func() {
		err := tx.Rollback(c)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Error().Err(err).Msg("failed rolling back transaction")
		}
	}()

	err = fn(s.queries.WithTx(tx))
	if err != nil {
		return err
	}

	err = tx.Commit(c)
	if err != nil {
		return fmt.Errorf("failed committing transaction with error=%w", err)
	}
	return nil
}

func (s *AddressService) FindAddresses(c context.Context, userID uuid.UUID) ([]response.Address, error) {
	c, span := inOtel.Tracer.Start(c, "AddressService FindAddresses")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AddressService FindAddresses").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PROCESS, "finding addresses").
		Logger()

	logger.Info().Msg("finding addresses")
	addresses, err := s.queries.FindAddressesByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding addresses with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("count", len(addresses)).Msg("found addresses")

	res := make([]response.Address, 0, len(addresses))
	for _, address := range addresses {
		res = append(res, address.Response())
	}
	return res, nil
}

// CreateAddress stores a new address. A default address replaces the previous default.
func (s *AddressService) CreateAddress(
	c context.Context,
	userID uuid.UUID,
	param request.CreateAddress,
) (response.Address, error) {
	c, span := inOtel.Tracer.Start(c, "AddressService CreateAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AddressService CreateAddress").
		Str(constants.KEY_USER_ID, userID.String()).
		Object(constants.KEY_REQUEST, param).
		Str(constants.KEY_PROCESS, "inserting address").
		Logger()

	logger.Info().Msg("inserting address")
	var address repository.Address
	err := s.inTx(c, func(qtx *repository.Queries) error {
		if param.IsDefault {
			err := qtx.ClearDefaultAddress(c, userID)
			if err != nil {
				return fmt.Errorf("failed clearing default address with error=%w", err)
			}
		}
		var err error
		address, err = qtx.InsertAddress(c, repository.InsertAddressParams{
			UserID:    userID,
			Name:      param.Name,
			Phone:     param.Phone,
			ZipCode:   param.ZipCode,
			Address1:  param.Address1,
			Address2:  repository.TextFromString(param.Address2),
			IsDefault: param.IsDefault,
		})
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed inserting address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Address{}, err
	}
	logger.Info().Str(constants.KEY_ADDRESS_ID, address.ID.String()).Msg("inserted address")

	return address.Response(), nil
}

func (s *AddressService) UpdateAddress(
	c context.Context,
	userID uuid.UUID,
	addressID uuid.UUID,
	param request.UpdateAddress,
) (response.Address, error) {
	c, span := inOtel.Tracer.Start(c, "AddressService UpdateAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AddressService UpdateAddress").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ADDRESS_ID, addressID.String()).
		Object(constants.KEY_REQUEST, param).
		Str(constants.KEY_PROCESS, "updating address").
		Logger()

	logger.Info().Msg("updating address")
	var address repository.Address
	err := s.inTx(c, func(qtx *repository.Queries) error {
		_, err := qtx.FindAddressByIdAndUserId(c, repository.FindAddressByIdAndUserIdParams{
			ID:     addressID,
			UserID: userID,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return inErrors.ErrAddressNotFound
		}
		if err != nil {
			return fmt.Errorf("failed finding address with error=%w", err)
		}
		if param.IsDefault != nil && *param.IsDefault {
			err = qtx.ClearDefaultAddress(c, userID)
			if err != nil {
				return fmt.Errorf("failed clearing default address with error=%w", err)
			}
		}
		address, err = qtx.UpdateAddress(c, repository.UpdateAddressParams{
			ID:        addressID,
			UserID:    userID,
			Name:      repository.TextFromPointer(param.Name),
			Phone:     repository.TextFromPointer(param.Phone),
			ZipCode:   repository.TextFromPointer(param.ZipCode),
			Address1:  repository.TextFromPointer(param.Address1),
			Address2:  repository.TextFromPointer(param.Address2),
			IsDefault: repository.BoolFromPointer(param.IsDefault),
		})
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed updating address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Address{}, err
	}
	logger.Info().Msg("updated address")

	return address.Response(), nil
}

func (s *AddressService) DeleteAddress(c context.Context, userID uuid.UUID, addressID uuid.UUID) error {
	c, span := inOtel.Tracer.Start(c, "AddressService DeleteAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AddressService DeleteAddress").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ADDRESS_ID, addressID.String()).
		Str(constants.KEY_PROCESS, "deleting address").
		Logger()

	logger.Info().Msg("deleting address")
	deleted, err := s.queries.DeleteAddress(c, repository.DeleteAddressParams{ID: addressID, UserID: userID})
	if err == nil && deleted == 0 {
		err = inErrors.ErrAddressNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed deleting address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted address")

	return nil
}

func (s *AddressService) SetDefaultAddress(
	c context.Context,
	userID uuid.UUID,
	addressID uuid.UUID,
) (response.Address, error) {
	c, span := inOtel.Tracer.Start(c, "AddressService SetDefaultAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AddressService SetDefaultAddress").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ADDRESS_ID, addressID.String()).
		Str(constants.KEY_PROCESS, "setting default address").
		Logger()

	logger.Info().Msg("setting default address")
	var address repository.Address
	err := s.inTx(c, func(qtx *repository.Queries) error {
		_, err := qtx.FindAddressByIdAndUserId(c, repository.FindAddressByIdAndUserIdParams{
			ID:     addressID,
			UserID: userID,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return inErrors.ErrAddressNotFound
		}
		if err != nil {
			return fmt.Errorf("failed finding address with error=%w", err)
		}
		err = qtx.ClearDefaultAddress(c, userID)
		if err != nil {
			return fmt.Errorf("failed clearing default address with error=%w", err)
		}
		address, err = qtx.SetDefaultAddress(c, repository.SetDefaultAddressParams{ID: addressID, UserID: userID})
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed setting default address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Address{}, err
	}
	logger.Info().Msg("set default address")

	return address.Response(), nil
}
