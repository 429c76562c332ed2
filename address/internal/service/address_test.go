package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/address/pkg/request"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/testutil"
)

func TestAddressService(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	queries := repository.New(pool)
	addressService := NewAddressService(pool, queries)

	home := request.CreateAddress{
		Name:      "Home",
		Phone:     "010-1111-2222",
		ZipCode:   "04524",
		Address1:  "110 Sejong-daero",
		IsDefault: true,
	}
	office := request.CreateAddress{
		Name:     "Office",
		Phone:    "010-3333-4444",
		ZipCode:  "06236",
		Address1: "152 Teheran-ro",
		Address2: "12F",
	}

	defaults := func(t *testing.T, userID uuid.UUID) []string {
		t.Helper()
		addresses, err := addressService.FindAddresses(c, userID)
		assert.NoError(t, err)
		res := []string{}
		for _, a := range addresses {
			if a.IsDefault {
				res = append(res, a.Name)
			}
		}
		return res
	}

	t.Run("default address is listed first", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		_, err := addressService.CreateAddress(c, user.ID, home)
		assert.NoError(t, err)
		_, err = addressService.CreateAddress(c, user.ID, office)
		assert.NoError(t, err)

		addresses, err := addressService.FindAddresses(c, user.ID)
		assert.NoError(t, err)
		assert.Len(t, addresses, 2)
		assert.Equal(t, "Home", addresses[0].Name)
		assert.Equal(t, "Office", addresses[1].Name)
	})

	t.Run("new default replaces the previous one", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		_, err := addressService.CreateAddress(c, user.ID, home)
		assert.NoError(t, err)

		second := office
		second.IsDefault = true
		_, err = addressService.CreateAddress(c, user.ID, second)
		assert.NoError(t, err)

		assert.Equal(t, []string{"Office"}, defaults(t, user.ID))
	})

	t.Run("set default and update", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		_, err := addressService.CreateAddress(c, user.ID, home)
		assert.NoError(t, err)
		created, err := addressService.CreateAddress(c, user.ID, office)
		assert.NoError(t, err)

		res, err := addressService.SetDefaultAddress(c, user.ID, created.ID)
		assert.NoError(t, err)
		assert.True(t, res.IsDefault)
		assert.Equal(t, []string{"Office"}, defaults(t, user.ID))

		name := "Headquarters"
		res, err = addressService.UpdateAddress(c, user.ID, created.ID, request.UpdateAddress{Name: &name})
		assert.NoError(t, err)
		assert.Equal(t, "Headquarters", res.Name)
		assert.Equal(t, "152 Teheran-ro", res.Address1)
		assert.True(t, res.IsDefault)
	})

	t.Run("addresses of another user are not found", func(t *testing.T) {
		owner := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		other := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		created, err := addressService.CreateAddress(c, owner.ID, office)
		assert.NoError(t, err)

		name := "Mine now"
		_, err = addressService.UpdateAddress(c, other.ID, created.ID, request.UpdateAddress{Name: &name})
		assert.ErrorIs(t, err, inErrors.ErrAddressNotFound)

		_, err = addressService.SetDefaultAddress(c, other.ID, created.ID)
		assert.ErrorIs(t, err, inErrors.ErrAddressNotFound)

		err = addressService.DeleteAddress(c, other.ID, created.ID)
		assert.ErrorIs(t, err, inErrors.ErrAddressNotFound)

		err = addressService.DeleteAddress(c, owner.ID, created.ID)
		assert.NoError(t, err)
	})
}
