// Package testutil starts throwaway PostgreSQL and Redis containers and seeds rows for
// service and controller tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/dailycoffee/internal/config"
	"github.com/Alturino/dailycoffee/internal/infra"
	"github.com/Alturino/dailycoffee/internal/repository"
)

const (
	postgresImage = "postgres:16.6-alpine3.21"
	redisImage    = "redis:7.4.2-alpine3.21"

	Password = "password123"
)

func migrationPath() string {
	_, file, _, _ := runtime.Caller(0)
	return "file://" + filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// StartPostgres runs a migrated database and closes it when the test ends.
func StartPostgres(t *testing.T, c context.Context) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pgContainer, err := postgres.Run(
		c,
		postgresImage,
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("dailycoffee"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Errorf("failed to terminate postgres container: %s", err)
		}
	})

	host, err := pgContainer.Host(c)
	if err != nil {
		t.Fatalf("failed getting postgres host with error: %s", err)
	}
	port, err := pgContainer.MappedPort(c, "5432/tcp")
	if err != nil {
		t.Fatalf("failed getting postgres port with error: %s", err)
	}

	dbConfig := config.Database{
		Name:           "dailycoffee",
		Host:           host,
		MigrationPath:  migrationPath(),
		Password:       "postgres",
		TimeZone:       "UTC",
		Username:       "postgres",
		MaxConnections: 10,
		MinConnections: 1,
		Port:           uint16(port.Int()),
	}

	if err := infra.Migrate(c, dbConfig, infra.MigrationUp); err != nil {
		t.Fatalf("failed migrating postgres with error: %s", err)
	}

	pool, err := infra.NewDatabaseClient(c, dbConfig)
	if err != nil {
		t.Fatalf("failed connecting postgres with error: %s", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func StartRedis(t *testing.T, c context.Context) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	redisContainer, err := testRedis.Run(c, redisImage)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Errorf("failed to terminate redis container: %s", err)
		}
	})

	host, err := redisContainer.Host(c)
	if err != nil {
		t.Fatalf("failed getting redis host with error: %s", err)
	}
	port, err := redisContainer.MappedPort(c, "6379/tcp")
	if err != nil {
		t.Fatalf("failed getting redis port with error: %s", err)
	}

	client, err := infra.NewCacheClient(c, config.Cache{Host: host, Port: uint16(port.Int())})
	if err != nil {
		t.Fatalf("failed connecting redis with error: %s", err)
	}
	t.Cleanup(func() { client.Close() })

	return client
}

func SeedUser(t *testing.T, c context.Context, queries *repository.Queries, role repository.UserRole) repository.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed hashing password with error: %s", err)
	}
	user, err := queries.InsertUser(c, repository.InsertUserParams{
		Email:    fmt.Sprintf("%s@dailycoffee.test", uuid.NewString()),
		Password: string(hashed),
		Name:     "Test User",
	})
	if err != nil {
		t.Fatalf("failed seeding user with error: %s", err)
	}
	if role == repository.UserRoleADMIN {
		user, err = queries.UpdateUserRole(c, repository.UpdateUserRoleParams{ID: user.ID, Role: role})
		if err != nil {
			t.Fatalf("failed promoting user with error: %s", err)
		}
	}
	return user
}

func SeedCategory(t *testing.T, c context.Context, queries *repository.Queries) repository.Category {
	t.Helper()
	slug := "beans-" + uuid.NewString()[:8]
	category, err := queries.InsertCategory(c, repository.InsertCategoryParams{
		Name: "Beans",
		Slug: slug,
	})
	if err != nil {
		t.Fatalf("failed seeding category with error: %s", err)
	}
	return category
}

type ProductSeed struct {
	Name          string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int32
	IsFeatured    bool
}

func SeedProduct(
	t *testing.T,
	c context.Context,
	queries *repository.Queries,
	categoryID uuid.UUID,
	seed ProductSeed,
) repository.Product {
	t.Helper()
	name := seed.Name
	if name == "" {
		name = "House Blend"
	}
	product, err := queries.InsertProduct(c, repository.InsertProductParams{
		CategoryID:    categoryID,
		Name:          name,
		Slug:          fmt.Sprintf("product-%s", uuid.NewString()[:8]),
		Price:         repository.NumericFromDecimal(seed.Price),
		DiscountPrice: repository.NumericFromNullDecimal(seed.DiscountPrice),
		Stock:         seed.Stock,
		IsActive:      true,
		IsFeatured:    seed.IsFeatured,
	})
	if err != nil {
		t.Fatalf("failed seeding product with error: %s", err)
	}
	return product
}
