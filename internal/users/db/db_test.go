package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-booking/internal/apperrors"
	"ms-booking/internal/models"
	usersdb "ms-booking/internal/users/db"
)

func setupTestDB(t *testing.T) *usersdb.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.User)(nil)))

	t.Cleanup(func() { bunDB.Close() })
	return &usersdb.DB{Bun: bunDB}
}

func TestCreateAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$fakehash",
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	got, err := db.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := &models.User{Name: "Alice", Email: "a@x.com", PasswordHash: "h", Role: models.RoleAdmin}
	require.NoError(t, db.CreateUser(ctx, first))

	second := &models.User{Name: "Other Alice", Email: "a@x.com", PasswordHash: "h2", Role: models.RoleUser}
	err := db.CreateUser(ctx, second)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGetUserByEmailMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
