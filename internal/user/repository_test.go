package user

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"bazaar_onboarding_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestGetOrCreate(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	created, wasCreated, err := repo.GetOrCreate(ctx, "alice", TypeSeller)
	require.NoError(t, err)
	require.True(t, wasCreated)
	require.Equal(t, "alice", created.Username)
	require.Equal(t, TypeSeller, created.UserType)
	require.NotEqual(t, uuid.Nil, created.ID)

	// Second call with the same username returns the stored row untouched.
	again, wasCreated, err := repo.GetOrCreate(ctx, "alice", TypeSeller)
	require.NoError(t, err)
	require.False(t, wasCreated)
	require.Equal(t, created.ID, again.ID)
}

func TestGetOrCreate_KeepsOriginalType(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	_, _, err := repo.GetOrCreate(ctx, "bob", TypeBuyer)
	require.NoError(t, err)

	// A different requested type never reclassifies the stored user; the
	// caller decides whether that is a conflict.
	stored, wasCreated, err := repo.GetOrCreate(ctx, "bob", TypeSeller)
	require.NoError(t, err)
	require.False(t, wasCreated)
	require.Equal(t, TypeBuyer, stored.UserType)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 404, apiErr.StatusCode)
}

func TestFindByUsername_TrimsOnCreate(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	_, _, err := repo.GetOrCreate(ctx, "  carol  ", TypeBuyer)
	require.NoError(t, err)

	found, err := repo.FindByUsername(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, "carol", found.Username)
}
