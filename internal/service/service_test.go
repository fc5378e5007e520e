package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockmaster/inventory-app/internal/models"
	"github.com/stockmaster/inventory-app/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))

	t.Cleanup(func() { _ = sqlDB.Close() })

	return &repo.GormRepo{DB: db}
}

// Services run with a nil producer and nil index in tests: publishing and
// index sync are best-effort no-ops without a broker or cluster.
func newAuthService(t *testing.T) *AuthService {
	return &AuthService{Repo: newTestRepo(t)}
}

func newInventoryService(t *testing.T) *InventoryService {
	return &InventoryService{Repo: newTestRepo(t)}
}
