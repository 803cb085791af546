package database

import (
	"context"
	"testing"

	"github.com/sangkips/invex-billing/internal/config"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewSQLiteDB("file:"+t.Name()+"?mode=memory&cache=shared", &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestSeedDefaultData_Idempotent(t *testing.T) {
	db := openTestDB(t)
	admin := config.AdminConfig{Email: "owner@shop.test", Password: "secret123", Name: "Shop Owner"}

	require.NoError(t, SeedDefaultData(context.Background(), db, admin))
	require.NoError(t, SeedDefaultData(context.Background(), db, admin))

	var roles []entity.Role
	require.NoError(t, db.Preload("Permissions").Order("name").Find(&roles).Error)
	require.Len(t, roles, 2)
	assert.Equal(t, entity.RoleAdmin, roles[0].Name)
	assert.Len(t, roles[0].Permissions, len(rolePermissions[entity.RoleAdmin]))
	assert.Len(t, roles[1].Permissions, len(rolePermissions[entity.RoleCashier]))

	var users []entity.User
	require.NoError(t, db.Preload("Roles").Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "Shop", users[0].FirstName)
	assert.Equal(t, "Owner", users[0].LastName)
	assert.True(t, users[0].HasRole(entity.RoleAdmin))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, false)
	assert.Error(t, err)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Ada King Lovelace")
	assert.Equal(t, "Ada", first)
	assert.Equal(t, "King Lovelace", last)

	first, last = splitName("")
	assert.Equal(t, "Admin", first)
	assert.Empty(t, last)
}

func TestSqliteParams(t *testing.T) {
	assert.Equal(t, "?_foreign_keys=on", sqliteParams("billing.db"))
	assert.Equal(t, "&_foreign_keys=on", sqliteParams("file::memory:?cache=shared"))
}
