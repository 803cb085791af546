package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/invex-billing/internal/config"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Permission{},
		&entity.Role{},
		&entity.User{},
		&entity.CompanyProfile{},
		&entity.Product{},
		&entity.Bill{},
		&entity.BillItem{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// rolePermissions lists the permissions granted to each seeded role
var rolePermissions = map[string][]string{
	entity.RoleAdmin: {
		entity.PermViewDashboard,
		entity.PermManageProducts,
		entity.PermCreateBills,
		entity.PermViewBills,
		entity.PermViewAllBills,
		entity.PermManagePrinter,
		entity.PermManageProfile,
	},
	entity.RoleCashier: {
		entity.PermViewDashboard,
		entity.PermCreateBills,
		entity.PermViewBills,
		entity.PermManageProfile,
	},
}

// SeedDefaultData creates the permissions, roles and the optional admin user.
// Running it again is a no-op.
func SeedDefaultData(ctx context.Context, db *gorm.DB, admin config.AdminConfig) error {
	db = db.WithContext(ctx)

	perms := make(map[string]entity.Permission)
	for _, names := range rolePermissions {
		for _, name := range names {
			if _, ok := perms[name]; ok {
				continue
			}
			p := entity.Permission{Name: name}
			if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", name, err)
			}
			perms[name] = p
		}
	}

	for roleName, names := range rolePermissions {
		role := entity.Role{Name: roleName}
		if err := db.Where(entity.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roleName, err)
		}
		granted := make([]entity.Permission, 0, len(names))
		for _, name := range names {
			granted = append(granted, perms[name])
		}
		if err := db.Model(&role).Association("Permissions").Replace(granted); err != nil {
			return fmt.Errorf("seed role %s permissions: %w", roleName, err)
		}
	}

	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var adminRole entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	first, last := splitName(admin.Name)
	user := entity.User{
		FirstName: first,
		LastName:  last,
		Email:     admin.Email,
		Password:  hashed,
		Roles:     []entity.Role{adminRole},
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	zap.L().Info("admin user created", zap.String("email", admin.Email))
	return nil
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Admin", ""
	}
	first, last, _ := strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}
