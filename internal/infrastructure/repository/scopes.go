package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// OwnerIDKey is the context key for the user whose records are visible
	OwnerIDKey ctxKey = "owner_id"
	// SkipOwnerScopeKey is the context key for skipping the owner scope
	SkipOwnerScopeKey ctxKey = "skip_owner_scope"
)

// OwnerScope returns a GORM scope that limits queries to the records of the
// user in ctx. Without an owner in ctx nothing matches.
func OwnerScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip, ok := ctx.Value(SkipOwnerScopeKey).(bool); ok && skip {
			return db
		}

		ownerID, ok := ctx.Value(OwnerIDKey).(uuid.UUID)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("user_id = ?", ownerID)
	}
}

// WithOwner adds the owning user ID to context
func WithOwner(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, OwnerIDKey, userID)
}

// WithSkipOwnerScope lets the caller read every user's records
func WithSkipOwnerScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipOwnerScopeKey, skip)
}

// likePattern wraps s for a substring LIKE match
func likePattern(s string) string {
	return "%" + s + "%"
}

// orderClause whitelists the sort column and direction
func orderClause(sortBy, sortOrder string, allowed map[string]bool, fallback string) string {
	column := fallback
	if allowed[sortBy] {
		column = sortBy
	}
	direction := "DESC"
	if sortOrder == "ASC" || sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
