package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, key string) (*IdempotencyRecord, error)

	// Insert creates a fresh PROCESSING record. It must be a single atomic
	// store operation: the unique (tenant_id, key) index decides the winner
	// among concurrent callers. Returns false when the row already existed.
	Insert(ctx context.Context, db *gorm.DB, record *IdempotencyRecord) (bool, error)

	// Reclaim conditionally flips an existing record back to PROCESSING,
	// refreshing expires_at and clearing any prior outcome. The condition
	// (status FAILED, or expired at now) is evaluated inside the UPDATE so
	// only one of several concurrent reclaimers wins. Returns false when the
	// condition no longer held.
	Reclaim(ctx context.Context, db *gorm.DB, record *IdempotencyRecord, now time.Time) (bool, error)

	// Complete records the terminal COMPLETED outcome. Guarded on
	// status = PROCESSING so a completed response can never be overwritten.
	Complete(ctx context.Context, db *gorm.DB, record *IdempotencyRecord) error

	MarkFailed(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, key string, updatedAt time.Time) error

	DeleteExpired(ctx context.Context, db *gorm.DB, before time.Time, limit int) (int64, error)
}
