package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	pkgdb "github.com/cashdeskhq/cashdesk/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, key string) (*domain.IdempotencyRecord, error) {
	var record domain.IdempotencyRecord
	err := db.WithContext(ctx).
		Where(&domain.IdempotencyRecord{TenantID: tenantID, Key: key}).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.IdempotencyRecord) (bool, error) {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "key"}},
			DoNothing: true,
		}).
		Create(record)
	if res.Error != nil {
		// Dialects without a conflict clause report the race as a
		// unique violation instead; both mean we lost.
		if pkgdb.IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Reclaim(ctx context.Context, db *gorm.DB, record *domain.IdempotencyRecord, now time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.IdempotencyRecord{}).
		Where(&domain.IdempotencyRecord{TenantID: record.TenantID, Key: record.Key}).
		Where("status = ? OR expires_at <= ?", domain.StatusFailed, now).
		Updates(map[string]any{
			"operation":   record.Operation,
			"status":      domain.StatusProcessing,
			"response":    nil,
			"entity_type": nil,
			"entity_id":   nil,
			"expires_at":  record.ExpiresAt,
			"updated_at":  record.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Complete(ctx context.Context, db *gorm.DB, record *domain.IdempotencyRecord) error {
	return db.WithContext(ctx).
		Model(&domain.IdempotencyRecord{}).
		Where(&domain.IdempotencyRecord{TenantID: record.TenantID, Key: record.Key}).
		Where("status = ?", domain.StatusProcessing).
		Updates(map[string]any{
			"status":      domain.StatusCompleted,
			"response":    record.Response,
			"entity_type": record.EntityType,
			"entity_id":   record.EntityID,
			"updated_at":  record.UpdatedAt,
		}).Error
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, key string, updatedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.IdempotencyRecord{}).
		Where(&domain.IdempotencyRecord{TenantID: tenantID, Key: key}).
		Where("status = ?", domain.StatusProcessing).
		Updates(map[string]any{
			"status":     domain.StatusFailed,
			"updated_at": updatedAt,
		}).Error
}

func (r *repo) DeleteExpired(ctx context.Context, db *gorm.DB, before time.Time, limit int) (int64, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.IdempotencyRecord{}).
		Where("expires_at <= ?", before).
		Order("expires_at").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res := db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.IdempotencyRecord{})
	return res.RowsAffected, res.Error
}
