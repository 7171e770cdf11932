package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashdeskhq/cashdesk/internal/cashclosing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, closing *domain.CashClosing) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO cash_closings (id, tenant_id, register_ref, closing_date, total_amount, currency, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		closing.ID,
		closing.TenantID,
		closing.RegisterRef,
		closing.ClosingDate,
		closing.TotalAmount,
		closing.Currency,
		closing.Status,
		closing.CreatedAt,
		closing.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.CashClosing, error) {
	var closing domain.CashClosing
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, register_ref, closing_date, total_amount, currency, status,
			approved_by, approved_at, created_at, updated_at
		 FROM cash_closings WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Scan(&closing).Error
	if err != nil {
		return nil, err
	}
	if closing.ID == 0 {
		return nil, nil
	}
	return &closing, nil
}

func (r *repo) Approve(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, approvedBy string, approvedAt time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE cash_closings
		 SET status = ?, approved_by = ?, approved_at = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ? AND status = ?`,
		domain.ClosingStatusApproved,
		approvedBy,
		approvedAt,
		approvedAt,
		tenantID,
		id,
		domain.ClosingStatusOpen,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
