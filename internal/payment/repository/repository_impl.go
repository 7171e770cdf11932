package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/cashdeskhq/cashdesk/internal/payment/domain"
	"github.com/cashdeskhq/cashdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, tenant_id, invoice_ref, amount, currency, method, paid_at, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.TenantID,
		payment.InvoiceRef,
		payment.Amount,
		payment.Currency,
		payment.Method,
		payment.PaidAt,
		payment.Metadata,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, invoice_ref, amount, currency, method, paid_at, metadata, created_at, updated_at
		 FROM payments WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListPaymentFilter, page pagination.Pagination) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	stmt := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("tenant_id = ?", tenantID)
	if filter.InvoiceRef != "" {
		stmt = stmt.Where("invoice_ref = ?", filter.InvoiceRef)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		if cursor.ID != "" {
			stmt = stmt.Where("id < ?", cursor.ID)
		}
	}

	// one extra row to detect has_more
	err := stmt.Order("id DESC").Limit(page.PageSize + 1).Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
