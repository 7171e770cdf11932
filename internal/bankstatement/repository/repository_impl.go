package repository

import (
	"context"

	"github.com/cashdeskhq/cashdesk/internal/bankstatement/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, statement *domain.StatementImport) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bank_statement_imports (id, tenant_id, account_ref, filename, content_hash, line_count, imported_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		statement.ID,
		statement.TenantID,
		statement.AccountRef,
		statement.Filename,
		statement.ContentHash,
		statement.LineCount,
		statement.ImportedAt,
		statement.CreatedAt,
	).Error
}
