// Package domain contains persistence models for bank-statement imports.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// StatementImport records one accepted statement upload. The content hash is
// what ties duplicate uploads of the same file together.
type StatementImport struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID `gorm:"not null" json:"tenant_id"`
	AccountRef  string       `gorm:"type:text;not null" json:"account_ref"`
	Filename    string       `gorm:"type:text;not null" json:"filename"`
	ContentHash string       `gorm:"type:text;not null" json:"content_hash"`
	LineCount   int          `gorm:"not null" json:"line_count"`
	ImportedAt  time.Time    `gorm:"not null" json:"imported_at"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (StatementImport) TableName() string { return "bank_statement_imports" }
