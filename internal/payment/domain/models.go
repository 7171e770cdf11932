// Package domain contains persistence models for recorded payments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Payment is a side-effecting money movement recorded against an invoice.
type Payment struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID      `gorm:"not null" json:"tenant_id"`
	InvoiceRef string            `gorm:"type:text;not null" json:"invoice_ref"`
	Amount     int64             `gorm:"not null" json:"amount"` // minor units
	Currency   string            `gorm:"type:text;not null" json:"currency"`
	Method     string            `gorm:"type:text;not null" json:"method"`
	PaidAt     time.Time         `gorm:"not null" json:"paid_at"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
