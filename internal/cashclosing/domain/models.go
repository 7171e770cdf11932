// Package domain contains persistence models for daily cash closings.
package domain

import (
	"database/sql"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ClosingStatus string

const (
	ClosingStatusOpen     ClosingStatus = "OPEN"
	ClosingStatusApproved ClosingStatus = "APPROVED"
)

// CashClosing is one register's end-of-day balance awaiting approval.
type CashClosing struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID   `gorm:"not null" json:"tenant_id"`
	RegisterRef string         `gorm:"type:text;not null" json:"register_ref"`
	ClosingDate time.Time      `gorm:"not null" json:"closing_date"`
	TotalAmount int64          `gorm:"not null" json:"total_amount"` // minor units
	Currency    string         `gorm:"type:text;not null" json:"currency"`
	Status      ClosingStatus  `gorm:"type:text;not null" json:"status"`
	ApprovedBy  sql.NullString `gorm:"type:text" json:"-"`
	ApprovedAt  sql.NullTime   `json:"-"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (CashClosing) TableName() string { return "cash_closings" }
