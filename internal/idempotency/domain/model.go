// Package domain contains the persistence model and contracts for the
// idempotent operation coordinator.
package domain

import (
	"database/sql"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of an idempotency record. Transitions only
// move forward: PROCESSING -> COMPLETED or PROCESSING -> FAILED. A FAILED
// record may be reclaimed back to PROCESSING by a fresh attempt; COMPLETED
// is terminal and its response never changes.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Operation tags the kind of business action a key protects. A key minted
// for one operation cannot be replayed against another. Adding a protected
// operation means adding a tag here, nothing else.
type Operation string

const (
	OperationCreatePayment       Operation = "CREATE_PAYMENT"
	OperationApproveCashClosing  Operation = "APPROVE_CASH_CLOSING"
	OperationImportBankStatement Operation = "IMPORT_BANK_STATEMENT"
)

// IdempotencyRecord is one row per (tenant, key). The unique index on
// (tenant_id, key) is the coordinator's only synchronization primitive.
type IdempotencyRecord struct {
	ID         snowflake.ID   `gorm:"primaryKey"`
	TenantID   snowflake.ID   `gorm:"not null"`
	Key        string         `gorm:"type:text;not null"`
	Operation  Operation      `gorm:"type:text;not null"`
	EntityType sql.NullString `gorm:"type:text"`
	EntityID   sql.NullString `gorm:"type:text"`
	Status     Status         `gorm:"type:text;not null"`
	Response   datatypes.JSON
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (IdempotencyRecord) TableName() string { return "idempotency_records" }

// Expired reports whether the record is past its TTL at the given instant.
// Expired records are invisible to replay/conflict decisions regardless of
// status.
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
