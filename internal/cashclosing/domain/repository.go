package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, closing *CashClosing) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*CashClosing, error)

	// Approve flips OPEN to APPROVED. The status condition lives inside the
	// UPDATE so a second approver observes zero rows affected.
	Approve(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, approvedBy string, approvedAt time.Time) (bool, error)
}
