package domain

import (
	"context"
	"errors"
	"time"

	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
)

type OpenCashClosingRequest struct {
	RegisterRef string    `json:"register_ref"`
	ClosingDate time.Time `json:"closing_date"`
	TotalAmount int64     `json:"total_amount"`
	Currency    string    `json:"currency"`
}

// ApproveCashClosingRequest approves an open closing. The idempotency key is
// opt-in: without one the approval runs unguarded.
type ApproveCashClosingRequest struct {
	IdempotencyKey string `json:"-"`
	ID             string `json:"-"`
	ApprovedBy     string `json:"approved_by"`
}

type GetCashClosingRequest struct {
	ID string
}

type Service interface {
	Open(context.Context, OpenCashClosingRequest) (CashClosing, error)
	Approve(context.Context, ApproveCashClosingRequest) (idemdomain.Result, error)
	GetByID(context.Context, GetCashClosingRequest) (CashClosing, error)
}

var (
	ErrInvalidTenant      = errors.New("invalid_tenant")
	ErrInvalidRegisterRef = errors.New("invalid_register_ref")
	ErrInvalidClosingDate = errors.New("invalid_closing_date")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidApprover    = errors.New("invalid_approver")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrNotOpen            = errors.New("closing_not_open")
)
