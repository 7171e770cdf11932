package domain

import (
	"context"
	"errors"
	"time"

	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	"github.com/cashdeskhq/cashdesk/pkg/db/pagination"
)

type CreatePaymentRequest struct {
	IdempotencyKey string         `json:"-"`
	InvoiceRef     string         `json:"invoice_ref"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	Method         string         `json:"method"`
	PaidAt         time.Time      `json:"paid_at"`
	Metadata       map[string]any `json:"metadata"`
}

type GetPaymentRequest struct {
	ID string
}

type ListPaymentRequest struct {
	InvoiceRef string `form:"invoice_ref"`
	PageToken  string `form:"page_token"`
	PageSize   int32  `form:"page_size"`
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

// Service records payments. Create is funneled through the idempotency
// coordinator and requires a caller-supplied key.
type Service interface {
	Create(context.Context, CreatePaymentRequest) (idemdomain.Result, error)
	GetByID(context.Context, GetPaymentRequest) (Payment, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)
}

var (
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvalidInvoiceRef = errors.New("invalid_invoice_ref")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidCurrency   = errors.New("invalid_currency")
	ErrInvalidMethod     = errors.New("invalid_method")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
)
