package domain

import (
	"context"
	"errors"

	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
)

type ImportStatementRequest struct {
	AccountRef string `json:"account_ref"`
	Filename   string `json:"filename"`
	Content    string `json:"content"`
}

// Service imports bank statements. The dedup key is derived server-side
// from the statement content, so the caller never has to supply one.
type Service interface {
	Import(context.Context, ImportStatementRequest) (idemdomain.Result, error)
}

var (
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvalidAccountRef = errors.New("invalid_account_ref")
	ErrEmptyStatement    = errors.New("empty_statement")
)
