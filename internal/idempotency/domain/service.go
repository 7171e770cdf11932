package domain

import (
	"context"
	"encoding/json"
	"errors"
)

// MaxKeyLength bounds caller-supplied keys.
const MaxKeyLength = 128

var (
	// ErrConflict signals that another execution for the same (tenant, key)
	// is currently in flight. Callers should back off and retry shortly.
	ErrConflict = errors.New("operation_in_progress")

	// ErrKeyRequired signals that the operation mandates an idempotency key
	// and none was supplied. Raised before any store access.
	ErrKeyRequired = errors.New("idempotency_key_required")

	ErrKeyTooLong = errors.New("idempotency_key_too_long")

	// ErrOperationMismatch signals that an existing record for this key was
	// minted for a different operation.
	ErrOperationMismatch = errors.New("idempotency_key_operation_mismatch")

	ErrInvalidTenant = errors.New("invalid_tenant")
)

// Callback runs the business side effect exactly once per successful claim.
// Its return value is serialized to JSON and stored verbatim for replays.
type Callback func(ctx context.Context) (any, error)

// Linkage extracts the domain object a successful execution created or
// mutated, for audit and idempotent re-fetch. Optional.
type Linkage func(result any) (entityType, entityID string)

// ExecuteRequest describes one guarded invocation. An empty Key disables
// deduplication entirely: the callback runs with no record kept.
type ExecuteRequest struct {
	Key       string
	Operation Operation
	Callback  Callback
	Linkage   Linkage
}

// Result is what every caller of Execute observes. Replay callers receive
// the exact Response bytes produced by the one real execution.
type Result struct {
	Response json.RawMessage `json:"response"`
	Replayed bool            `json:"replayed"`

	// CompletionRecorded is false only when the callback succeeded but the
	// COMPLETED write failed: the side effect happened, its confirmation is
	// not durable, and a later retry may execute again.
	CompletionRecorded bool `json:"-"`
}

// Service is the coordinator's single public entry point. Tenant identity is
// taken from the request context.
type Service interface {
	Execute(ctx context.Context, req ExecuteRequest) (Result, error)
	DeleteExpired(ctx context.Context, limit int) (int64, error)
}
