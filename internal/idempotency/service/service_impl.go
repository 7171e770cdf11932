package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashdeskhq/cashdesk/internal/clock"
	"github.com/cashdeskhq/cashdesk/internal/config"
	"github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	obsmetrics "github.com/cashdeskhq/cashdesk/internal/observability/metrics"
	"github.com/cashdeskhq/cashdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	Repo    domain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	ttl     config.IdempotencyConfig
	repo    domain.Repository
	metrics *obsmetrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("idempotency.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		ttl:     p.Config.Idempotency,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// Execute runs the callback at most once per (tenant, key). Replay callers
// get the stored response bytes; a concurrent duplicate gets ErrConflict
// immediately rather than waiting for the claimant.
func (s *Service) Execute(ctx context.Context, req domain.ExecuteRequest) (domain.Result, error) {
	if req.Callback == nil {
		return domain.Result{}, fmt.Errorf("idempotency: execute called without callback")
	}

	key := strings.TrimSpace(req.Key)
	if key == "" {
		return s.passthrough(ctx, req)
	}
	if len(key) > domain.MaxKeyLength {
		return domain.Result{}, domain.ErrKeyTooLong
	}

	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Result{}, domain.ErrInvalidTenant
	}

	now := s.clock.Now()
	replay, err := s.claim(ctx, tenantID, key, req.Operation, now)
	if err != nil {
		if err == domain.ErrConflict {
			s.metrics.IncExecution(string(req.Operation), "conflict")
		}
		return domain.Result{}, err
	}
	if replay != nil {
		s.metrics.IncExecution(string(req.Operation), "replayed")
		s.log.Debug("replayed stored response",
			zap.String("operation", string(req.Operation)),
			zap.String("tenant_id", tenantID.String()),
		)
		return *replay, nil
	}

	out, err := req.Callback(ctx)
	if err != nil {
		// Best effort: a failure to persist FAILED must not mask the
		// business error. The record stays PROCESSING until expiry then.
		if markErr := s.repo.MarkFailed(ctx, s.db, tenantID, key, s.clock.Now()); markErr != nil {
			s.log.Error("failed to mark record as failed",
				zap.String("operation", string(req.Operation)),
				zap.String("tenant_id", tenantID.String()),
				zap.Error(markErr),
			)
		}
		s.metrics.IncExecution(string(req.Operation), "failed")
		return domain.Result{}, err
	}

	raw, err := json.Marshal(out)
	if err != nil {
		// The side effect already happened; report success to the caller
		// and flag the unrecorded completion for operators.
		s.reportUnrecordedCompletion(req.Operation, tenantID, err)
		return domain.Result{Replayed: false, CompletionRecorded: false}, nil
	}

	record := &domain.IdempotencyRecord{
		TenantID:  tenantID,
		Key:       key,
		Response:  raw,
		UpdatedAt: s.clock.Now(),
	}
	if req.Linkage != nil {
		entityType, entityID := req.Linkage(out)
		if entityType != "" {
			record.EntityType = sql.NullString{String: entityType, Valid: true}
		}
		if entityID != "" {
			record.EntityID = sql.NullString{String: entityID, Valid: true}
		}
	}

	if err := s.repo.Complete(ctx, s.db, record); err != nil {
		s.reportUnrecordedCompletion(req.Operation, tenantID, err)
		return domain.Result{Response: raw, Replayed: false, CompletionRecorded: false}, nil
	}

	s.metrics.IncExecution(string(req.Operation), "fresh")
	return domain.Result{Response: raw, Replayed: false, CompletionRecorded: true}, nil
}

// claim resolves the record for (tenant, key): nil-nil means we own the
// PROCESSING slot and must run the callback, a non-nil Result is a replay.
// Losing an insert or reclaim race re-reads once and resolves again.
func (s *Service) claim(ctx context.Context, tenantID snowflake.ID, key string, op domain.Operation, now time.Time) (*domain.Result, error) {
	ttl := s.ttl.TTLFor(string(op))

	for attempt := 0; attempt < 2; attempt++ {
		record, err := s.repo.Find(ctx, s.db, tenantID, key)
		if err != nil {
			return nil, err
		}

		if record == nil {
			fresh := &domain.IdempotencyRecord{
				ID:        s.genID.Generate(),
				TenantID:  tenantID,
				Key:       key,
				Operation: op,
				Status:    domain.StatusProcessing,
				ExpiresAt: now.Add(ttl),
				CreatedAt: now,
				UpdatedAt: now,
			}
			inserted, err := s.repo.Insert(ctx, s.db, fresh)
			if err != nil {
				return nil, err
			}
			if inserted {
				return nil, nil
			}
			// Lost the insert race; the winner's record decides.
			continue
		}

		if !record.Expired(now) {
			if record.Operation != op {
				return nil, domain.ErrOperationMismatch
			}
			switch record.Status {
			case domain.StatusCompleted:
				return &domain.Result{
					Response:           json.RawMessage(record.Response),
					Replayed:           true,
					CompletionRecorded: true,
				}, nil
			case domain.StatusProcessing:
				return nil, domain.ErrConflict
			}
		}

		// FAILED, or expired whatever the status: the key is reclaimable.
		update := &domain.IdempotencyRecord{
			TenantID:  tenantID,
			Key:       key,
			Operation: op,
			ExpiresAt: now.Add(ttl),
			UpdatedAt: now,
		}
		won, err := s.repo.Reclaim(ctx, s.db, update, now)
		if err != nil {
			return nil, err
		}
		if won {
			return nil, nil
		}
		// Someone else reclaimed first; re-read and resolve their record.
	}

	return nil, domain.ErrConflict
}

// passthrough runs the callback with no deduplication at all.
func (s *Service) passthrough(ctx context.Context, req domain.ExecuteRequest) (domain.Result, error) {
	out, err := req.Callback(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return domain.Result{}, err
	}
	s.metrics.IncExecution(string(req.Operation), "passthrough")
	return domain.Result{Response: raw, Replayed: false, CompletionRecorded: true}, nil
}

// DeleteExpired physically removes records past their TTL. Lookup-time
// filtering already hides them, so this is storage reclamation only.
func (s *Service) DeleteExpired(ctx context.Context, limit int) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.db, s.clock.Now(), limit)
	if err != nil {
		return 0, err
	}
	s.metrics.AddRecordsDeleted(deleted)
	return deleted, nil
}

func (s *Service) reportUnrecordedCompletion(op domain.Operation, tenantID snowflake.ID, err error) {
	s.metrics.IncCompletionWriteFailure(string(op))
	s.log.Error("side effect applied but completion not recorded; a retry after expiry may execute again",
		zap.String("operation", string(op)),
		zap.String("tenant_id", tenantID.String()),
		zap.Error(err),
	)
}
