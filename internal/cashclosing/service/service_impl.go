package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashdeskhq/cashdesk/internal/cashclosing/domain"
	"github.com/cashdeskhq/cashdesk/internal/clock"
	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	"github.com/cashdeskhq/cashdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	Coordinator idemdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	coordinator idemdomain.Service
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("cashclosing.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		coordinator: p.Coordinator,
	}
}

func (s *Service) Open(ctx context.Context, req domain.OpenCashClosingRequest) (domain.CashClosing, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.CashClosing{}, domain.ErrInvalidTenant
	}
	if strings.TrimSpace(req.RegisterRef) == "" {
		return domain.CashClosing{}, domain.ErrInvalidRegisterRef
	}
	if req.ClosingDate.IsZero() {
		return domain.CashClosing{}, domain.ErrInvalidClosingDate
	}
	if len(strings.TrimSpace(req.Currency)) != 3 {
		return domain.CashClosing{}, domain.ErrInvalidCurrency
	}

	now := s.clock.Now()
	closing := domain.CashClosing{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		RegisterRef: strings.TrimSpace(req.RegisterRef),
		ClosingDate: req.ClosingDate.UTC().Truncate(24 * time.Hour),
		TotalAmount: req.TotalAmount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Status:      domain.ClosingStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &closing); err != nil {
		return domain.CashClosing{}, err
	}
	return closing, nil
}

// Approve transitions an open closing to APPROVED, at most once per
// idempotency key. Without a key the transition itself still refuses a
// second approval via its status guard, but the caller gets ErrNotOpen
// instead of a replayed response.
func (s *Service) Approve(ctx context.Context, req domain.ApproveCashClosingRequest) (idemdomain.Result, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return idemdomain.Result{}, domain.ErrInvalidID
	}
	approvedBy := strings.TrimSpace(req.ApprovedBy)
	if approvedBy == "" {
		return idemdomain.Result{}, domain.ErrInvalidApprover
	}

	return s.coordinator.Execute(ctx, idemdomain.ExecuteRequest{
		Key:       req.IdempotencyKey,
		Operation: idemdomain.OperationApproveCashClosing,
		Callback: func(ctx context.Context) (any, error) {
			return s.approve(ctx, id, approvedBy)
		},
		Linkage: func(result any) (string, string) {
			closing, ok := result.(*domain.CashClosing)
			if !ok {
				return "", ""
			}
			return "cash_closing", closing.ID.String()
		},
	})
}

func (s *Service) approve(ctx context.Context, id snowflake.ID, approvedBy string) (*domain.CashClosing, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	approvedAt := s.clock.Now()
	approved, err := s.repo.Approve(ctx, s.db, tenantID, id, approvedBy, approvedAt)
	if err != nil {
		return nil, err
	}
	if !approved {
		closing, err := s.repo.FindByID(ctx, s.db, tenantID, id)
		if err != nil {
			return nil, err
		}
		if closing == nil {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrNotOpen
	}

	closing, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if closing == nil {
		return nil, domain.ErrNotFound
	}

	s.log.Info("cash closing approved",
		zap.String("closing_id", closing.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("approved_by", approvedBy),
	)
	return closing, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCashClosingRequest) (domain.CashClosing, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.CashClosing{}, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.CashClosing{}, domain.ErrInvalidID
	}

	closing, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.CashClosing{}, err
	}
	if closing == nil {
		return domain.CashClosing{}, domain.ErrNotFound
	}
	return *closing, nil
}
