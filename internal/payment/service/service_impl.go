package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	"github.com/cashdeskhq/cashdesk/internal/clock"
	"github.com/cashdeskhq/cashdesk/internal/payment/domain"
	"github.com/cashdeskhq/cashdesk/pkg/db/pagination"
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
		log:         p.Log.Named("payment.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		coordinator: p.Coordinator,
	}
}

// Create records a payment. The idempotency key is mandatory here: recording
// the same payment twice is the exact failure mode the coordinator exists
// to prevent.
func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (idemdomain.Result, error) {
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return idemdomain.Result{}, idemdomain.ErrKeyRequired
	}
	if err := validateCreate(req); err != nil {
		return idemdomain.Result{}, err
	}

	return s.coordinator.Execute(ctx, idemdomain.ExecuteRequest{
		Key:       req.IdempotencyKey,
		Operation: idemdomain.OperationCreatePayment,
		Callback: func(ctx context.Context) (any, error) {
			return s.record(ctx, req)
		},
		Linkage: func(result any) (string, string) {
			payment, ok := result.(*domain.Payment)
			if !ok {
				return "", ""
			}
			return "payment", payment.ID.String()
		},
	})
}

func (s *Service) record(ctx context.Context, req domain.CreatePaymentRequest) (*domain.Payment, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	now := s.clock.Now()
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	payment := &domain.Payment{
		ID:         s.genID.Generate(),
		TenantID:   tenantID,
		InvoiceRef: strings.TrimSpace(req.InvoiceRef),
		Amount:     req.Amount,
		Currency:   strings.ToUpper(strings.TrimSpace(req.Currency)),
		Method:     strings.TrimSpace(req.Method),
		PaidAt:     paidAt,
		Metadata:   req.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, payment); err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_ref", payment.InvoiceRef),
		zap.Int64("amount", payment.Amount),
	)
	return payment, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPaymentRequest) (domain.Payment, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Payment{}, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.Payment{}, domain.ErrInvalidID
	}

	payment, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *payment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ListPaymentResponse{}, domain.ErrInvalidTenant
	}

	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 250 {
		pageSize = 10
	}

	payments, err := s.repo.List(ctx, s.db, tenantID, domain.ListPaymentFilter{
		InvoiceRef: strings.TrimSpace(req.InvoiceRef),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(payments, pageSize, func(p *domain.Payment) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: p.ID.String()})
		return token
	})
	if len(payments) > int(pageSize) {
		payments = payments[:pageSize]
	}

	items := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		items = append(items, *p)
	}
	return domain.ListPaymentResponse{
		PageInfo: *pageInfo,
		Payments: items,
	}, nil
}

func validateCreate(req domain.CreatePaymentRequest) error {
	if strings.TrimSpace(req.InvoiceRef) == "" {
		return domain.ErrInvalidInvoiceRef
	}
	if req.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if len(strings.TrimSpace(req.Currency)) != 3 {
		return domain.ErrInvalidCurrency
	}
	if strings.TrimSpace(req.Method) == "" {
		return domain.ErrInvalidMethod
	}
	return nil
}
