package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/cashdeskhq/cashdesk/internal/bankstatement/domain"
	"github.com/cashdeskhq/cashdesk/internal/clock"
	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	idemservice "github.com/cashdeskhq/cashdesk/internal/idempotency/service"
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
		log:         p.Log.Named("bankstatement.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		coordinator: p.Coordinator,
	}
}

// Import accepts one statement file. The key is derived from the account
// and the content hash with a per-day bucket: uploading the same file twice
// in a day replays the first import instead of creating a second one.
func (s *Service) Import(ctx context.Context, req domain.ImportStatementRequest) (idemdomain.Result, error) {
	accountRef := strings.TrimSpace(req.AccountRef)
	if accountRef == "" {
		return idemdomain.Result{}, domain.ErrInvalidAccountRef
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return idemdomain.Result{}, domain.ErrEmptyStatement
	}

	sum := sha256.Sum256([]byte(content))
	contentHash := hex.EncodeToString(sum[:])
	key := idemservice.DeriveKey(idemdomain.OperationImportBankStatement, s.clock.Now(), accountRef, contentHash)

	return s.coordinator.Execute(ctx, idemdomain.ExecuteRequest{
		Key:       key,
		Operation: idemdomain.OperationImportBankStatement,
		Callback: func(ctx context.Context) (any, error) {
			return s.store(ctx, accountRef, strings.TrimSpace(req.Filename), contentHash, content)
		},
		Linkage: func(result any) (string, string) {
			statement, ok := result.(*domain.StatementImport)
			if !ok {
				return "", ""
			}
			return "bank_statement_import", statement.ID.String()
		},
	})
}

func (s *Service) store(ctx context.Context, accountRef, filename, contentHash, content string) (*domain.StatementImport, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	now := s.clock.Now()
	statement := &domain.StatementImport{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		AccountRef:  accountRef,
		Filename:    filename,
		ContentHash: contentHash,
		LineCount:   countLines(content),
		ImportedAt:  now,
		CreatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, statement); err != nil {
		return nil, err
	}

	s.log.Info("bank statement imported",
		zap.String("import_id", statement.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_ref", accountRef),
		zap.Int("line_count", statement.LineCount),
	)
	return statement, nil
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}
