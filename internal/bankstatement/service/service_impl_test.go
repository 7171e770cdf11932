package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cashdeskhq/cashdesk/internal/bankstatement/domain"
	"github.com/cashdeskhq/cashdesk/internal/bankstatement/repository"
	"github.com/cashdeskhq/cashdesk/internal/bankstatement/service"
	"github.com/cashdeskhq/cashdesk/internal/clock"
	"github.com/cashdeskhq/cashdesk/internal/config"
	idemrepo "github.com/cashdeskhq/cashdesk/internal/idempotency/repository"
	idemservice "github.com/cashdeskhq/cashdesk/internal/idempotency/service"
	"github.com/cashdeskhq/cashdesk/pkg/tenantctx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const statementBody = `2026-03-01;ACME GMBH;-129900;EUR
2026-03-01;COFFEE SUPPLY CO;-4550;EUR
2026-03-02;CARD SETTLEMENT;845000;EUR`

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_stmt_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE idempotency_records (
			id BIGINT PRIMARY KEY,
			tenant_id BIGINT NOT NULL,
			key TEXT NOT NULL,
			operation TEXT NOT NULL,
			entity_type TEXT,
			entity_id TEXT,
			status TEXT NOT NULL,
			response TEXT,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_idempotency_records_tenant_key ON idempotency_records (tenant_id, key)`,
		`CREATE TABLE bank_statement_imports (
			id BIGINT PRIMARY KEY,
			tenant_id BIGINT NOT NULL,
			account_ref TEXT NOT NULL,
			filename TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			line_count INTEGER NOT NULL,
			imported_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newImportService(t *testing.T, db *gorm.DB, clk clock.Clock) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(10)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	coordinator := idemservice.NewService(idemservice.ServiceParam{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  clk,
		Config: config.Config{Idempotency: config.IdempotencyConfig{Default: 24 * time.Hour}},
		Repo:   idemrepo.Provide(),
	})

	return service.NewService(service.ServiceParam{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        repository.Provide(),
		Coordinator: coordinator,
	})
}

func tenantContext(tenantID int64) context.Context {
	return tenantctx.WithTenantID(context.Background(), snowflake.ID(tenantID))
}

func TestImportValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(t, db, clock.NewSystemClock())
	ctx := tenantContext(77)

	_, err := svc.Import(ctx, domain.ImportStatementRequest{Content: statementBody})
	if !errors.Is(err, domain.ErrInvalidAccountRef) {
		t.Fatalf("expected ErrInvalidAccountRef, got %v", err)
	}

	_, err = svc.Import(ctx, domain.ImportStatementRequest{AccountRef: "DE89-1"})
	if !errors.Is(err, domain.ErrEmptyStatement) {
		t.Fatalf("expected ErrEmptyStatement, got %v", err)
	}
}

func TestImportDeduplicatesSameContent(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(t, db, clock.NewSystemClock())
	ctx := tenantContext(77)

	req := domain.ImportStatementRequest{
		AccountRef: "DE89-1",
		Filename:   "march.csv",
		Content:    statementBody,
	}

	first, err := svc.Import(ctx, req)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if first.Replayed {
		t.Fatalf("first import must not replay")
	}

	var imported domain.StatementImport
	if err := json.Unmarshal(first.Response, &imported); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if imported.LineCount != 3 {
		t.Fatalf("line count %d, want 3", imported.LineCount)
	}

	// Re-upload of the same file, even under another name, collapses onto
	// the first import: the key is content-derived.
	second, err := svc.Import(ctx, domain.ImportStatementRequest{
		AccountRef: "DE89-1",
		Filename:   "march_copy.csv",
		Content:    statementBody,
	})
	if err != nil {
		t.Fatalf("duplicate import: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("same content must replay")
	}
	if string(first.Response) != string(second.Response) {
		t.Fatalf("replay bytes differ")
	}

	var count int64
	if err := db.Model(&domain.StatementImport{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("stored %d imports, want 1", count)
	}
}

func TestImportDifferentContentIsFresh(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(t, db, clock.NewSystemClock())
	ctx := tenantContext(77)

	if _, err := svc.Import(ctx, domain.ImportStatementRequest{
		AccountRef: "DE89-1",
		Filename:   "march.csv",
		Content:    statementBody,
	}); err != nil {
		t.Fatalf("import: %v", err)
	}

	result, err := svc.Import(ctx, domain.ImportStatementRequest{
		AccountRef: "DE89-1",
		Filename:   "april.csv",
		Content:    "2026-04-01;RENT;-250000;EUR",
	})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.Replayed {
		t.Fatalf("different content must not replay")
	}

	var count int64
	if err := db.Model(&domain.StatementImport{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("stored %d imports, want 2", count)
	}
}

func TestImportNextDayIsFresh(t *testing.T) {
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc := newImportService(t, db, clk)
	ctx := tenantContext(77)

	req := domain.ImportStatementRequest{
		AccountRef: "DE89-1",
		Filename:   "march.csv",
		Content:    statementBody,
	}

	if _, err := svc.Import(ctx, req); err != nil {
		t.Fatalf("import: %v", err)
	}

	clk.Advance(24 * time.Hour)

	result, err := svc.Import(ctx, req)
	if err != nil {
		t.Fatalf("next-day import: %v", err)
	}
	if result.Replayed {
		t.Fatalf("next-day upload derives a new key, must not replay")
	}
}
