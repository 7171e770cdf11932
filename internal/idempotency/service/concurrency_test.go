package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cashdeskhq/cashdesk/internal/clock"
	"github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
)

// TestExecuteConcurrentDuplicates hammers one (tenant, key) with parallel
// callers. Exactly one callback may run; every other caller must observe
// either the stored response or ErrConflict.
func TestExecuteConcurrentDuplicates(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoordinator(t, db, clock.NewSystemClock())
	ctx := tenantContext(100)

	const workers = 12

	var executions atomic.Int32
	var replays atomic.Int32
	var conflicts atomic.Int32
	var unexpected atomic.Int32

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start

			result, err := svc.Execute(ctx, domain.ExecuteRequest{
				Key:       "contested",
				Operation: domain.OperationCreatePayment,
				Callback: func(ctx context.Context) (any, error) {
					executions.Add(1)
					return map[string]any{"payment_id": 1}, nil
				},
			})
			switch {
			case err == nil && !result.Replayed:
				// the one real execution
			case err == nil && result.Replayed:
				replays.Add(1)
			case errors.Is(err, domain.ErrConflict):
				conflicts.Add(1)
			default:
				unexpected.Add(1)
				t.Errorf("unexpected outcome: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("callback ran %d times, want exactly 1", got)
	}
	if got := replays.Load() + conflicts.Load(); got != workers-1 {
		t.Fatalf("replays+conflicts = %d, want %d", got, workers-1)
	}

	// After the dust settles every caller replays the same response.
	var count int64
	if err := db.Model(&domain.IdempotencyRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("stored %d records, want 1", count)
	}
}

// TestExecuteConcurrentReclaim races parallel callers over a FAILED record.
// The conditional reclaim must admit exactly one of them.
func TestExecuteConcurrentReclaim(t *testing.T) {
	db := setupTestDB(t)
	svc := newCoordinator(t, db, clock.NewSystemClock())
	ctx := tenantContext(100)

	boom := errors.New("declined")
	_, err := svc.Execute(ctx, domain.ExecuteRequest{
		Key:       "reclaim-race",
		Operation: domain.OperationCreatePayment,
		Callback: func(ctx context.Context) (any, error) {
			return nil, boom
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("seed failure: %v", err)
	}

	const workers = 8

	var executions atomic.Int32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start

			result, err := svc.Execute(ctx, domain.ExecuteRequest{
				Key:       "reclaim-race",
				Operation: domain.OperationCreatePayment,
				Callback: func(ctx context.Context) (any, error) {
					executions.Add(1)
					return map[string]any{"ok": true}, nil
				},
			})
			if err != nil && !errors.Is(err, domain.ErrConflict) {
				t.Errorf("unexpected outcome: %v", err)
			}
			_ = result
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("callback ran %d times after reclaim race, want exactly 1", got)
	}
}
