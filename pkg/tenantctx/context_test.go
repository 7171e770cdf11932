package tenantctx

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
)

func TestTenantIDRoundTrip(t *testing.T) {
	ctx := WithTenantID(context.Background(), snowflake.ID(42))
	got, ok := TenantIDFromContext(ctx)
	if !ok || got != 42 {
		t.Fatalf("got (%v, %v), want (42, true)", got, ok)
	}
}

func TestTenantIDMissing(t *testing.T) {
	if _, ok := TenantIDFromContext(context.Background()); ok {
		t.Fatalf("empty context must not carry a tenant")
	}
	if _, ok := TenantIDFromContext(nil); ok {
		t.Fatalf("nil context must not carry a tenant")
	}
}

func TestTenantIDAcceptsAlternateTypes(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantContextKey{}, int64(7))
	got, ok := TenantIDFromContext(ctx)
	if !ok || got != 7 {
		t.Fatalf("int64 value: got (%v, %v), want (7, true)", got, ok)
	}

	ctx = context.WithValue(context.Background(), TenantContextKey{}, "19")
	got, ok = TenantIDFromContext(ctx)
	if !ok || got != 19 {
		t.Fatalf("string value: got (%v, %v), want (19, true)", got, ok)
	}

	ctx = context.WithValue(context.Background(), TenantContextKey{}, "not-a-number")
	if _, ok := TenantIDFromContext(ctx); ok {
		t.Fatalf("unparseable string must not resolve")
	}
}
