package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestAuditStoreLogDefaultsDetails(t *testing.T) {
	store := NewAuditStore(stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO security_audit_logs") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 6 {
				t.Fatalf("unexpected args: %#v", args)
			}
			if args[4] != "{}" {
				t.Fatalf("expected empty details to default to {}, got %#v", args[4])
			}
			if args[0] != nil {
				if ptr, ok := args[0].(*string); !ok || ptr != nil {
					t.Fatalf("expected nil wallet address, got %#v", args[0])
				}
			}
			return stubResult{rows: 1}, nil
		},
	})
	err := store.Log(context.Background(), AuditEntry{Action: "rate_limit_exceeded", Flagged: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuditStoreList(t *testing.T) {
	store := NewAuditStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "LIMIT $1 OFFSET $2") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != 50 || args[1] != 0 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]AuditLog) = []AuditLog{{ID: "a-1"}}
			return nil
		},
	})
	rows, err := store.List(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "a-1" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
