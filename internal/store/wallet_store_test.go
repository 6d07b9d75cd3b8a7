package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestWalletStoreGetByAddress(t *testing.T) {
	ctx := context.Background()
	store := NewWalletStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM wallets") || !strings.Contains(query, "wallet_address = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "GABC" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*Wallet) = Wallet{ID: "w-1", WalletAddress: "GABC"}
			return nil
		},
	})
	row, err := store.GetByAddress(ctx, "GABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != "w-1" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestWalletStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO wallets") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "w-1" || args[1] != "GABC" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewWalletStore(stubDB{})
	if err := store.Create(ctx, execer, "w-1", "GABC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWalletStoreMarkInitialBonusConditional(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, _ ...any) (sql.Result, error) {
			if !strings.Contains(query, "received_initial_bonus = TRUE") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "received_initial_bonus = FALSE") {
				t.Fatalf("expected conditional flag flip, got: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewWalletStore(stubDB{})
	rows, err := store.MarkInitialBonus(ctx, execer, "w-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestWalletStoreMarkInitialBonusAlreadySet(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(context.Context, string, ...any) (sql.Result, error) {
			return stubResult{rows: 0}, nil
		},
	}
	store := NewWalletStore(stubDB{})
	rows, err := store.MarkInitialBonus(ctx, execer, "w-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows when flag already set, got %d", rows)
	}
}

func TestWalletStoreRecordActivity(t *testing.T) {
	ctx := context.Background()
	points := decimal.NewFromInt(25)
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "total_points_earned = total_points_earned + $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[1] != "w-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewWalletStore(stubDB{})
	if err := store.RecordActivity(ctx, execer, "w-1", points); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
