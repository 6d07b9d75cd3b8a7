package services

import (
	"context"
	"database/sql"
	"testing"

	"stellforge/internal/store"

	"github.com/lib/pq"
)

func TestRegistryGetOrCreateExisting(t *testing.T) {
	registry := NewWalletRegistry(fakeTxRunner{err: sql.ErrTxDone}, stubWalletStore{
		getByAddressFn: func(context.Context, string) (store.Wallet, error) {
			return store.Wallet{ID: "w-1", WalletAddress: "GABC"}, nil
		},
	}, stubBalanceStore{}, stubStatsStore{})
	wallet, err := registry.GetOrCreate(context.Background(), "GABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.ID != "w-1" {
		t.Fatalf("unexpected wallet: %#v", wallet)
	}
}

func TestRegistryGetOrCreateCreates(t *testing.T) {
	lookups := 0
	walletCreated := false
	balanceCreated := false
	usersCounted := false
	registry := NewWalletRegistry(fakeTxRunner{}, stubWalletStore{
		getByAddressFn: func(context.Context, string) (store.Wallet, error) {
			lookups++
			if lookups == 1 {
				return store.Wallet{}, sql.ErrNoRows
			}
			return store.Wallet{ID: "w-1", WalletAddress: "GABC"}, nil
		},
		createFn: func(_ context.Context, _ store.Execer, id, address string) error {
			if id == "" || address != "GABC" {
				t.Fatalf("unexpected create args: %s %s", id, address)
			}
			walletCreated = true
			return nil
		},
	}, stubBalanceStore{
		createFn: func(_ context.Context, _ store.Execer, id, walletID, address string) error {
			if id == "" || walletID == "" || address != "GABC" {
				t.Fatalf("unexpected balance create args: %s %s %s", id, walletID, address)
			}
			balanceCreated = true
			return nil
		},
	}, stubStatsStore{
		incrementTotalUsersFn: func(context.Context, store.Execer) error {
			usersCounted = true
			return nil
		},
	})
	wallet, err := registry.GetOrCreate(context.Background(), "GABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.ID != "w-1" {
		t.Fatalf("unexpected wallet: %#v", wallet)
	}
	if !walletCreated || !balanceCreated || !usersCounted {
		t.Fatal("expected wallet, balance and stats writes")
	}
}

func TestRegistryGetOrCreateRace(t *testing.T) {
	lookups := 0
	registry := NewWalletRegistry(fakeTxRunner{}, stubWalletStore{
		getByAddressFn: func(context.Context, string) (store.Wallet, error) {
			lookups++
			if lookups == 1 {
				return store.Wallet{}, sql.ErrNoRows
			}
			return store.Wallet{ID: "w-other", WalletAddress: "GABC"}, nil
		},
		createFn: func(context.Context, store.Execer, string, string) error {
			return &pq.Error{Code: "23505"}
		},
	}, stubBalanceStore{}, stubStatsStore{})
	wallet, err := registry.GetOrCreate(context.Background(), "GABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.ID != "w-other" {
		t.Fatalf("expected concurrently created wallet, got %#v", wallet)
	}
}
