package services

import (
	"context"
	"database/sql"
	"errors"

	"stellforge/internal/db"
	"stellforge/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// WalletRegistry is the single entry point for resolving wallets. Creation
// always pairs the wallet row with its zeroed point balance: the two rows
// never exist independently.
type WalletRegistry struct {
	txRunner db.TxRunner
	wallets  WalletStore
	balances BalanceStore
	stats    StatsStore
}

func NewWalletRegistry(txRunner db.TxRunner, wallets WalletStore, balances BalanceStore, stats StatsStore) *WalletRegistry {
	return &WalletRegistry{
		txRunner: txRunner,
		wallets:  wallets,
		balances: balances,
		stats:    stats,
	}
}

func (r *WalletRegistry) GetOrCreate(ctx context.Context, address string) (store.Wallet, error) {
	wallet, err := r.wallets.GetByAddress(ctx, address)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return store.Wallet{}, err
	}
	walletID := uuid.NewString()
	err = r.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.wallets.Create(ctx, tx, walletID, address); err != nil {
			return err
		}
		if err := r.balances.Create(ctx, tx, uuid.NewString(), walletID, address); err != nil {
			return err
		}
		return r.stats.IncrementTotalUsers(ctx, tx)
	})
	if err != nil {
		// A concurrent first-time call won the insert race; use its row.
		if db.IsUniqueViolation(err) {
			return r.wallets.GetByAddress(ctx, address)
		}
		return store.Wallet{}, err
	}
	return r.wallets.GetByAddress(ctx, address)
}
