package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type WalletStore struct {
	db DB
}

type Wallet struct {
	ID                   string          `db:"id"`
	WalletAddress        string          `db:"wallet_address"`
	ReceivedInitialBonus bool            `db:"received_initial_bonus"`
	TotalPointsEarned    decimal.Decimal `db:"total_points_earned"`
	CreatedAt            time.Time       `db:"created_at"`
	LastActivityAt       time.Time       `db:"last_activity_at"`
}

func NewWalletStore(db DB) *WalletStore {
	return &WalletStore{db: db}
}

func (s *WalletStore) GetByAddress(ctx context.Context, address string) (Wallet, error) {
	var row Wallet
	err := s.db.GetContext(ctx, &row, `
		SELECT id, wallet_address, received_initial_bonus, total_points_earned, created_at, last_activity_at
		FROM wallets
		WHERE wallet_address = $1
	`, address)
	if err != nil {
		return Wallet{}, err
	}
	return row, nil
}

func (s *WalletStore) Create(ctx context.Context, tx Execer, id, address string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (id, wallet_address, received_initial_bonus, total_points_earned)
		VALUES ($1, $2, FALSE, 0)
	`, id, address)
	return err
}

// MarkInitialBonus flips the bonus flag only when it is still unset. Zero
// rows affected means another claim already won; callers treat it as a no-op.
func (s *WalletStore) MarkInitialBonus(ctx context.Context, tx Execer, walletID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET received_initial_bonus = TRUE
		WHERE id = $1 AND received_initial_bonus = FALSE
	`, walletID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RecordActivity bumps the wallet's lifetime earned counter and activity
// timestamp. Called inside the same transaction as the balance credit.
func (s *WalletStore) RecordActivity(ctx context.Context, tx Execer, walletID string, points decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET total_points_earned = total_points_earned + $1, last_activity_at = NOW()
		WHERE id = $2
	`, points, walletID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

var errRowMissing = errors.New("expected row not found")

func requireRow(res interface{ RowsAffected() (int64, error) }) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errRowMissing
	}
	return nil
}
