package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type BalanceStore struct {
	db DB
}

// PointSource names the sub-total a credit is attributed to. Every credit
// increments the total and exactly one sub-total, which keeps
// star_points = minting + platform + referrals + tasks after every write.
type PointSource string

const (
	SourceMinting   PointSource = "minting"
	SourcePlatform  PointSource = "platform"
	SourceReferrals PointSource = "referrals"
	SourceTasks     PointSource = "tasks"
)

type PointBalance struct {
	ID                   string          `db:"id"`
	WalletID             string          `db:"wallet_id"`
	WalletAddress        string          `db:"wallet_address"`
	StarPoints           decimal.Decimal `db:"star_points"`
	PointsFromMinting    decimal.Decimal `db:"points_from_minting"`
	PointsFromPlatform   decimal.Decimal `db:"points_from_platform"`
	PointsFromReferrals  decimal.Decimal `db:"points_from_referrals"`
	PointsFromTasks      decimal.Decimal `db:"points_from_tasks"`
	InitialBonusReceived bool            `db:"initial_bonus_received"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

func NewBalanceStore(db DB) *BalanceStore {
	return &BalanceStore{db: db}
}

func (s *BalanceStore) Create(ctx context.Context, tx Execer, id, walletID, address string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO point_balances (id, wallet_id, wallet_address, star_points)
		VALUES ($1, $2, $3, 0)
	`, id, walletID, address)
	return err
}

func (s *BalanceStore) GetByAddress(ctx context.Context, address string) (PointBalance, error) {
	var row PointBalance
	err := s.db.GetContext(ctx, &row, `
		SELECT id, wallet_id, wallet_address, star_points,
		       points_from_minting, points_from_platform, points_from_referrals, points_from_tasks,
		       initial_bonus_received, updated_at
		FROM point_balances
		WHERE wallet_address = $1
	`, address)
	if err != nil {
		return PointBalance{}, err
	}
	return row, nil
}

func sourceColumn(source PointSource) (string, error) {
	switch source {
	case SourceMinting:
		return "points_from_minting", nil
	case SourcePlatform:
		return "points_from_platform", nil
	case SourceReferrals:
		return "points_from_referrals", nil
	case SourceTasks:
		return "points_from_tasks", nil
	default:
		return "", fmt.Errorf("unknown point source %q", source)
	}
}

// Credit adds amount to the total and the source sub-total in one statement.
func (s *BalanceStore) Credit(ctx context.Context, tx Execer, walletID string, source PointSource, amount decimal.Decimal) error {
	column, err := sourceColumn(source)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE point_balances
		SET star_points = star_points + $1, %s = %s + $1, updated_at = NOW()
		WHERE wallet_id = $2
	`, column, column)
	res, err := tx.ExecContext(ctx, query, amount, walletID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *BalanceStore) MarkInitialBonus(ctx context.Context, tx Execer, walletID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE point_balances
		SET initial_bonus_received = TRUE, updated_at = NOW()
		WHERE wallet_id = $1
	`, walletID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
