package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type StatsStore struct {
	db DB
}

type UserStats struct {
	ID                    int             `db:"id"`
	TotalUsers            int             `db:"total_users"`
	UsersWithInitialBonus int             `db:"users_with_initial_bonus"`
	TotalStarDistributed  decimal.Decimal `db:"total_star_distributed"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

func NewStatsStore(db DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) Get(ctx context.Context) (UserStats, error) {
	var row UserStats
	err := s.db.GetContext(ctx, &row, `
		SELECT id, total_users, users_with_initial_bonus, total_star_distributed, updated_at
		FROM user_stats
		WHERE id = 1
	`)
	if err != nil {
		return UserStats{}, err
	}
	return row, nil
}

// Lock ensures the singleton row exists and returns it under FOR UPDATE.
// Concurrent bonus claims serialize on this lock, so the recipient cap is
// checked against a stable count. The first-ever caller creates the row and
// therefore always passes the cap check.
func (s *StatsStore) Lock(ctx context.Context, tx Tx) (UserStats, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_stats (id)
		VALUES (1)
		ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return UserStats{}, err
	}
	var row UserStats
	err := tx.GetContext(ctx, &row, `
		SELECT id, total_users, users_with_initial_bonus, total_star_distributed, updated_at
		FROM user_stats
		WHERE id = 1
		FOR UPDATE
	`)
	if err != nil {
		return UserStats{}, err
	}
	return row, nil
}

func (s *StatsStore) RecordBonus(ctx context.Context, tx Execer, points decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE user_stats
		SET users_with_initial_bonus = users_with_initial_bonus + 1,
		    total_star_distributed = total_star_distributed + $1,
		    updated_at = NOW()
		WHERE id = 1
	`, points)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// IncrementTotalUsers counts a newly registered wallet, creating the
// singleton when absent.
func (s *StatsStore) IncrementTotalUsers(ctx context.Context, tx Execer) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_stats (id, total_users)
		VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE
		SET total_users = user_stats.total_users + 1, updated_at = NOW()
	`)
	return err
}
