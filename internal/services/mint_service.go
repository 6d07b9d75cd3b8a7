package services

import (
	"context"
	"database/sql"
	"errors"

	"stellforge/internal/db"
	"stellforge/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// MintConfig carries the injected reward rates. Rates are configuration,
// never literals in service code.
type MintConfig struct {
	MintRate           decimal.Decimal
	PlatformRewardRate decimal.Decimal
	InitialBonusPoints decimal.Decimal
	MaxBonusRecipients int
}

type MintService struct {
	txRunner db.TxRunner
	registry Registry
	wallets  WalletStore
	balances BalanceStore
	mints    MintStore
	stats    StatsStore
	hub      PointsHub
	cfg      MintConfig
}

func NewMintService(txRunner db.TxRunner, registry Registry, wallets WalletStore, balances BalanceStore, mints MintStore, stats StatsStore, hub PointsHub, cfg MintConfig) *MintService {
	return &MintService{
		txRunner: txRunner,
		registry: registry,
		wallets:  wallets,
		balances: balances,
		mints:    mints,
		stats:    stats,
		hub:      hub,
		cfg:      cfg,
	}
}

// MintPoints converts a reported XLM payment into STAR points at the
// configured rate. The transaction hash keys idempotence: a duplicate hash
// aborts with ErrDuplicateTransaction instead of double-crediting.
func (s *MintService) MintPoints(ctx context.Context, address string, xlmAmount decimal.Decimal, transactionHash string) (decimal.Decimal, error) {
	if xlmAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	settings, err := s.mints.GetSettings(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, err
	}
	if err == nil && !settings.MintingActive {
		return decimal.Zero, ErrMintingDisabled
	}
	wallet, err := s.registry.GetOrCreate(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	points := xlmAmount.Mul(s.cfg.MintRate).RoundBank(2)
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Re-check under the transaction: a concurrent admin disable must
		// not race one final mint through.
		settings, err := s.mints.GetSettingsTx(ctx, tx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil && !settings.MintingActive {
			return ErrMintingDisabled
		}
		if err := s.mints.InsertMint(ctx, tx, store.MintInput{
			ID:              uuid.NewString(),
			WalletID:        wallet.ID,
			WalletAddress:   address,
			XlmAmount:       xlmAmount,
			PointsAwarded:   points,
			TransactionHash: transactionHash,
		}); err != nil {
			return err
		}
		if err := s.balances.Credit(ctx, tx, wallet.ID, store.SourceMinting, points); err != nil {
			return err
		}
		if err := s.wallets.RecordActivity(ctx, tx, wallet.ID, points); err != nil {
			return err
		}
		return s.mints.AccumulateSettings(ctx, tx, xlmAmount, points)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return decimal.Zero, ErrDuplicateTransaction
		}
		return decimal.Zero, err
	}
	broadcastPoints(ctx, s.hub, s.balances, address, store.SourceMinting, points)
	return points, nil
}

// AwardInitialBonus grants the one-time early bonus, capped globally. The
// stats row is locked for the duration of the check-and-award so concurrent
// claims cannot slip past the cap. The flag flip is conditional inside the
// transaction: the pre-read of the wallet can be stale when two claims race
// or when a serialization retry re-runs the body. Re-claims are a no-op,
// not an error.
func (s *MintService) AwardInitialBonus(ctx context.Context, address string) (bool, decimal.Decimal, error) {
	wallet, err := s.registry.GetOrCreate(ctx, address)
	if err != nil {
		return false, decimal.Zero, err
	}
	if wallet.ReceivedInitialBonus {
		return false, decimal.Zero, nil
	}
	awarded := false
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		awarded = false
		stats, err := s.stats.Lock(ctx, tx)
		if err != nil {
			return err
		}
		if stats.UsersWithInitialBonus >= s.cfg.MaxBonusRecipients {
			return nil
		}
		rows, err := s.wallets.MarkInitialBonus(ctx, tx, wallet.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		if err := s.balances.Credit(ctx, tx, wallet.ID, store.SourcePlatform, s.cfg.InitialBonusPoints); err != nil {
			return err
		}
		if err := s.balances.MarkInitialBonus(ctx, tx, wallet.ID); err != nil {
			return err
		}
		if err := s.wallets.RecordActivity(ctx, tx, wallet.ID, s.cfg.InitialBonusPoints); err != nil {
			return err
		}
		if err := s.stats.RecordBonus(ctx, tx, s.cfg.InitialBonusPoints); err != nil {
			return err
		}
		awarded = true
		return nil
	})
	if err != nil {
		return false, decimal.Zero, err
	}
	if !awarded {
		return false, decimal.Zero, nil
	}
	broadcastPoints(ctx, s.hub, s.balances, address, store.SourcePlatform, s.cfg.InitialBonusPoints)
	return true, s.cfg.InitialBonusPoints, nil
}

// RecordPlatformReward credits points for XLM spent on platform actions
// (token launch fees, swaps). Same idempotence rule as minting: one credit
// per transaction hash.
func (s *MintService) RecordPlatformReward(ctx context.Context, address string, xlmSpent decimal.Decimal, transactionHash, transactionType string) (decimal.Decimal, error) {
	if xlmSpent.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	wallet, err := s.registry.GetOrCreate(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	points := xlmSpent.Mul(s.cfg.PlatformRewardRate).RoundBank(2)
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.mints.InsertReward(ctx, tx, store.RewardInput{
			ID:              uuid.NewString(),
			WalletID:        wallet.ID,
			WalletAddress:   address,
			TransactionHash: transactionHash,
			XlmSpent:        xlmSpent,
			PointsAwarded:   points,
			TransactionType: transactionType,
		}); err != nil {
			return err
		}
		if err := s.balances.Credit(ctx, tx, wallet.ID, store.SourcePlatform, points); err != nil {
			return err
		}
		return s.wallets.RecordActivity(ctx, tx, wallet.ID, points)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return decimal.Zero, ErrDuplicateTransaction
		}
		return decimal.Zero, err
	}
	broadcastPoints(ctx, s.hub, s.balances, address, store.SourcePlatform, points)
	return points, nil
}

// EnsureSettings seeds the mint settings singleton at startup.
func (s *MintService) EnsureSettings(ctx context.Context) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.mints.EnsureSettings(ctx, tx)
	})
}
