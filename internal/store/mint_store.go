package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type MintStore struct {
	db DB
}

type PointMint struct {
	ID              string          `db:"id"`
	WalletID        string          `db:"wallet_id"`
	WalletAddress   string          `db:"wallet_address"`
	XlmAmount       decimal.Decimal `db:"xlm_amount"`
	PointsAwarded   decimal.Decimal `db:"points_awarded"`
	TransactionHash string          `db:"transaction_hash"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
}

type MintInput struct {
	ID              string
	WalletID        string
	WalletAddress   string
	XlmAmount       decimal.Decimal
	PointsAwarded   decimal.Decimal
	TransactionHash string
}

type RewardInput struct {
	ID              string
	WalletID        string
	WalletAddress   string
	TransactionHash string
	XlmSpent        decimal.Decimal
	PointsAwarded   decimal.Decimal
	TransactionType string
}

type MintSettings struct {
	ID                    int             `db:"id"`
	TotalSupply           decimal.Decimal `db:"total_supply"`
	PointHoldersPercent   decimal.Decimal `db:"point_holders_percent"`
	ListingReservePercent decimal.Decimal `db:"listing_reserve_percent"`
	TeamPercent           decimal.Decimal `db:"team_percent"`
	LaunchPercent         decimal.Decimal `db:"launch_percent"`
	OtherPercent          decimal.Decimal `db:"other_percent"`
	MintingActive         bool            `db:"minting_active"`
	TreasuryWalletAddress *string         `db:"treasury_wallet_address"`
	TotalXlmReceived      decimal.Decimal `db:"total_xlm_received"`
	TotalStarMinted       decimal.Decimal `db:"total_star_minted"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

type SettingsUpdate struct {
	TotalSupply           decimal.Decimal
	PointHoldersPercent   decimal.Decimal
	ListingReservePercent decimal.Decimal
	TeamPercent           decimal.Decimal
	LaunchPercent         decimal.Decimal
	OtherPercent          decimal.Decimal
	MintingActive         bool
	TreasuryWalletAddress *string
}

func NewMintStore(db DB) *MintStore {
	return &MintStore{db: db}
}

func (s *MintStore) InsertMint(ctx context.Context, tx Execer, input MintInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO point_mints (id, wallet_id, wallet_address, xlm_amount, points_awarded, transaction_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'confirmed')
	`, input.ID, input.WalletID, input.WalletAddress, input.XlmAmount, input.PointsAwarded, input.TransactionHash)
	return err
}

func (s *MintStore) InsertReward(ctx context.Context, tx Execer, input RewardInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transaction_rewards (id, wallet_id, wallet_address, transaction_hash, xlm_spent, points_awarded, transaction_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, input.ID, input.WalletID, input.WalletAddress, input.TransactionHash, input.XlmSpent, input.PointsAwarded, input.TransactionType)
	return err
}

func (s *MintStore) ListMintsByWallet(ctx context.Context, address string) ([]PointMint, error) {
	var rows []PointMint
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, wallet_id, wallet_address, xlm_amount, points_awarded, transaction_hash, status, created_at
		FROM point_mints
		WHERE wallet_address = $1
		ORDER BY created_at DESC
	`, address)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *MintStore) GetSettings(ctx context.Context) (MintSettings, error) {
	var row MintSettings
	err := s.db.GetContext(ctx, &row, `
		SELECT id, total_supply, point_holders_percent, listing_reserve_percent, team_percent,
		       launch_percent, other_percent, minting_active, treasury_wallet_address,
		       total_xlm_received, total_star_minted, updated_at
		FROM mint_settings
		WHERE id = 1
	`)
	if err != nil {
		return MintSettings{}, err
	}
	return row, nil
}

// GetSettingsTx reads the settings row inside the caller's transaction, so
// the minting flag seen is the one the commit serializes against.
func (s *MintStore) GetSettingsTx(ctx context.Context, tx Getter) (MintSettings, error) {
	var row MintSettings
	err := tx.GetContext(ctx, &row, `
		SELECT id, total_supply, point_holders_percent, listing_reserve_percent, team_percent,
		       launch_percent, other_percent, minting_active, treasury_wallet_address,
		       total_xlm_received, total_star_minted, updated_at
		FROM mint_settings
		WHERE id = 1
	`)
	if err != nil {
		return MintSettings{}, err
	}
	return row, nil
}

// EnsureSettings inserts the default singleton row when none exists. The
// fixed primary key makes concurrent first writes collapse onto one row.
func (s *MintStore) EnsureSettings(ctx context.Context, tx Execer) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO mint_settings (id)
		VALUES (1)
		ON CONFLICT (id) DO NOTHING
	`)
	return err
}

// AccumulateSettings upserts the singleton and adds this mint's XLM and
// point totals to the running counters.
func (s *MintStore) AccumulateSettings(ctx context.Context, tx Execer, xlmAmount, points decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO mint_settings (id, total_xlm_received, total_star_minted)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE
		SET total_xlm_received = mint_settings.total_xlm_received + EXCLUDED.total_xlm_received,
		    total_star_minted = mint_settings.total_star_minted + EXCLUDED.total_star_minted,
		    updated_at = NOW()
	`, xlmAmount, points)
	return err
}

func (s *MintStore) UpdateSettings(ctx context.Context, tx Execer, update SettingsUpdate) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO mint_settings (id, total_supply, point_holders_percent, listing_reserve_percent,
		                           team_percent, launch_percent, other_percent, minting_active,
		                           treasury_wallet_address)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET total_supply = EXCLUDED.total_supply,
		    point_holders_percent = EXCLUDED.point_holders_percent,
		    listing_reserve_percent = EXCLUDED.listing_reserve_percent,
		    team_percent = EXCLUDED.team_percent,
		    launch_percent = EXCLUDED.launch_percent,
		    other_percent = EXCLUDED.other_percent,
		    minting_active = EXCLUDED.minting_active,
		    treasury_wallet_address = EXCLUDED.treasury_wallet_address,
		    updated_at = NOW()
	`, update.TotalSupply, update.PointHoldersPercent, update.ListingReservePercent,
		update.TeamPercent, update.LaunchPercent, update.OtherPercent,
		update.MintingActive, update.TreasuryWalletAddress)
	return err
}
