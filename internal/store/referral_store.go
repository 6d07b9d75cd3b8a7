package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ReferralStore struct {
	db DB
}

type ReferralLink struct {
	ID                  string    `db:"id"`
	WalletID            string    `db:"wallet_id"`
	WalletAddress       string    `db:"wallet_address"`
	ReferralCode        string    `db:"referral_code"`
	TotalReferrals      int       `db:"total_referrals"`
	SuccessfulReferrals int       `db:"successful_referrals"`
	CreatedAt           time.Time `db:"created_at"`
}

type LinkInput struct {
	ID            string
	WalletID      string
	WalletAddress string
	ReferralCode  string
}

type EventInput struct {
	ID                string
	ReferrerWalletID  string
	RefereeWalletID   string
	ReferralCode      string
	IPAddress         string
	DeviceFingerprint string
	PointsAwarded     decimal.Decimal
}

func NewReferralStore(db DB) *ReferralStore {
	return &ReferralStore{db: db}
}

func (s *ReferralStore) GetLinkByAddress(ctx context.Context, address string) (ReferralLink, error) {
	var row ReferralLink
	err := s.db.GetContext(ctx, &row, `
		SELECT id, wallet_id, wallet_address, referral_code, total_referrals, successful_referrals, created_at
		FROM referral_links
		WHERE wallet_address = $1
	`, address)
	if err != nil {
		return ReferralLink{}, err
	}
	return row, nil
}

func (s *ReferralStore) GetLinkByCode(ctx context.Context, code string) (ReferralLink, error) {
	var row ReferralLink
	err := s.db.GetContext(ctx, &row, `
		SELECT id, wallet_id, wallet_address, referral_code, total_referrals, successful_referrals, created_at
		FROM referral_links
		WHERE referral_code = $1
	`, code)
	if err != nil {
		return ReferralLink{}, err
	}
	return row, nil
}

func (s *ReferralStore) CreateLink(ctx context.Context, input LinkInput) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO referral_links (id, wallet_id, wallet_address, referral_code, total_referrals, successful_referrals)
		VALUES ($1, $2, $3, $4, 0, 0)
	`, input.ID, input.WalletID, input.WalletAddress, input.ReferralCode)
	return err
}

// HasEventForReferee reports whether a wallet has ever been referred. The
// unique constraint on referee_wallet_id is the backstop for races.
func (s *ReferralStore) HasEventForReferee(ctx context.Context, refereeWalletID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM referral_events WHERE referee_wallet_id = $1)
	`, refereeWalletID)
	return exists, err
}

func (s *ReferralStore) InsertEvent(ctx context.Context, tx Execer, input EventInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO referral_events (id, referrer_wallet_id, referee_wallet_id, referral_code,
		                             ip_address, device_fingerprint, status, points_awarded)
		VALUES ($1, $2, $3, $4, $5, $6, 'confirmed', $7)
	`, input.ID, input.ReferrerWalletID, input.RefereeWalletID, input.ReferralCode,
		input.IPAddress, input.DeviceFingerprint, input.PointsAwarded)
	return err
}

func (s *ReferralStore) IncrementCounters(ctx context.Context, tx Execer, linkID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE referral_links
		SET total_referrals = total_referrals + 1, successful_referrals = successful_referrals + 1
		WHERE id = $1
	`, linkID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
