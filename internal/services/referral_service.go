package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"stellforge/internal/db"
	"stellforge/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ReferralService struct {
	txRunner  db.TxRunner
	registry  Registry
	wallets   WalletStore
	balances  BalanceStore
	referrals ReferralStore
	hub       PointsHub
	reward    decimal.Decimal
}

func NewReferralService(txRunner db.TxRunner, registry Registry, wallets WalletStore, balances BalanceStore, referrals ReferralStore, hub PointsHub, reward decimal.Decimal) *ReferralService {
	return &ReferralService{
		txRunner:  txRunner,
		registry:  registry,
		wallets:   wallets,
		balances:  balances,
		referrals: referrals,
		hub:       hub,
		reward:    reward,
	}
}

// generateReferralCode builds a code from the address prefix plus a random
// hex suffix. Collisions are vanishingly rare but not impossible; callers
// retry on a uniqueness violation.
func generateReferralCode(address string) (string, error) {
	prefix := address
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(prefix + "-" + hex.EncodeToString(buf)), nil
}

func (s *ReferralService) GetOrCreateLink(ctx context.Context, address string) (store.ReferralLink, error) {
	wallet, err := s.registry.GetOrCreate(ctx, address)
	if err != nil {
		return store.ReferralLink{}, err
	}
	link, err := s.referrals.GetLinkByAddress(ctx, address)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return store.ReferralLink{}, err
	}
	const maxAttempts = 5
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := generateReferralCode(address)
		if err != nil {
			return store.ReferralLink{}, err
		}
		err = s.referrals.CreateLink(ctx, store.LinkInput{
			ID:            uuid.NewString(),
			WalletID:      wallet.ID,
			WalletAddress: address,
			ReferralCode:  code,
		})
		if err == nil {
			return s.referrals.GetLinkByAddress(ctx, address)
		}
		if !db.IsUniqueViolation(err) {
			return store.ReferralLink{}, err
		}
		// Either the code collided or a concurrent request created the
		// link for this wallet. Re-check before retrying with a new code.
		if existing, lookupErr := s.referrals.GetLinkByAddress(ctx, address); lookupErr == nil {
			return existing, nil
		}
	}
	return store.ReferralLink{}, errors.New("unable to allocate referral code")
}

// RecordReferral registers a referee against a code and pays the referrer.
// A wallet can be referred at most once, ever; only the referrer earns
// points in this flow.
func (s *ReferralService) RecordReferral(ctx context.Context, code, refereeAddress, ipAddress, deviceFingerprint string) (string, decimal.Decimal, error) {
	link, err := s.referrals.GetLinkByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", decimal.Zero, ErrInvalidReferralCode
		}
		return "", decimal.Zero, err
	}
	if link.WalletAddress == refereeAddress {
		return "", decimal.Zero, ErrSelfReferral
	}
	referee, err := s.registry.GetOrCreate(ctx, refereeAddress)
	if err != nil {
		return "", decimal.Zero, err
	}
	referred, err := s.referrals.HasEventForReferee(ctx, referee.ID)
	if err != nil {
		return "", decimal.Zero, err
	}
	if referred {
		return "", decimal.Zero, ErrAlreadyReferred
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.referrals.InsertEvent(ctx, tx, store.EventInput{
			ID:                uuid.NewString(),
			ReferrerWalletID:  link.WalletID,
			RefereeWalletID:   referee.ID,
			ReferralCode:      code,
			IPAddress:         ipAddress,
			DeviceFingerprint: deviceFingerprint,
			PointsAwarded:     s.reward,
		}); err != nil {
			return err
		}
		if err := s.referrals.IncrementCounters(ctx, tx, link.ID); err != nil {
			return err
		}
		if err := s.balances.Credit(ctx, tx, link.WalletID, store.SourceReferrals, s.reward); err != nil {
			return err
		}
		return s.wallets.RecordActivity(ctx, tx, link.WalletID, s.reward)
	})
	if err != nil {
		// Unique referee constraint: a concurrent claim got there first.
		if db.IsUniqueViolation(err) {
			return "", decimal.Zero, ErrAlreadyReferred
		}
		return "", decimal.Zero, err
	}
	broadcastPoints(ctx, s.hub, s.balances, link.WalletAddress, store.SourceReferrals, s.reward)
	return link.WalletAddress, s.reward, nil
}
