package services

import (
	"context"

	"stellforge/internal/store"
	"stellforge/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubWalletStore struct {
	getByAddressFn     func(ctx context.Context, address string) (store.Wallet, error)
	createFn           func(ctx context.Context, tx store.Execer, id, address string) error
	markInitialBonusFn func(ctx context.Context, tx store.Execer, walletID string) (int64, error)
	recordActivityFn   func(ctx context.Context, tx store.Execer, walletID string, points decimal.Decimal) error
}

func (s stubWalletStore) GetByAddress(ctx context.Context, address string) (store.Wallet, error) {
	if s.getByAddressFn == nil {
		return store.Wallet{}, nil
	}
	return s.getByAddressFn(ctx, address)
}

func (s stubWalletStore) Create(ctx context.Context, tx store.Execer, id, address string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, address)
}

func (s stubWalletStore) MarkInitialBonus(ctx context.Context, tx store.Execer, walletID string) (int64, error) {
	if s.markInitialBonusFn == nil {
		return 1, nil
	}
	return s.markInitialBonusFn(ctx, tx, walletID)
}

func (s stubWalletStore) RecordActivity(ctx context.Context, tx store.Execer, walletID string, points decimal.Decimal) error {
	if s.recordActivityFn == nil {
		return nil
	}
	return s.recordActivityFn(ctx, tx, walletID, points)
}

type stubBalanceStore struct {
	createFn           func(ctx context.Context, tx store.Execer, id, walletID, address string) error
	getByAddressFn     func(ctx context.Context, address string) (store.PointBalance, error)
	creditFn           func(ctx context.Context, tx store.Execer, walletID string, source store.PointSource, amount decimal.Decimal) error
	markInitialBonusFn func(ctx context.Context, tx store.Execer, walletID string) error
}

func (s stubBalanceStore) Create(ctx context.Context, tx store.Execer, id, walletID, address string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, walletID, address)
}

func (s stubBalanceStore) GetByAddress(ctx context.Context, address string) (store.PointBalance, error) {
	if s.getByAddressFn == nil {
		return store.PointBalance{}, nil
	}
	return s.getByAddressFn(ctx, address)
}

func (s stubBalanceStore) Credit(ctx context.Context, tx store.Execer, walletID string, source store.PointSource, amount decimal.Decimal) error {
	if s.creditFn == nil {
		return nil
	}
	return s.creditFn(ctx, tx, walletID, source, amount)
}

func (s stubBalanceStore) MarkInitialBonus(ctx context.Context, tx store.Execer, walletID string) error {
	if s.markInitialBonusFn == nil {
		return nil
	}
	return s.markInitialBonusFn(ctx, tx, walletID)
}

type stubMintStore struct {
	insertMintFn     func(ctx context.Context, tx store.Execer, input store.MintInput) error
	insertRewardFn   func(ctx context.Context, tx store.Execer, input store.RewardInput) error
	getSettingsFn    func(ctx context.Context) (store.MintSettings, error)
	getSettingsTxFn  func(ctx context.Context, tx store.Getter) (store.MintSettings, error)
	ensureSettingsFn func(ctx context.Context, tx store.Execer) error
	accumulateFn     func(ctx context.Context, tx store.Execer, xlmAmount, points decimal.Decimal) error
}

func (s stubMintStore) InsertMint(ctx context.Context, tx store.Execer, input store.MintInput) error {
	if s.insertMintFn == nil {
		return nil
	}
	return s.insertMintFn(ctx, tx, input)
}

func (s stubMintStore) InsertReward(ctx context.Context, tx store.Execer, input store.RewardInput) error {
	if s.insertRewardFn == nil {
		return nil
	}
	return s.insertRewardFn(ctx, tx, input)
}

func (s stubMintStore) GetSettings(ctx context.Context) (store.MintSettings, error) {
	if s.getSettingsFn == nil {
		return store.MintSettings{MintingActive: true}, nil
	}
	return s.getSettingsFn(ctx)
}

func (s stubMintStore) GetSettingsTx(ctx context.Context, tx store.Getter) (store.MintSettings, error) {
	if s.getSettingsTxFn == nil {
		return store.MintSettings{MintingActive: true}, nil
	}
	return s.getSettingsTxFn(ctx, tx)
}

func (s stubMintStore) EnsureSettings(ctx context.Context, tx store.Execer) error {
	if s.ensureSettingsFn == nil {
		return nil
	}
	return s.ensureSettingsFn(ctx, tx)
}

func (s stubMintStore) AccumulateSettings(ctx context.Context, tx store.Execer, xlmAmount, points decimal.Decimal) error {
	if s.accumulateFn == nil {
		return nil
	}
	return s.accumulateFn(ctx, tx, xlmAmount, points)
}

type stubStatsStore struct {
	lockFn                func(ctx context.Context, tx store.Tx) (store.UserStats, error)
	recordBonusFn         func(ctx context.Context, tx store.Execer, points decimal.Decimal) error
	incrementTotalUsersFn func(ctx context.Context, tx store.Execer) error
}

func (s stubStatsStore) Lock(ctx context.Context, tx store.Tx) (store.UserStats, error) {
	if s.lockFn == nil {
		return store.UserStats{}, nil
	}
	return s.lockFn(ctx, tx)
}

func (s stubStatsStore) RecordBonus(ctx context.Context, tx store.Execer, points decimal.Decimal) error {
	if s.recordBonusFn == nil {
		return nil
	}
	return s.recordBonusFn(ctx, tx, points)
}

func (s stubStatsStore) IncrementTotalUsers(ctx context.Context, tx store.Execer) error {
	if s.incrementTotalUsersFn == nil {
		return nil
	}
	return s.incrementTotalUsersFn(ctx, tx)
}

type stubReferralStore struct {
	getLinkByAddressFn  func(ctx context.Context, address string) (store.ReferralLink, error)
	getLinkByCodeFn     func(ctx context.Context, code string) (store.ReferralLink, error)
	createLinkFn        func(ctx context.Context, input store.LinkInput) error
	hasEventFn          func(ctx context.Context, refereeWalletID string) (bool, error)
	insertEventFn       func(ctx context.Context, tx store.Execer, input store.EventInput) error
	incrementCountersFn func(ctx context.Context, tx store.Execer, linkID string) error
}

func (s stubReferralStore) GetLinkByAddress(ctx context.Context, address string) (store.ReferralLink, error) {
	if s.getLinkByAddressFn == nil {
		return store.ReferralLink{}, nil
	}
	return s.getLinkByAddressFn(ctx, address)
}

func (s stubReferralStore) GetLinkByCode(ctx context.Context, code string) (store.ReferralLink, error) {
	if s.getLinkByCodeFn == nil {
		return store.ReferralLink{}, nil
	}
	return s.getLinkByCodeFn(ctx, code)
}

func (s stubReferralStore) CreateLink(ctx context.Context, input store.LinkInput) error {
	if s.createLinkFn == nil {
		return nil
	}
	return s.createLinkFn(ctx, input)
}

func (s stubReferralStore) HasEventForReferee(ctx context.Context, refereeWalletID string) (bool, error) {
	if s.hasEventFn == nil {
		return false, nil
	}
	return s.hasEventFn(ctx, refereeWalletID)
}

func (s stubReferralStore) InsertEvent(ctx context.Context, tx store.Execer, input store.EventInput) error {
	if s.insertEventFn == nil {
		return nil
	}
	return s.insertEventFn(ctx, tx, input)
}

func (s stubReferralStore) IncrementCounters(ctx context.Context, tx store.Execer, linkID string) error {
	if s.incrementCountersFn == nil {
		return nil
	}
	return s.incrementCountersFn(ctx, tx, linkID)
}

type stubTaskStore struct {
	listActiveFn       func(ctx context.Context) ([]store.Task, error)
	getByIDFn          func(ctx context.Context, taskID string) (store.Task, error)
	countFn            func(ctx context.Context) (int, error)
	insertFn           func(ctx context.Context, tx store.Execer, input store.TaskInput) error
	hasCompletionFn    func(ctx context.Context, taskID, walletID string) (bool, error)
	insertCompletionFn func(ctx context.Context, tx store.Execer, input store.CompletionInput) error
	listCompletionsFn  func(ctx context.Context, walletID string) ([]store.TaskCompletion, error)
}

func (s stubTaskStore) ListActive(ctx context.Context) ([]store.Task, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx)
}

func (s stubTaskStore) GetByID(ctx context.Context, taskID string) (store.Task, error) {
	if s.getByIDFn == nil {
		return store.Task{}, nil
	}
	return s.getByIDFn(ctx, taskID)
}

func (s stubTaskStore) Count(ctx context.Context) (int, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx)
}

func (s stubTaskStore) Insert(ctx context.Context, tx store.Execer, input store.TaskInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

func (s stubTaskStore) HasCompletion(ctx context.Context, taskID, walletID string) (bool, error) {
	if s.hasCompletionFn == nil {
		return false, nil
	}
	return s.hasCompletionFn(ctx, taskID, walletID)
}

func (s stubTaskStore) InsertCompletion(ctx context.Context, tx store.Execer, input store.CompletionInput) error {
	if s.insertCompletionFn == nil {
		return nil
	}
	return s.insertCompletionFn(ctx, tx, input)
}

func (s stubTaskStore) ListCompletionsByWallet(ctx context.Context, walletID string) ([]store.TaskCompletion, error) {
	if s.listCompletionsFn == nil {
		return nil, nil
	}
	return s.listCompletionsFn(ctx, walletID)
}

type stubRegistry struct {
	getOrCreateFn func(ctx context.Context, address string) (store.Wallet, error)
}

func (s stubRegistry) GetOrCreate(ctx context.Context, address string) (store.Wallet, error) {
	if s.getOrCreateFn == nil {
		return store.Wallet{ID: "w-1", WalletAddress: address}, nil
	}
	return s.getOrCreateFn(ctx, address)
}

type stubHub struct {
	updates []websocket.PointsUpdate
}

func (s *stubHub) BroadcastPoints(_ string, update websocket.PointsUpdate) {
	s.updates = append(s.updates, update)
}
