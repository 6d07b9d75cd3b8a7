package handlers

import (
	"context"
	"encoding/json"
	"time"

	"stellforge/internal/config"
	"stellforge/internal/ratelimit"
	"stellforge/internal/store"
	"stellforge/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:        "secret",
		TokenTTL:         time.Minute,
		FrontendURL:      "https://stellforge.app",
		AllowedOrigins:   "*",
		RateLimitPerHour: 100,
	}
}

func newTestHandler(mintService MintService, referralService ReferralService, taskService TaskService, balances BalanceStore, mints MintStore, stats StatsStore, tasks TaskStore, audit AuditStore) *Handler {
	return New(testConfig(), fakeTxRunner{}, ratelimit.NewMemoryCounter(), mintService, referralService, taskService, balances, mints, stats, tasks, audit, websocket.NewHub())
}

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubMintService struct {
	mintFn   func(ctx context.Context, address string, xlmAmount decimal.Decimal, transactionHash string) (decimal.Decimal, error)
	bonusFn  func(ctx context.Context, address string) (bool, decimal.Decimal, error)
	rewardFn func(ctx context.Context, address string, xlmSpent decimal.Decimal, transactionHash, transactionType string) (decimal.Decimal, error)
}

func (s stubMintService) MintPoints(ctx context.Context, address string, xlmAmount decimal.Decimal, transactionHash string) (decimal.Decimal, error) {
	if s.mintFn == nil {
		return decimal.Zero, nil
	}
	return s.mintFn(ctx, address, xlmAmount, transactionHash)
}

func (s stubMintService) AwardInitialBonus(ctx context.Context, address string) (bool, decimal.Decimal, error) {
	if s.bonusFn == nil {
		return false, decimal.Zero, nil
	}
	return s.bonusFn(ctx, address)
}

func (s stubMintService) RecordPlatformReward(ctx context.Context, address string, xlmSpent decimal.Decimal, transactionHash, transactionType string) (decimal.Decimal, error) {
	if s.rewardFn == nil {
		return decimal.Zero, nil
	}
	return s.rewardFn(ctx, address, xlmSpent, transactionHash, transactionType)
}

type stubReferralService struct {
	linkFn  func(ctx context.Context, address string) (store.ReferralLink, error)
	claimFn func(ctx context.Context, code, refereeAddress, ipAddress, deviceFingerprint string) (string, decimal.Decimal, error)
}

func (s stubReferralService) GetOrCreateLink(ctx context.Context, address string) (store.ReferralLink, error) {
	if s.linkFn == nil {
		return store.ReferralLink{}, nil
	}
	return s.linkFn(ctx, address)
}

func (s stubReferralService) RecordReferral(ctx context.Context, code, refereeAddress, ipAddress, deviceFingerprint string) (string, decimal.Decimal, error) {
	if s.claimFn == nil {
		return "", decimal.Zero, nil
	}
	return s.claimFn(ctx, code, refereeAddress, ipAddress, deviceFingerprint)
}

type stubTaskService struct {
	listFn      func(ctx context.Context) ([]store.Task, error)
	completeFn  func(ctx context.Context, address, taskID string, proofData json.RawMessage) (decimal.Decimal, error)
	completedFn func(ctx context.Context, address string) ([]store.TaskCompletion, error)
}

func (s stubTaskService) ActiveTasks(ctx context.Context) ([]store.Task, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubTaskService) CompleteTask(ctx context.Context, address, taskID string, proofData json.RawMessage) (decimal.Decimal, error) {
	if s.completeFn == nil {
		return decimal.Zero, nil
	}
	return s.completeFn(ctx, address, taskID, proofData)
}

func (s stubTaskService) CompletedTasks(ctx context.Context, address string) ([]store.TaskCompletion, error) {
	if s.completedFn == nil {
		return nil, nil
	}
	return s.completedFn(ctx, address)
}

type stubBalanceStore struct {
	getByAddressFn func(ctx context.Context, address string) (store.PointBalance, error)
}

func (s stubBalanceStore) GetByAddress(ctx context.Context, address string) (store.PointBalance, error) {
	if s.getByAddressFn == nil {
		return store.PointBalance{}, nil
	}
	return s.getByAddressFn(ctx, address)
}

type stubMintStore struct {
	listFn           func(ctx context.Context, address string) ([]store.PointMint, error)
	getSettingsFn    func(ctx context.Context) (store.MintSettings, error)
	updateSettingsFn func(ctx context.Context, tx store.Execer, update store.SettingsUpdate) error
}

func (s stubMintStore) ListMintsByWallet(ctx context.Context, address string) ([]store.PointMint, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, address)
}

func (s stubMintStore) GetSettings(ctx context.Context) (store.MintSettings, error) {
	if s.getSettingsFn == nil {
		return store.MintSettings{}, nil
	}
	return s.getSettingsFn(ctx)
}

func (s stubMintStore) UpdateSettings(ctx context.Context, tx store.Execer, update store.SettingsUpdate) error {
	if s.updateSettingsFn == nil {
		return nil
	}
	return s.updateSettingsFn(ctx, tx, update)
}

type stubStatsStore struct {
	getFn func(ctx context.Context) (store.UserStats, error)
}

func (s stubStatsStore) Get(ctx context.Context) (store.UserStats, error) {
	if s.getFn == nil {
		return store.UserStats{}, nil
	}
	return s.getFn(ctx)
}

type stubTaskStore struct {
	insertFn    func(ctx context.Context, tx store.Execer, input store.TaskInput) error
	setActiveFn func(ctx context.Context, tx store.Execer, taskID string, active bool) (int64, error)
}

func (s stubTaskStore) Insert(ctx context.Context, tx store.Execer, input store.TaskInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

func (s stubTaskStore) SetActive(ctx context.Context, tx store.Execer, taskID string, active bool) (int64, error) {
	if s.setActiveFn == nil {
		return 1, nil
	}
	return s.setActiveFn(ctx, tx, taskID, active)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, entry store.AuditEntry) error
	listFn func(ctx context.Context, limit, offset int) ([]store.AuditLog, error)
}

func (s stubAuditStore) Log(ctx context.Context, entry store.AuditEntry) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, entry)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]store.AuditLog, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}
