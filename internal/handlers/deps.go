package handlers

import (
	"context"
	"encoding/json"

	"stellforge/internal/store"

	"github.com/shopspring/decimal"
)

type MintService interface {
	MintPoints(ctx context.Context, address string, xlmAmount decimal.Decimal, transactionHash string) (decimal.Decimal, error)
	AwardInitialBonus(ctx context.Context, address string) (bool, decimal.Decimal, error)
	RecordPlatformReward(ctx context.Context, address string, xlmSpent decimal.Decimal, transactionHash, transactionType string) (decimal.Decimal, error)
}

type ReferralService interface {
	GetOrCreateLink(ctx context.Context, address string) (store.ReferralLink, error)
	RecordReferral(ctx context.Context, code, refereeAddress, ipAddress, deviceFingerprint string) (string, decimal.Decimal, error)
}

type TaskService interface {
	ActiveTasks(ctx context.Context) ([]store.Task, error)
	CompleteTask(ctx context.Context, address, taskID string, proofData json.RawMessage) (decimal.Decimal, error)
	CompletedTasks(ctx context.Context, address string) ([]store.TaskCompletion, error)
}

type BalanceStore interface {
	GetByAddress(ctx context.Context, address string) (store.PointBalance, error)
}

type MintStore interface {
	ListMintsByWallet(ctx context.Context, address string) ([]store.PointMint, error)
	GetSettings(ctx context.Context) (store.MintSettings, error)
	UpdateSettings(ctx context.Context, tx store.Execer, update store.SettingsUpdate) error
}

type StatsStore interface {
	Get(ctx context.Context) (store.UserStats, error)
}

type TaskStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.TaskInput) error
	SetActive(ctx context.Context, tx store.Execer, taskID string, active bool) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry store.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]store.AuditLog, error)
}
