package services

import (
	"context"
	"encoding/json"

	"stellforge/internal/store"
	"stellforge/internal/websocket"

	"github.com/shopspring/decimal"
)

type WalletStore interface {
	GetByAddress(ctx context.Context, address string) (store.Wallet, error)
	Create(ctx context.Context, tx store.Execer, id, address string) error
	MarkInitialBonus(ctx context.Context, tx store.Execer, walletID string) (int64, error)
	RecordActivity(ctx context.Context, tx store.Execer, walletID string, points decimal.Decimal) error
}

type BalanceStore interface {
	Create(ctx context.Context, tx store.Execer, id, walletID, address string) error
	GetByAddress(ctx context.Context, address string) (store.PointBalance, error)
	Credit(ctx context.Context, tx store.Execer, walletID string, source store.PointSource, amount decimal.Decimal) error
	MarkInitialBonus(ctx context.Context, tx store.Execer, walletID string) error
}

type MintStore interface {
	InsertMint(ctx context.Context, tx store.Execer, input store.MintInput) error
	InsertReward(ctx context.Context, tx store.Execer, input store.RewardInput) error
	GetSettings(ctx context.Context) (store.MintSettings, error)
	GetSettingsTx(ctx context.Context, tx store.Getter) (store.MintSettings, error)
	EnsureSettings(ctx context.Context, tx store.Execer) error
	AccumulateSettings(ctx context.Context, tx store.Execer, xlmAmount, points decimal.Decimal) error
}

type StatsStore interface {
	Lock(ctx context.Context, tx store.Tx) (store.UserStats, error)
	RecordBonus(ctx context.Context, tx store.Execer, points decimal.Decimal) error
	IncrementTotalUsers(ctx context.Context, tx store.Execer) error
}

type ReferralStore interface {
	GetLinkByAddress(ctx context.Context, address string) (store.ReferralLink, error)
	GetLinkByCode(ctx context.Context, code string) (store.ReferralLink, error)
	CreateLink(ctx context.Context, input store.LinkInput) error
	HasEventForReferee(ctx context.Context, refereeWalletID string) (bool, error)
	InsertEvent(ctx context.Context, tx store.Execer, input store.EventInput) error
	IncrementCounters(ctx context.Context, tx store.Execer, linkID string) error
}

type TaskStore interface {
	ListActive(ctx context.Context) ([]store.Task, error)
	GetByID(ctx context.Context, taskID string) (store.Task, error)
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, tx store.Execer, input store.TaskInput) error
	HasCompletion(ctx context.Context, taskID, walletID string) (bool, error)
	InsertCompletion(ctx context.Context, tx store.Execer, input store.CompletionInput) error
	ListCompletionsByWallet(ctx context.Context, walletID string) ([]store.TaskCompletion, error)
}

type Registry interface {
	GetOrCreate(ctx context.Context, address string) (store.Wallet, error)
}

type PointsHub interface {
	BroadcastPoints(walletAddress string, update websocket.PointsUpdate)
}

// broadcastPoints pushes the post-commit balance to websocket subscribers.
// Best effort: a failed read just skips the push.
func broadcastPoints(ctx context.Context, hub PointsHub, balances BalanceStore, address string, source store.PointSource, delta decimal.Decimal) {
	if hub == nil {
		return
	}
	balance, err := balances.GetByAddress(ctx, address)
	if err != nil {
		return
	}
	hub.BroadcastPoints(address, websocket.PointsUpdate{
		WalletAddress: address,
		StarPoints:    balance.StarPoints.String(),
		Source:        string(source),
		Delta:         delta.String(),
	})
}

func rawProof(proof json.RawMessage) json.RawMessage {
	if len(proof) == 0 {
		return nil
	}
	return proof
}
