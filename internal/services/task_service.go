package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"stellforge/internal/db"
	"stellforge/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type TaskService struct {
	txRunner db.TxRunner
	registry Registry
	wallets  WalletStore
	balances BalanceStore
	tasks    TaskStore
	hub      PointsHub
}

func NewTaskService(txRunner db.TxRunner, registry Registry, wallets WalletStore, balances BalanceStore, tasks TaskStore, hub PointsHub) *TaskService {
	return &TaskService{
		txRunner: txRunner,
		registry: registry,
		wallets:  wallets,
		balances: balances,
		tasks:    tasks,
		hub:      hub,
	}
}

func (s *TaskService) ActiveTasks(ctx context.Context) ([]store.Task, error) {
	return s.tasks.ListActive(ctx)
}

// CompleteTask records a completion and credits the task's reward. At most
// one completion per (task, wallet); the composite unique constraint backs
// the application check.
func (s *TaskService) CompleteTask(ctx context.Context, address, taskID string, proofData json.RawMessage) (decimal.Decimal, error) {
	wallet, err := s.registry.GetOrCreate(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrTaskNotFound
		}
		return decimal.Zero, err
	}
	if !task.IsActive {
		return decimal.Zero, ErrTaskInactive
	}
	done, err := s.tasks.HasCompletion(ctx, taskID, wallet.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if done {
		return decimal.Zero, ErrTaskAlreadyCompleted
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.tasks.InsertCompletion(ctx, tx, store.CompletionInput{
			ID:            uuid.NewString(),
			TaskID:        taskID,
			WalletID:      wallet.ID,
			WalletAddress: address,
			PointsAwarded: task.StarReward,
			ProofData:     rawProof(proofData),
		}); err != nil {
			return err
		}
		if err := s.balances.Credit(ctx, tx, wallet.ID, store.SourceTasks, task.StarReward); err != nil {
			return err
		}
		return s.wallets.RecordActivity(ctx, tx, wallet.ID, task.StarReward)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return decimal.Zero, ErrTaskAlreadyCompleted
		}
		return decimal.Zero, err
	}
	broadcastPoints(ctx, s.hub, s.balances, address, store.SourceTasks, task.StarReward)
	return task.StarReward, nil
}

// CompletedTasks lists a wallet's completions. An unknown wallet is an
// empty result, not an error.
func (s *TaskService) CompletedTasks(ctx context.Context, address string) ([]store.TaskCompletion, error) {
	wallet, err := s.wallets.GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []store.TaskCompletion{}, nil
		}
		return nil, err
	}
	return s.tasks.ListCompletionsByWallet(ctx, wallet.ID)
}

// SeedDefaults installs the launch task catalog when the table is empty.
func (s *TaskService) SeedDefaults(ctx context.Context) error {
	count, err := s.tasks.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []store.TaskInput{
		{TaskType: "social", Title: "Follow StellForge on Twitter", Description: "Follow our official Twitter account to stay updated", StarReward: decimal.NewFromInt(25)},
		{TaskType: "social", Title: "Join StellForge Discord", Description: "Join our community Discord server", StarReward: decimal.NewFromInt(25)},
		{TaskType: "platform", Title: "Create Your First Token", Description: "Launch a token on StellForge platform", StarReward: decimal.NewFromInt(50)},
		{TaskType: "platform", Title: "Add Liquidity", Description: "Provide liquidity to any pool on StellForge", StarReward: decimal.NewFromInt(30)},
		{TaskType: "platform", Title: "Complete a Swap", Description: "Perform your first token swap on StellForge", StarReward: decimal.NewFromInt(20)},
		{TaskType: "referral", Title: "Invite 5 Friends", Description: "Share your referral link and get 5 friends to join", StarReward: decimal.NewFromInt(100)},
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, task := range defaults {
			task.ID = uuid.NewString()
			task.IsActive = true
			if err := s.tasks.Insert(ctx, tx, task); err != nil {
				return err
			}
		}
		return nil
	})
}
