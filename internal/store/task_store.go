package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type TaskStore struct {
	db DB
}

type Task struct {
	ID             string          `db:"id" json:"id"`
	TaskType       string          `db:"task_type" json:"taskType"`
	Title          string          `db:"title" json:"title"`
	Description    string          `db:"description" json:"description"`
	StarReward     decimal.Decimal `db:"star_reward" json:"starReward"`
	IsActive       bool            `db:"is_active" json:"isActive"`
	MaxCompletions *int            `db:"max_completions" json:"maxCompletions"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

type TaskInput struct {
	ID             string
	TaskType       string
	Title          string
	Description    string
	StarReward     decimal.Decimal
	IsActive       bool
	MaxCompletions *int
}

type TaskCompletion struct {
	ID            string          `db:"id" json:"id"`
	TaskID        string          `db:"task_id" json:"taskId"`
	WalletID      string          `db:"wallet_id" json:"-"`
	WalletAddress string          `db:"wallet_address" json:"walletAddress"`
	PointsAwarded decimal.Decimal `db:"points_awarded" json:"pointsAwarded"`
	ProofData     *string         `db:"proof_data" json:"proofData"`
	CompletedAt   time.Time       `db:"completed_at" json:"completedAt"`
}

type CompletionInput struct {
	ID            string
	TaskID        string
	WalletID      string
	WalletAddress string
	PointsAwarded decimal.Decimal
	ProofData     json.RawMessage
}

func NewTaskStore(db DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) ListActive(ctx context.Context) ([]Task, error) {
	var rows []Task
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, task_type, title, description, star_reward, is_active, max_completions, created_at
		FROM tasks
		WHERE is_active = TRUE
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TaskStore) GetByID(ctx context.Context, taskID string) (Task, error) {
	var row Task
	err := s.db.GetContext(ctx, &row, `
		SELECT id, task_type, title, description, star_reward, is_active, max_completions, created_at
		FROM tasks
		WHERE id = $1
	`, taskID)
	if err != nil {
		return Task{}, err
	}
	return row, nil
}

func (s *TaskStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tasks`)
	return count, err
}

func (s *TaskStore) Insert(ctx context.Context, tx Execer, input TaskInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, task_type, title, description, star_reward, is_active, max_completions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, input.ID, input.TaskType, input.Title, input.Description, input.StarReward, input.IsActive, input.MaxCompletions)
	return err
}

func (s *TaskStore) SetActive(ctx context.Context, tx Execer, taskID string, active bool) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET is_active = $1
		WHERE id = $2
	`, active, taskID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TaskStore) HasCompletion(ctx context.Context, taskID, walletID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM task_completions WHERE task_id = $1 AND wallet_id = $2)
	`, taskID, walletID)
	return exists, err
}

func (s *TaskStore) InsertCompletion(ctx context.Context, tx Execer, input CompletionInput) error {
	var proof any
	if len(input.ProofData) > 0 {
		proof = string(input.ProofData)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO task_completions (id, task_id, wallet_id, wallet_address, points_awarded, proof_data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, input.ID, input.TaskID, input.WalletID, input.WalletAddress, input.PointsAwarded, proof)
	return err
}

func (s *TaskStore) ListCompletionsByWallet(ctx context.Context, walletID string) ([]TaskCompletion, error) {
	var rows []TaskCompletion
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, task_id, wallet_id, wallet_address, points_awarded, proof_data, completed_at
		FROM task_completions
		WHERE wallet_id = $1
		ORDER BY completed_at DESC
	`, walletID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
