package store

import (
	"context"
	"time"
)

type AuditStore struct {
	db DB
}

type AuditEntry struct {
	WalletAddress     string
	IPAddress         string
	DeviceFingerprint string
	Action            string
	Details           string
	Flagged           bool
}

type AuditLog struct {
	ID                string    `db:"id" json:"id"`
	WalletAddress     *string   `db:"wallet_address" json:"walletAddress"`
	IPAddress         *string   `db:"ip_address" json:"ipAddress"`
	DeviceFingerprint *string   `db:"device_fingerprint" json:"deviceFingerprint"`
	Action            string    `db:"action" json:"action"`
	Details           string    `db:"details" json:"details"`
	Flagged           bool      `db:"flagged" json:"flagged"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Log(ctx context.Context, entry AuditEntry) error {
	details := entry.Details
	if details == "" {
		details = "{}"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO security_audit_logs (id, wallet_address, ip_address, device_fingerprint, action, details, flagged)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5, $6)
	`, nullable(entry.WalletAddress), nullable(entry.IPAddress), nullable(entry.DeviceFingerprint),
		entry.Action, details, entry.Flagged)
	return err
}

func (s *AuditStore) List(ctx context.Context, limit, offset int) ([]AuditLog, error) {
	var rows []AuditLog
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, wallet_address, ip_address, device_fingerprint, action, details, flagged, created_at
		FROM security_audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
