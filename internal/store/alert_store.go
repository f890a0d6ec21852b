package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rescueops/foodledger/internal/domain"
)

// AlertStore persists the alert history, newest-first. Callers enforce the
// history cap before WriteAll.
type AlertStore struct {
	db *sql.DB
}

func NewAlertStore(db *sql.DB) *AlertStore {
	return &AlertStore{db: db}
}

func (s *AlertStore) ReadAll(ctx context.Context) ([]*domain.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_id, food_type, item_name, quantity, unit, expiry_date,
		       donor, message, created_at
		FROM alerts ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read alerts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var alerts []*domain.Alert
	for rows.Next() {
		alert := &domain.Alert{}
		var expiry sql.NullString
		var createdAt string
		err := rows.Scan(&alert.ID, &alert.EntryID, &alert.FoodType, &alert.ItemName,
			&alert.Quantity, &alert.Unit, &expiry, &alert.Donor, &alert.Message, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alert.ExpiryDate = expiry.String

		ts, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse alert timestamp %q: %w", createdAt, err)
		}
		alert.CreatedAt = ts

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}

// WriteAll replaces the persisted alert list with alerts, preserving slice
// order (newest first).
func (s *AlertStore) WriteAll(ctx context.Context, alerts []*domain.Alert) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM alerts`); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}

	for _, a := range alerts {
		var expiry any
		if a.ExpiryDate != "" {
			expiry = a.ExpiryDate
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO alerts (id, entry_id, food_type, item_name, quantity, unit,
			                    expiry_date, donor, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ID, a.EntryID, a.FoodType, a.ItemName, a.Quantity, a.Unit, expiry,
			a.Donor, a.Message, a.CreatedAt.UTC().Format(timeLayout))
		if err != nil {
			return fmt.Errorf("failed to insert alert %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alerts: %w", err)
	}

	return nil
}
