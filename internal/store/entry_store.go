package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rescueops/foodledger/internal/domain"
)

// timeLayout keeps millisecond precision on persisted timestamps.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// EntryMirror is an optional tabular copy of the entry collection. When its
// workbook is present it is the authoritative read source; every write
// repopulates it after the primary store commits. A mirror that cannot be
// written must not fail the write.
type EntryMirror interface {
	Present() bool
	ReadAll() ([]*domain.Entry, error)
	WriteAll(entries []*domain.Entry) error
}

// EntryStore persists the full donation entry collection. Reads return the
// set in insertion order; WriteAll replaces the whole set in one transaction.
type EntryStore struct {
	db     *sql.DB
	mirror EntryMirror
}

// NewEntryStore wraps db. mirror may be nil when no tabular copy is kept.
func NewEntryStore(db *sql.DB, mirror EntryMirror) *EntryStore {
	return &EntryStore{db: db, mirror: mirror}
}

func (s *EntryStore) ReadAll(ctx context.Context) ([]*domain.Entry, error) {
	if s.mirror != nil && s.mirror.Present() {
		entries, err := s.mirror.ReadAll()
		if err != nil {
			// Unreadable workbook degrades to an empty collection.
			slog.Warn("entry mirror unreadable, treating as empty", "error", err)
			return nil, nil
		}
		return entries, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, food_type, item_name, quantity, unit, expiry_date,
		       donor, volunteer_name, notes, created_at
		FROM entries ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// WriteAll replaces the persisted entry set. The mirror is repopulated after
// the transaction commits; a mirror failure is logged and swallowed so the
// primary store stays authoritative.
func (s *EntryStore) WriteAll(ctx context.Context, entries []*domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	for _, e := range entries {
		var expiry any
		if e.ExpiryDate != "" {
			expiry = e.ExpiryDate
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (id, food_type, item_name, quantity, unit, expiry_date,
			                     donor, volunteer_name, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, e.FoodType, e.ItemName, e.Quantity, e.Unit, expiry,
			e.Donor, e.VolunteerName, e.Notes, e.CreatedAt.UTC().Format(timeLayout))
		if err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entries: %w", err)
	}

	if s.mirror != nil {
		if err := s.mirror.WriteAll(entries); err != nil {
			slog.Warn("entry mirror export failed", "error", err)
		}
	}

	return nil
}

// BootstrapMirror exports the primary collection to the mirror once, when a
// mirror is configured but its workbook does not exist yet.
func (s *EntryStore) BootstrapMirror(ctx context.Context) error {
	if s.mirror == nil || s.mirror.Present() {
		return nil
	}

	entries, err := s.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read entries for mirror bootstrap: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	if err := s.mirror.WriteAll(entries); err != nil {
		return fmt.Errorf("failed to bootstrap entry mirror: %w", err)
	}
	slog.Info("entry mirror bootstrapped", "entries", len(entries))
	return nil
}

func scanEntry(rows *sql.Rows) (*domain.Entry, error) {
	entry := &domain.Entry{}
	var expiry sql.NullString
	var createdAt string
	err := rows.Scan(&entry.ID, &entry.FoodType, &entry.ItemName, &entry.Quantity,
		&entry.Unit, &expiry, &entry.Donor, &entry.VolunteerName, &entry.Notes, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	entry.ExpiryDate = expiry.String

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry timestamp %q: %w", createdAt, err)
	}
	entry.CreatedAt = ts

	return entry, nil
}
