// Package ledger owns the donation entry and alert records: it is the only
// place ids and creation timestamps are assigned, and it serializes every
// read-modify-write cycle against the stores.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rescueops/foodledger/internal/domain"
	"github.com/rescueops/foodledger/internal/expiry"
)

// maxAlerts bounds the persisted alert history, newest first.
const maxAlerts = 500

// entryRepository is the subset of store.EntryStore that Service requires.
type entryRepository interface {
	ReadAll(ctx context.Context) ([]*domain.Entry, error)
	WriteAll(ctx context.Context, entries []*domain.Entry) error
}

// alertRepository is the subset of store.AlertStore that Service requires.
type alertRepository interface {
	ReadAll(ctx context.Context) ([]*domain.Alert, error)
	WriteAll(ctx context.Context, alerts []*domain.Alert) error
}

// EntryInput carries caller-supplied entry fields. Every field is optional;
// the service fills best-effort defaults rather than rejecting input.
type EntryInput struct {
	FoodType      string
	ItemName      string
	Quantity      float64
	Unit          string
	ExpiryDate    string
	Donor         string
	VolunteerName string
	Notes         string
}

type Service struct {
	entries entryRepository
	alerts  alertRepository
	logger  *slog.Logger

	// mu serializes read-modify-write cycles. Both stores persist by full
	// rewrite, so unserialized concurrent writers would drop each other's
	// appends.
	mu sync.Mutex

	now func() time.Time
}

func NewService(entries entryRepository, alerts alertRepository, logger *slog.Logger) *Service {
	return &Service{
		entries: entries,
		alerts:  alerts,
		logger:  logger,
		now:     time.Now,
	}
}

// AddEntry creates one entry with a fresh id and timestamp and persists the
// grown collection.
func (s *Service) AddEntry(ctx context.Context, in EntryInput) (*domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readEntries(ctx)
	entry := s.newEntry(in)
	all = append(all, entry)

	if err := s.entries.WriteAll(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to persist entry: %w", err)
	}
	return entry, nil
}

// AddEntriesBatch creates one entry per item with a single store rewrite.
// volunteerName and defaultDonor fill in any item that left those fields
// blank. Prefer this over repeated AddEntry calls for multi-row imports.
func (s *Service) AddEntriesBatch(ctx context.Context, items []EntryInput, volunteerName, defaultDonor string) ([]*domain.Entry, error) {
	if len(items) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readEntries(ctx)
	created := make([]*domain.Entry, 0, len(items))
	for _, in := range items {
		if strings.TrimSpace(in.Donor) == "" {
			in.Donor = defaultDonor
		}
		if strings.TrimSpace(in.VolunteerName) == "" {
			in.VolunteerName = volunteerName
		}
		entry := s.newEntry(in)
		created = append(created, entry)
		all = append(all, entry)
	}

	if err := s.entries.WriteAll(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to persist entry batch: %w", err)
	}
	return created, nil
}

// Entries returns the full entry collection in insertion order. Unreadable
// state degrades to an empty collection.
func (s *Service) Entries(ctx context.Context) []*domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readEntries(ctx)
}

// Alerts returns the alert history, newest first.
func (s *Service) Alerts(ctx context.Context) []*domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAlerts(ctx)
}

// NearExpiry returns the entries currently inside the near-expiry window.
func (s *Service) NearExpiry(ctx context.Context, now time.Time) []*domain.Entry {
	var near []*domain.Entry
	for _, e := range s.Entries(ctx) {
		if expiry.NearExpiry(e, now) {
			near = append(near, e)
		}
	}
	return near
}

// RunExpiryCheck scans all entries and records one alert per entry inside the
// near-expiry window, newest alerts first, history capped at maxAlerts. A run
// that raises no alerts performs no write. Entries still in the window on the
// next tick are alerted again; deduplication is the supervisor's call, not
// the ledger's.
func (s *Service) RunExpiryCheck(ctx context.Context, now time.Time) ([]*domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created []*domain.Alert
	for _, e := range s.readEntries(ctx) {
		if expiry.NearExpiry(e, now) {
			created = append(created, newAlert(e, now))
		}
	}
	if len(created) == 0 {
		return nil, nil
	}

	merged := append(created, s.readAlerts(ctx)...)
	if len(merged) > maxAlerts {
		merged = merged[:maxAlerts]
	}
	if err := s.alerts.WriteAll(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to persist alerts: %w", err)
	}

	s.logger.Info("supervisor alert: items near expiry", "count", len(created))
	for _, a := range created {
		s.logger.Info("near-expiry item", "message", a.Message)
	}
	return created, nil
}

func (s *Service) readEntries(ctx context.Context) []*domain.Entry {
	entries, err := s.entries.ReadAll(ctx)
	if err != nil {
		s.logger.Warn("entry store unreadable, treating as empty", "error", err)
		return nil
	}
	return entries
}

func (s *Service) readAlerts(ctx context.Context) []*domain.Alert {
	alerts, err := s.alerts.ReadAll(ctx)
	if err != nil {
		s.logger.Warn("alert store unreadable, treating as empty", "error", err)
		return nil
	}
	return alerts
}

func (s *Service) newEntry(in EntryInput) *domain.Entry {
	now := s.now().UTC().Truncate(time.Millisecond)
	entry := &domain.Entry{
		ID:            fmt.Sprintf("entry-%d-%s", now.UnixMilli(), randomSuffix(7)),
		FoodType:      in.FoodType,
		ItemName:      in.ItemName,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		ExpiryDate:    in.ExpiryDate,
		Donor:         in.Donor,
		VolunteerName: in.VolunteerName,
		Notes:         in.Notes,
		CreatedAt:     now,
	}
	if entry.FoodType == "" {
		entry.FoodType = "Other"
	}
	if entry.Unit == "" {
		entry.Unit = "lbs"
	}
	return entry
}

// newAlert snapshots the triggering entry; later edits to the entry must not
// show up in old alerts.
func newAlert(e *domain.Entry, now time.Time) *domain.Alert {
	now = now.UTC().Truncate(time.Millisecond)
	suffix := e.ID
	if len(suffix) > 7 {
		suffix = suffix[len(suffix)-7:]
	}
	return &domain.Alert{
		ID:         fmt.Sprintf("alert-%d-%s", now.UnixMilli(), suffix),
		EntryID:    e.ID,
		FoodType:   e.FoodType,
		ItemName:   e.ItemName,
		Quantity:   e.Quantity,
		Unit:       e.Unit,
		ExpiryDate: e.ExpiryDate,
		Donor:      e.Donor,
		CreatedAt:  now,
		Message:    fmt.Sprintf("Near expiry: %s – %s (expires %s)", e.FoodType, e.ItemName, e.ExpiryDate),
	}
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
