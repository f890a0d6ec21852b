package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescueops/foodledger/internal/domain"
)

func sampleAlert(id, entryID string) *domain.Alert {
	return &domain.Alert{
		ID:         id,
		EntryID:    entryID,
		FoodType:   "Produce",
		ItemName:   "Salad mix",
		Quantity:   4,
		Unit:       "bags",
		ExpiryDate: "2024-01-11",
		Donor:      "Green Grocer",
		Message:    "Near expiry: Produce – Salad mix (expires 2024-01-11)",
	}
}

func TestAlertStoreRoundTrip(t *testing.T) {
	d := openTestDB(t)
	s := NewAlertStore(d)
	ctx := context.Background()

	created := testTime(t, "2024-01-10T10:00:00Z")
	newest := sampleAlert("alert-2-bbbbbbb", "entry-2")
	newest.CreatedAt = created
	oldest := sampleAlert("alert-1-aaaaaaa", "entry-1")
	oldest.CreatedAt = created.Add(-2 * time.Hour)

	require.NoError(t, s.WriteAll(ctx, []*domain.Alert{newest, oldest}))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Slice order is preserved: newest first.
	assert.Equal(t, newest, got[0])
	assert.Equal(t, oldest, got[1])
}

func TestAlertStoreReadAll_Empty(t *testing.T) {
	d := openTestDB(t)
	s := NewAlertStore(d)

	alerts, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestAlertStoreWriteAll_Replaces(t *testing.T) {
	d := openTestDB(t)
	s := NewAlertStore(d)
	ctx := context.Background()
	created := testTime(t, "2024-01-10T10:00:00Z")

	var batch []*domain.Alert
	for i := 0; i < 3; i++ {
		a := sampleAlert(fmt.Sprintf("alert-%d-aaaaaaa", i), fmt.Sprintf("entry-%d", i))
		a.CreatedAt = created
		batch = append(batch, a)
	}
	require.NoError(t, s.WriteAll(ctx, batch))
	require.NoError(t, s.WriteAll(ctx, batch[:1]))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
