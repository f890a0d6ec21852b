package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescueops/foodledger/internal/domain"
)

// fakeMirror is an in-memory EntryMirror with switchable failure modes.
type fakeMirror struct {
	present  bool
	entries  []*domain.Entry
	readErr  error
	writeErr error
	writes   int
}

func (m *fakeMirror) Present() bool { return m.present }

func (m *fakeMirror) ReadAll() ([]*domain.Entry, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.entries, nil
}

func (m *fakeMirror) WriteAll(entries []*domain.Entry) error {
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.entries = entries
	m.present = true
	return nil
}

func sampleEntry(id string, created time.Time) *domain.Entry {
	return &domain.Entry{
		ID:            id,
		FoodType:      "Frozen",
		ItemName:      "Mixed vegetables",
		Quantity:      12.5,
		Unit:          "lbs",
		ExpiryDate:    "2024-01-12",
		Donor:         "Corner Market",
		VolunteerName: "Sam",
		Notes:         "keep cold",
		CreatedAt:     created,
	}
}

func TestEntryStoreRoundTrip(t *testing.T) {
	d := openTestDB(t)
	s := NewEntryStore(d, nil)
	ctx := context.Background()

	created := testTime(t, "2024-01-10T08:30:00Z").Add(123 * time.Millisecond)
	first := sampleEntry("entry-1-aaaaaaa", created)
	second := sampleEntry("entry-2-bbbbbbb", created.Add(time.Minute))
	second.ExpiryDate = ""
	second.FoodType = "Bakery"

	require.NoError(t, s.WriteAll(ctx, []*domain.Entry{first, second}))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, second, got[1])
	assert.True(t, got[0].CreatedAt.Equal(created))
}

func TestEntryStoreReadAll_Empty(t *testing.T) {
	d := openTestDB(t)
	s := NewEntryStore(d, nil)

	entries, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntryStoreWriteAll_Replaces(t *testing.T) {
	d := openTestDB(t)
	s := NewEntryStore(d, nil)
	ctx := context.Background()

	created := testTime(t, "2024-01-10T08:30:00Z")
	require.NoError(t, s.WriteAll(ctx, []*domain.Entry{
		sampleEntry("entry-1-aaaaaaa", created),
		sampleEntry("entry-2-bbbbbbb", created),
	}))
	require.NoError(t, s.WriteAll(ctx, []*domain.Entry{
		sampleEntry("entry-3-ccccccc", created),
	}))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "entry-3-ccccccc", got[0].ID)
}

func TestEntryStoreMirrorIsAuthoritativeRead(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	created := testTime(t, "2024-01-10T08:30:00Z")

	// Seed the primary store without a mirror attached.
	primaryOnly := NewEntryStore(d, nil)
	require.NoError(t, primaryOnly.WriteAll(ctx, []*domain.Entry{sampleEntry("entry-1-aaaaaaa", created)}))

	mirror := &fakeMirror{present: true, entries: []*domain.Entry{sampleEntry("entry-9-zzzzzzz", created)}}
	s := NewEntryStore(d, mirror)

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "entry-9-zzzzzzz", got[0].ID)
}

func TestEntryStoreMirrorAbsentFallsBackToPrimary(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	created := testTime(t, "2024-01-10T08:30:00Z")

	mirror := &fakeMirror{present: false}
	s := NewEntryStore(d, mirror)
	require.NoError(t, s.WriteAll(ctx, []*domain.Entry{sampleEntry("entry-1-aaaaaaa", created)}))

	// The write populated the mirror; drop it again to force the primary path.
	mirror.present = false

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "entry-1-aaaaaaa", got[0].ID)
}

func TestEntryStoreCorruptMirrorReadsEmpty(t *testing.T) {
	d := openTestDB(t)
	mirror := &fakeMirror{present: true, readErr: errors.New("bad workbook")}
	s := NewEntryStore(d, mirror)

	entries, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntryStoreMirrorWriteFailureSwallowed(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	created := testTime(t, "2024-01-10T08:30:00Z")

	mirror := &fakeMirror{writeErr: errors.New("disk full")}
	s := NewEntryStore(d, mirror)

	err := s.WriteAll(ctx, []*domain.Entry{sampleEntry("entry-1-aaaaaaa", created)})
	require.NoError(t, err)
	assert.Equal(t, 1, mirror.writes)

	// Primary store still holds the data.
	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestEntryStoreBootstrapMirror(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	created := testTime(t, "2024-01-10T08:30:00Z")

	primaryOnly := NewEntryStore(d, nil)
	require.NoError(t, primaryOnly.WriteAll(ctx, []*domain.Entry{sampleEntry("entry-1-aaaaaaa", created)}))

	mirror := &fakeMirror{}
	s := NewEntryStore(d, mirror)
	require.NoError(t, s.BootstrapMirror(ctx))

	assert.Equal(t, 1, mirror.writes)
	require.Len(t, mirror.entries, 1)
	assert.Equal(t, "entry-1-aaaaaaa", mirror.entries[0].ID)

	// A second bootstrap is a no-op because the workbook now exists.
	require.NoError(t, s.BootstrapMirror(ctx))
	assert.Equal(t, 1, mirror.writes)
}

func TestEntryStoreBootstrapMirror_EmptyPrimary(t *testing.T) {
	d := openTestDB(t)
	mirror := &fakeMirror{}
	s := NewEntryStore(d, mirror)

	require.NoError(t, s.BootstrapMirror(context.Background()))
	assert.Zero(t, mirror.writes)
}
