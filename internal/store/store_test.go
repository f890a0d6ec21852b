package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	d, err := sql.Open("sqlite", "file::memory:?cache=shared&mode=rwc&_journal_mode=WAL")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	// Create tables manually for test
	_, err = d.Exec(`
		CREATE TABLE entries (
			seq            INTEGER PRIMARY KEY AUTOINCREMENT,
			id             TEXT NOT NULL UNIQUE,
			food_type      TEXT NOT NULL DEFAULT 'Other',
			item_name      TEXT NOT NULL DEFAULT '',
			quantity       REAL NOT NULL DEFAULT 0,
			unit           TEXT NOT NULL DEFAULT 'lbs',
			expiry_date    TEXT,
			donor          TEXT NOT NULL DEFAULT '',
			volunteer_name TEXT NOT NULL DEFAULT '',
			notes          TEXT NOT NULL DEFAULT '',
			created_at     TEXT NOT NULL
		);

		CREATE TABLE alerts (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL,
			entry_id    TEXT NOT NULL DEFAULT '',
			food_type   TEXT NOT NULL DEFAULT '',
			item_name   TEXT NOT NULL DEFAULT '',
			quantity    REAL NOT NULL DEFAULT 0,
			unit        TEXT NOT NULL DEFAULT '',
			expiry_date TEXT,
			donor       TEXT NOT NULL DEFAULT '',
			message     TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL
		);
	`)
	require.NoError(t, err)

	return d
}

func testTime(t *testing.T, value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}
