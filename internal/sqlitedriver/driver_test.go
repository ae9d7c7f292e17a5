package sqlitedriver_test

import (
	"database/sql"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/teradata-labs/easel/internal/sqlitedriver"
)

func TestDriverRegistered(t *testing.T) {
	assert.True(t, slices.Contains(sql.Drivers(), "sqlite3"), "sqlite3 driver should be registered")
}

func TestUpsertRoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE chart_data (
		chart_id TEXT NOT NULL,
		presentation_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (chart_id, presentation_id)
	)`)
	require.NoError(t, err)

	// The chartstore relies on ON CONFLICT DO UPDATE; make sure the active
	// driver supports it in both cgo and pure-Go builds.
	for _, payload := range []string{`{"v":1}`, `{"v":2}`} {
		_, err = db.Exec(`INSERT INTO chart_data (chart_id, presentation_id, payload)
			VALUES (?, ?, ?)
			ON CONFLICT(chart_id, presentation_id) DO UPDATE SET payload = excluded.payload`,
			"chart_deck1_s1", "deck1", payload)
		require.NoError(t, err)
	}

	var payload string
	err = db.QueryRow(`SELECT payload FROM chart_data WHERE chart_id = ? AND presentation_id = ?`,
		"chart_deck1_s1", "deck1").Scan(&payload)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, payload)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM chart_data`).Scan(&n))
	assert.Equal(t, 1, n)
}
