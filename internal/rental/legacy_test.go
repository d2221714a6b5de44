package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/car-rental-admin/internal/models"
)

func TestParseLegacyNote(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("well formed lines", func(t *testing.T) {
		raw := "[2024-01-02 09:00] first call\n[2024-02-10 14:30] second call"
		notes := parseLegacyNote(raw, now)
		require.Len(t, notes, 2)
		assert.Equal(t, "first call", notes[0].Content)
		assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), notes[0].Timestamp)
		assert.Equal(t, migratedAuthor, notes[0].Author)
		assert.Equal(t, "second call", notes[1].Content)
	})

	t.Run("plain text without timestamp", func(t *testing.T) {
		notes := parseLegacyNote("customer prefers morning pickup", now)
		require.Len(t, notes, 1)
		assert.Equal(t, "customer prefers morning pickup", notes[0].Content)
		assert.Equal(t, now, notes[0].Timestamp)
	})

	t.Run("malformed timestamp keeps raw line", func(t *testing.T) {
		notes := parseLegacyNote("[not a date] something happened", now)
		require.Len(t, notes, 1)
		assert.Equal(t, "[not a date] something happened", notes[0].Content)
		assert.Equal(t, now, notes[0].Timestamp)
	})

	t.Run("timestamp with no text keeps raw line", func(t *testing.T) {
		notes := parseLegacyNote("[2024-01-02 09:00]", now)
		require.Len(t, notes, 1)
		assert.Equal(t, "[2024-01-02 09:00]", notes[0].Content)
	})

	t.Run("blank lines skipped", func(t *testing.T) {
		notes := parseLegacyNote("\n\n  \nnote here\n\n", now)
		require.Len(t, notes, 1)
		assert.Equal(t, "note here", notes[0].Content)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, parseLegacyNote("", now))
	})
}

func TestAppendLegacyLine(t *testing.T) {
	note := models.Note{
		Content:   "deposit received",
		Timestamp: time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC),
	}

	line := appendLegacyLine("", note)
	assert.Equal(t, "[2026-03-02 11:30] deposit received", line)

	appended := appendLegacyLine(line, models.Note{
		Content:   "keys handed over",
		Timestamp: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "[2026-03-02 11:30] deposit received\n[2026-03-02 12:00] keys handed over", appended)
}

func TestLegacyRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	original := models.Note{Content: "tyre pressure checked", Timestamp: now}

	parsed := parseLegacyNote(formatLegacyLine(original), now.Add(time.Hour))
	require.Len(t, parsed, 1)
	assert.Equal(t, original.Content, parsed[0].Content)
	assert.Equal(t, original.Timestamp, parsed[0].Timestamp)
}
