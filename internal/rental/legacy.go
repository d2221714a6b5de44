package rental

import (
	"strings"
	"time"

	"github.com/ukydev/car-rental-admin/internal/models"
)

// legacyTimeLayout is the timestamp format used in the legacy free-text
// note field, one note per line: "[2024-01-31 14:05] text".
const legacyTimeLayout = "2006-01-02 15:04"

// migratedAuthor marks notes recovered from the legacy free-text field.
const migratedAuthor = "Migrated"

// formatLegacyLine renders a structured note as a legacy free-text line so
// old clients reading the plain note field keep seeing new entries.
func formatLegacyLine(n models.Note) string {
	return "[" + n.Timestamp.Format(legacyTimeLayout) + "] " + n.Content
}

// appendLegacyLine appends a formatted note line to the legacy note field.
func appendLegacyLine(legacy string, n models.Note) string {
	line := formatLegacyLine(n)
	if legacy == "" {
		return line
	}
	return legacy + "\n" + line
}

// parseLegacyNote converts a legacy free-text note into structured entries,
// best effort. Lines with a leading "[timestamp] " prefix keep their
// timestamp; anything else becomes a note stamped now. Malformed input
// never fails: the raw line is preserved as the note content.
func parseLegacyNote(raw string, now time.Time) []models.Note {
	var notes []models.Note
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		note := models.Note{
			Content:   line,
			Author:    migratedAuthor,
			Timestamp: now,
		}
		if strings.HasPrefix(line, "[") {
			if end := strings.Index(line, "]"); end > 0 {
				if ts, err := time.Parse(legacyTimeLayout, line[1:end]); err == nil {
					note.Timestamp = ts
					note.Content = strings.TrimSpace(line[end+1:])
					if note.Content == "" {
						note.Content = line
					}
				}
			}
		}
		notes = append(notes, note)
	}
	return notes
}
