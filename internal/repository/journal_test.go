package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagworks/autotag/internal/domain"
)

// The journal tests use the real filesystem because flock needs real
// file descriptors.
func newTestJournal(t *testing.T) Journal {
	t.Helper()
	return NewFileJournal(afero.NewOsFs(), filepath.Join(t.TempDir(), "autotag"))
}

func testRecord(tag string) *domain.RunRecord {
	now := time.Now()
	return &domain.RunRecord{
		SessionID:  "9f0c2c3a-0000-0000-0000-000000000000",
		StartedAt:  now,
		FinishedAt: now,
		CreatedTag: tag,
		Message:    "Release " + tag + ".",
		Remote:     "origin",
		Pushed:     true,
	}
}

func TestFileJournal_Append(t *testing.T) {
	t.Run("Should round-trip a record through Append and List", func(t *testing.T) {
		journal := newTestJournal(t)

		require.NoError(t, journal.Append(context.Background(), testRecord("0.1.0")))
		records, err := journal.List(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "0.1.0", records[0].CreatedTag)
		assert.Equal(t, "Release 0.1.0.", records[0].Message)
		assert.True(t, records[0].Pushed)
	})
	t.Run("Should keep records in append order", func(t *testing.T) {
		journal := newTestJournal(t)

		require.NoError(t, journal.Append(context.Background(), testRecord("0.1.0")))
		require.NoError(t, journal.Append(context.Background(), testRecord("0.2.0")))
		records, err := journal.List(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "0.1.0", records[0].CreatedTag)
		assert.Equal(t, "0.2.0", records[1].CreatedTag)
	})
}

func TestFileJournal_List(t *testing.T) {
	t.Run("Should return no records for a fresh journal", func(t *testing.T) {
		journal := newTestJournal(t)

		records, err := journal.List(context.Background())

		require.NoError(t, err)
		assert.Empty(t, records)
	})
	t.Run("Should fail on a corrupt journal file", func(t *testing.T) {
		fs := afero.NewOsFs()
		dir := filepath.Join(t.TempDir(), "autotag")
		require.NoError(t, fs.MkdirAll(dir, JournalDirPermissions))
		require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "journal.json"), []byte("not json"), JournalFilePermissions))
		journal := NewFileJournal(fs, dir)

		_, err := journal.List(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse journal")
	})
}
