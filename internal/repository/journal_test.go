package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/compozy/docspub/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The journal uses OS-level file locks, so these tests run against a real
// temp directory instead of an in-memory filesystem.
func newTestJournal(t *testing.T) JournalRepository {
	t.Helper()
	return NewJournalRepository(afero.NewOsFs(), filepath.Join(t.TempDir(), "state"))
}

func TestJournalRepository_SaveAndLoad(t *testing.T) {
	t.Run("Should round-trip a run record", func(t *testing.T) {
		journal := newTestJournal(t)
		ctx := context.Background()
		run := domain.NewPublishRun("abc-123", "gh-pages")
		run.AddStep(domain.StepTypeCheckout)
		run.MarkStepStarted(domain.StepTypeCheckout)
		run.MarkStepCompleted(domain.StepTypeCheckout)
		require.NoError(t, journal.Save(ctx, run))
		loaded, err := journal.Load(ctx, "abc-123")
		require.NoError(t, err)
		assert.Equal(t, "abc-123", loaded.SessionID)
		assert.Equal(t, "gh-pages", loaded.Branch)
		require.Len(t, loaded.Steps, 1)
		assert.Equal(t, domain.StepStatusCompleted, loaded.Steps[0].Status)
	})
	t.Run("Should fail to load an unknown session", func(t *testing.T) {
		journal := newTestJournal(t)
		_, err := journal.Load(context.Background(), "nope")
		assert.Error(t, err)
	})
}

func TestJournalRepository_LoadLatest(t *testing.T) {
	t.Run("Should return the most recently saved run", func(t *testing.T) {
		journal := newTestJournal(t)
		ctx := context.Background()
		require.NoError(t, journal.Save(ctx, domain.NewPublishRun("first", "gh-pages")))
		require.NoError(t, journal.Save(ctx, domain.NewPublishRun("second", "gh-pages")))
		latest, err := journal.LoadLatest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", latest.SessionID)
	})
	t.Run("Should error when nothing was saved", func(t *testing.T) {
		journal := newTestJournal(t)
		_, err := journal.LoadLatest(context.Background())
		assert.Error(t, err)
	})
}

func TestJournalRepository_ExistsAndDelete(t *testing.T) {
	journal := newTestJournal(t)
	ctx := context.Background()
	run := domain.NewPublishRun("gone-soon", "gh-pages")
	require.NoError(t, journal.Save(ctx, run))
	exists, err := journal.Exists(ctx, "gone-soon")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, journal.Delete(ctx, "gone-soon"))
	exists, err = journal.Exists(ctx, "gone-soon")
	require.NoError(t, err)
	assert.False(t, exists)
}
