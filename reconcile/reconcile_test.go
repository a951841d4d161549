package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"examnotify/models"
	"examnotify/scraper"
	"examnotify/store"
)

func newTestReconciler(t *testing.T) (*Reconciler, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	st := store.New(db)
	return New(st, zerolog.Nop()), st
}

func TestReconcile_NewEntryCreated(t *testing.T) {
	r, st := newTestReconciler(t)
	ctx := context.Background()

	changed := r.Reconcile(ctx, []scraper.Entry{{Text: "Exam A", URL: "https://x/a"}})

	require.Len(t, changed, 1)
	assert.Equal(t, "Exam A", changed[0].Text)
	assert.Equal(t, "https://x/a", changed[0].URL)

	stored, err := st.FindExact(ctx, "Exam A", "https://x/a")
	require.NoError(t, err)
	assert.Equal(t, changed[0].ID, stored.ID)
}

func TestReconcile_Idempotent(t *testing.T) {
	r, _ := newTestReconciler(t)
	ctx := context.Background()
	entries := []scraper.Entry{
		{Text: "Exam A", URL: "https://x/a"},
		{Text: "Exam B", URL: "https://x/b"},
	}

	first := r.Reconcile(ctx, entries)
	assert.Len(t, first, 2)

	second := r.Reconcile(ctx, entries)
	assert.Empty(t, second)
}

func TestReconcile_ExactDuplicateSuppressed(t *testing.T) {
	r, st := newTestReconciler(t)
	ctx := context.Background()

	seeded, err := st.Insert(ctx, "Exam A", "https://x/a")
	require.NoError(t, err)

	changed := r.Reconcile(ctx, []scraper.Entry{{Text: "Exam A", URL: "https://x/a"}})
	assert.Empty(t, changed)

	after, err := st.Get(ctx, seeded.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, seeded.UpdatedAt, after.UpdatedAt, time.Millisecond)
}

func TestReconcile_URLChangeUpdatesInPlace(t *testing.T) {
	r, st := newTestReconciler(t)
	ctx := context.Background()

	seeded, err := st.Insert(ctx, "Exam A", "https://x/a")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	changed := r.Reconcile(ctx, []scraper.Entry{{Text: "Exam A", URL: "https://x/a-v2"}})

	require.Len(t, changed, 1)
	assert.Equal(t, seeded.ID, changed[0].ID)
	assert.Equal(t, "https://x/a-v2", changed[0].URL)
	assert.WithinDuration(t, seeded.CreatedAt, changed[0].CreatedAt, time.Millisecond)
	assert.True(t, changed[0].UpdatedAt.After(seeded.UpdatedAt))
}

func TestReconcile_SameURLDifferentTextLeftAlone(t *testing.T) {
	r, st := newTestReconciler(t)
	ctx := context.Background()

	seeded, err := st.Insert(ctx, "Exam A", "https://x/a")
	require.NoError(t, err)

	changed := r.Reconcile(ctx, []scraper.Entry{{Text: "Exam A renamed", URL: "https://x/a"}})
	assert.Empty(t, changed)

	after, err := st.Get(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Exam A", after.Text)
}

func TestReconcile_TrimsWhitespaceAndSkipsEmpty(t *testing.T) {
	r, st := newTestReconciler(t)
	ctx := context.Background()

	changed := r.Reconcile(ctx, []scraper.Entry{
		{Text: "  Exam A  ", URL: " https://x/a "},
		{Text: "   ", URL: "https://x/blank"},
	})

	require.Len(t, changed, 1)
	assert.Equal(t, "Exam A", changed[0].Text)
	assert.Equal(t, "https://x/a", changed[0].URL)

	_, err := st.FindExact(ctx, "Exam A", "https://x/a")
	assert.NoError(t, err)
}

func TestReconcile_ScrapeOrderPreserved(t *testing.T) {
	r, _ := newTestReconciler(t)
	ctx := context.Background()

	changed := r.Reconcile(ctx, []scraper.Entry{
		{Text: "Exam C", URL: "https://x/c"},
		{Text: "Exam A", URL: "https://x/a"},
		{Text: "Exam B", URL: "https://x/b"},
	})

	require.Len(t, changed, 3)
	assert.Equal(t, "Exam C", changed[0].Text)
	assert.Equal(t, "Exam A", changed[1].Text)
	assert.Equal(t, "Exam B", changed[2].Text)
}

func TestReconcile_RepeatedEntryWithinPassNotDuplicated(t *testing.T) {
	r, _ := newTestReconciler(t)
	ctx := context.Background()

	changed := r.Reconcile(ctx, []scraper.Entry{
		{Text: "Exam A", URL: "https://x/a"},
		{Text: "Exam A", URL: "https://x/a"},
	})
	assert.Len(t, changed, 1)
}
