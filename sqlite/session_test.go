package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/docscrape"
	"github.com/fwojciec/docscrape/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionRecord(tocURL string, startedAt time.Time) *docscrape.SessionRecord {
	return &docscrape.SessionRecord{
		TOCURL:         tocURL,
		ArchiveName:    "run.json",
		StartedAt:      startedAt,
		FinishedAt:     startedAt.Add(5 * time.Minute),
		PagesScraped:   10,
		WordsExtracted: 5000,
		FailedPages:    1,
	}
}

func TestSessionService_CreateSession(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID and persists the record", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		rec := testSessionRecord("https://docs.example.com/toc.htm", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		require.NoError(t, svc.CreateSession(ctx, rec, nil))
		require.NotEmpty(t, rec.ID)

		got, err := svc.FindSessionByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.TOCURL, got.TOCURL)
		assert.Equal(t, rec.ArchiveName, got.ArchiveName)
		assert.Equal(t, rec.PagesScraped, got.PagesScraped)
		assert.Equal(t, rec.WordsExtracted, got.WordsExtracted)
		assert.Equal(t, rec.FailedPages, got.FailedPages)
		assert.True(t, got.StartedAt.Equal(rec.StartedAt))
		assert.True(t, got.FinishedAt.Equal(rec.FinishedAt))
	})

	t.Run("persists the failure log", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		failedAt := time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC)
		rec := testSessionRecord("https://docs.example.com/toc.htm", failedAt)
		failures := []docscrape.Failure{
			{URL: "https://docs.example.com/bad.htm", Error: "HTTP 500", Timestamp: failedAt},
		}
		require.NoError(t, svc.CreateSession(ctx, rec, failures))

		got, err := svc.FindSessionFailures(ctx, rec.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "https://docs.example.com/bad.htm", got[0].URL)
		assert.Equal(t, "HTTP 500", got[0].Error)
		assert.True(t, got[0].Timestamp.Equal(failedAt))
	})

	t.Run("rejects a record without a TOC URL", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		svc := sqlite.NewSessionService(db)

		rec := testSessionRecord("", time.Now())
		err := svc.CreateSession(context.Background(), rec, nil)
		require.Error(t, err)
		assert.Equal(t, docscrape.EINVALID, docscrape.ErrorCode(err))
	})
}

func TestSessionService_FindSessionByID(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for an unknown ID", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		svc := sqlite.NewSessionService(db)

		_, err := svc.FindSessionByID(context.Background(), "does-not-exist")
		require.Error(t, err)
		assert.Equal(t, docscrape.ENOTFOUND, docscrape.ErrorCode(err))
	})
}

func TestSessionService_FindSessions(t *testing.T) {
	t.Parallel()

	t.Run("returns sessions newest first", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		older := testSessionRecord("https://docs.example.com/toc.htm", base)
		newer := testSessionRecord("https://docs.example.com/toc.htm", base.Add(time.Hour))
		require.NoError(t, svc.CreateSession(ctx, older, nil))
		require.NoError(t, svc.CreateSession(ctx, newer, nil))

		got, err := svc.FindSessions(ctx, docscrape.SessionFilter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, older.ID, got[1].ID)
	})

	t.Run("filters by TOC URL", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, svc.CreateSession(ctx, testSessionRecord("https://docs.example.com/a/toc.htm", base), nil))
		require.NoError(t, svc.CreateSession(ctx, testSessionRecord("https://docs.example.com/b/toc.htm", base), nil))

		tocURL := "https://docs.example.com/a/toc.htm"
		got, err := svc.FindSessions(ctx, docscrape.SessionFilter{TOCURL: &tocURL})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, tocURL, got[0].TOCURL)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		for i := range 5 {
			rec := testSessionRecord("https://docs.example.com/toc.htm", base.Add(time.Duration(i)*time.Hour))
			require.NoError(t, svc.CreateSession(ctx, rec, nil))
		}

		got, err := svc.FindSessions(ctx, docscrape.SessionFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 2)
		// Newest first, so offset 1 skips the most recent.
		assert.True(t, got[0].StartedAt.Equal(base.Add(3*time.Hour)))
		assert.True(t, got[1].StartedAt.Equal(base.Add(2*time.Hour)))
	})

	t.Run("applies offset without limit", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		svc := sqlite.NewSessionService(db)
		ctx := context.Background()

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		for i := range 4 {
			rec := testSessionRecord("https://docs.example.com/toc.htm", base.Add(time.Duration(i)*time.Hour))
			require.NoError(t, svc.CreateSession(ctx, rec, nil))
		}

		got, err := svc.FindSessions(ctx, docscrape.SessionFilter{Offset: 3})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].StartedAt.Equal(base))
	})
}
