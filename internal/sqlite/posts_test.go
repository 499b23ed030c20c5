package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/njwon19/velolog/internal/migrations"
	"github.com/njwon19/velolog/internal/velolog"
)

func newTestRepo(t *testing.T) Repo {
	t.Helper()

	dbx, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbx.Close() })

	// One connection, or every pooled conn sees its own empty :memory: db
	dbx.SetMaxOpenConns(1)

	require.NoError(t, migrations.Run(dbx))

	return New(dbx)
}

func testPost(velogID, slug string, displayDate time.Time, tags ...string) velolog.Post {
	return velolog.Post{
		VelogID:          velogID,
		Title:            "title " + slug,
		Slug:             slug,
		Body:             "body " + slug,
		ShortDescription: "desc " + slug,
		Tags:             velolog.Tags(tags),
		DisplayDate:      displayDate,
		OriginalDate:     displayDate,
		SyncedAt:         time.Now().UTC(),
	}
}

func TestUpsertPost_RoundTrip(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	post := testPost("vl-1", "hello-world", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "go")
	require.NoError(t, repo.UpsertPost(ctx, post))

	got, err := repo.GetPost(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "vl-1", got.VelogID)
	assert.Equal(t, "body hello-world", got.Body)
	assert.Equal(t, velolog.Tags{"go"}, got.Tags)
	assert.NotEmpty(t, got.ID)
}

func TestUpsertPost_Idempotent(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	post := testPost("vl-1", "hello-world", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, repo.UpsertPost(ctx, post))
	require.NoError(t, repo.UpsertPost(ctx, post))

	summaries, err := repo.ListPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "hello-world", summaries[0].Slug)
}

func TestUpsertPost_UpdatesInPlace(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	require.NoError(t, repo.UpsertPost(ctx, testPost("vl-1", "hello-world", time.Now().UTC())))

	before, err := repo.GetPost(ctx, "hello-world")
	require.NoError(t, err)

	updated := testPost("vl-1", "hello-world", time.Now().UTC())
	updated.Title = "a new title"
	require.NoError(t, repo.UpsertPost(ctx, updated))

	after, err := repo.GetPost(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "a new title", after.Title)
	// The internal id survives the update
	assert.Equal(t, before.ID, after.ID)
}

func TestListPosts_OrderedByDisplayDateDesc(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	require.NoError(t, repo.UpsertPost(ctx, testPost("vl-1", "oldest", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, repo.UpsertPost(ctx, testPost("vl-2", "newest", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, repo.UpsertPost(ctx, testPost("vl-3", "middle", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))

	summaries, err := repo.ListPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "newest", summaries[0].Slug)
	assert.Equal(t, "middle", summaries[1].Slug)
	assert.Equal(t, "oldest", summaries[2].Slug)
}

func TestListPosts_TagContainment(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	require.NoError(t, repo.UpsertPost(ctx, testPost("vl-1", "tagged-go", time.Now().UTC(), "go", "sqlite")))
	require.NoError(t, repo.UpsertPost(ctx, testPost("vl-2", "tagged-golang", time.Now().UTC(), "golang")))
	require.NoError(t, repo.UpsertPost(ctx, testPost("vl-3", "untagged", time.Now().UTC())))

	summaries, err := repo.ListPosts(ctx, "go")
	require.NoError(t, err)

	// Containment, not substring: "golang" must not match, nor the empty set
	require.Len(t, summaries, 1)
	assert.Equal(t, "tagged-go", summaries[0].Slug)
}

func TestGetPost_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetPost(context.Background(), "no-such-slug")
	assert.ErrorIs(t, err, velolog.ErrNotFound)
}
