package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/njwon19/velolog/internal/velolog"
)

const postNamespace = "-pst"

// summaryColumns is the projection for list views: everything but the body.
var summaryColumns = []string{
	"id", "title", "slug", "short_description", "thumbnail", "tags",
	"series_name", "display_date",
}

// UpsertPost writes a post keyed on its velog id. A repeat write for the
// same velog id updates the row in place and keeps its internal id.
func (r Repo) UpsertPost(ctx context.Context, post velolog.Post) error {
	if post.ID == "" {
		post.ID = fmt.Sprintf("%s%s", uuid.NewString(), postNamespace)
	}

	const q = `INSERT INTO posts (
		id, velog_id, title, slug, body, short_description, thumbnail,
		tags, series_name, display_date, original_date, synced_at
	) VALUES (
		:id, :velog_id, :title, :slug, :body, :short_description, :thumbnail,
		:tags, :series_name, :display_date, :original_date, :synced_at
	)
	ON CONFLICT(velog_id) DO UPDATE SET
		title = excluded.title,
		slug = excluded.slug,
		body = excluded.body,
		short_description = excluded.short_description,
		thumbnail = excluded.thumbnail,
		tags = excluded.tags,
		series_name = excluded.series_name,
		display_date = excluded.display_date,
		original_date = excluded.original_date,
		synced_at = excluded.synced_at;`

	if _, err := r.db.NamedExecContext(ctx, q, post); err != nil {
		return fmt.Errorf("error upserting post: %s", err)
	}

	return nil
}

// ListPosts returns post summaries ordered by display date descending.
// A non-empty tag restricts to posts whose tag set contains it exactly.
func (r Repo) ListPosts(ctx context.Context, tag string) ([]velolog.PostSummary, error) {
	q := sq.Select(summaryColumns...).
		From("posts").
		OrderBy("display_date DESC")
	if tag != "" {
		q = q.Where("EXISTS (SELECT 1 FROM json_each(posts.tags) WHERE json_each.value = ?)", tag)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %s", err)
	}

	summaries := []velolog.PostSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("error fetching posts: %s", err)
	}

	return summaries, nil
}

// GetPost fetches the full post for a slug.
func (r Repo) GetPost(ctx context.Context, slug string) (velolog.Post, error) {
	const q = `SELECT * FROM posts WHERE slug = ?;`

	var post velolog.Post
	err := r.db.GetContext(ctx, &post, q, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return velolog.Post{}, velolog.ErrNotFound
	}
	if err != nil {
		return velolog.Post{}, fmt.Errorf("error fetching post: %s", err)
	}

	return post, nil
}
