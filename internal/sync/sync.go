// Package sync mirrors a velog user's posts into the local store.
package sync

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/njwon19/velolog/internal/velog"
	"github.com/njwon19/velolog/internal/velolog"
)

// Source is the part of the velog client the syncer needs.
type Source interface {
	ListPosts(ctx context.Context, username string) ([]velog.PostSummary, error)
	GetPost(ctx context.Context, username, slug string) (*velog.PostDetail, error)
}

// Syncer runs full sync passes: list the user's posts once, then fetch
// and upsert each one sequentially.
type Syncer struct {
	source Source
	repo   velolog.Repository
	now    func() time.Time
}

func New(source Source, repo velolog.Repository) *Syncer {
	return &Syncer{
		source: source,
		repo:   repo,
		now:    time.Now,
	}
}

// Run performs one sync pass for the user.
//
// One post is in flight at a time. A post whose detail is absent is
// skipped; a post whose upsert fails is logged and recorded as failed,
// and the pass keeps going. Only a failure to fetch the summary list
// aborts the whole pass.
func (s *Syncer) Run(ctx context.Context, username string) (velolog.SyncSummary, error) {
	summaries, err := s.source.ListPosts(ctx, username)
	if err != nil {
		return velolog.SyncSummary{}, fmt.Errorf("error fetching post list: %w", err)
	}

	summary := velolog.SyncSummary{}
	for _, sm := range summaries {
		detail, err := s.source.GetPost(ctx, username, sm.URLSlug)
		if err != nil {
			slog.Warn("detail fetch failed", "slug", sm.URLSlug, "error", err)
			summary.Outcomes = append(summary.Outcomes, velolog.SyncOutcome{
				Slug:   sm.URLSlug,
				Status: velolog.SyncStatusSkipped,
				Err:    err,
			})
			continue
		}
		if detail == nil {
			summary.Outcomes = append(summary.Outcomes, velolog.SyncOutcome{
				Slug:   sm.URLSlug,
				Status: velolog.SyncStatusSkipped,
			})
			continue
		}

		post := shapePost(sm, *detail, s.now())
		if err := s.repo.UpsertPost(ctx, post); err != nil {
			slog.Error("upsert failed", "slug", post.Slug, "error", err)
			summary.Outcomes = append(summary.Outcomes, velolog.SyncOutcome{
				Slug:   post.Slug,
				Status: velolog.SyncStatusFailed,
				Err:    err,
			})
			continue
		}

		summary.Outcomes = append(summary.Outcomes, velolog.SyncOutcome{
			Slug:   post.Slug,
			Status: velolog.SyncStatusSynced,
		})
	}

	return summary, nil
}

// shapePost merges a list summary and a full detail into the stored row.
// The detail wins over the summary, which wins over empty.
func shapePost(sm velog.PostSummary, detail velog.PostDetail, now time.Time) velolog.Post {
	desc := detail.ShortDescription
	if desc == "" {
		desc = sm.ShortDescription
	}

	thumbnail := detail.Thumbnail
	if thumbnail == "" {
		thumbnail = sm.Thumbnail
	}

	var seriesName *string
	if detail.Series != nil && detail.Series.Name != "" {
		seriesName = &detail.Series.Name
	}

	released := parseReleasedAt(detail.ReleasedAt)

	return velolog.Post{
		VelogID:          detail.ID,
		Title:            detail.Title,
		Slug:             detail.URLSlug,
		Body:             detail.Body,
		ShortDescription: sanitize(desc),
		Thumbnail:        optional(thumbnail),
		Tags:             velolog.Tags(detail.Tags),
		SeriesName:       seriesName,
		DisplayDate:      released,
		OriginalDate:     released,
		SyncedAt:         now,
	}
}

// parseReleasedAt turns velog's timestamp string into a time.Time. An
// unparseable value comes back as the zero time, which the renderer
// shows as a placeholder instead of a bogus date.
func parseReleasedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var stripPolicy = bluemonday.StrictPolicy()

// Removes all html tags from the string, usually a description.
//
// Also limits the length of the string so there's not a massive chunk of text being output.
func sanitize(s string) string {
	// Sanitize entity-escapes the text that survives; unescape so the
	// store holds plain text and templates escape it exactly once.
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	s = strings.TrimSpace(s)
	if len(s) > 2048 {
		s = s[:2048]
	}

	return s
}
