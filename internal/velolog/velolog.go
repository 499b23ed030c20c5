// Package velolog holds the domain model shared between the sync side and
// the serving side: a post mirrored from velog, and the surfaces for
// storing and reading it.
package velolog

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("post not found")
)

type (
	// Post is a single mirrored blog post. Rows are only ever written by
	// the syncer; the API and frontend read them.
	Post struct {
		ID               string    `db:"id" json:"id"`
		VelogID          string    `db:"velog_id" json:"velog_id"`
		Title            string    `db:"title" json:"title"`
		Slug             string    `db:"slug" json:"slug"`
		Body             string    `db:"body" json:"body"`
		ShortDescription string    `db:"short_description" json:"short_description"`
		Thumbnail        *string   `db:"thumbnail" json:"thumbnail"`
		Tags             Tags      `db:"tags" json:"tags"`
		SeriesName       *string   `db:"series_name" json:"series_name"`
		DisplayDate      time.Time `db:"display_date" json:"display_date"`
		OriginalDate     time.Time `db:"original_date" json:"original_date"`
		SyncedAt         time.Time `db:"synced_at" json:"synced_at"`
	}

	// PostSummary is the subset of Post used for list views. It never
	// carries the body.
	PostSummary struct {
		ID               string    `db:"id" json:"id"`
		Title            string    `db:"title" json:"title"`
		Slug             string    `db:"slug" json:"slug"`
		ShortDescription string    `db:"short_description" json:"short_description"`
		Thumbnail        *string   `db:"thumbnail" json:"thumbnail"`
		Tags             Tags      `db:"tags" json:"tags"`
		SeriesName       *string   `db:"series_name" json:"series_name"`
		DisplayDate      time.Time `db:"display_date" json:"display_date"`
	}

	// Repository is the store surface for posts.
	Repository interface {
		// UpsertPost inserts or updates keyed on the velog id.
		UpsertPost(ctx context.Context, post Post) error
		// ListPosts returns summaries ordered by display date descending.
		// A non-empty tag restricts to posts whose tag set contains it.
		ListPosts(ctx context.Context, tag string) ([]PostSummary, error)
		// GetPost returns the full post for a slug, or ErrNotFound.
		GetPost(ctx context.Context, slug string) (Post, error)
	}
)

// SyncStatus is the per-post outcome of a sync pass.
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusSkipped SyncStatus = "skipped"
	SyncStatusFailed  SyncStatus = "failed"
)

type (
	// SyncOutcome records what happened to one post during a sync pass.
	SyncOutcome struct {
		Slug   string
		Status SyncStatus
		Err    error
	}

	// SyncSummary collects the per-post outcomes of a full sync pass.
	SyncSummary struct {
		Outcomes []SyncOutcome
	}
)

func (s SyncSummary) count(status SyncStatus) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (s SyncSummary) Synced() int  { return s.count(SyncStatusSynced) }
func (s SyncSummary) Skipped() int { return s.count(SyncStatusSkipped) }
func (s SyncSummary) Failed() int  { return s.count(SyncStatusFailed) }

// Attempted is the number of posts whose detail was present, whether or
// not the upsert stuck. This is the count the sync endpoint reports.
func (s SyncSummary) Attempted() int {
	return s.Synced() + s.Failed()
}
