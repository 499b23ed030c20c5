package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njwon19/velolog/internal/velolog"
)

func makePosts(n int) []velolog.PostSummary {
	posts := make([]velolog.PostSummary, n)
	for i := range posts {
		posts[i] = velolog.PostSummary{
			Slug:             fmt.Sprintf("post-%d", i+1),
			Title:            fmt.Sprintf("Post %d", i+1),
			ShortDescription: fmt.Sprintf("description %d", i+1),
			DisplayDate:      time.Date(2024, 1, n-i, 0, 0, 0, 0, time.UTC),
		}
	}
	return posts
}

func TestCompute_Pagination(t *testing.T) {
	tests := []struct {
		name           string
		posts          int
		page           int
		wantTotalPages int
		wantPage       int
		wantWindow     int
	}{
		{name: "empty list still has one page", posts: 0, page: 1, wantTotalPages: 1, wantPage: 1, wantWindow: 0},
		{name: "exactly one page", posts: 5, page: 1, wantTotalPages: 1, wantPage: 1, wantWindow: 5},
		{name: "one over a boundary", posts: 6, page: 2, wantTotalPages: 2, wantPage: 2, wantWindow: 1},
		{name: "page past the end clamps down", posts: 7, page: 9, wantTotalPages: 2, wantPage: 2, wantWindow: 2},
		{name: "page zero normalizes to one", posts: 3, page: 0, wantTotalPages: 1, wantPage: 1, wantWindow: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(makePosts(tt.posts), Query{Page: tt.page})
			assert.Equal(t, tt.wantTotalPages, got.TotalPages)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Len(t, got.Window, tt.wantWindow)
			assert.Equal(t, tt.posts, got.Total)
		})
	}
}

func TestCompute_WindowContents(t *testing.T) {
	got := Compute(makePosts(12), Query{Page: 3})

	require.Len(t, got.Window, 2)
	assert.Equal(t, "post-11", got.Window[0].Slug)
	assert.Equal(t, "post-12", got.Window[1].Slug)
}

func TestCompute_TagFilter(t *testing.T) {
	posts := []velolog.PostSummary{
		{Slug: "a", Tags: velolog.Tags{"go", "sqlite"}},
		{Slug: "b", Tags: velolog.Tags{"golang"}},
		{Slug: "c"}, // empty tag set never matches
	}

	got := Compute(posts, Query{Tag: "go", Page: 1})

	require.Len(t, got.Window, 1)
	assert.Equal(t, "a", got.Window[0].Slug)
	assert.False(t, got.NoResults())
}

func TestCompute_Search(t *testing.T) {
	posts := []velolog.PostSummary{
		{Slug: "a", Title: "Intro to SQLite"},
		{Slug: "b", ShortDescription: "all about sqlite indexes"},
		{Slug: "c", Title: "Unrelated", ShortDescription: "nothing here"},
	}

	tests := []struct {
		name      string
		search    string
		wantSlugs []string
	}{
		{name: "case-insensitive over title and description", search: "SQLite", wantSlugs: []string{"a", "b"}},
		{name: "leading and trailing space ignored", search: "  sqlite  ", wantSlugs: []string{"a", "b"}},
		{name: "no match", search: "postgres", wantSlugs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(posts, Query{Search: tt.search, Page: 1})

			slugs := []string{}
			for _, p := range got.Window {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.wantSlugs, slugs)
		})
	}
}

func TestCompute_NoResultsState(t *testing.T) {
	got := Compute(makePosts(10), Query{Search: "matches nothing", Page: 1})

	assert.True(t, got.NoResults())
	assert.Equal(t, 1, got.TotalPages)
	assert.Empty(t, got.Window)
}

func TestCompute_FilterNarrowsThenClampsPage(t *testing.T) {
	posts := makePosts(12)
	for i := range posts[:2] {
		posts[i].Tags = velolog.Tags{"rare"}
	}

	// User was on page 3, then filtered down to two posts
	got := Compute(posts, Query{Tag: "rare", Page: 3})

	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, 1, got.Page)
	assert.Len(t, got.Window, 2)
}

func TestCollectTags(t *testing.T) {
	posts := []velolog.PostSummary{
		{Tags: velolog.Tags{"go", "sqlite"}},
		{Tags: velolog.Tags{"sqlite", "http"}},
		{},
	}

	assert.Equal(t, []string{"go", "sqlite", "http"}, CollectTags(posts))
}

func TestCollectTags_Empty(t *testing.T) {
	assert.Empty(t, CollectTags(nil))
}
