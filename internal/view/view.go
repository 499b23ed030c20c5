// Package view is the list-page state machine: filtering, searching and
// paginating the full post list entirely in memory.
//
// The heart of it is Compute, a pure function from (posts, query) to the
// page window, so the whole pipeline is testable without a browser or an
// HTTP server anywhere near it.
package view

import (
	"strings"

	"github.com/njwon19/velolog/internal/velolog"
)

// PageSize is how many post cards fit on one list page.
const PageSize = 5

type (
	// Query is the user-controlled filter state of the list page.
	Query struct {
		// Tag restricts to posts whose tag set contains it; empty means all.
		Tag string
		// Search is matched case-insensitively against title and short
		// description. Body text is never searched.
		Search string
		// Page is 1-indexed.
		Page int
	}

	// Result is one computed page of the filtered list.
	Result struct {
		// Window is the slice of posts on the current page.
		Window []velolog.PostSummary
		// Total is the filtered count across all pages.
		Total int
		// TotalPages is max(1, ceil(Total/PageSize)).
		TotalPages int
		// Page is the effective page after clamping.
		Page int
	}
)

// NoResults reports whether the filters matched nothing, which renders
// as its own empty state rather than a blank page one.
func (r Result) NoResults() bool {
	return r.Total == 0
}

// Compute runs the filter pipeline over the full list: tag containment,
// then substring search, then pagination with the page clamped down (and
// only down) into range.
func Compute(all []velolog.PostSummary, q Query) Result {
	filtered := all

	if q.Tag != "" {
		kept := []velolog.PostSummary{}
		for _, p := range filtered {
			if p.Tags.Contains(q.Tag) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		kept := []velolog.PostSummary{}
		for _, p := range filtered {
			if strings.Contains(strings.ToLower(p.Title), search) ||
				strings.Contains(strings.ToLower(p.ShortDescription), search) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	totalPages := (len(filtered) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result{
		Window:     filtered[start:end],
		Total:      len(filtered),
		TotalPages: totalPages,
		Page:       page,
	}
}

// CollectTags gathers every distinct tag across the full list, in first
// appearance order.
//
// It deliberately ignores the active filters: the tag bar always shows
// everything there is to browse, even while one tag is selected.
func CollectTags(all []velolog.PostSummary) []string {
	seen := map[string]struct{}{}
	tags := []string{}
	for _, p := range all {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	return tags
}
