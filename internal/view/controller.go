package view

import (
	"sync"
	"time"

	"github.com/njwon19/velolog/internal/velolog"
)

// Controller models the interactive list-page loop: it holds the
// current query across events and recomputes the visible page whenever
// a filter changes, pushing each result to the render callback. The
// server-rendered pages in internal/web build a fresh [Query] per
// request and call [Compute] directly; a long-lived frontend embeds a
// Controller instead.
//
// Tag and search changes put the user back on page one; search input
// is debounced so fast typing causes at most one recomputation per
// quiet period.
type Controller struct {
	mu       sync.Mutex
	all      []velolog.PostSummary
	query    Query
	debounce *Debouncer
	render   func(Result)
}

// NewController builds a controller over the loaded post list. The
// render callback receives every recomputed page, starting with the
// initial unfiltered one.
func NewController(all []velolog.PostSummary, interval time.Duration, render func(Result)) *Controller {
	c := &Controller{
		all:      all,
		query:    Query{Page: 1},
		debounce: NewDebouncer(interval),
		render:   render,
	}
	c.apply()

	return c
}

// SelectTag activates a tag filter; the empty tag means all posts.
func (c *Controller) SelectTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query.Tag = tag
	c.query.Page = 1
	c.apply()
}

// SearchInput feeds one keystroke's worth of search text. The
// recomputation is deferred until input goes quiet.
func (c *Controller) SearchInput(text string) {
	c.debounce.Trigger(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.query.Search = text
		c.query.Page = 1
		c.apply()
	})
}

// GoToPage jumps to a page; Compute clamps it into range.
func (c *Controller) GoToPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query.Page = page
	c.apply()
}

// Query returns the current filter state.
func (c *Controller) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.query
}

// Stop cancels any pending debounced recomputation.
func (c *Controller) Stop() {
	c.debounce.Stop()
}

// apply recomputes and renders; callers hold the lock.
func (c *Controller) apply() {
	result := Compute(c.all, c.query)
	c.query.Page = result.Page
	c.render(result)
}
