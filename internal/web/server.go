// Package web serves the reader-facing pages: the filterable post list
// and the post detail view, both rendered from the mirror API's data.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/njwon19/velolog/internal/render"
	"github.com/njwon19/velolog/internal/velolog"
	"github.com/njwon19/velolog/internal/view"
)

//go:embed static
var staticFS embed.FS

// Posts is the part of the API client the pages need.
type Posts interface {
	ListPosts(ctx context.Context) ([]velolog.PostSummary, error)
	GetPost(ctx context.Context, slug string) (velolog.Post, error)
}

type (
	// Server renders the list and detail pages.
	Server struct {
		*http.Server

		posts    Posts
		renderer *render.Renderer

		// Rendered post bodies, keyed by slug and sync time so a
		// re-synced post re-renders
		bodyCache *lru.Cache[string, template.HTML]
	}

	ServerConfig struct {
		Port int
	}
)

func NewServer(config ServerConfig, posts Posts) (*Server, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("error building renderer: %w", err)
	}

	cache, _ := lru.New[string, template.HTML](256)

	r := mux.NewRouter()
	srvr := Server{
		posts:     posts,
		renderer:  renderer,
		bodyCache: cache,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			Handler:      r,
		},
	}

	r.HandleFunc("/", srvr.handleList).Methods(http.MethodGet)
	r.HandleFunc("/post", srvr.handleDetail).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.FileServer(http.FS(staticFS)))

	slog.Debug("configured web server", "port", config.Port)

	return &srvr, nil
}

// handleList loads the full post list and renders one filtered page of
// it. Filtering happens entirely here, never in the API query.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := s.posts.ListPosts(r.Context())
	if err != nil {
		slog.Error("list fetch failed", "error", err)
		http.Error(w, "Failed to load posts.", http.StatusBadGateway)
		return
	}

	q := view.Query{
		Tag:    r.URL.Query().Get("tag"),
		Search: r.URL.Query().Get("q"),
		Page:   1,
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}

	data := render.ListPageData{
		Result: view.Compute(all, q),
		Tags:   view.CollectTags(all),
		Query:  q,
	}
	if err := s.renderer.ListPage(w, data); err != nil {
		slog.Error("list render failed", "error", err)
	}
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	post, err := s.posts.GetPost(r.Context(), slug)
	if errors.Is(err, velolog.ErrNotFound) {
		http.Error(w, "Post not found.", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("detail fetch failed", "slug", slug, "error", err)
		http.Error(w, "Failed to load post.", http.StatusBadGateway)
		return
	}

	body, err := s.renderBody(post)
	if err != nil {
		slog.Error("body render failed", "slug", slug, "error", err)
		http.Error(w, "Failed to load post.", http.StatusInternalServerError)
		return
	}

	data := render.DetailPageData{Post: post, Body: body}
	if err := s.renderer.DetailPage(w, data); err != nil {
		slog.Error("detail render failed", "slug", slug, "error", err)
	}
}

func (s *Server) renderBody(post velolog.Post) (template.HTML, error) {
	key := fmt.Sprintf("%s@%d", post.Slug, post.SyncedAt.Unix())
	if body, ok := s.bodyCache.Get(key); ok {
		return body, nil
	}

	body, err := s.renderer.Body(post.Body)
	if err != nil {
		return "", err
	}
	s.bodyCache.Add(key, body)

	return body, nil
}
