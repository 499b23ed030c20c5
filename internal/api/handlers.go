package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	apierrs "github.com/njwon19/velolog/internal/errors"
	"github.com/njwon19/velolog/internal/velolog"
)

type syncResponse struct {
	Message string `json:"message"`
}

// handleSync triggers a full sync pass. The caller has to present the
// configured secret as a bearer token; anything else is rejected before
// a single upstream call is made.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) error {
	if !s.authorized(r) {
		return apierrs.E(http.StatusUnauthorized, "Unauthorized")
	}

	summary, err := s.syncer.Run(r.Context(), s.username)
	if err != nil {
		return apierrs.E(err)
	}

	slog.Info("sync pass finished",
		"synced", summary.Synced(),
		"skipped", summary.Skipped(),
		"failed", summary.Failed(),
	)

	// The reported count includes posts whose upsert failed, matching
	// what callers of this endpoint have always been shown.
	return writeJSON(w, http.StatusOK, syncResponse{
		Message: fmt.Sprintf("synced %d posts", summary.Attempted()),
	})
}

func (s *Server) authorized(r *http.Request) bool {
	const prefix = "Bearer "

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return false
	}
	token := auth[len(prefix):]

	return subtle.ConstantTimeCompare([]byte(token), []byte(s.syncSecret)) == 1
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) error {
	tag := r.URL.Query().Get("tag")

	summaries, err := s.repo.ListPosts(r.Context(), tag)
	if err != nil {
		return apierrs.E(err)
	}

	return writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) error {
	slug := mux.Vars(r)["slug"]

	post, err := s.repo.GetPost(r.Context(), slug)
	if errors.Is(err, velolog.ErrNotFound) {
		return apierrs.E(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return apierrs.E(err)
	}

	return writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
