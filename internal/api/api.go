// Package api is the HTTP surface of the mirror: the sync trigger and
// the two read endpoints the frontend consumes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	apierrs "github.com/njwon19/velolog/internal/errors"
	"github.com/njwon19/velolog/internal/velolog"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("error encoding json response: %s", err)
	}

	return nil
}

// HandlerFuncE is a modified type of [http.HandlerFunc] that returns an error.
type HandlerFuncE func(w http.ResponseWriter, r *http.Request) error

func (f HandlerFuncE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	// Either it's already a structured error, or coerce it to one
	sErr := &apierrs.Error{}
	if !errors.As(err, &sErr) {
		slog.Error("handler error", "error", err)
		sErr = apierrs.E(http.StatusInternalServerError, err)
	}

	if err := writeJSON(w, sErr.Status, sErr); err != nil {
		slog.Error("error writing response", "error", err)
	}
}

// errRouter is a newtype around a mux router that allows attaching handlers that return errors.
type errRouter struct {
	*mux.Router
}

func (r errRouter) HandleFuncE(path string, f HandlerFuncE) *mux.Route {
	return r.Handle(path, f)
}

// SyncRunner performs a full sync pass for a user.
type SyncRunner interface {
	Run(ctx context.Context, username string) (velolog.SyncSummary, error)
}

type (
	// Server serves the blog mirror API.
	Server struct {
		*http.Server

		repo   velolog.Repository
		syncer SyncRunner

		username   string
		syncSecret string
	}

	ServerConfig struct {
		Port int
		// Username is the velog account being mirrored.
		Username string
		// SyncSecret guards POST /api/sync.
		SyncSecret string
	}
)

// allowAllOptions answers any OPTIONS request that is not a CORS
// preflight with an empty 200 on every path. Real preflights carry
// Access-Control-Request-Method and go to the CORS handler.
func allowAllOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func NewServer(config ServerConfig, repo velolog.Repository, syncer SyncRunner) *Server {
	r := errRouter{Router: mux.NewRouter()}

	srvr := Server{
		repo:       repo,
		syncer:     syncer,
		username:   config.Username,
		syncSecret: config.SyncSecret,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second, // a sync pass makes many upstream calls
			Handler: allowAllOptions(handlers.CORS(
				handlers.AllowedOrigins([]string{"*"}),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
			)(r)),
		},
	}

	r.Use(accessLogMiddleware)
	r.HandleFuncE("/api/sync", srvr.handleSync).Methods(http.MethodPost)
	r.HandleFuncE("/api/posts", srvr.handleListPosts).Methods(http.MethodGet)
	r.HandleFuncE("/api/posts/{slug}", srvr.handleGetPost).Methods(http.MethodGet)
	r.HandleFuncE("/health", srvr.handleHealth).Methods(http.MethodGet)

	// Everything else is the same JSON 404 the frontend expects
	r.NotFoundHandler = HandlerFuncE(func(w http.ResponseWriter, r *http.Request) error {
		return apierrs.E(http.StatusNotFound, "Not Found")
	})

	slog.Debug("configured api server", "port", config.Port)

	return &srvr
}
