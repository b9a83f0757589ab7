// Package api exposes the dashboard core over HTTP for the presentation
// layer. Handlers return plain structured data; all rendering happens in the
// frontend.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"StockBoard/internal/cache"
	"StockBoard/internal/store"
	"StockBoard/internal/watchlist"
)

// Server wires the core components to HTTP handlers.
type Server struct {
	coordinator    *cache.Coordinator
	watchlist      *watchlist.Manager
	store          store.Store
	validate       *validator.Validate
	defaultTickers []string
	corsOrigins    []string
}

func NewServer(coord *cache.Coordinator, wl *watchlist.Manager, st store.Store, defaultTickers, corsOrigins []string) *Server {
	return &Server{
		coordinator:    coord,
		watchlist:      wl,
		store:          st,
		validate:       validator.New(),
		defaultTickers: defaultTickers,
		corsOrigins:    corsOrigins,
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/series/{ticker}", s.handleSeries)
		r.Get("/indicators/{ticker}", s.handleIndicators)
		r.Get("/quotes", s.handleQuotes)
		r.Get("/stats", s.handleStats)

		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", s.handleWatchlistList)
			r.Post("/", s.handleWatchlistAdd)
			r.Get("/summary", s.handleWatchlistSummary)
			r.Patch("/{ticker}", s.handleWatchlistUpdate)
			r.Delete("/{ticker}", s.handleWatchlistRemove)
		})
	})

	return r
}
