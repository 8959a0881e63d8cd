package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"RatingActionTracker/internal/classifier"
	"RatingActionTracker/internal/usecase"
	"RatingActionTracker/pkg/logger"
)

// NewRouter creates the Chi router with the dashboard and API routes mounted.
func NewRouter(tracker *usecase.Tracker, cls *classifier.Classifier, cacheTTL time.Duration) http.Handler {
	if cls == nil {
		cls = classifier.New(nil)
	}
	h := &Handlers{
		tracker:    tracker,
		classifier: cls,
		cacheTTL:   cacheTTL,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logger.New("http"),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Dashboard)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/actions", h.ListActions)
		r.Get("/actions.csv", h.ExportCSV)
		r.Get("/history", h.ListHistory)
		r.Post("/refresh", h.Refresh)
		r.Post("/classify", h.Classify)
	})

	return r
}
