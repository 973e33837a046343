package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/metrics"
)

// DefaultMaxUpload bounds multipart uploads (media and spreadsheets).
const DefaultMaxUpload = 25 << 20

// Deps are the use cases served over HTTP.
type Deps struct {
	Catalog  *app.CatalogService
	Importer *app.Importer
	Reports  *app.ReportService
	Media    *app.MediaService
	History  app.ImportHistory
	Feed     *app.Feed
	Metrics  *metrics.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Log            logrus.FieldLogger
	MaxUpload      int64
}

// Server exposes the admin console API.
type Server struct {
	catalog   *app.CatalogService
	importer  *app.Importer
	reports   *app.ReportService
	media     *app.MediaService
	history   app.ImportHistory
	metrics   *metrics.Metrics
	promh     http.Handler
	ws        *WSHandler
	log       logrus.FieldLogger
	maxUpload int64
}

func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	maxUpload := d.MaxUpload
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	s := &Server{
		catalog:   d.Catalog,
		importer:  d.Importer,
		reports:   d.Reports,
		media:     d.Media,
		history:   d.History,
		metrics:   d.Metrics,
		promh:     d.MetricsHandler,
		log:       log,
		maxUpload: maxUpload,
	}
	if d.Feed != nil {
		s.ws = NewWSHandler(d.Feed, d.Reports, d.Metrics, log)
	}
	return s
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if s.promh != nil {
		r.Handle("/metrics", s.promh)
	}
	if s.ws != nil {
		r.Get("/ws/activity", s.ws.ServeWS)
	}

	r.Route("/api", func(r chi.Router) {
		if s.reports != nil {
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/games", s.handleListGames)
			r.Get("/games/{id}/players", s.handleListGamePlayers)
			r.Get("/payments", s.handleListPayments)
			r.Get("/users", s.handleListUsers)
		}

		r.Route("/main-categories", func(r chi.Router) {
			r.Get("/", s.handleListMainCategories)
			r.Post("/", s.handleCreateMainCategory)
			r.Put("/{id}", s.handleUpdateMainCategory)
			r.Delete("/{id}", s.handleDeleteMainCategory)
			r.Post("/{id}/toggle", s.handleToggleMainCategory)
		})
		r.Route("/sub-categories", func(r chi.Router) {
			r.Get("/", s.handleListSubCategories)
			r.Post("/", s.handleCreateSubCategory)
			r.Put("/{id}", s.handleUpdateSubCategory)
			r.Delete("/{id}", s.handleDeleteSubCategory)
			r.Post("/{id}/toggle", s.handleToggleSubCategory)
		})
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", s.handleListQuestions)
			r.Post("/", s.handleCreateQuestion)
			r.Get("/duplicate", s.handleCheckDuplicate)
			r.Put("/{id}", s.handleUpdateQuestion)
			r.Delete("/{id}", s.handleDeleteQuestion)
			r.Post("/{id}/toggle", s.handleToggleQuestion)
		})

		if s.importer != nil {
			r.Post("/import/{kind}", s.handleImport)
		}
		r.Get("/import/history", s.handleImportHistory)
		r.Get("/export/{kind}", s.handleExport)
		r.Get("/templates/{kind}", s.handleTemplate)

		if s.media != nil {
			r.Post("/media", s.handleUploadMedia)
			r.Delete("/media", s.handleDeleteMedia)
		}
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("http request")
	})
}
