package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Kerhoff/tripplanner/internal/metrics"
	"github.com/Kerhoff/tripplanner/internal/service"
	"github.com/Kerhoff/tripplanner/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the web server.
type Options struct {
	SessionSecret  string
	MapsAPIKey     string
	UploadDir      string // served under /uploads/ when set
	MaxUploadBytes int64
	DB             Pinger
	Metrics        *metrics.Metrics
}

// Server serves the HTML web UI.
type Server struct {
	svc            *service.Service
	logger         *logrus.Logger
	router         *chi.Mux
	pages          map[string]*template.Template
	flash          *flashCodec
	metrics        *metrics.Metrics
	db             Pinger
	mapsKey        string
	uploadDir      string
	maxUploadBytes int64
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger, opts Options) (*Server, error) {
	pages, err := parseTemplates(web.Templates())
	if err != nil {
		return nil, err
	}
	flash, err := newFlashCodec(opts.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create flash key: %w", err)
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}

	s := &Server{
		svc:            svc,
		logger:         logger,
		router:         chi.NewRouter(),
		pages:          pages,
		flash:          flash,
		metrics:        opts.Metrics,
		db:             opts.DB,
		mapsKey:        opts.MapsAPIKey,
		uploadDir:      opts.UploadDir,
		maxUploadBytes: opts.MaxUploadBytes,
	}
	s.routes()
	return s, nil
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	if s.uploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderStatus(w, r, http.StatusNotFound, msgNotFound)
	})

	r.Get("/", s.handleHome)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.handleCreateTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.handleTrip)
			r.Get("/edit", s.handleEditTrip)
			r.Post("/update", s.handleUpdateTrip)
			r.Post("/delete", s.handleDeleteTrip)
			r.Post("/settings", s.handleSaveSettings)

			r.Get("/places", s.handleListPlaces)
			r.Post("/places", s.handleCreatePlace)
			r.Get("/schedules", s.handleListSchedules)
			r.Post("/schedules", s.handleCreateSchedule)
			r.Get("/memos", s.handleListMemos)
			r.Post("/memos", s.handleCreateMemo)
			r.Get("/hotels", s.handleListHotels)
			r.Post("/hotels", s.handleCreateHotel)
			r.Get("/flights", s.handleListFlights)
			r.Post("/flights", s.handleCreateFlight)
		})
	})

	r.Route("/places/{id}", func(r chi.Router) {
		r.Get("/edit", s.handleEditPlace)
		r.Post("/update", s.handleUpdatePlace)
		r.Post("/delete", s.handleDeletePlace)
	})

	r.Route("/schedules/{id}", func(r chi.Router) {
		r.Get("/", s.handleSchedule)
		r.Get("/edit", s.handleEditSchedule)
		r.Post("/update", s.handleUpdateSchedule)
		r.Post("/delete", s.handleDeleteSchedule)
		r.Post("/posts", s.handleCreatePost)
	})

	r.Route("/posts/{id}", func(r chi.Router) {
		r.Get("/edit", s.handleEditPost)
		r.Post("/update", s.handleUpdatePost)
		r.Post("/delete", s.handleDeletePost)
	})

	r.Route("/memos/{id}", func(r chi.Router) {
		r.Get("/edit", s.handleEditMemo)
		r.Post("/update", s.handleUpdateMemo)
		r.Post("/delete", s.handleDeleteMemo)
	})

	r.Route("/hotels/{id}", func(r chi.Router) {
		r.Get("/edit", s.handleEditHotel)
		r.Post("/update", s.handleUpdateHotel)
		r.Post("/delete", s.handleDeleteHotel)
	})

	r.Route("/flights/{id}", func(r chi.Router) {
		r.Get("/edit", s.handleEditFlight)
		r.Post("/update", s.handleUpdateFlight)
		r.Post("/delete", s.handleDeleteFlight)
	})
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.WithError(err).Error("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintln(w, "database unavailable")
			return
		}
	}
	fmt.Fprintln(w, "ok")
}

