package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"english-quiz-app/internal/logging"
)

type RouterConfig struct {
	Sessions *SessionHandler
	WS       *WSHandler
	Logger   logrus.FieldLogger
}

// NewRouter mounts the JSON session API, the websocket endpoint and /healthz.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	if h := cfg.Sessions; h != nil {
		r.Route("/api", func(r chi.Router) {
			r.Get("/collections", h.ListCollections)
			r.Get("/collections/{name}/stats", h.CollectionStats)

			r.Route("/session", func(r chi.Router) {
				r.Post("/", h.Start)
				r.Get("/", h.Current)
				r.Delete("/", h.End)
				r.Post("/answer", h.Answer)
				r.Post("/next", h.Next)
				r.Post("/quit", h.Quit)
				r.Post("/restart", h.Restart)
				r.Get("/summary", h.Summary)
			})
		})
	}
	if cfg.WS != nil {
		r.Get("/ws", cfg.WS.ServeWS)
	}
	return r
}

func requestLogger(base logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.Into(r.Context(), base)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			logging.WithContext(ctx).WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}
