package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/usecase"
	"github.com/owasp-nest/nestai/pkg/utils/errutil"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
	"github.com/owasp-nest/nestai/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	engine *usecase.Engine
}

func New(engine *usecase.Engine) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		engine: engine,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Route("/api", func(r chi.Router) {
		r.Post("/query", s.queryHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	defer safe.Close(r.Context(), r.Body)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode query request"), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("query is required"), http.StatusBadRequest)
		return
	}

	answer := s.engine.Answer(r.Context(), req.Query)

	data, err := json.Marshal(answer)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal answer"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck // header already committed
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
