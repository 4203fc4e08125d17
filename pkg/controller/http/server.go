package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eventworks/taskflow/pkg/usecase"
	"github.com/eventworks/taskflow/pkg/utils/logging"
)

type Server struct {
	router   *chi.Mux
	uc       *usecase.UseCases
	resolver ActorResolver
}

type Options func(*Server)

// WithActorResolver sets the authentication backend that maps bearer
// tokens to actors. Without it every request is rejected.
func WithActorResolver(resolver ActorResolver) Options {
	return func(s *Server) {
		s.resolver = resolver
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(actorMiddleware(s.resolver))

		r.Get("/", listTasksHandler(uc.Task))
		r.Get("/{taskID}", getTaskHandler(uc.Task))
		r.Get("/{taskID}/submissions", listSubmissionsHandler(uc.Submission))
		r.Get("/{taskID}/comments", listCommentsHandler(uc.Comment))

		r.Post("/submissions", upsertSubmissionHandler(uc.Submission))
		r.Post("/comments", addCommentHandler(uc.Comment))
	})

	r.Route("/api/submissions", func(r chi.Router) {
		r.Use(actorMiddleware(s.resolver))

		r.Get("/{submissionID}", getSubmissionHandler(uc.Submission))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
