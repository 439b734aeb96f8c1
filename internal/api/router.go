package api

import (
	"net/http"
	"time"

	"github.com/Adarsh-griffin/NotifyBack/internal/api/handlers"
	"github.com/Adarsh-griffin/NotifyBack/internal/auth"
	"github.com/Adarsh-griffin/NotifyBack/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	FrontendURL    string
	Tokens         *auth.TokenManager
	UserService    services.UserServiceProvider
	NoteService    services.NoteServiceProvider
	EnhanceService services.EnhanceServiceProvider
	OCR            handlers.OCRProvider
	Metrics        http.Handler // optional, served at /metrics
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{deps.FrontendURL},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	userHandler := handlers.NewUserHandler(deps.UserService)
	noteHandler := handlers.NewNoteHandler(deps.NoteService)
	enhanceHandler := handlers.NewEnhanceHandler(deps.EnhanceService)
	ocrHandler := handlers.NewOCRHandler(deps.OCR)
	requireAuth := deps.Tokens.JWTMiddleware()

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/test", handlers.Test)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", userHandler.Signup)
			r.Post("/login", userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/notes", noteHandler.GetAllNotes)
				r.Get("/search", noteHandler.Search)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", noteHandler.GetNotes)
			r.Post("/", noteHandler.Create)
			r.Get("/all", noteHandler.GetAllNotes)
			r.Get("/search", noteHandler.Search)
			r.Get("/archived", noteHandler.GetArchived)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", noteHandler.Update)
				r.Delete("/", noteHandler.Delete)
				r.Put("/archive", noteHandler.Archive)
				r.Put("/unarchive", noteHandler.Unarchive)
			})
		})

		r.Route("/enhance-text", func(r chi.Router) {
			r.Post("/", enhanceHandler.Enhance)
			r.Post("/enhance-text", enhanceHandler.Enhance)
		})

		r.Post("/ocr/image-to-text", ocrHandler.ImageToText)
	})

	return r
}

// requestIDLogger tags the request logger with chi's request id.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request handled")
}
