// Package api provides the HTTP API server and handlers for the librarian application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/librarianapp/librarian-server/internal/ratelimit"
	"github.com/librarianapp/librarian-server/internal/service"
	"github.com/librarianapp/librarian-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	authService  *service.AuthService
	bookService  *service.BookService
	userService  *service.UserService
	loanService  *service.LoanService
	loginLimiter *ratelimit.KeyedLimiter
	router       *chi.Mux
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	store store.Store,
	authService *service.AuthService,
	bookService *service.BookService,
	userService *service.UserService,
	loanService *service.LoanService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		store:        store,
		authService:  authService,
		bookService:  bookService,
		userService:  userService,
		loanService:  loanService,
		loginLimiter: ratelimit.New(1, 5),
		router:       chi.NewRouter(),
		logger:       logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		// Auth endpoints (public, login throttled per client IP).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.loginRateLimit)
			r.Post("/login", s.handleLogin)
		})

		// Books: reads for any authenticated user, writes for admins.
		r.Route("/books", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListBooks)
			r.Get("/search", s.handleSearchBooks)
			r.With(s.requireAdmin).Post("/", s.handleCreateBook)
		})

		// Loans (admin only).
		r.Route("/loans", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Use(s.requireAdmin)
			r.Get("/", s.handleListLoans)
			r.Post("/assign", s.handleAssignLoan)
			r.Post("/return/{bookID}", s.handleReturnLoan)
		})

		// Users (admin only).
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Use(s.requireAdmin)
			r.Get("/", s.handleListUsers)
			r.Get("/search", s.handleSearchUsers)
			r.Post("/", s.handleCreateUser)
		})
	})
}
