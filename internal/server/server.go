package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/zombor/invoice-normalizer/internal/pipeline"
)

// Processor turns uploaded files into per-file results
type Processor interface {
	ProcessBatch(ctx context.Context, files []pipeline.File) []pipeline.FileResult
}

// BasicAuth holds basic authentication credentials. Empty credentials disable auth.
type BasicAuth struct {
	Username string
	Password string
}

// Server handles HTTP requests for invoice extraction
type Server struct {
	processor Processor
	basicAuth BasicAuth
	version   string
	mux       *http.ServeMux
}

// NewServer creates a new Server with default mux
func NewServer(processor Processor, basicAuth BasicAuth, version string) *Server {
	return NewServerWithMux(processor, basicAuth, version, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(processor Processor, basicAuth BasicAuth, version string, mux *http.ServeMux) *Server {
	s := &Server{
		processor: processor,
		basicAuth: basicAuth,
		version:   version,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.basicAuth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.basicAuth.Password)) == 1
	return userOK && passOK
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Invoice Normalizer"`)
			writeError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// corsMiddleware sets CORS headers on every response and answers preflight requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/extract", s.requireAuth(s.handleExtract))
	s.mux.HandleFunc("GET /api/fields", s.requireAuth(s.handleFields))
	s.mux.HandleFunc("GET /api/version", s.handleVersion)
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	corsMiddleware(s.mux).ServeHTTP(w, r)
}
