// Package mockserver is a local stand-in for the analysis backend. It serves
// the same endpoints with canned responses so the editor can be exercised
// without credentials or a real model provider.
package mockserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultAnalyzeLatency = 1500 * time.Millisecond

type Config struct {
	Port    int
	Latency time.Duration
	Logger  *slog.Logger
}

type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *slog.Logger
	latency    time.Duration

	mu    sync.Mutex
	files map[string]storedFile
}

type storedFile struct {
	fileName    string
	fileSize    int64
	contentType string
	received    int64
}

func NewServer(cfg Config) *Server {
	latency := cfg.Latency
	if latency == 0 {
		latency = defaultAnalyzeLatency
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		logger:  logger,
		latency: latency,
		files:   make(map[string]storedFile),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
		Handler:      s.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(LoggingMiddleware(s.logger))

	r.Get("/health", s.healthHandler)
	r.Post("/api/upload/init", s.uploadInitHandler)
	r.Put("/upload/{fileId}", s.uploadHandler)
	r.Post("/api/analyze/{fileId}", s.analyzeHandler)
	r.Post("/api/extract", s.extractHandler)
	r.Get("/api/v1/models", s.modelsHandler)
	r.Get("/download/{id}", s.downloadHandler)

	return r
}

// Listen binds the listener and returns the server's base URL. Serve must be
// called afterwards to start handling requests. Binding separately lets the
// caller use port 0 and still learn the chosen address.
func (s *Server) Listen() (string, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("bind mock server: %w", err)
	}
	s.listener = ln
	return "http://" + ln.Addr().String(), nil
}

func (s *Server) Serve() error {
	s.logger.Info("mock backend listening", "addr", s.listener.Addr().String())
	err := s.httpServer.Serve(s.listener)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down mock backend")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) storeFile(id string, f storedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = f
}

func (s *Server) lookupFile(id string) (storedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	return f, ok
}

func (s *Server) markReceived(id string, n int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return false
	}
	f.received = n
	s.files[id] = f
	return true
}
