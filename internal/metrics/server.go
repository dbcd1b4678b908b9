package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ServerConfig holds the metrics endpoint configuration.
type ServerConfig struct {
	Port   int
	Path   string
	Logger *logrus.Logger
}

// Server exposes the Prometheus registry over HTTP on its own port.
type Server struct {
	port   int
	path   string
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a metrics server. The path defaults to /metrics.
func NewServer(cfg ServerConfig) *Server {
	port := cfg.Port
	if port == 0 {
		port = 9090
	}
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	return &Server{
		port:   port,
		path:   path,
		logger: cfg.Logger,
	}
}

// Start serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.path, Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"port": s.port,
				"path": s.path,
			}).Info("Metrics server starting")
		}
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.WithError(err).Error("Metrics server error")
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown stops the server, draining in-flight requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("Metrics server shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
