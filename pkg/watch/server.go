package watch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"ruleforge/vgen/pkg/telemetry/health"
	"ruleforge/vgen/pkg/telemetry/logging"
	"ruleforge/vgen/pkg/telemetry/metrics"
)

// MetricsPath is where the Prometheus handler is mounted.
const MetricsPath = "/metrics"

// Server exposes metrics and health endpoints while watching.
type Server struct {
	srv    *http.Server
	logger *logging.Logger
}

// NewServer builds the handler tree for addr.
func NewServer(addr string, collector *metrics.Collector, checker *health.Checker, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, collector.Handler())
	checker.Mount(mux)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the server's handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start listens on the configured address and serves in the background.
// It returns the bound address, which differs from the configured one
// when port 0 was requested.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return "", err
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
	s.logger.Info("metrics server listening", "address", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
