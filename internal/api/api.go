package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"multiroom-chat/internal/api/middleware"
	"multiroom-chat/internal/audit"
	"multiroom-chat/internal/chat"
	"multiroom-chat/internal/queue"
	"multiroom-chat/internal/websocket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

type RouteRegistrar func(r *mux.Router, s *APIServer)

type Options struct {
	ListenAddr string
	Queue      *queue.RequestQueueManager
	Chat       *chat.Server
	Websocket  *websocket.Handler
	// Audit may be nil when no event store is configured.
	Audit      *audit.Service
	Logger     *slog.Logger
	CORSAllow  []string
	Registerer prometheus.Registerer
}

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.RequestQueueManager
	chat                *chat.Server
	handler             *websocket.Handler
	audit               *audit.Service
	log                 *slog.Logger
	cors                middleware.CORSConfig
	routeRegistrars     []RouteRegistrar
	metrics             *metrics
}

func NewAPIServer(opts Options, registrars ...RouteRegistrar) *APIServer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &APIServer{
		listenAddr:          opts.ListenAddr,
		requestQueueManager: opts.Queue,
		chat:                opts.Chat,
		handler:             opts.Websocket,
		audit:               opts.Audit,
		log:                 logger,
		cors:                middleware.DefaultCORSConfig(opts.CORSAllow),
		routeRegistrars:     registrars,
		metrics:             newMetrics(reg, opts.ListenAddr, opts.Queue),
	}
}

// Router builds the full handler tree: registered routes, /metrics, and
// request instrumentation.
func (s *APIServer) Router() http.Handler {
	r := mux.NewRouter()

	for _, reg := range s.routeRegistrars {
		reg(r, s)
	}

	r.Handle("/metrics", s.metrics.metricsHandler())

	return s.metrics.instrument(r)
}

// Run serves until ctx is cancelled, then drains in-flight requests. The
// chat sessions themselves are hijacked connections and must be closed
// through chat.Server.Shutdown.
func (s *APIServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", s.listenAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *APIServer) Chat() *chat.Server {
	return s.chat
}

func (s *APIServer) Handler() *websocket.Handler {
	return s.handler
}

func (s *APIServer) Audit() *audit.Service {
	return s.audit
}

func (s *APIServer) Logger() *slog.Logger {
	return s.log
}
