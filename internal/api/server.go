package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/naucourse/chooser/internal/api/handlers"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/resources"
)

// Server is the withdrawal daemon's HTTP API server.
type Server struct {
	engine     handlers.Engine
	history    *handlers.History
	pool       resources.PoolGauge
	name       string
	version    string
	startTime  time.Time
	httpServer *http.Server
	listener   net.Listener // Pre-bound listener, nil to bind in Start
	bindAddr   string
	bindPort   int
}

// NewServer creates a new API server instance
func NewServer(config *Config) *Server {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		engine:    config.Engine,
		history:   handlers.NewHistory(),
		pool:      config.Pool,
		name:      config.Name,
		version:   config.Version,
		startTime: time.Now(),
		bindAddr:  config.BindAddr,
		bindPort:  config.BindPort,
	}
}

// NewServerWithListener creates a server that serves on an already bound
// listener. Used by tests and by callers that bind port 0.
func NewServerWithListener(config *Config, listener net.Listener) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API config: %w", err)
	}
	if listener == nil {
		return nil, errors.New("listener cannot be nil")
	}

	s := NewServer(config)
	s.listener = listener
	if tcp, ok := listener.Addr().(*net.TCPAddr); ok {
		s.bindAddr = tcp.IP.String()
		s.bindPort = tcp.Port
	}
	return s, nil
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.bindAddr, fmt.Sprint(s.bindPort))
}

// Handler builds the router with middleware and routes.
func (s *Server) Handler() http.Handler {
	router := gin.New()

	// Configure Gin logging only if not already configured by CLI tools
	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("INFO", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.loggingMiddleware())
	router.Use(s.corsMiddleware())
	router.Use(gin.Recovery())

	s.setupRoutes(router)
	return router
}

// Start starts the API server in the background.
func (s *Server) Start() error {
	logging.Info("Starting HTTP API server on %s", s.Addr())

	s.httpServer = &http.Server{
		Addr:    s.Addr(),
		Handler: s.Handler(),
		// Timeouts for production
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener := s.listener
	if listener == nil {
		// Bind before returning so address errors surface immediately
		var err error
		listener, err = net.Listen("tcp", s.httpServer.Addr)
		if err != nil {
			return fmt.Errorf("failed to bind to %s: %w", s.httpServer.Addr, err)
		}
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("HTTP server failed: %v", err)
		}
	}()

	logging.Success("HTTP API server started successfully")
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down HTTP API server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) getHandlerHealth() gin.HandlerFunc {
	return handlers.HandleHealth(s.engine, s.name, s.version, s.startTime)
}

func (s *Server) getHandlerSubmit() gin.HandlerFunc {
	return handlers.SubmitWithdrawal(s.engine, s.history)
}

func (s *Server) getHandlerCancel() gin.HandlerFunc {
	return handlers.CancelWithdrawal(s.engine)
}

func (s *Server) getHandlerStatus() gin.HandlerFunc {
	return handlers.WithdrawalStatus(s.engine, s.history)
}

func (s *Server) getHandlerResources() gin.HandlerFunc {
	return handlers.HandleResources(s.pool, s.startTime)
}
