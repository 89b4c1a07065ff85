package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jidetireni/adyc-membership/factory"
	"github.com/Jidetireni/adyc-membership/internal/api/handlers"
	"github.com/Jidetireni/adyc-membership/internal/config"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
)

const shutdownTimeout = 20 * time.Second

type Server struct {
	Config   *config.Config
	Factory  *factory.Factory
	Handlers *handlers.Handlers
	Logger   *logger.Logger
}

func NewServer() (*Server, func(), error) {
	cfg := config.New()
	log := logger.New(cfg)

	f, cleanup, err := factory.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	h, err := handlers.NewHandlers(f, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	server := &Server{
		Config:   cfg,
		Factory:  f,
		Handlers: h,
		Logger:   log,
	}

	server.router()
	return server, cleanup, nil
}

// Start serves until SIGINT or SIGTERM, then drains open requests.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      s.Factory.Router,
		WriteTimeout: time.Second * 50,
		ReadTimeout:  time.Second * 30,
		IdleTimeout:  time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		s.Logger.Info().Str("addr", srv.Addr).Str("env", s.Config.Server.Env).Msg("server listening on /api/v1")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.Logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.Logger.Info().Msg("server stopped")
	return nil
}
