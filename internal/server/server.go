package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dfryer1193/goimages/api"
	"github.com/dfryer1193/goimages/internal/config"
	"github.com/dfryer1193/goimages/internal/middleware"
	"github.com/dfryer1193/goimages/internal/rest"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const readHeaderTimeout = 5 * time.Second

// NewEngine assembles the middleware chain and every route the service exposes
func NewEngine(cfg *config.Config, svc rest.ImageService) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggingMiddleware())
	r.Use(gin.CustomRecovery(middleware.HandlePanics()))
	r.Use(middleware.PrometheusMiddleware())
	if cfg.Server.CORS {
		r.Use(cors.Default())
	}

	rest.NewApi(r, rest.NewImagesHandler(svc), rest.NewDocsHandler(rest.NewOpenAPIDocument()))
	r.GET("/metrics", middleware.MetricsHandler())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.Message{Message: "resource not found"})
	})

	return r
}

type Server struct {
	addr            string
	shutdownTimeout time.Duration
	handler         http.Handler
}

func New(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		addr:            cfg.Addr,
		shutdownTimeout: cfg.ShutdownTimeout,
		handler:         handler,
	}
}

// Run listens on the configured address and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("Starting server")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()

		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		log.Info().Msg("Server stopped")
		return nil
	})

	return eg.Wait()
}
