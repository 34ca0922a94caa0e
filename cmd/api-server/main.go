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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mangatheque/internal/app"
	"mangatheque/internal/library"
	"mangatheque/internal/metadata"
	"mangatheque/internal/report"
	synchub "mangatheque/internal/sync"
	"mangatheque/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "api-server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := utils.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		// a corrupt blob lands here; never start and overwrite it
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(a)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP API server listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.Storage))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()
	if err := a.Close(); err != nil {
		logger.Error("close storage", zap.Error(err))
	}
	logger.Info("server stopped")
	return runErr
}

func newRouter(a *app.App) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(a.Log))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": a.Cfg.Storage})
	})
	router.GET("/debug", func(c *gin.Context) {
		stats := a.Hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"storage":    a.Cfg.Storage,
			"series":     len(a.Store.List()),
			"ws_clients": stats.WSClients,
			"syncing":    len(a.Syncer.InFlight()),
		})
	})
	router.GET("/ws", synchub.WSHandler(a.Hub))

	api := router.Group("")
	library.NewHandler(a.Store, a.Syncer, a.Images).RegisterRoutes(api)
	metadata.NewHandler(a.Suggester, a.Syncer, a.Store).RegisterRoutes(api)
	report.NewHandler(a.Store).RegisterRoutes(api)

	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
