package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"kanban-api/api"
	"kanban-api/board"
	"kanban-api/storage"
)

func main() {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	logger := log.New()
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		logger.SetLevel(log.DebugLevel)
	}

	// Spans are not exported; the provider assigns the trace ids that
	// request logs carry.
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	catalog := board.NewCatalog(logger)
	if cfg.CatalogFile != "" {
		catalog, err = board.LoadCatalogFile(cfg.CatalogFile, catalog)
		if err != nil {
			log.Fatalf("board catalog: %v", err)
		}
		logger.WithField("file", cfg.CatalogFile).Info("board catalog overrides loaded")
	}

	tables, err := storage.New(cfg.ConnStr, cfg.TasksTable, cfg.CommandQueue)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	rc := redis.NewClient(redisOptions(cfg.RedisConn))
	store := storage.NewCache(tables, rc, cfg.TasksTTL)
	deduper := api.NewRedisDeduper(rc, cfg.DeduperTTL)
	dispatcher := api.NewDispatcher(store, deduper, logger, cfg.Dispatch)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderContentEncoding},
	}))
	e.Use(api.GzipRequestMiddleware(cfg.MaxBodySize))
	api.Register(e, store, catalog, deduper, dispatcher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	dispatcher.Close()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("tracer shutdown: %v", err)
	}
	if err := rc.Close(); err != nil {
		logger.Errorf("redis close: %v", err)
	}
}
