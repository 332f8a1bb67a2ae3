// Command solvetrace-server runs the HTTP query server.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solvetrace/solvetrace/internal/logging"
	"github.com/solvetrace/solvetrace/internal/web"
	"github.com/solvetrace/solvetrace/pkg/solvetrace"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/classify"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/config"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/history"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/history/sqlite"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/symbols"
)

func main() {
	configPath := flag.String("config", "", "Config file path (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	detector := symbols.NewDetector(nil)
	for _, name := range cfg.ReservedFunctions {
		detector.AddReserved(name)
	}
	solver := solvetrace.New(solvetrace.Options{Detector: detector})

	var journal history.Store
	if cfg.Journal.Enabled {
		journal, err = sqlite.Open(ctx, cfg.Journal.Path)
		if err != nil {
			logger.Fatal("open journal", zap.Error(err), zap.String("path", cfg.Journal.Path))
		}
		defer journal.Close()
	}

	server := web.New(web.Options{
		Solver:       solver,
		Journal:      journal,
		Mode:         classify.ParseMode(cfg.DefaultMode),
		HistoryLimit: cfg.Journal.Limit,
		Log:          logger,
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Listen), zap.Bool("journal", cfg.Journal.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
