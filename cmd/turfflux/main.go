package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alejandrodnm/turfflux/config"
	"github.com/alejandrodnm/turfflux/internal/adapters/notify"
	"github.com/alejandrodnm/turfflux/internal/adapters/pmu"
	"github.com/alejandrodnm/turfflux/internal/adapters/storage"
	"github.com/alejandrodnm/turfflux/internal/api"
	"github.com/alejandrodnm/turfflux/internal/application/watch"
	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/alejandrodnm/turfflux/internal/flux"
	"github.com/alejandrodnm/turfflux/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	race := flag.Int("race", 0, "watch mode: reunion number (R)")
	contest := flag.Int("contest", 0, "watch mode: course number (C)")
	once := flag.Bool("once", false, "watch mode: poll once and exit")
	table := flag.Bool("table", false, "watch mode: print full table (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	watchMode := *race > 0 && *contest > 0
	slog.Info("turfflux starting",
		"config", *configPath,
		"sources", len(cfg.API.CandidateBases),
		"pool_kinds", cfg.API.PoolKinds,
		"cache", cfg.Cache.Backend,
		"watch", watchMode,
	)

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open stake store", "err", err, "backend", cfg.Cache.Backend)
		os.Exit(1)
	}
	defer store.Close()

	svc := buildService(cfg, store)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if watchMode {
		w := watch.New(watch.Config{
			Race:     *race,
			Contest:  *contest,
			Interval: cfg.WatchInterval(),
			Once:     *once,
		}, svc, notify.NewConsole(*table))
		if err := w.Run(ctx); err != nil {
			slog.Error("watcher exited with error", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, cfg, svc); err != nil {
		slog.Error("server exited with error", "err", err)
		os.Exit(1)
	}
	slog.Info("turfflux stopped cleanly")
}

func buildService(cfg *config.Config, store ports.StakeStore) *flux.Service {
	client := pmu.NewClient(pmu.Options{
		UserAgent:      cfg.API.UserAgent,
		Referer:        cfg.API.Referer,
		Specialisation: cfg.API.Specialisation,
		RequestTimeout: cfg.RequestTimeout(),
		ProbeTimeout:   cfg.ProbeTimeout(),
		RatePerSec:     cfg.API.RatePerSec,
	})

	loc := cfg.Location()
	today := func() string { return time.Now().In(loc).Format(flux.DateLayout) }
	resolver := pmu.NewResolver(client, cfg.API.CandidateBases, today)

	kinds := make([]domain.PoolKind, len(cfg.API.PoolKinds))
	for i, k := range cfg.API.PoolKinds {
		kinds[i] = domain.PoolKind(k)
	}

	return flux.New(flux.Config{PoolKinds: kinds, Location: loc}, resolver, client, client, store)
}

func openStore(cfg *config.Config) (ports.StakeStore, error) {
	ret := storage.Retention{TTL: cfg.CacheTTL(), PruneEvery: cfg.PruneEvery()}
	if cfg.Cache.Backend == "sqlite" {
		return storage.NewSQLiteStakeStore(cfg.Cache.DSN, ret)
	}
	return storage.NewMemoryStakeStore(ret), nil
}

func serve(ctx context.Context, cfg *config.Config, svc *flux.Service) error {
	gin.SetMode(cfg.Server.GinMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(api.NewHandler(svc)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
