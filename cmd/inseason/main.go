package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/seasonal-produce/internal/adapter/http"
	"github.com/couchcryptid/seasonal-produce/internal/adapter/mapbox"
	"github.com/couchcryptid/seasonal-produce/internal/adapter/tablestore"
	"github.com/couchcryptid/seasonal-produce/internal/config"
	"github.com/couchcryptid/seasonal-produce/internal/location"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
	"github.com/couchcryptid/seasonal-produce/internal/season"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	resolverOpts := []location.Option{
		location.WithFuzzyDistance(cfg.FuzzyDistance),
		location.WithMaxNearestKm(cfg.NearestMaxKm),
		location.WithLogger(logger),
	}
	// Nearest-city fallback is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		resolverOpts = append(resolverOpts, location.WithGeocoder(mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)))
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}
	resolver := location.NewResolver(location.Known(), resolverOpts...)

	var (
		source season.Source
		opts   = httpadapter.Options{ImagesDir: cfg.ImagesDir}
	)
	if cfg.SeasonDataURL != "" {
		source = tablestore.NewHTTP(cfg.SeasonDataURL, cfg.SeasonDataTimeout)
	} else {
		source = tablestore.NewFile(cfg.SeasonDataPath)
		opts.ArtifactPath = cfg.SeasonDataPath
	}

	catalog := season.NewCatalog(source, cfg.SeasonRegions, logger, metrics)
	svc := season.NewService(resolver, catalog, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, catalog, resolver, opts, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("season table source", "source", source.Describe(), "regions", cfg.SeasonRegions)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Warm the cache; queries retry the load on demand if this fails.
	go func() {
		if _, err := catalog.Load(ctx); err != nil {
			logger.Warn("initial season table load failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
