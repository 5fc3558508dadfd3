package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/OpenSciViz/zodipy/internal/api"
	"github.com/OpenSciViz/zodipy/internal/auth"
	"github.com/OpenSciViz/zodipy/internal/emission"
	"github.com/OpenSciViz/zodipy/internal/ephem"
	"github.com/OpenSciViz/zodipy/internal/ipd"
	"github.com/OpenSciViz/zodipy/internal/metrics"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	addr := os.Getenv("ZODIPY_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	modelName := os.Getenv("ZODIPY_MODEL")
	if modelName == "" {
		modelName = "DIRBE"
	}
	model, err := ipd.Get(modelName)
	if err != nil {
		logger.Error("invalid ZODIPY_MODEL", "error", err)
		os.Exit(1)
	}

	provider, cached := loadProvider(logger)
	simCfg := loadSimConfig(logger)

	sim := emission.NewSimulator(model, cached, simCfg, logger)
	metrics.SetSimulationWorkers(simCfg.Workers)

	srv := api.NewServer(addr, logger, authCfg, sim)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background goroutine to update the ephemeris cache size gauge.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, _, size := cached.Stats()
				metrics.SetEphemerisCacheSize(size)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("starting server",
			"addr", addr,
			"model", model.Name(),
			"auth_enabled", authCfg.Enabled,
			"workers", simCfg.Workers,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	if closer, ok := provider.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("ephemeris close error", "error", err)
		}
	}

	logger.Info("server stopped")
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	enabledStr := os.Getenv("ZODIPY_AUTH_ENABLED")
	if enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return cfg, errors.New("ZODIPY_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("ZODIPY_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, errors.New("ZODIPY_AUTH_TOKEN is required when auth is enabled")
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}

// loadProvider selects the ephemeris source: a JPL binary ephemeris when
// ZODIPY_EPHEMERIS_FILE is set, the built-in analytic solar theory otherwise.
// Lookups are always memoized.
func loadProvider(logger *slog.Logger) (ephem.Provider, *ephem.CachedProvider) {
	var provider ephem.Provider

	if path := os.Getenv("ZODIPY_EPHEMERIS_FILE"); path != "" {
		jpl, err := ephem.NewJPLProvider(path)
		if err != nil {
			logger.Warn("JPL ephemeris unavailable, falling back to analytic provider", "path", path, "error", err)
			provider = ephem.NewAnalyticProvider()
		} else {
			logger.Info("ephemeris loaded", "path", path, "ephemeris", jpl.Name())
			provider = jpl
		}
	} else {
		logger.Info("no ZODIPY_EPHEMERIS_FILE set, using analytic provider")
		provider = ephem.NewAnalyticProvider()
	}

	return provider, ephem.NewCachedProvider(provider)
}

func loadSimConfig(logger *slog.Logger) emission.Config {
	cfg := emission.Config{
		Workers:       runtime.NumCPU(),
		DefaultSteps:  emission.DefaultSteps,
		DefaultCutoff: ipd.DefaultCutoff,
	}

	if v := os.Getenv("ZODIPY_SIM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid ZODIPY_SIM_WORKERS value, using default", "value", v, "default", cfg.Workers)
		} else {
			cfg.Workers = n
		}
	}

	if v := os.Getenv("ZODIPY_INTEGRATION_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid ZODIPY_INTEGRATION_STEPS value, using default", "value", v, "default", cfg.DefaultSteps)
		} else {
			cfg.DefaultSteps = n
		}
	}

	if v := os.Getenv("ZODIPY_DISTANCE_CUTOFF"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			logger.Warn("invalid ZODIPY_DISTANCE_CUTOFF value, using default", "value", v, "default", cfg.DefaultCutoff)
		} else {
			cfg.DefaultCutoff = f
		}
	}

	logger.Info("simulation config",
		"workers", cfg.Workers,
		"integration_steps", cfg.DefaultSteps,
		"distance_cutoff_au", cfg.DefaultCutoff,
	)

	return cfg
}
