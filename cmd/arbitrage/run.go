package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/user/resale-arbitrage/internal/adapter/chromedp_browser"
	"github.com/user/resale-arbitrage/internal/adapter/fanout"
	"github.com/user/resale-arbitrage/internal/adapter/llm"
	"github.com/user/resale-arbitrage/internal/adapter/postgres"
	redis_adapter "github.com/user/resale-arbitrage/internal/adapter/redis"
	"github.com/user/resale-arbitrage/internal/adapter/textlog"
	"github.com/user/resale-arbitrage/internal/repository"
	"github.com/user/resale-arbitrage/internal/usecase"
	"github.com/user/resale-arbitrage/pkg/config"
	"github.com/user/resale-arbitrage/pkg/logger"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan every configured search term once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = run(ctx, cfg, log)
			if errors.Is(err, context.Canceled) {
				log.Info("scan interrupted")
				return nil
			}
			return err
		},
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("starting scan",
		zap.Strings("terms", cfg.SearchTerms),
		zap.Int("workers", cfg.MaxWorkers),
		zap.Int("items_per_term", cfg.ItemsPerTerm),
		zap.String("strategy", cfg.ResolverStrategy),
	)

	// --- Text generation ---
	gen, err := llm.New(cfg.AIProvider, cfg.AIAPIKey, cfg.AIModel)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		log.Error("configuration error: no API key for text generation, queries fall back to listing titles",
			zap.String("provider", cfg.AIProvider))
	case err != nil:
		return err
	}

	// --- Deal sinks ---
	sinks := []repository.DealRepository{textlog.NewDealRepo(cfg.ProfitLogFile)}
	if cfg.PostgresURL != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer db.Close()

		dealRepo := postgres.NewDealRepo(db)
		if err := dealRepo.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate deals schema: %w", err)
		}
		sinks = append(sinks, dealRepo)
		log.Info("PostgreSQL deal sink enabled")
	}

	// --- Seen listings ---
	var visited repository.VisitedRepository
	if cfg.RedisAddr != "" {
		rdb, err := redis_adapter.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()

		visited = redis_adapter.NewVisitedRepo(rdb)
		log.Info("Redis seen-listing store enabled", zap.Duration("ttl", cfg.VisitedTTL))
	}

	// --- Use cases ---
	limiter := rate.NewLimiter(rate.Limit(cfg.RetailerRPS), 1)
	if cfg.RetailerRPS <= 0 {
		limiter = nil
	}
	resolver, err := usecase.NewResolver(cfg.ResolverStrategy, gen, limiter)
	if err != nil {
		return err
	}

	evaluator := usecase.NewEvaluator(
		usecase.NewExtractor(),
		usecase.NewNormalizer(gen),
		resolver,
		fanout.NewDealRepo(sinks...),
		visited,
		cfg.VisitedTTL,
		log,
	)

	pools := chromedp_browser.NewPoolFactory(chromedp_browser.Options{
		ProfileBasePath: cfg.ProfileBasePath,
		Headless:        cfg.Headless,
		UserAgent:       cfg.UserAgent,
		PageLoadTimeout: cfg.PageLoadTimeout,
		ActionTimeout:   cfg.ElementTimeout,
	})

	scanner := usecase.NewScanner(usecase.ScannerConfig{
		SearchTerms:  cfg.SearchTerms,
		MaxWorkers:   cfg.MaxWorkers,
		ItemsPerTerm: cfg.ItemsPerTerm,
		MetricsFile:  cfg.MetricsFile,
	}, usecase.NewDiscovery(log), evaluator, pools, log)

	if err := scanner.Run(ctx); err != nil {
		return err
	}
	log.Info("scan complete", zap.String("profit_log", cfg.ProfitLogFile))
	return nil
}
