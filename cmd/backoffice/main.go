// Package main is the entry point for the dealership back-office service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dealership/backoffice/config"
	"github.com/dealership/backoffice/internal/application/usecase/rating"
	"github.com/dealership/backoffice/internal/application/usecase/reconciliation"
	"github.com/dealership/backoffice/internal/infra/db"
	"github.com/dealership/backoffice/internal/infra/dependency"
	"github.com/dealership/backoffice/internal/integration/persistence/model"
)

func main() {
	runAudit := flag.Bool("audit", false, "run a consistency audit over the note ledger and exit")
	repair := flag.Bool("repair", false, "rewrite drifted notes found by the audit (implies -audit)")
	flag.Parse()

	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting back-office service",
		"environment", cfg.App.Environment,
	)

	// Initialize database connection
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.AutoMigrate(
		&model.ClientModel{},
		&model.SaleModel{},
		&model.NoteModel{},
		&model.PaymentModel{},
		&model.RatingBandModel{},
		&model.RatingHistoryModel{},
	); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Connect Redis for the rating policy cache; the service degrades to
	// uncached policy reads when Redis is unavailable.
	redisClient := newRedisClient(cfg)

	injector := dependency.NewInjector(cfg, database.DB(), redisClient)

	// Fail fast on a malformed rating policy: every reconciliation depends
	// on it, so a broken band table should stop the service at startup.
	bands, err := injector.PolicyRepo.FindBandsOrdered(context.Background())
	if err != nil {
		slog.Error("Failed to load rating policy", "error", err)
		os.Exit(1)
	}
	if len(bands) > 0 {
		if err := rating.ValidateBands(bands); err != nil {
			slog.Error("Rating policy is malformed", "error", err)
			os.Exit(1)
		}
		slog.Info("Rating policy validated", "bands", len(bands))
	} else {
		slog.Warn("No rating bands configured; clients will not be rated")
	}

	if *runAudit || *repair {
		runConsistencyAudit(injector, cfg, *repair)
		return
	}

	slog.Info("Startup checks completed")
}

// newRedisClient builds the Redis client from configuration, or returns nil
// when Redis cannot be reached.
func newRedisClient(cfg *config.Config) *redis.Client {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.Warn("Invalid Redis URL, rating policy cache disabled", "error", err)
		return nil
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unreachable, rating policy cache disabled", "error", err)
		return nil
	}
	return client
}

func runConsistencyAudit(injector *dependency.Injector, cfg *config.Config, repair bool) {
	slog.Info("Running consistency audit", "repair", repair)

	output, err := injector.ConsistencyAudit.Execute(context.Background(), reconciliation.ConsistencyAuditInput{
		BatchSize: cfg.Audit.BatchSize,
		Repair:    repair,
	})
	if err != nil {
		slog.Error("Consistency audit failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Consistency audit completed",
		"notes_scanned", output.Scanned,
		"drifted", len(output.Findings),
		"repaired", output.Repaired,
	)
	if len(output.Findings) > 0 && !repair {
		os.Exit(2)
	}
}
