package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/community/backend/internal/bootstrap"
	"github.com/community/backend/internal/infrastructure/config"
	"github.com/community/backend/internal/infrastructure/logger"
	"github.com/community/backend/internal/infrastructure/migration"
	"github.com/community/backend/internal/infrastructure/persistence"
	"github.com/community/backend/internal/seed"
	"github.com/community/backend/migrations"
	"go.uber.org/zap"
)

func main() {
	var (
		file     string
		migrate  bool
		force    bool
		logLevel string
	)

	flag.StringVar(&file, "file", "", "Fixtures YAML file (default: the fixtures bundled with the binary)")
	flag.BoolVar(&migrate, "migrate", true, "Apply pending migrations before seeding")
	flag.BoolVar(&force, "force", false, "Seed even when the database already has categories")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: seed [flags]")
		flag.PrintDefaults()
	}
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	fx := seed.Default()
	if file != "" {
		if fx, err = seed.LoadFile(file); err != nil {
			log.Fatal("Failed to load fixtures", zap.String("file", file), zap.Error(err))
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if migrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
		}
		m, err := migration.NewEmbedded(sqlDB, cfg.Database.Driver, migrations.FS, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	services := bootstrap.NewServices(db.DB)

	if !force {
		existing, err := services.Categories.List(ctx)
		if err != nil {
			log.Fatal("Failed to inspect database", zap.Error(err))
		}
		if len(existing) > 0 {
			log.Info("Database already has data, nothing seeded; use -force to seed anyway",
				zap.Int("categories", len(existing)))
			return
		}
	}

	sum, err := seed.Apply(ctx, services, fx)
	if err != nil {
		log.Fatal("Seeding failed", zap.Int("added", sum.Total()), zap.Error(err))
	}

	log.Info("Seeding complete",
		zap.Int("categories", sum.Categories),
		zap.Int("articles", sum.Articles),
		zap.Int("companies", sum.Companies),
		zap.Int("job_categories", sum.JobCategories),
		zap.Int("jobs", sum.Jobs),
		zap.Int("donors", sum.Donors),
		zap.Int("campaigns", sum.Campaigns),
		zap.Int("donations", sum.Donations),
	)
}
