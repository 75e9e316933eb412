package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/db"
	"github.com/shopkit/commerce-gateway/internal/config"
	"github.com/shopkit/commerce-gateway/internal/logger"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	config.ChdirRepoRoot()
	cfg, err := config.LoadMigrateConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Database.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	if err := logger.Initialize(logger.Config{Service: "migrate", Debug: cfg.Debug, SentryDSN: cfg.SentryDSN}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	m, err := db.NewMigrate(cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to initialize migrations", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("Failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err := m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			logger.Info("Database is already up to date")
		case err != nil:
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		default:
			logger.Info("Migrations applied")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			logger.Fatal("Failed to roll back migration", zap.Error(err))
		}
		logger.Info("Rolled back the latest migration")

	case "goto":
		if flag.NArg() < 2 {
			logger.Fatal("goto requires a version")
		}
		version, err := strconv.ParseUint(flag.Arg(1), 10, 64)
		if err != nil {
			logger.Fatal("Invalid version", zap.String("version", flag.Arg(1)))
		}
		if err := m.Migrate(uint(version)); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("Failed to migrate", zap.Error(err), zap.Uint64("version", version))
		}
		logger.Info("Migrated", zap.Uint64("version", version))

	case "status":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			logger.Info("No migrations applied")
		case err != nil:
			logger.Fatal("Failed to read migration version", zap.Error(err))
		default:
			logger.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [flags] <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up            apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  down          roll back the latest migration")
	fmt.Fprintln(os.Stderr, "  goto <v>      migrate to version v")
	fmt.Fprintln(os.Stderr, "  status        print the current version")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}
