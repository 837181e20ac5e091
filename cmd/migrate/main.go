package main

import (
	"fmt"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|down|version>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer manager.Close()

	source := os.Getenv("MIGRATIONS_SOURCE")
	if source == "" {
		source = database.DefaultMigrationsPath
	}

	switch command := os.Args[1]; command {
	case "up":
		if err := manager.RunMigrations(source); err != nil {
			return err
		}

	case "down":
		if err := manager.RollbackMigration(source); err != nil {
			return err
		}
		logger.Get().Info("Rolled back 1 migration")

	case "version":
		version, dirty, err := manager.MigrationVersion(source)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, or version)", command)
	}

	return nil
}
