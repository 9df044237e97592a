// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/carterperez-dev/guardops/internal/bootstrap"
	"github.com/carterperez-dev/guardops/internal/config"
	"github.com/carterperez-dev/guardops/internal/core"
)

const timeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath); err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	res, err := bootstrap.Run(ctx, db.DB, cfg.Bootstrap)
	if err != nil {
		return err
	}

	slog.Info("bootstrap complete",
		"owner_id", res.OwnerID,
		"tenant_id", res.TenantID,
		"admin_id", res.AdminID,
		"created", res.Created,
	)
	return nil
}
