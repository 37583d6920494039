package main

import (
	"os"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/database"
	"github.com/ZicoForREAL/fullstackAPP/internal/logging"
)

func main() {
	boot := logging.Bootstrap()
	cfg, err := config.LoadStorageConfig()
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg)

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := database.MigrateUp(cfg); err != nil {
			logger.Fatal().Err(err).Msg("migration up failed")
		}
		logger.Info().Str("driver", cfg.DBDriver).Msg("migration up successful")
	case "down":
		if err := database.MigrateDown(cfg); err != nil {
			logger.Fatal().Err(err).Msg("migration down failed")
		}
		logger.Info().Str("driver", cfg.DBDriver).Msg("migration down successful")
	default:
		logger.Fatal().Str("command", cmd).Msg("unknown command, expected up or down")
	}
}
