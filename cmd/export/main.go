package main

import (
	"context"
	"flag"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/database"
	"github.com/ZicoForREAL/fullstackAPP/internal/export"
	"github.com/ZicoForREAL/fullstackAPP/internal/logging"
)

func main() {
	format := flag.String("format", export.FormatJSON, "output format: json or xlsx")
	out := flag.String("out", "", "output file (default storage/backup.<format>)")
	flag.Parse()

	boot := logging.Bootstrap()
	cfg, err := config.LoadStorageConfig()
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg)

	path := *out
	if path == "" {
		path = "storage/backup." + *format
	}

	ctx := context.Background()
	store, err := database.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	if err := export.ToFile(ctx, store, *format, path); err != nil {
		logger.Fatal().Err(err).Msg("export failed")
	}
	logger.Info().Str("path", path).Str("format", *format).Msg("database exported")
}
