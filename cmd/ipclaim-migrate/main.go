package main

import (
	"context"
	"flag"
	"time"

	"ipclaim/internal/platform/config"
	"ipclaim/internal/platform/logger"
	"ipclaim/internal/platform/store/migrate"
)

func main() {
	pgCfg := config.New().Prefix("SERVICE_PGSQL_")
	l := logger.Get()

	var (
		fURL     = flag.String("dburl", "", "postgres url (default: SERVICE_PGSQL_DBURL)")
		fTimeout = flag.Duration("timeout", 2*time.Minute, "overall migration timeout")
		fList    = flag.Bool("list", false, "list embedded migrations and exit")
	)
	flag.Parse()

	if *fList {
		files, err := migrate.Files()
		if err != nil {
			l.Fatal().Err(err).Msg("list migrations")
		}
		for _, f := range files {
			l.Info().Str("file", f).Msg("migration")
		}
		return
	}

	url := *fURL
	if url == "" {
		url = pgCfg.MustString("DBURL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()
	if err := migrate.Up(ctx, url); err != nil {
		l.Fatal().Err(err).Msg("migrate up failed")
	}
}
