// @title         ipclaim API
// @version       0.1.0
// @description   Claim submission with content fingerprint deduplication

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ipclaim/internal/platform/config"
	"ipclaim/internal/platform/logger"
	phttp "ipclaim/internal/platform/net/http"
	"ipclaim/internal/platform/store"
	"ipclaim/internal/platform/store/migrate"

	"ipclaim/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the memory store needs no database
	usePG := !strings.EqualFold(apiCfg.MayString("CLAIMS_STORE", "pg"), "memory")

	var pgURL string
	if usePG {
		pgURL = pgCfg.MustString("DBURL")
		if apiCfg.MayBool("MIGRATE", false) {
			if err := migrate.Up(ctx, pgURL); err != nil {
				l.Panic().Err(err).Msg("migrate.Up failed")
			}
		}
	}

	// open the platform store (postgres + optional clickhouse for submission analytics)
	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "ipclaim-api",
			PG: store.PGConfig{
				Enabled:     usePG,
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled:    chCfg.MayBool("ENABLED", false),
				URL:        chCfg.MayString("DBURL", ""),
				ClientName: "ipclaim",
				ClientTag:  "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	mounted := api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	l.Info().Str("addr", srv.Addr()).Msg("http listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mounted.Close(flushCtx); err != nil {
		l.Warn().Err(err).Msg("submission outcomes not fully flushed")
	}
}
