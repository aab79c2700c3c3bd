package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"landlord_rep/internal/adapters/observability"
	redisad "landlord_rep/internal/adapters/redis"
	"landlord_rep/internal/adapters/reports"
	"landlord_rep/internal/app"
	"landlord_rep/internal/domain"
	"landlord_rep/internal/shared"
	mysqlrepo "landlord_rep/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, "ingestor", cfg.LogLevel)

	log.Info().
		Str("base", cfg.ReportsBase).
		Int("workers", cfg.Workers).
		Int("rps", cfg.ReportsRPS).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	client, err := reports.New(cfg.ReportsBase, cfg.ReportsKey, cfg.ReportsRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize reports client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	syncer := app.NewReportSyncService(client, repo, cache, domain.SystemClock)

	landlords, err := repo.ListLandlords(ctx, domain.LandlordsQuery{})
	if err != nil {
		log.Fatal().Err(err).Msg("list landlords failed")
	}

	var failed atomic.Int64
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var g errgroup.Group
	for _, l := range landlords {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("ingestion interrupted")
			break
		}
		id := l.ID
		g.Go(func() error {
			defer sem.Release(1)
			if err := syncer.SyncReport(ctx, id); err != nil {
				failed.Add(1)
				log.Warn().Str("id", id).Err(err).Msg("report sync failed")
				return nil
			}
			log.Debug().Str("id", id).Msg("report sync ok")
			return nil
		})
	}
	_ = g.Wait()

	log.Info().
		Int("landlords", len(landlords)).
		Int64("failed", failed.Load()).
		Msg("ingestion completed")
}
