// Command inventory-jobs ejecuta un trabajo batch del libro de inventario y termina.
// Pensado para un timer externo (cron, CronJob de Kubernetes):
//
//	inventory-jobs sweep-expirations
//	inventory-jobs provision-balances
//	inventory-jobs rebuild-balances
//
// Con Redis configurado cada trabajo toma el candado inventory:job:<nombre>; si otra instancia
// lo tiene, el trabajo se omite y el proceso sale con código 0.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-ledger/internal/infrastructure/redis"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const usage = "uso: inventory-jobs <sweep-expirations|provision-balances|rebuild-balances>"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	job := os.Args[1]
	switch job {
	case inventory.JobSweepExpirations, inventory.JobProvisionBalances, inventory.JobRebuildBalances:
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name + "-jobs",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var locker inventory.JobLocker = inventory.NoopJobLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infraredis.NewJobLocker(rdb, cfg.Jobs.LockTTL, log.Component("job-lock"))
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: trabajo sin candado distribuido")
	}

	txRunner := postgres.NewTxRunner(pool)
	clock := inventory.Clock(func() time.Time { return time.Now().UTC() })
	generator := inventory.NewAlertGenerator(log.Component("alerts"), clock)

	start := time.Now()
	jobLog := log.Component(job)
	switch job {
	case inventory.JobSweepExpirations:
		var n int
		n, err = inventory.NewAlertUseCase(txRunner, generator, locker, jobLog, clock).SweepExpirations(ctx)
		jobLog.Info().Int("alerts", n).Msg("resultado")
	case inventory.JobProvisionBalances:
		var n int
		n, err = inventory.NewProvisioningUseCase(txRunner, locker, jobLog).ProvisionMissingBalances(ctx)
		jobLog.Info().Int("created", n).Msg("resultado")
	case inventory.JobRebuildBalances:
		var res inventory.RebuildResult
		res, err = inventory.NewBalanceUseCase(txRunner, generator, locker, jobLog).RebuildBalances(ctx)
		jobLog.Info().Int("movements", res.Movements).Int("corrected", res.Corrected).Msg("resultado")
	}

	switch {
	case errors.Is(err, inventory.ErrJobLocked):
		jobLog.Warn().Msg("candado tomado por otra instancia; trabajo omitido")
	case err != nil:
		jobLog.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("trabajo con errores")
		pool.Close()
		os.Exit(1)
	default:
		jobLog.Info().Dur("elapsed", time.Since(start)).Msg("trabajo finalizado")
	}
}
