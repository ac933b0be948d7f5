// @title        Inventario Ledger API
// @version      1.0
// @description  Libro de movimientos de inventario, saldos por bodega, lotes y alertas de stock.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-ledger/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	var locker inventory.JobLocker = inventory.NoopJobLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infraredis.NewJobLocker(rdb, cfg.Jobs.LockTTL, log.Component("job-lock"))
	}

	txRunner := postgres.NewTxRunner(pool)
	clock := inventory.Clock(func() time.Time { return time.Now().UTC() })

	generator := inventory.NewAlertGenerator(log.Component("alerts"), clock)
	aggregator := inventory.NewAggregator(generator, log.Component("aggregator"))
	provisioner := inventory.NewProvisioner(log.Component("provisioning"))

	movementUC := inventory.NewMovementUseCase(txRunner, aggregator, log.Component("ledger"), clock)
	balanceUC := inventory.NewBalanceUseCase(txRunner, generator, locker, log.Component("balances"))
	alertUC := inventory.NewAlertUseCase(txRunner, generator, locker, log.Component("alerts"), clock)
	lotUC := inventory.NewLotUseCase(txRunner, log.Component("lots"), clock)
	provisioningUC := inventory.NewProvisioningUseCase(txRunner, locker, log.Component("provisioning"))
	replenishmentUC := inventory.NewReplenishmentUseCase(txRunner)
	productUC := usecase.NewProductUseCase(txRunner, provisioner, log.Component("catalog"))
	warehouseUC := usecase.NewWarehouseUseCase(txRunner, provisioner, log.Component("catalog"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:       productUC,
		WarehouseUC:     warehouseUC,
		MovementUC:      movementUC,
		BalanceUC:       balanceUC,
		AlertUC:         alertUC,
		LotUC:           lotUC,
		ProvisioningUC:  provisioningUC,
		ReplenishmentUC: replenishmentUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
