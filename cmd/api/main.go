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
	"github.com/tu-usuario/custodia-api/internal/application/auth"
	"github.com/tu-usuario/custodia-api/internal/application/custody"
	"github.com/tu-usuario/custodia-api/internal/application/stock"
	"github.com/tu-usuario/custodia-api/internal/application/usecase"
	"github.com/tu-usuario/custodia-api/internal/application/vouchers"
	infrapdf "github.com/tu-usuario/custodia-api/internal/infrastructure/pdf"
	"github.com/tu-usuario/custodia-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/custodia-api/internal/infrastructure/storage"
	httpRouter "github.com/tu-usuario/custodia-api/internal/interfaces/http"
	"github.com/tu-usuario/custodia-api/pkg/config"
	"github.com/tu-usuario/custodia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	userRepo := postgres.NewUserRepository(pool)
	stockRepo := postgres.NewStockItemRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Almacén de documentos: disco local o Cloudinary según configuración.
	var store vouchers.ArtifactStore
	switch cfg.Storage.Backend {
	case "cloudinary":
		store = storage.NewCloudinaryStore(cfg.Storage.CloudinaryCloudName, cfg.Storage.CloudinaryPreset)
	default:
		localStore, err := storage.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal().Err(err).Msg("almacén local de documentos")
		}
		store = localStore
	}

	pdfGenerator := infrapdf.NewMarotoVoucherGenerator()
	voucherUC := vouchers.NewRecordVoucherUseCase(txRunner, txRepo, pdfGenerator, store, cfg.Sign.ManagerRef)
	custodyUC := custody.NewUseCase(txRepo)
	stockUC := stock.NewUseCase(stockRepo, txRunner)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Custodia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	// Con el backend local los PDFs se sirven directamente desde el directorio.
	if cfg.Storage.Backend != "cloudinary" {
		app.Static("/documents", cfg.Storage.LocalDir)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		StockUC:   stockUC,
		VoucherUC: voucherUC,
		CustodyUC: custodyUC,
		JWTSecret: cfg.JWT.Secret,
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
