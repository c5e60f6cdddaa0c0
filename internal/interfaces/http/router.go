package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/custodia-api/internal/application/auth"
	"github.com/tu-usuario/custodia-api/internal/application/custody"
	"github.com/tu-usuario/custodia-api/internal/application/stock"
	"github.com/tu-usuario/custodia-api/internal/application/usecase"
	"github.com/tu-usuario/custodia-api/internal/application/vouchers"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	StockUC   *stock.UseCase
	VoucherUC *vouchers.RecordVoucherUseCase
	CustodyUC *custody.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Stock (consulta para cualquier usuario autenticado; alta solo admin)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Get("/search", stockHandler.Search)
	stockGroup.Post("/", adminOnly, stockHandler.Create)

	// Vales de entrega y devolución (registro solo admin)
	voucherHandler := NewVoucherHandler(deps.VoucherUC)
	receipts := protected.Group("/receipts")
	receipts.Post("/", adminOnly, voucherHandler.RecordReceipt)
	receipts.Get("/", voucherHandler.ListReceipts)
	deliveries := protected.Group("/deliveries")
	deliveries.Post("/", adminOnly, voucherHandler.RecordDelivery)
	deliveries.Get("/", voucherHandler.ListDeliveries)
	vouchersGroup := protected.Group("/vouchers")
	vouchersGroup.Get("/:id", voucherHandler.GetByID)
	vouchersGroup.Get("/:id/document", voucherHandler.DownloadDocument)

	// Custodia
	custodyHandler := NewCustodyHandler(deps.CustodyUC)
	custodyGroup := protected.Group("/custody")
	custodyGroup.Get("/person", custodyHandler.PersonCustody)
	custodyGroup.Get("/people", custodyHandler.ListPeople)
	protected.Get("/receivers/search", custodyHandler.SearchReceivers)

	// Usuarios (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id/password", userHandler.UpdatePassword)
}
