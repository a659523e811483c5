package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/tokoku/internal/config"
	"github.com/example/tokoku/internal/handlers"
	"github.com/example/tokoku/internal/middleware"
	"github.com/example/tokoku/internal/models"
	"github.com/example/tokoku/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	fulfillment := services.NewFulfillmentService(db, cfg.RestockOnCancel)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, fulfillment)
	adminHandler := handlers.NewAdminHandler(db, fulfillment)
	courierHandler := handlers.NewCourierHandler(db, fulfillment)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public catalog
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)

	// Customer portal
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	// Admin portal
	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Patch("/orders/:id/status", adminHandler.SetOrderStatus)
	admin.Get("/deliveries", adminHandler.ListAllDeliveries)
	admin.Post("/deliveries/assign", adminHandler.AssignCourier)
	admin.Get("/couriers", adminHandler.ListCouriers)
	admin.Get("/users", adminHandler.ListAllUsers)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	// Courier portal
	kurir := protected.Group("/kurir", middleware.RequireRole(models.RoleCourier, models.RoleAdmin))
	kurir.Get("/deliveries", courierHandler.ListDeliveries)
	kurir.Put("/deliveries/:id", courierHandler.SetDeliveryStatus)
	kurir.Get("/history", courierHandler.History)
	kurir.Get("/stats", courierHandler.Stats)
}
