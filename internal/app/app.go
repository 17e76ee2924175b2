package app

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"productos/internal/config"
	"productos/internal/handlers"
	"productos/internal/middleware"
	"productos/internal/repositories"
	"productos/internal/services"
	"productos/internal/validation"
)

// Route prefixes serving the product API.
const (
	ProductsPrefix = "/productos"
	ProductsAlias  = "/products"
)

// Deps are the collaborators New wires into the HTTP application.
type Deps struct {
	Config    *config.Config
	Products  repositories.ProductRepository
	Publisher services.EventPublisher
	Logger    *slog.Logger
	// AccessLog toggles the Fiber request logger.
	AccessLog bool
}

// New builds the Fiber application: middleware, health endpoints, product
// routes and the JSON 404 fallback.
func New(deps Deps) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "productos",
		BodyLimit:             deps.Config.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(log),
		DisableStartupMessage: deps.Config.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}

	productService := services.NewProductService(deps.Products, deps.Publisher, log)
	productHandler := handlers.NewProductHandler(productService, validation.New(), log)
	healthHandler := handlers.NewHealthHandler(time.Now(), deps.Config.Store.Driver)

	healthHandler.RegisterRoutes(app)
	productHandler.RegisterRoutes(app, ProductsPrefix)
	productHandler.RegisterRoutes(app, ProductsAlias)

	app.Use(middleware.NotFound())

	return app
}
