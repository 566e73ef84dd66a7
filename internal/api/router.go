package api

import (
	"doctransform/docs"
	"doctransform/internal/api/handlers"
	"doctransform/pkg/auth"
	"doctransform/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	docHandler *handlers.DocumentHandler,
	chatHandler *handlers.ChatHandler,
	jwtManager *auth.JWTManager,
	uploadDir string,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Swagger docs are registered by the docs package init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded originals are served back at the path stored on the document
	app.Static("/uploads", uploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	user := app.Group("/user")
	authGroup := user.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	documents := protected.Group("/documents")
	documents.Post("/upload", docHandler.UploadDocument)
	documents.Get("", docHandler.ListDocuments)
	documents.Get("/:id", docHandler.GetDocument)
	documents.Post("/:id/query", docHandler.QueryDocument)
	documents.Get("/:id/chat", chatHandler.GetChatHistory)
	documents.Post("/:id/chat", chatHandler.PostChatMessage)

	jobs := protected.Group("/jobs")
	jobs.Get("", chatHandler.ListJobs)
	jobs.Get("/:id", chatHandler.GetJob)

	protected.Get("/stats", chatHandler.GetStats)

	return app
}
