package FiberConfig

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"

	"Verdant/Controllers"
	"Verdant/Models"
	"Verdant/Storage"
	"Verdant/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	storageRoot := os.Getenv("STORAGE_ROOT")
	if storageRoot == "" {
		storageRoot = "uploads"
	}
	store := Storage.NewLocalStore(storageRoot, "/files")

	deliveryController := Controllers.NewDeliveryController(db)
	intakeController := Controllers.NewIntakeController(db)
	clientController := Controllers.NewClientController(db)
	dashboardController := Controllers.NewDashboardController(db)
	scheduleController := Controllers.NewScheduleController(db)
	uploadController := Controllers.NewUploadController(db, store)
	weighTicketController := Controllers.NewWeighTicketController(db)

	// Public schedule, no auth
	app.Get("/schedule", scheduleController.SchedulePage)
	app.Get("/api/schedule", scheduleController.GetSchedule)

	api := app.Group("/api")

	// Delivery routes
	deliveries := api.Group("/deliveries", middleware.Verify(1))
	deliveries.Get("/", deliveryController.ListDeliveries)
	deliveries.Post("/", middleware.Verify(3), deliveryController.UpsertDelivery)
	deliveries.Get("/:vr", deliveryController.GetDelivery)
	deliveries.Post("/:vr/delivered", middleware.Verify(2), deliveryController.MarkDelivered)
	deliveries.Post("/:vr/undo-delivery", middleware.Verify(3), deliveryController.UndoDelivery)
	deliveries.Patch("/:vr/weight", middleware.Verify(2), deliveryController.UpdateWeight)

	// Document uploads under deliveries
	deliveries.Post("/:vr/photos", middleware.Verify(2), uploadController.UploadPhoto)
	deliveries.Post("/:vr/weight-tickets", middleware.Verify(2), uploadController.UploadWeightTicket)
	deliveries.Delete("/:vr/documents", middleware.Verify(3), uploadController.RemoveDocument)
	deliveries.Get("/:vr/weigh-ticket.pdf", middleware.Verify(1), weighTicketController.GenerateTicket)

	// Intake routes
	intakes := api.Group("/intakes", middleware.Verify(1))
	intakes.Get("/", intakeController.GetIntakes)
	intakes.Post("/", middleware.Verify(2), intakeController.CreateIntake)
	intakes.Get("/:id", intakeController.GetIntake)
	intakes.Put("/:id", middleware.Verify(3), intakeController.UpdateIntake)
	intakes.Patch("/:id/status", middleware.Verify(2), intakeController.UpdateIntakeStatus)
	intakes.Delete("/:id", middleware.Verify(3), intakeController.DeleteIntake)

	// Client and contract routes
	clients := api.Group("/clients", middleware.Verify(1))
	clients.Get("/", clientController.GetClients)
	clients.Post("/", middleware.Verify(3), clientController.CreateClient)
	clients.Get("/:id", clientController.GetClient)
	clients.Put("/:id", middleware.Verify(3), clientController.UpdateClient)
	clients.Delete("/:id", middleware.Verify(4), clientController.DeactivateClient)
	clients.Get("/:id/contracts", clientController.GetClientContracts)
	clients.Post("/:id/contracts", middleware.Verify(3), clientController.CreateContract)

	// Dashboard and reporting routes
	dashboard := api.Group("/dashboard", middleware.Verify(1))
	dashboard.Get("/summary", dashboardController.Summary)
	dashboard.Get("/monthly", dashboardController.MonthlySeries)
	dashboard.Get("/waste-types", dashboardController.WasteBreakdown)
	dashboard.Get("/export", middleware.Verify(3), dashboardController.ExportMonthlyReport)

	app.Post("/api/UpdateToken", Models.UpdateToken)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(middleware.ErrorLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)

	app.Post("/api/Login", Controllers.Login)
	app.Use("/api/Logout", Controllers.Logout)
	app.Use("/api/User", Controllers.User)
	app.Get("/api/validate-token", Controllers.ValidateToken)
	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)

	// Logs API routes
	app.Get("/api/logs", middleware.Verify(4), Controllers.GetLogs)
	app.Get("/api/logs/stats", middleware.Verify(4), Controllers.GetLogStats)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Serve uploaded documents
	storageRoot := os.Getenv("STORAGE_ROOT")
	if storageRoot == "" {
		storageRoot = "uploads"
	}
	app.Static("/files", storageRoot, fiber.Static{Compress: true, CacheDuration: time.Second * 10})
	app.Static("/static", "static/")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
