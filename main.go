package main

import (
	"log"

	"proconnect/config"
	"proconnect/database"
	"proconnect/realtime"
	authRoutes "proconnect/routers/authRoutes"
	communityRoutes "proconnect/routers/communityRoutes"
	courseRoutes "proconnect/routers/courseRoutes"
	subscriptionRoutes "proconnect/routers/subscriptionRoutes"
	userRoutes "proconnect/routers/userRoutes"
	"proconnect/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	// Fault boundary: a panicking handler becomes a 500, not a dead process
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.ClientOrigin,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to ProConnect API"})
	})

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	communityRoutes.SetupCommunityRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	subscriptionRoutes.SetupSubscriptionRoutes(app)

	// Room relay for community chat
	hub := realtime.NewHub()
	app.Use("/ws/:roomId", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/:roomId", websocket.New(hub.Handler()))

	utils.InitializeSubscriptionScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
