package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"remindly/internal/database"
	"remindly/internal/handlers"
	"remindly/internal/notify"
	"remindly/internal/scheduler"
	"remindly/internal/store"
	"remindly/pkg/whatsapp"

	"github.com/benbjohnson/clock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; deployments set real environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Channel adapters; each one reads its own credentials and reports
	// missing configuration as a failed send rather than refusing to start
	adapters := []notify.Adapter{
		notify.NewEmailAdapter(appURL),
		notify.NewSMSAdapter(appURL),
	}

	if os.Getenv("ENABLE_WHATSAPP") == "true" {
		sessionDB := os.Getenv("WHATSAPP_SESSION_DB")
		if sessionDB == "" {
			sessionDB = "whatsapp.db"
		}
		waClient, err := whatsapp.NewClient(ctx, sessionDB)
		if err != nil {
			log.Printf("Failed to initialize WhatsApp client, channel disabled: %v", err)
		} else {
			defer waClient.Close()
			adapters = append(adapters, notify.NewWhatsAppAdapter(waClient, waClient.Ready, appURL))
		}
	}

	// Start the reminder scheduler
	worker := scheduler.NewWorker(store.New(database.GetDB()), adapters, clock.New())
	worker.Start(ctx)

	// Initialize Gin router
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(cors.Default())

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/api/health", handlers.HealthHandler)

	// Acknowledgment deep link (what outbound messages point at)
	router.GET("/acknowledge/:id", handlers.AcknowledgeReminder)

	api := router.Group("/api")
	{
		api.GET("/groups", handlers.GetGroups)
		api.GET("/groups/:id", handlers.GetGroup)
		api.POST("/groups", handlers.CreateGroup)
		api.PUT("/groups/:id", handlers.UpdateGroup)
		api.DELETE("/groups/:id", handlers.DeleteGroup)
		api.POST("/groups/:id/members", handlers.AddGroupMember)
		api.PUT("/groups/:id/members/:memberID", handlers.UpdateGroupMember)
		api.DELETE("/groups/:id/members/:memberID", handlers.RemoveGroupMember)

		api.GET("/events", handlers.GetEvents)
		api.GET("/events/:id", handlers.GetEvent)
		api.POST("/events", handlers.CreateEvent)
		api.PUT("/events/:id", handlers.UpdateEvent)
		api.DELETE("/events/:id", handlers.DeleteEvent)

		api.GET("/reminders", handlers.GetReminders)
		api.GET("/reminders/:id", handlers.GetReminder)
		api.POST("/reminders", handlers.CreateReminder)
		api.PUT("/reminders/:id", handlers.UpdateReminder)
		api.DELETE("/reminders/:id", handlers.DeleteReminder)

		api.GET("/acknowledgments", handlers.GetAcknowledgments)
		api.POST("/acknowledgments", handlers.CreateAcknowledgment)
		api.GET("/acknowledgments/reminder/:reminderID", handlers.GetReminderAcknowledgments)
	}

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server starting on port %s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
