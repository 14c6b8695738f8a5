package main

import (
	"context"
	"log"

	"jobtrail/internal/auth"
	"jobtrail/internal/config"
	"jobtrail/internal/database"
	"jobtrail/internal/handlers"
	"jobtrail/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	db := database.Connect()

	// OAuth config for the mailbox connection. The app still serves the
	// job tracker without it; only the email pipeline is disabled.
	oauthCfg, err := auth.OAuthConfig()
	if err != nil {
		log.Printf("Mailbox integration disabled: %v", err)
		oauthCfg = nil
	}

	sessionService := services.NewSessionService(db)
	reconcilerService := services.NewReconcilerService(db)
	emailService := services.NewEmailService(db, oauthCfg, sessionService, reconcilerService)
	jobService := services.NewJobService(db)
	searchService := services.NewSearchService()

	llmService, err := services.NewLLMService(context.Background())
	if err != nil {
		log.Printf("Job extraction disabled: %v", err)
		llmService = nil
	}

	// Resume the scan schedule if a mailbox was already connected before
	// this boot.
	if oauthCfg != nil {
		if _, err := sessionService.Get(nil); err == nil {
			log.Println("Existing mailbox session found, resuming watcher")
			emailService.StartWatcher(nil)
		}
	}

	jobHandler := handlers.NewJobHandler(jobService, searchService, llmService)
	mailHandler := handlers.NewMailHandler(oauthCfg, sessionService, emailService)

	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		// Job routes
		api.POST("/jobs/search", jobHandler.SearchJobs)
		api.POST("/jobs/extract", jobHandler.ParseJob)
		api.POST("/jobs", jobHandler.SaveJob)
		api.GET("/jobs", jobHandler.ListJobs)
		api.PATCH("/jobs/:id/status", jobHandler.UpdateStatus)
		api.DELETE("/jobs/:id", jobHandler.DeleteJob)

		// Mailbox routes
		api.GET("/mailbox", mailHandler.Status)
		api.GET("/mailbox/connect", mailHandler.ConnectURL)
		api.POST("/mailbox/callback", mailHandler.Callback)
		api.POST("/mailbox/scan", mailHandler.ScanNow)
	}

	addr := config.ListenAddr()
	log.Printf("Server starting on %s...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
