package main

import (
	"log"

	"contract_flow_app_go/config"
	"contract_flow_app_go/db"
	"contract_flow_app_go/handlers"
	"contract_flow_app_go/models"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(
			&models.Partner{},
			&models.Contract{},
			&models.Process{},
			&models.Installment{},
			&models.StatusEvent{},
		); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Contracts
	e.GET("/api/contracts", handlers.GetContractsHandler)
	e.POST("/api/contracts", handlers.CreateContractHandler)
	e.GET("/api/contracts/:id", handlers.GetContractHandler)
	e.PUT("/api/contracts/:id", handlers.UpdateContractHandler)

	// Schedule and history
	e.GET("/api/contracts/:id/installments", handlers.GetInstallmentsHandler)
	e.GET("/api/contracts/:id/timeline", handlers.GetTimelineHandler)
	e.GET("/api/contracts/:id/schedule.xlsx", handlers.ExportScheduleWorkbookHandler)
	e.PUT("/api/installments/:id/pay", handlers.PayInstallmentHandler)

	// Judicial processes
	e.GET("/api/contracts/:id/processes", handlers.GetProcessesHandler)
	e.POST("/api/contracts/:id/processes", handlers.CreateProcessHandler)

	// Partners
	e.GET("/api/partners", handlers.GetPartnersHandler)
	e.POST("/api/partners", handlers.CreatePartnerHandler)

	// Dashboard and reports
	e.GET("/api/dashboard/metrics", handlers.DashboardMetricsHandler)
	e.GET("/api/reports/installments.csv", handlers.ExportInstallmentsHandler)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
