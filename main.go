package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"virtual-patient-server/internal/config"
	"virtual-patient-server/internal/llm"
	"virtual-patient-server/internal/models"
	"virtual-patient-server/internal/routes"
	"virtual-patient-server/internal/simulation"
	"virtual-patient-server/internal/store"
)

func main() {
	// Environment variables may come from the process alone
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if cfg.OpenAI.APIKey == "" {
		log.Printf("OPENAI_API_KEY is not set; patient replies will fall back to %q", simulation.FallbackReply)
	}

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	client := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})
	services := routes.Services{
		Store:   store.NewGormGateway(db),
		Patient: simulation.NewPatientSimulator(client, simulation.NewSeededProfileGenerator(cfg.ProfileSeed)),
		Reports: simulation.NewReportSynthesizer(client),
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, cfg, services)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server running on port %s (model %s, database %s)", cfg.Port, cfg.OpenAI.Model, cfg.Database.Driver)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
