package routes

import (
	"net/http"

	"virtual-patient-server/internal/config"
	"virtual-patient-server/internal/handlers"
	"virtual-patient-server/internal/middleware"
	"virtual-patient-server/internal/models"
	"virtual-patient-server/internal/simulation"
	"virtual-patient-server/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services are the simulation components shared by the handlers.
type Services struct {
	Store   store.Gateway
	Patient *simulation.PatientSimulator
	Reports *simulation.ReportSynthesizer
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, svc Services) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	conversationHandler := handlers.NewConversationHandler(svc.Store)
	chatHandler := handlers.NewChatHandler(svc.Store, svc.Patient)
	reportHandler := handlers.NewReportHandler(svc.Store, svc.Reports, cfg.ReportFontPath)

	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Simulation routes; ownership is checked in the handlers
		practice := private.Group("")
		practice.Use(middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin))
		{
			practice.GET("/conversations", conversationHandler.GetConversations)
			practice.POST("/conversations", conversationHandler.CreateConversation)
			practice.GET("/conversations/:id/messages", conversationHandler.GetMessages)
			practice.DELETE("/conversations/:id", conversationHandler.DeleteConversation)

			practice.POST("/chat", chatHandler.Chat)
			practice.POST("/generate-report", reportHandler.GenerateReport)
			practice.POST("/reports/export", reportHandler.ExportReport)
		}

		adminRoutes := private.Group("/users")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("", userHandler.GetUsers)
			adminRoutes.GET("/:id", userHandler.GetUserByID)
			adminRoutes.PUT("/:id", userHandler.UpdateUser)
			adminRoutes.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
