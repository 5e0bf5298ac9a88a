package router

import (
	"time"

	"sdgconnect/config"
	"sdgconnect/internal/handler"
	"sdgconnect/internal/middleware"
	"sdgconnect/internal/observability"
	"sdgconnect/internal/repository"
	"sdgconnect/internal/service"
	"sdgconnect/pkg/cloudinary"
	"sdgconnect/pkg/email"
	"sdgconnect/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, provider payment.Provider, sender email.Sender) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(observability.Middleware())

	// Tiers mirror the public site: general traffic, login attempts, and
	// payment initiation each get their own window.
	generalLimit := middleware.NewRateLimiter(100, 15*time.Minute, "Too many requests, please try again later")
	authLimit := middleware.NewRateLimiter(5, 15*time.Minute, "Too many login attempts, please try again later")
	sensitiveLimit := middleware.NewRateLimiter(10, time.Hour, "Too many payment requests, please try again later")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	contributorRepo := repository.NewContributorRepository(db, projectRepo)
	donationRepo := repository.NewDonationRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	contactRepo := repository.NewContactRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, settingRepo)
	mailer := service.NewMailer(sender, cfg.Email.AdminEmail, "SDG Connect")

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditRepo)
	userHandler := handler.NewUserHandler(userRepo, donationRepo, contributorRepo, projectRepo, cloud)
	projectHandler := handler.NewProjectHandler(projectRepo, contributorRepo, cloud)
	contributorHandler := handler.NewContributorHandler(contributorRepo, projectRepo)
	offerHandler := handler.NewOfferHandler(offerRepo, settingRepo, contributorRepo)
	contactHandler := handler.NewContactHandler(contactRepo, mailer)
	donationHandler := handler.NewDonationHandler(cfg, donationRepo, provider)
	donationWebhookHandler := handler.NewDonationWebhookHandler(donationRepo, mailer, auditRepo)
	adminHandler := handler.NewAdminHandler(userRepo, projectRepo, donationRepo, offerRepo, contributorRepo, contactRepo, settingRepo, auditRepo)
	healthHandler := handler.NewHealthHandler(db)

	authMw := middleware.AuthRequired(&cfg.JWT)
	optionalAuthMw := middleware.OptionalAuth(&cfg.JWT)
	adminMw := middleware.AdminRequired(userRepo)

	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", observability.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(generalLimit))
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", middleware.RateLimit(authLimit), authHandler.Register)
			authGroup.POST("/login", middleware.RateLimit(authLimit), authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", middleware.RateLimit(authLimit), googleOAuthHandler.Token)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", userHandler.GetProfile)
			me.PUT("/profile", userHandler.UpdateProfile)
			me.GET("/impact", userHandler.Impact)
			me.GET("/projects", projectHandler.Mine)
			me.GET("/contributions", contributorHandler.MyContributions)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", optionalAuthMw, projectHandler.List)
			projects.GET("/:id", optionalAuthMw, projectHandler.Get)
			projects.POST("", authMw, projectHandler.Create)
			projects.PATCH("/:id/status", authMw, projectHandler.UpdateStatus)
			projects.POST("/:id/join", authMw, contributorHandler.Join)
			projects.POST("/:id/resources", authMw, contributorHandler.OfferResources)
			projects.PATCH("/:id/contributors/:contributorId", authMw, contributorHandler.Mark)
		}

		donations := api.Group("/donations")
		{
			donations.POST("/initiate-push", middleware.RateLimit(sensitiveLimit), optionalAuthMw, donationHandler.InitiatePush)
			donations.POST("/payment-callback", donationWebhookHandler.Handle)
			donations.GET("/stats", donationHandler.Stats)
			donations.GET("/recent", donationHandler.Recent)
		}

		offers := api.Group("/offers")
		{
			offers.POST("", optionalAuthMw, offerHandler.Create)
			offers.GET("", offerHandler.List)
		}

		api.POST("/contact", contactHandler.Submit)

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/disabled", adminHandler.SetUserDisabled)
			admin.PATCH("/users/:id/admin", adminHandler.SetUserAdmin)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/projects", adminHandler.ListProjects)
			admin.PATCH("/projects/:id/status", adminHandler.SetProjectStatus)
			admin.DELETE("/projects/:id", adminHandler.DeleteProject)
			admin.GET("/donations", adminHandler.ListDonations)
			admin.PATCH("/donations/:id/status", adminHandler.SetDonationStatus)
			admin.DELETE("/donations/:id", adminHandler.DeleteDonation)
			admin.GET("/offers", adminHandler.ListOffers)
			admin.PATCH("/offers/:id/status", adminHandler.SetOfferStatus)
			admin.DELETE("/offers/:id", adminHandler.DeleteOffer)
			admin.GET("/contributors", adminHandler.ListContributors)
			admin.PATCH("/contributors/:id", adminHandler.UpdateContributor)
			admin.DELETE("/contributors/:id", adminHandler.DeleteContributor)
			admin.GET("/messages", adminHandler.ListContactMessages)
			admin.DELETE("/messages/:id", adminHandler.DeleteContactMessage)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSettings)
			admin.GET("/audit-log", adminHandler.ListAuditLog)
		}
	}

	return r
}
