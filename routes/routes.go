package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/penielchurch/site-backend/config"
	controllers "github.com/penielchurch/site-backend/controllers"
	live "github.com/penielchurch/site-backend/live"
	middleware "github.com/penielchurch/site-backend/middleware"
	models "github.com/penielchurch/site-backend/models"
	utils "github.com/penielchurch/site-backend/utils"
	wizardpkg "github.com/penielchurch/site-backend/wizard"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, hub *live.Hub, host utils.ImageHost, wizards *wizardpkg.Store) {
	r.Use(middleware.RootRedirect(cfg))

	// public
	r.POST("/auth/login", controllers.Login(cfg))

	api := r.Group("/api")
	{
		api.GET("/site/hero", controllers.PublicHero(cfg))
		api.GET("/site/banner", controllers.PublicBanner(cfg))
		api.GET("/site/giving", controllers.GetGivingConfig(cfg))
		api.GET("/bento", controllers.PublicBentoCards(cfg))
		api.GET("/announcements", controllers.PublicAnnouncements(cfg))
		api.GET("/gallery", controllers.PublicGalleryItems(cfg))
		api.GET("/drive-images", controllers.DriveImages(cfg))

		giving := api.Group("/giving/wizard")
		{
			giving.POST("", controllers.StartWizard(wizards))
			giving.GET("/:id", controllers.GetWizard(wizards))
			giving.PUT("/:id/form", controllers.WizardForm(wizards))
			giving.GET("/:id/payment", controllers.WizardPayment(cfg, wizards))
			giving.POST("/:id/advance", controllers.WizardAdvance(wizards))
			giving.POST("/:id/back", controllers.WizardBack(wizards))
			giving.POST("/:id/proof", controllers.WizardProof(cfg, wizards, host))
			giving.DELETE("/:id", controllers.WizardClose(wizards))
		}
	}

	// realtime snapshots
	r.GET("/ws/live", hub.ServeWS)

	// protected
	auth := middleware.AuthMiddleware(cfg)
	editors := middleware.RequireRole(models.RoleAdmin, models.RoleManager)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.GET("/auth/me", auth, controllers.Me(cfg))

	admin := r.Group("/admin")
	admin.Use(auth, editors)
	{
		admin.GET("/site/hero", controllers.GetHero(cfg))
		admin.PUT("/site/hero", controllers.SaveHero(cfg))
		admin.GET("/site/banner", controllers.GetBanner(cfg))
		admin.PUT("/site/banner", controllers.SaveBanner(cfg))
		admin.GET("/site/giving", controllers.GetGivingConfig(cfg))
		admin.PUT("/site/giving", adminOnly, controllers.SaveGivingConfig(cfg))

		admin.POST("/bento", controllers.CreateBentoCard(cfg))
		admin.GET("/bento", controllers.ListBentoCards(cfg))
		admin.PATCH("/bento/:id", controllers.UpdateBentoCard(cfg))
		admin.DELETE("/bento/:id", controllers.DeleteBentoCard(cfg))

		admin.POST("/announcements", controllers.CreateAnnouncement(cfg))
		admin.GET("/announcements", controllers.ListAnnouncements(cfg))
		admin.PATCH("/announcements/:id", controllers.UpdateAnnouncement(cfg))
		admin.DELETE("/announcements/:id", controllers.DeleteAnnouncement(cfg))

		admin.POST("/gallery", controllers.UploadGalleryImages(cfg, host))
		admin.GET("/gallery", controllers.ListGalleryItems(cfg))
		admin.DELETE("/gallery/:id", controllers.DeleteGalleryItem(cfg))

		admin.GET("/donations", controllers.ListSubmissions(cfg))
		admin.PATCH("/donations/:id", controllers.UpdateSubmissionStatus(cfg))
		admin.DELETE("/donations/:id", controllers.DeleteSubmission(cfg))

		admin.GET("/users", adminOnly, controllers.ListUsers(cfg))
		admin.GET("/debug-db", adminOnly, controllers.DebugDB(cfg))
	}
}
