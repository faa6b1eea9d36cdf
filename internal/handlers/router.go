package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/JobConnect/internal/auth"
	"github.com/justsurfingit/JobConnect/internal/services"
)

type Deps struct {
	Jobs     *services.JobService
	Sessions *services.SessionService
	LLM      *services.LLMService
	Matcher  *services.MatcherService
	Gate     *auth.OTPGate
}

func NewRouter(d Deps) *gin.Engine {
	jobHandler := NewJobHandler(d.Jobs, d.LLM, d.Matcher, d.Sessions)
	authHandler := NewAuthHandler(d.Gate, d.Sessions)
	adHandler := NewAdHandler(d.Jobs, d.Sessions)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true // For development only
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)
		api.GET("/categories", ListCategories)

		api.POST("/auth/code", authHandler.SendCode)
		api.POST("/auth/verify", authHandler.Verify)
		api.POST("/auth/logout", authHandler.Logout)
	}

	user := api.Group("", RequireLogin(d.Sessions))
	{
		user.GET("/auth/me", authHandler.Me)

		user.GET("/jobs", jobHandler.ListJobs)
		user.POST("/jobs/:id/apply", adHandler.Apply)
		user.POST("/jobs/:id/unlock-salary", adHandler.UnlockSalary)

		user.GET("/ads/overlay", adHandler.CurrentOverlay)
		user.POST("/ads/overlay/dismiss", adHandler.DismissOverlay)
		user.POST("/ads/banners", adHandler.StartBanner)
		user.GET("/ads/banners/:id", adHandler.BannerState)
	}

	admin := user.Group("/admin", RequireAdmin())
	{
		admin.GET("/jobs", jobHandler.AdminListJobs)
		admin.POST("/jobs", jobHandler.CreateJob)
		admin.DELETE("/jobs/:id", jobHandler.DeleteJob)
		admin.POST("/jobs/generate-description", jobHandler.GenerateDescription)
	}

	return r
}
