package router

import (
	"github.com/gin-gonic/gin"

	"github.com/workmatch/workmatch-backend/internal/config"
	"github.com/workmatch/workmatch-backend/internal/http/handlers"
	"github.com/workmatch/workmatch-backend/internal/http/middleware"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// Handlers собирает все хэндлеры приложения для регистрации маршрутов.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Missions      *handlers.MissionHandler
	Applications  *handlers.ApplicationHandler
	Matching      *handlers.MatchingHandler
	Contracts     *handlers.ContractHandler
	Tracking      *handlers.TrackingHandler
	Feedback      *handlers.FeedbackHandler
	Disputes      *handlers.DisputeHandler
	Profiles      *handlers.ProfileHandler
	Notifications *handlers.NotificationHandler
	Health        *handlers.HealthHandler
	WS            *handlers.WSHandler
}

// New настраивает gin-роутер со всеми маршрутами и middleware.
func New(cfg *config.Config, tokens *service.TokenManager, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	// Аутентификация: без токена, с жёстким rate limit.
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// Публичные маршруты.
	api.GET("/missions", h.Missions.List)
	api.GET("/ws", h.WS.Handle)

	// Всё остальное требует access токен.
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	uuidParam := middleware.UUIDValidator("id")
	companyOnly := middleware.RequireRole(models.RoleCompany, models.RoleAdmin)
	freelanceOnly := middleware.RequireRole(models.RoleFreelance)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Миссии.
	missions := protected.Group("/missions")
	{
		missions.POST("", companyOnly, h.Missions.Create)
		missions.GET("/my", companyOnly, h.Missions.ListMine)
		missions.GET("/:id", uuidParam, h.Missions.Get)
		missions.PUT("/:id", uuidParam, companyOnly, h.Missions.Update)
		missions.DELETE("/:id", uuidParam, companyOnly, h.Missions.Delete)
		missions.POST("/:id/publish", uuidParam, companyOnly, h.Missions.Publish)
		missions.POST("/:id/complete", uuidParam, companyOnly, h.Missions.Complete)
		missions.POST("/:id/cancel", uuidParam, companyOnly, h.Missions.Cancel)
		missions.POST("/:id/applications", uuidParam, freelanceOnly, h.Applications.Apply)
		missions.GET("/:id/applications", uuidParam, companyOnly, h.Applications.ListByMission)
	}

	// Отклики и собеседования.
	applications := protected.Group("/applications")
	{
		applications.GET("/my", h.Applications.ListMine)
		applications.GET("/:id", uuidParam, h.Applications.Get)
		applications.PUT("/:id/status", uuidParam, companyOnly, h.Applications.UpdateStatus)
		applications.POST("/:id/interview", uuidParam, companyOnly, h.Applications.ScheduleInterview)
	}
	interviews := protected.Group("/interviews")
	{
		interviews.GET("/:id", uuidParam, h.Applications.GetInterview)
		interviews.PUT("/:id/complete", uuidParam, companyOnly, h.Applications.CompleteInterview)
	}

	// Матчинг.
	matching := protected.Group("/matching")
	{
		matching.GET("/freelancers", h.Matching.MatchFreelancers)
		matching.GET("/missions", freelanceOnly, h.Matching.MatchMissions)
	}

	// Контракты, вехи, учёт времени.
	contracts := protected.Group("/contracts")
	{
		contracts.POST("", companyOnly, h.Contracts.Create)
		contracts.GET("/my", h.Contracts.ListMine)
		contracts.GET("/:id", uuidParam, h.Contracts.Get)
		contracts.POST("/:id/sign", uuidParam, h.Contracts.Sign)
		contracts.POST("/:id/complete", uuidParam, companyOnly, h.Contracts.Complete)
		contracts.POST("/:id/terminate", uuidParam, companyOnly, h.Contracts.Terminate)
		contracts.POST("/:id/milestones", uuidParam, companyOnly, h.Contracts.CreateMilestone)
		contracts.GET("/:id/milestones", uuidParam, h.Contracts.ListMilestones)
		contracts.POST("/:id/tracking", uuidParam, freelanceOnly, h.Tracking.Log)
		contracts.GET("/:id/tracking", uuidParam, h.Tracking.List)
	}
	protected.PUT("/milestones/:id/status", uuidParam, h.Contracts.UpdateMilestoneStatus)

	tracking := protected.Group("/tracking")
	{
		tracking.PUT("/:id", uuidParam, freelanceOnly, h.Tracking.Update)
		tracking.PUT("/:id/approve", uuidParam, companyOnly, h.Tracking.Approve)
		tracking.DELETE("/:id", uuidParam, freelanceOnly, h.Tracking.Delete)
	}

	// Отзывы и рейтинги.
	feedback := protected.Group("/feedback")
	{
		feedback.POST("", h.Feedback.Create)
		feedback.GET("/me", h.Feedback.ListMine)
		feedback.GET("/:id", uuidParam, h.Feedback.Get)
		feedback.PUT("/:id", uuidParam, h.Feedback.Update)
		feedback.DELETE("/:id", uuidParam, h.Feedback.Delete)
	}

	// Споры.
	disputes := protected.Group("/disputes")
	{
		disputes.POST("", h.Disputes.Open)
		disputes.GET("/my", h.Disputes.ListMine)
		disputes.GET("/:id", uuidParam, h.Disputes.Get)
		disputes.PATCH("/:id", uuidParam, adminOnly, h.Disputes.Update)
		disputes.POST("/:id/resolve", uuidParam, adminOnly, h.Disputes.Resolve)
	}

	// Пользователи и профили.
	users := protected.Group("/users")
	{
		users.GET("", adminOnly, h.Profiles.ListUsers)
		users.GET("/me", h.Profiles.GetMe)
		users.GET("/:id", uuidParam, h.Profiles.GetUser)
		users.PATCH("/:id/status", uuidParam, adminOnly, h.Profiles.UpdateUserStatus)
		users.GET("/:id/feedback", uuidParam, h.Feedback.ListForUser)
		users.GET("/:id/rating", uuidParam, h.Feedback.GetUserRating)
		users.GET("/:id/portfolio", uuidParam, h.Profiles.ListPortfolio)
	}
	protected.GET("/freelancers", h.Profiles.SearchFreelancers)
	profiles := protected.Group("/profiles")
	{
		profiles.PUT("/freelancer", freelanceOnly, h.Profiles.UpdateFreelancerProfile)
		profiles.PUT("/company", companyOnly, h.Profiles.UpdateCompanyProfile)
	}

	// Портфолио.
	portfolio := protected.Group("/portfolio")
	{
		portfolio.POST("", freelanceOnly, h.Profiles.AddPortfolioItem)
		portfolio.PUT("/:id", uuidParam, freelanceOnly, h.Profiles.UpdatePortfolioItem)
		portfolio.DELETE("/:id", uuidParam, freelanceOnly, h.Profiles.DeletePortfolioItem)
	}

	// Уведомления.
	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.Notifications.List)
		notifications.GET("/unread", h.Notifications.CountUnread)
		notifications.PUT("/read-all", h.Notifications.MarkAllAsRead)
		notifications.PUT("/:id/read", uuidParam, h.Notifications.MarkAsRead)
	}

	return r
}
