package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"studentfolio/internal/activity"
	"studentfolio/internal/api/middleware"
	"studentfolio/internal/notify"
	"studentfolio/internal/portfolio"
	"studentfolio/internal/repository"
	"studentfolio/internal/storage"
)

// Dependencies 汇总路由注册需要的外部依赖。
type Dependencies struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Tasks          TaskEnqueuer
	Auth           middleware.TokenValidator
	Storage        CertificateStorage
	Scanner        storage.Scanner
	Suggest        Suggester
	SuggestLimit   int
	AllowedOrigins []string
	Logger         *slog.Logger
}

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	stores := portfolio.Stores{
		Profiles:     repository.NewProfileStore(deps.DB),
		Skills:       repository.NewSkillStore(deps.DB),
		Education:    repository.NewEducationStore(deps.DB),
		Projects:     repository.NewProjectStore(deps.DB),
		Achievements: repository.NewAchievementStore(deps.DB),
		Certificates: repository.NewCertificateStore(deps.DB),
	}
	portfolioService := portfolio.NewService(stores)

	var notifier activity.Notifier
	var counter redisRateCounter
	if deps.Redis != nil {
		notifier = notify.NewPublisher(deps.Redis)
		counter = deps.Redis
	}
	monitor := activity.NewMonitor(repository.NewActivityStore(deps.DB), notifier, deps.Logger)

	profileHandler := NewProfileHandler(stores.Profiles)
	skillHandler := NewSkillHandler(stores.Skills)
	educationHandler := NewEducationHandler(stores.Education)
	projectHandler := NewProjectHandler(stores.Projects)
	achievementHandler := NewAchievementHandler(stores.Achievements)
	certificateHandler := NewCertificateHandler(stores.Certificates, deps.Storage, deps.Scanner, deps.Tasks)
	resumeHandler := NewResumeHandler(portfolioService, repository.NewGeneratedResumeStore(deps.DB), repository.NewTemplateStore(deps.DB))
	portfolioHandler := NewPortfolioHandler(portfolioService, stores.Profiles)
	activityHandler := NewActivityHandler(monitor)
	suggestionHandler := NewSuggestionHandler(deps.Suggest, portfolioService, counter, deps.SuggestLimit)
	authMiddleware := middleware.AuthMiddleware(deps.Auth)

	v1 := router.Group("/v1")
	{
		v1.GET("/public/:slug", portfolioHandler.GetPublicPortfolio)
		v1.GET("/templates", resumeHandler.ListTemplates)

		if deps.Redis != nil {
			wsHandler := NewWsHandler(deps.Redis, deps.Auth, deps.Logger, deps.AllowedOrigins)
			v1.GET("/ws", wsHandler.HandleConnection)
		}

		authed := v1.Group("")
		authed.Use(authMiddleware)

		authed.GET("/profile", profileHandler.GetProfile)
		authed.PUT("/profile", profileHandler.UpdateProfile)

		registerEntryRoutes(authed.Group("/skills"), skillHandler)
		registerEntryRoutes(authed.Group("/education"), educationHandler)
		registerEntryRoutes(authed.Group("/projects"), projectHandler)
		registerEntryRoutes(authed.Group("/achievements"), achievementHandler)

		certificateGroup := authed.Group("/certificates")
		{
			certificateGroup.GET("", certificateHandler.ListCertificates)
			certificateGroup.POST("", certificateHandler.CreateCertificate)
			certificateGroup.DELETE("/:id", certificateHandler.DeleteCertificate)
			certificateGroup.GET("/:id/link", certificateHandler.GetCertificateLink)
		}

		resumeGroup := authed.Group("/resume")
		{
			resumeGroup.POST("/download", resumeHandler.DownloadResume)
			resumeGroup.GET("/print", resumeHandler.PrintResume)
			resumeGroup.GET("/preview", resumeHandler.PreviewResume)
		}

		portfolioGroup := authed.Group("/portfolio")
		{
			portfolioGroup.GET("/settings", portfolioHandler.GetSettings)
			portfolioGroup.PUT("/settings", portfolioHandler.UpdateSettings)
			portfolioGroup.POST("/slug", portfolioHandler.SuggestSlug)
			portfolioGroup.GET("/readiness", portfolioHandler.GetReadiness)
		}

		activityGroup := authed.Group("/activity")
		{
			activityGroup.GET("", activityHandler.ListActivity)
			activityGroup.POST("/login", activityHandler.RecordLogin)
		}

		authed.POST("/suggestions", suggestionHandler.Suggest)
	}
}

type entryRoutes interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func registerEntryRoutes(group *gin.RouterGroup, h entryRoutes) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
