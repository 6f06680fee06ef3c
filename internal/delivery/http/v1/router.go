package v1

import (
	"net/http"

	"rezo-backend/config"
	"rezo-backend/internal/delivery/http/middleware"
	"rezo-backend/internal/delivery/http/response"
	"rezo-backend/internal/domain"
	"rezo-backend/internal/usecase"
	"rezo-backend/pkg/audit"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	ProfileUC      domain.ProfileUsecase
	CatalogUC      domain.CatalogUsecase
	MatchUC        domain.MatchUsecase
	ConversationUC domain.ConversationUsecase
	HealthUC       usecase.HealthUsecase
	RateLimiter    *middleware.RateLimiter
	Audit          *audit.Logger
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware([]string{cfg.FrontendURL}, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(deps.RateLimiter.Middleware(middleware.GlobalConfig(cfg.RateLimitGlobalThreshold, cfg.RateLimitWindow())))
	r.Use(middleware.CSRFMiddleware("/v1/auth/login", "/v1/auth/register", "/v1/auth/logout"))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		status, ok := deps.HealthUC.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimiter := deps.RateLimiter.Middleware(middleware.AuthConfig(cfg.RateLimitLoginThreshold, cfg.RateLimitWindow()))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC, deps.Audit))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, authLimiter, cfg.IsProduction())
		NewProfileHandler(protected, deps.AuthUC, deps.ProfileUC)
		NewCatalogHandler(v1, protected, deps.CatalogUC)
		NewMatchHandler(protected, deps.MatchUC)
		NewConversationHandler(protected, deps.ConversationUC)
	}

	return r
}
