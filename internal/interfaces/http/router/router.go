package router

import (
	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/infrastructure/auth"
	"github.com/agribase/backend/internal/infrastructure/config"
	"github.com/agribase/backend/internal/interfaces/http/handler"
	"github.com/agribase/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar lets handlers mount their own routes on the guarded API
// group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Dependencies bundles everything the router needs to assemble the HTTP
// surface
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Users      legacy.UserRepository
	Members    legacy.FarmMemberRepository
	System     *handler.SystemHandler
	Registrars []RouteRegistrar
}

// New assembles the gin engine: common middleware, the open health endpoint
// and the guarded /api/v1 group where every request carries a verified
// account and an authorized farm.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID(deps.Logger))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(deps.Config.HTTP)))
	engine.Use(middleware.Secure())

	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	engine.GET("/health", deps.System.Health)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuth(deps.JWTService, deps.Logger))
	api.Use(middleware.FarmGuard(deps.Users, deps.Members, deps.Logger))

	for _, registrar := range deps.Registrars {
		registrar.RegisterRoutes(api)
	}

	return engine
}
