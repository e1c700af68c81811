package server

import (
	"github.com/gin-gonic/gin"

	googleauth "handnotes-backend/internal/auth"
	"handnotes-backend/internal/classify"
	"handnotes-backend/internal/documents"
	"handnotes-backend/internal/notes"
	"handnotes-backend/internal/ocr"
	"handnotes-backend/internal/pipeline"
	"handnotes-backend/internal/services/health"
	"handnotes-backend/internal/settings"
	"handnotes-backend/internal/shared/config"
	"handnotes-backend/internal/shared/metrics"
	"handnotes-backend/internal/shared/server/middleware"
	"handnotes-backend/internal/shared/server/respond"
	"handnotes-backend/internal/shared/storage/object"
	"handnotes-backend/internal/tasks"
	"handnotes-backend/internal/users"
)

const aiRateLimitGroup = "AI"

// RouterDeps holds the handlers mounted by NewRouter. LocalFiles is set only
// when objects live on the local filesystem.
type RouterDeps struct {
	Config     config.Config
	Verifier   middleware.TokenVerifier
	Health     *health.Service
	LocalFiles object.ObjectStore

	GoogleAuth *googleauth.GoogleService
	Documents  *documents.Handler
	OCR        *ocr.Handler
	Classify   *classify.Handler
	Pipeline   *pipeline.Handler
	Tasks      *tasks.Handler
	Notes      *notes.Handler
	Settings   *settings.Handler
	Users      *users.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, deps.Health.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())
	if deps.LocalFiles != nil {
		r.GET("/files/*key", filesHandler(deps.LocalFiles))
	}

	public := r.Group("/api")
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(public)
	}

	api := r.Group("/api", middleware.Auth(deps.Verifier))
	deps.Users.RegisterRoutes(api)
	deps.Tasks.RegisterRoutes(api)
	deps.Notes.RegisterRoutes(api)
	deps.Settings.RegisterRoutes(api)
	deps.Documents.RegisterRoutes(api)

	ai := api.Group("")
	if deps.Config.RateLimitEnabled {
		ai.Use(middleware.RateLimit(aiRateLimitGroup, middleware.Quota{
			PerMinute: deps.Config.RateLimitRPM,
			Burst:     deps.Config.RateLimitBurst,
		}, nil))
	}
	deps.Documents.RegisterUploadRoutes(ai)
	deps.OCR.RegisterRoutes(ai)
	deps.Classify.RegisterRoutes(ai)
	deps.Pipeline.RegisterRoutes(ai)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
