package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cognidoc-backend/internal/documents"
	"cognidoc-backend/internal/services/health"
	"cognidoc-backend/internal/shared/metrics"
	"cognidoc-backend/internal/shared/server/middleware"
	"cognidoc-backend/internal/shared/server/respond"
	"cognidoc-backend/internal/uploads"
)

// RouterDeps holds handlers required to build the router.
type RouterDeps struct {
	Health          *health.Service
	DocumentHandler *documents.Handler
	UploadHandler   *uploads.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS([]string{"*"}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())

	root := &r.RouterGroup
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(root)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(root)
	}

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
