package transport

import (
	"net/http"

	"github.com/ds124wfegd/image-converter/internal/pkg/metrics"
	"github.com/ds124wfegd/image-converter/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(convertHandler *ConvertHandler, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(gin.CustomRecovery(convertHandler.Recover))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "image-converter",
		})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.POST("/", convertHandler.Convert)
	router.POST("/api/convert", convertHandler.Convert)

	// POST is accepted on any path
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodPost {
			convertHandler.Convert(c)
			return
		}
		convertHandler.writeError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return router
}
