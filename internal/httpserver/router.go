package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"habitly/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	habitHandler *handler.HabitHandler,
	jwtSecret string,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/habits", habitHandler.ListToday)
		auth.POST("/habits/:id", habitHandler.UpdateStatus)
		auth.GET("/habits/completion-percentage", habitHandler.CompletionSeries)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
