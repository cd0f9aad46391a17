package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accounthub/internal/domain"
)

// NewRouter configura el router de Gin con middlewares y rutas del API.
// authn es el middleware de autenticacion que protege las rutas con sesion.
func NewRouter(logger *zap.Logger, userH *UserHandler, authn gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging y recovery.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	api := r.Group("/api/v1")

	api.POST("/user/register", userH.Register)
	api.POST("/user/login", userH.Login)
	api.GET("/user/logout", userH.Logout)

	api.GET("/user/:id", authn, userH.GetUser)
	api.PUT("/user/password/update/:id", authn, userH.UpdatePassword)
	api.PUT("/user/update/:id", authn, userH.UpdateProfile)
	api.GET("/public_users", authn, userH.ListPublic)
	api.GET("/admin/get_all_users", authn, RequireRoles(domain.RoleAdmin), userH.ListAll)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
