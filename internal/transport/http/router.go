package httptransport

import (
	"log/slog"

	"github.com/anhtnguyen/historylab/internal/transport/http/handler"
	"github.com/anhtnguyen/historylab/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	qrLoginHandler *handler.QRLoginHandler,
	tokenHandler *handler.TokenHandler,
	userHandler *handler.UserHandler,
	lessonHandler *handler.LessonHandler,
	hmacKey []byte,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(hmacKey)
	adminMW := middleware.RequireAdmin()

	// Public surface
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/qr-login/:id", qrLoginHandler.Redeem)

	// Admin surface: token issuance and account management
	admin := r.Group("/admin", authMW, adminMW)
	admin.POST("/tokens", tokenHandler.Issue)
	admin.GET("/tokens", tokenHandler.List)
	admin.DELETE("/tokens/:id", tokenHandler.Delete)
	admin.GET("/tokens/:id/qr", tokenHandler.QRCode)
	admin.GET("/users", userHandler.List)
	admin.PUT("/users/:id/api-key", userHandler.UpdateAPIKey)

	// Authenticated lesson surface
	lessons := r.Group("/lessons", authMW)
	lessons.POST("", lessonHandler.Generate)
	lessons.GET("", lessonHandler.List)
	lessons.GET("/:id", lessonHandler.GetByID)
	lessons.DELETE("/:id", lessonHandler.Delete)
	lessons.GET("/:id/pdf", lessonHandler.ExportPDF)

	return r
}
