package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/cloud-classroom/internal/app"
	"github.com/noah-isme/cloud-classroom/internal/middleware"
	"github.com/noah-isme/cloud-classroom/internal/models"
	"github.com/noah-isme/cloud-classroom/pkg/config"
	"github.com/noah-isme/cloud-classroom/pkg/logger"
	corsmiddleware "github.com/noah-isme/cloud-classroom/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cloud-classroom/pkg/middleware/requestid"
)

// NewRouter mounts the classroom API on a fresh gin engine.
func NewRouter(a *app.App) *gin.Engine {
	cfg := a.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))

	metrics := NewMetricsHandler(a.Metrics, a)
	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Ready)
	r.GET("/metrics", metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)

	auth := NewAuthHandler(a.Auth, a.Users)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(a.Auth))
	secured.POST("/auth/logout", auth.Logout)
	secured.GET("/auth/me", auth.Me)

	chat := NewChatHandler(a.Messages)
	secured.GET("/chat/peers", chat.Peers)
	secured.POST("/chat/messages", chat.Send)
	secured.GET("/chat/messages/:peer", chat.Messages)
	secured.GET("/chat/conversations/:peer", chat.Conversation)

	syllabus := NewSyllabusHandler(a.Subjects)
	secured.GET("/subjects", syllabus.ListSubjects)
	secured.POST("/subjects", syllabus.CreateSubject)
	secured.GET("/subjects/:name/topics", syllabus.ListTopics)
	secured.POST("/subjects/:name/topics", syllabus.AddTopic)
	secured.POST("/subjects/:name/topics/:topic/complete", syllabus.CompleteTopic)
	secured.GET("/subjects/:name/completion", syllabus.Completion)
	secured.GET("/syllabus/report", syllabus.Report)

	announcements := NewAnnouncementHandler(a.Announcements)
	secured.GET("/announcements", announcements.List)
	secured.POST("/announcements", announcements.Post)

	assignments := NewAssignmentHandler(a.Assignments)
	secured.GET("/assignments", assignments.List)
	secured.POST("/assignments", assignments.Create)
	secured.GET("/assignments/next", assignments.Next)
	secured.POST("/assignments/retire", assignments.Retire)
	secured.GET("/assignments/:id", assignments.Get)
	secured.POST("/assignments/:id/submissions", assignments.Submit)

	users := NewUserHandler(a.Users)
	reports := NewReportHandler(a.Reports)
	admin := secured.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/users", users.List)
	admin.POST("/users/export", users.Export)
	admin.POST("/users/import", users.Import)
	admin.POST("/users/backup", users.Backup)
	admin.POST("/users/restore", users.Restore)
	admin.POST("/reports/export", reports.Export)

	return r
}
