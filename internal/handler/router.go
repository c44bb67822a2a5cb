package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/middleware"
	"github.com/schoolgate/webclient/internal/service"
	"github.com/schoolgate/webclient/internal/view"
	"github.com/schoolgate/webclient/pkg/logger"
	"github.com/schoolgate/webclient/pkg/middleware/requestid"
)

// RouterDeps bundles everything the route table needs.
type RouterDeps struct {
	Auth       *AuthHandler
	Student    *StudentHandler
	Teacher    *TeacherHandler
	Export     *ExportHandler
	Metrics    *MetricsHandler
	Sessions   *service.AuthService
	CookieName string
	MetricsSvc *service.MetricsService
	Logger     *zap.Logger
}

// NewRouter builds the gin engine: templates, static assets, the
// session middleware and the full route table.
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestid.Middleware())
	if deps.Logger != nil {
		engine.Use(logger.GinMiddleware(deps.Logger))
	}
	engine.Use(middleware.Metrics(deps.MetricsSvc))

	tmpl, err := view.Load()
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)

	assets, err := view.Static()
	if err != nil {
		return nil, err
	}
	engine.StaticFS("/static", http.FS(assets))

	engine.Use(middleware.Session(deps.Sessions, deps.CookieName))

	engine.GET("/", deps.Auth.Root)
	engine.GET("/login", deps.Auth.ShowLogin)
	engine.POST("/login", deps.Auth.Login)
	engine.POST("/logout", deps.Auth.Logout)

	if deps.Metrics != nil {
		engine.GET("/metrics", deps.Metrics.Metrics)
	}

	student := engine.Group("/student", middleware.RequireStudent())
	{
		student.GET("", deps.Student.Dashboard)
		student.GET("/permissions", deps.Student.Permissions)
		student.POST("/permissions", deps.Student.SubmitPermission)
		student.GET("/points", deps.Student.Points)
	}

	teacher := engine.Group("/teacher", middleware.RequireTeacher())
	{
		teacher.GET("", deps.Teacher.Dashboard)
		teacher.GET("/permissions", deps.Teacher.Permissions)
		teacher.POST("/permissions/review", deps.Teacher.ReviewPermission)
		teacher.GET("/students", deps.Teacher.Students)
		teacher.POST("/students", deps.Teacher.SaveStudent)
		teacher.POST("/students/delete", deps.Teacher.DeleteStudent)
		teacher.GET("/late", deps.Teacher.Late)
		teacher.POST("/late", deps.Teacher.SaveLate)
		teacher.POST("/late/delete", deps.Teacher.DeleteLate)

		if deps.Export != nil {
			teacher.GET("/exports/late.csv", deps.Export.LateCSV)
			teacher.GET("/exports/late.pdf", deps.Export.LatePDF)
			teacher.GET("/exports/permissions.csv", deps.Export.PermissionsCSV)
			teacher.GET("/exports/permissions.pdf", deps.Export.PermissionsPDF)
		}
	}

	return engine, nil
}
