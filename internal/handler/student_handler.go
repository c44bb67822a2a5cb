package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/middleware"
	"github.com/schoolgate/webclient/internal/models"
	"github.com/schoolgate/webclient/internal/service"
	"github.com/schoolgate/webclient/internal/view"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

// permissionReasons are the choices offered by the leave-request form.
// The last entry is the free-text sentinel.
var permissionReasons = []string{
	"Sakit",
	"Keperluan keluarga",
	"Urusan administrasi",
	models.ReasonOther,
}

// StudentHandler serves the student-facing pages.
type StudentHandler struct {
	base
	permissions *service.PermissionService
	points      *service.PointService
	logger      *zap.Logger
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(permissions *service.PermissionService, points *service.PointService, degraded bool, logger *zap.Logger) *StudentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentHandler{
		base:        base{degraded: degraded},
		permissions: permissions,
		points:      points,
		logger:      logger,
	}
}

// Dashboard shows the pending count, point total and recent activity.
func (h *StudentHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)
	data := h.page(c, "Beranda")

	pendingCount := 0
	var recent []view.ActivityItem
	list, err := h.permissions.List(c.Request.Context(), *user)
	if err != nil {
		data["Error"] = appErrors.FromError(err).Message
	} else {
		models.SortPermissionsNewestFirst(list)
		for _, p := range list {
			if p.Pending() {
				pendingCount++
			}
		}
		recent = view.RecentActivity(list, 5)
	}

	totalPoints, _, err := h.points.ForStudent(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Warn("points unavailable for dashboard", zap.String("student_id", user.ID), zap.Error(err))
	}

	data["PendingCount"] = pendingCount
	data["TotalPoints"] = totalPoints
	data["Recent"] = recent
	c.HTML(http.StatusOK, "student_dashboard.html", data)
}

// Permissions lists the student's own requests with the status filter
// and the submission form.
func (h *StudentHandler) Permissions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	data := h.page(c, "Izin Saya")

	filter := c.DefaultQuery("status", "all")
	list, err := h.permissions.List(c.Request.Context(), *user)
	if err != nil {
		data["Error"] = appErrors.FromError(err).Message
		list = []models.PermissionRequest{}
	}
	models.SortPermissionsNewestFirst(list)

	data["Permissions"] = h.permissions.FilterByStatus(list, filter)
	data["Filter"] = filter
	data["Reasons"] = permissionReasons
	c.HTML(http.StatusOK, "student_permissions.html", data)
}

// SubmitPermission files a new leave request and redirects back with
// the outcome as a flash message.
func (h *StudentHandler) SubmitPermission(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req service.SubmitPermissionRequest
	_ = c.ShouldBind(&req)

	if err := h.permissions.Submit(c.Request.Context(), *user, req); err != nil {
		c.Redirect(http.StatusFound, withFlash("/student/permissions", "err", appErrors.FromError(err).Message))
		return
	}
	c.Redirect(http.StatusFound, withFlash("/student/permissions", "msg", "Pengajuan izin terkirim"))
}

// Points shows the student's violation history and total.
func (h *StudentHandler) Points(c *gin.Context) {
	user := middleware.CurrentUser(c)
	data := h.page(c, "Poin Saya")

	total, points, err := h.points.ForStudent(c.Request.Context(), user.ID)
	if err != nil {
		data["Error"] = appErrors.FromError(err).Message
		points = []models.DisciplinePoint{}
	}
	models.SortPointsNewestFirst(points)

	data["TotalPoints"] = total
	data["Points"] = points
	c.HTML(http.StatusOK, "student_points.html", data)
}
