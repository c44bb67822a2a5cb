package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/middleware"
	"github.com/schoolgate/webclient/internal/models"
	"github.com/schoolgate/webclient/internal/service"
	"github.com/schoolgate/webclient/internal/view"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

const topOffenderLimit = 5

// TeacherHandler serves the teacher-facing pages.
type TeacherHandler struct {
	base
	permissions *service.PermissionService
	students    *service.StudentService
	points      *service.PointService
	late        *service.LateService
	logger      *zap.Logger
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(
	permissions *service.PermissionService,
	students *service.StudentService,
	points *service.PointService,
	late *service.LateService,
	degraded bool,
	logger *zap.Logger,
) *TeacherHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherHandler{
		base:        base{degraded: degraded},
		permissions: permissions,
		students:    students,
		points:      points,
		late:        late,
		logger:      logger,
	}
}

// Dashboard aggregates pending permissions, today's lateness, the
// statistics buckets and the point ranking. Each block degrades on its
// own: one failed fetch must not blank the whole page.
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()
	data := h.page(c, "Beranda Guru")

	pendingCount := 0
	if list, err := h.permissions.List(ctx, *user); err == nil {
		for _, p := range list {
			if p.Pending() {
				pendingCount++
			}
		}
	} else {
		h.logger.Warn("permissions unavailable for dashboard", zap.Error(err))
		data["Error"] = appErrors.FromError(err).Message
	}

	today := time.Now().Format("2006-01-02")
	todayLate, err := h.late.List(ctx, today)
	if err != nil {
		h.logger.Warn("today's late records unavailable", zap.Error(err))
		todayLate = []models.LateRecord{}
	}
	models.SortLateRecordsNewestFirst(todayLate)

	stats, err := h.late.Statistics(ctx)
	if err != nil {
		h.logger.Warn("late statistics unavailable", zap.Error(err))
		stats = &models.LateStatistics{ByDayOfWeek: make([]int, 7)}
	}

	totalPoints := 0
	var ranked []models.StudentPoints
	if roster, err := h.students.List(ctx); err == nil {
		totalPoints, ranked, _ = h.points.Overview(ctx, roster)
		if len(ranked) > topOffenderLimit {
			ranked = ranked[:topOffenderLimit]
		}
	} else {
		h.logger.Warn("roster unavailable for dashboard", zap.Error(err))
	}

	data["PendingCount"] = pendingCount
	data["TodayLate"] = todayLate
	data["TotalLate"] = stats.TotalLate
	data["FrequentStudents"] = stats.FrequentStudents
	data["ByDay"] = view.DayBuckets(stats.ByDayOfWeek)
	data["TotalPoints"] = totalPoints
	data["TopOffenders"] = ranked
	c.HTML(http.StatusOK, "teacher_dashboard.html", data)
}

// Permissions lists every request in review order with the status
// filter and inline approve/reject forms.
func (h *TeacherHandler) Permissions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	data := h.page(c, "Izin Siswa")

	filter := c.DefaultQuery("status", "all")
	list, err := h.permissions.List(c.Request.Context(), *user)
	if err != nil {
		data["Error"] = appErrors.FromError(err).Message
		list = []models.PermissionRequest{}
	}
	models.SortPermissionsForReview(list)

	data["Permissions"] = h.permissions.FilterByStatus(list, filter)
	data["Filter"] = filter
	c.HTML(http.StatusOK, "teacher_permissions.html", data)
}

// ReviewPermission applies an approve/reject decision.
func (h *TeacherHandler) ReviewPermission(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req service.ReviewPermissionRequest
	_ = c.ShouldBind(&req)

	if err := h.permissions.Review(c.Request.Context(), *user, req); err != nil {
		c.Redirect(http.StatusFound, withFlash("/teacher/permissions", "err", appErrors.FromError(err).Message))
		return
	}
	label := "disetujui"
	if req.Status == models.StatusRejected {
		label = "ditolak"
	}
	c.Redirect(http.StatusFound, withFlash("/teacher/permissions", "msg", "Izin "+label))
}

// Students shows the roster with search and the add/edit form.
func (h *TeacherHandler) Students(c *gin.Context) {
	data := h.page(c, "Data Siswa")

	roster, err := h.students.List(c.Request.Context())
	if err != nil {
		data["Error"] = appErrors.FromError(err).Message
		roster = []models.User{}
	}

	query := c.Query("q")
	form := models.User{}
	if editID := c.Query("edit"); editID != "" {
		if found := h.students.Find(roster, editID); found != nil {
			form = *found
		}
	}

	data["Students"] = h.students.Search(roster, query)
	data["Query"] = query
	data["Form"] = form
	c.HTML(http.StatusOK, "teacher_students.html", data)
}

// SaveStudent creates or updates a roster entry.
func (h *TeacherHandler) SaveStudent(c *gin.Context) {
	var req service.SaveStudentRequest
	_ = c.ShouldBind(&req)

	message, err := h.students.Save(c.Request.Context(), req)
	if err != nil {
		c.Redirect(http.StatusFound, withFlash("/teacher/students", "err", appErrors.FromError(err).Message))
		return
	}
	if message == "" {
		message = "Data siswa tersimpan"
	}
	c.Redirect(http.StatusFound, withFlash("/teacher/students", "msg", message))
}

// DeleteStudent removes a roster entry.
func (h *TeacherHandler) DeleteStudent(c *gin.Context) {
	message, err := h.students.Delete(c.Request.Context(), c.PostForm("id"))
	if err != nil {
		c.Redirect(http.StatusFound, withFlash("/teacher/students", "err", appErrors.FromError(err).Message))
		return
	}
	if message == "" {
		message = "Siswa dihapus"
	}
	c.Redirect(http.StatusFound, withFlash("/teacher/students", "msg", message))
}

// Late shows the record table with date/text filters and the
// create/edit form.
func (h *TeacherHandler) Late(c *gin.Context) {
	ctx := c.Request.Context()
	data := h.page(c, "Keterlambatan")

	date := c.Query("date")
	query := c.Query("q")
	records, err := h.late.List(ctx, date)
	if err != nil {
		data["Error"] = appErrors.FromError(err).Message
		records = []models.LateRecord{}
	}
	models.SortLateRecordsNewestFirst(records)

	roster, err := h.students.List(ctx)
	if err != nil {
		h.logger.Warn("roster unavailable for late form", zap.Error(err))
		roster = []models.User{}
	}

	form := service.SaveLateRecordRequest{}
	if editID := c.Query("edit"); editID != "" {
		if record, err := h.late.Get(ctx, editID); err == nil {
			form = service.SaveLateRecordRequest{
				ID:        record.ID,
				StudentID: record.StudentID,
				Date:      record.Date,
				Time:      record.Time,
				Duration:  record.Duration,
				Reason:    record.Reason,
			}
		} else {
			data["Error"] = appErrors.FromError(err).Message
		}
	}

	data["Records"] = h.late.Search(records, query)
	data["Date"] = date
	data["Query"] = query
	data["Students"] = roster
	data["Form"] = form
	c.HTML(http.StatusOK, "teacher_late.html", data)
}

// SaveLate records or edits a tardy arrival.
func (h *TeacherHandler) SaveLate(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req service.SaveLateRecordRequest
	_ = c.ShouldBind(&req)

	message, err := h.late.Save(c.Request.Context(), *user, req)
	if err != nil {
		c.Redirect(http.StatusFound, withFlash("/teacher/late", "err", appErrors.FromError(err).Message))
		return
	}
	if message == "" {
		message = "Catatan keterlambatan tersimpan"
	}
	c.Redirect(http.StatusFound, withFlash("/teacher/late", "msg", message))
}

// DeleteLate removes a late record.
func (h *TeacherHandler) DeleteLate(c *gin.Context) {
	message, err := h.late.Delete(c.Request.Context(), c.PostForm("id"))
	if err != nil {
		c.Redirect(http.StatusFound, withFlash("/teacher/late", "err", appErrors.FromError(err).Message))
		return
	}
	if message == "" {
		message = "Catatan dihapus"
	}
	c.Redirect(http.StatusFound, withFlash("/teacher/late", "msg", message))
}
