package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/middleware"
	"github.com/schoolgate/webclient/internal/service"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

// ExportHandler streams CSV/PDF downloads of the teacher tables.
type ExportHandler struct {
	exports     *service.ExportService
	late        *service.LateService
	permissions *service.PermissionService
	logger      *zap.Logger
}

// NewExportHandler creates a new handler.
func NewExportHandler(exports *service.ExportService, late *service.LateService, permissions *service.PermissionService, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, late: late, permissions: permissions, logger: logger}
}

// LateCSV downloads the late-record table as CSV.
func (h *ExportHandler) LateCSV(c *gin.Context) {
	records, err := h.late.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.fail(c, "/teacher/late", err)
		return
	}
	payload, err := h.exports.RenderCSV(h.exports.LateRecordsDataset(records))
	if err != nil {
		h.fail(c, "/teacher/late", err)
		return
	}
	h.download(c, "keterlambatan.csv", "text/csv; charset=utf-8", payload)
}

// LatePDF downloads the late-record table as PDF.
func (h *ExportHandler) LatePDF(c *gin.Context) {
	records, err := h.late.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.fail(c, "/teacher/late", err)
		return
	}
	payload, err := h.exports.RenderPDF(h.exports.LateRecordsDataset(records), "Rekap Keterlambatan")
	if err != nil {
		h.fail(c, "/teacher/late", err)
		return
	}
	h.download(c, "keterlambatan.pdf", "application/pdf", payload)
}

// PermissionsCSV downloads the permission recap as CSV.
func (h *ExportHandler) PermissionsCSV(c *gin.Context) {
	user := middleware.CurrentUser(c)
	list, err := h.permissions.List(c.Request.Context(), *user)
	if err != nil {
		h.fail(c, "/teacher/permissions", err)
		return
	}
	payload, err := h.exports.RenderCSV(h.exports.PermissionRecapDataset(list))
	if err != nil {
		h.fail(c, "/teacher/permissions", err)
		return
	}
	h.download(c, "rekap-izin.csv", "text/csv; charset=utf-8", payload)
}

// PermissionsPDF downloads the permission recap as PDF.
func (h *ExportHandler) PermissionsPDF(c *gin.Context) {
	user := middleware.CurrentUser(c)
	list, err := h.permissions.List(c.Request.Context(), *user)
	if err != nil {
		h.fail(c, "/teacher/permissions", err)
		return
	}
	payload, err := h.exports.RenderPDF(h.exports.PermissionRecapDataset(list), "Rekap Izin Siswa")
	if err != nil {
		h.fail(c, "/teacher/permissions", err)
		return
	}
	h.download(c, "rekap-izin.pdf", "application/pdf", payload)
}

func (h *ExportHandler) download(c *gin.Context, filename, contentType string, payload []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

func (h *ExportHandler) fail(c *gin.Context, back string, err error) {
	h.logger.Warn("export failed", zap.Error(err))
	c.Redirect(http.StatusFound, withFlash(back, "err", appErrors.FromError(err).Message))
}
