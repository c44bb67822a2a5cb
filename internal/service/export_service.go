package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/models"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
	"github.com/schoolgate/webclient/pkg/export"
)

// ExportService turns the teacher's tables into downloadable CSV/PDF
// reports.
type ExportService struct {
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// LateRecordsDataset builds the export table for late records, newest
// first, using the same column order as the on-screen table.
func (s *ExportService) LateRecordsDataset(records []models.LateRecord) export.Dataset {
	models.SortLateRecordsNewestFirst(records)

	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"Tanggal":  r.Date,
			"Nama":     r.StudentName,
			"Kelas":    r.StudentClass,
			"Jam":      r.Time,
			"Durasi":   fmt.Sprintf("%d menit", r.Duration),
			"Alasan":   r.Reason,
			"Pencatat": r.RecordedBy,
		})
	}
	return export.Dataset{
		Headers: []string{"Tanggal", "Nama", "Kelas", "Jam", "Durasi", "Alasan", "Pencatat"},
		Rows:    rows,
	}
}

// PermissionRecapDataset builds the export table for leave requests in
// review order: pending first, then newest first.
func (s *ExportService) PermissionRecapDataset(permissions []models.PermissionRequest) export.Dataset {
	models.SortPermissionsForReview(permissions)

	rows := make([]map[string]string, 0, len(permissions))
	for _, p := range permissions {
		rows = append(rows, map[string]string{
			"Tanggal":      p.Date,
			"Nama":         p.StudentName,
			"Kelas":        p.StudentClass,
			"Alasan":       p.Reason,
			"Status":       p.Status,
			"Catatan Guru": p.TeacherNotes,
		})
	}
	return export.Dataset{
		Headers: []string{"Tanggal", "Nama", "Kelas", "Alasan", "Status", "Catatan Guru"},
		Rows:    rows,
	}
}

// RenderCSV serialises a dataset to CSV bytes.
func (s *ExportService) RenderCSV(data export.Dataset) ([]byte, error) {
	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}

// RenderPDF serialises a dataset to PDF bytes.
func (s *ExportService) RenderPDF(data export.Dataset, title string) ([]byte, error) {
	payload, err := s.pdf.Render(data, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, nil
}
