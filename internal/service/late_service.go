package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/gateway"
	"github.com/schoolgate/webclient/internal/models"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

const lateCachePattern = "late:*"

// SaveLateRecordRequest covers create and edit of a tardy-arrival entry.
type SaveLateRecordRequest struct {
	ID        string `form:"id"`
	StudentID string `form:"studentId" validate:"required"`
	Date      string `form:"date" validate:"required"`
	Time      string `form:"time" validate:"required"`
	Duration  int    `form:"duration" validate:"required,gt=0"`
	Reason    string `form:"reason"`
}

// LateService owns late-record listing, mutations and statistics.
type LateService struct {
	gw        gateway.Caller
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLateService constructs the late-record service.
func NewLateService(gw gateway.Caller, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *LateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LateService{gw: gw, cache: cache, validator: validate, logger: logger}
}

// List fetches late records, optionally narrowed to a single date. The
// date is the only filter the gateway understands; everything else is
// applied in memory.
func (s *LateService) List(ctx context.Context, date string) ([]models.LateRecord, error) {
	key := "late:all"
	if date != "" {
		key = "late:" + date
	}

	var cached []models.LateRecord
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	params := gateway.Params{}
	if date != "" {
		params["date"] = date
	}
	result := s.gw.Call(ctx, gateway.ActionGetLateRecords, params)
	if !result.Success {
		return nil, appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	records := result.LateRecords
	if records == nil {
		records = []models.LateRecord{}
	}
	_ = s.cache.Set(ctx, key, records, 0)
	return records, nil
}

// Search narrows records by student name or class.
func (s *LateService) Search(records []models.LateRecord, term string) []models.LateRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	filtered := make([]models.LateRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.StudentName), term) ||
			strings.Contains(strings.ToLower(r.StudentClass), term) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Get loads a single record for the edit form.
func (s *LateService) Get(ctx context.Context, id string) (*models.LateRecord, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Catatan belum dipilih")
	}
	result := s.gw.Call(ctx, gateway.ActionGetLateRecordByID, gateway.Params{"id": id})
	if !result.Success {
		return nil, appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}
	if result.LateRecord == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Catatan keterlambatan tidak ditemukan")
	}
	return result.LateRecord, nil
}

// Save records or edits a tardy arrival on the teacher's behalf.
func (s *LateService) Save(ctx context.Context, teacher models.User, req SaveLateRecordRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "Siswa, tanggal, jam dan durasi diperlukan")
	}

	action := gateway.ActionSaveLateRecord
	if req.ID != "" {
		action = gateway.ActionUpdateLateRecord
	}

	result := s.gw.Call(ctx, action, gateway.Params{
		"id":         req.ID,
		"studentId":  req.StudentID,
		"date":       req.Date,
		"time":       req.Time,
		"duration":   strconv.Itoa(req.Duration),
		"reason":     req.Reason,
		"recordedBy": teacher.ID,
	})
	if !result.Success {
		return "", appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	_ = s.cache.Invalidate(ctx, lateCachePattern)
	return result.Message, nil
}

// Delete removes a late record.
func (s *LateService) Delete(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "Catatan belum dipilih")
	}

	result := s.gw.Call(ctx, gateway.ActionDeleteLateRecord, gateway.Params{"id": id})
	if !result.Success {
		return "", appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	s.logger.Info("late record deleted", zap.String("record_id", id))

	_ = s.cache.Invalidate(ctx, lateCachePattern)
	return result.Message, nil
}

// Statistics fetches the gateway's lateness aggregates.
func (s *LateService) Statistics(ctx context.Context) (*models.LateStatistics, error) {
	result := s.gw.Call(ctx, gateway.ActionGetLateStatistics, nil)
	if !result.Success {
		return nil, appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}
	if result.Statistics == nil {
		return &models.LateStatistics{ByDayOfWeek: make([]int, 7)}, nil
	}
	return result.Statistics, nil
}
