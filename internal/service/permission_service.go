package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/gateway"
	"github.com/schoolgate/webclient/internal/models"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

const permissionCachePattern = "permissions:*"

// SubmitPermissionRequest is the student leave-request form payload.
// Reason may be the "Lainnya" sentinel, in which case OtherReason holds
// the actual free text.
type SubmitPermissionRequest struct {
	Reason      string `form:"reason" validate:"required"`
	OtherReason string `form:"otherReason"`
	Date        string `form:"date" validate:"required"`
	Time        string `form:"time" validate:"required"`
	Notes       string `form:"notes"`
}

// ReviewPermissionRequest is the teacher approve/reject payload.
type ReviewPermissionRequest struct {
	PermissionID string `form:"permissionId" validate:"required"`
	Status       string `form:"status" validate:"required,oneof=approved rejected"`
	TeacherNotes string `form:"teacherNotes"`
}

// PermissionService owns the leave-request list cache and mutations.
type PermissionService struct {
	gw        gateway.Caller
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPermissionService constructs the permission service.
func NewPermissionService(gw gateway.Caller, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PermissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionService{gw: gw, cache: cache, validator: validate, logger: logger}
}

// List fetches the permission list scoped to the user's role: students see
// only their own requests, teachers see everything.
func (s *PermissionService) List(ctx context.Context, user models.User) ([]models.PermissionRequest, error) {
	key := "permissions:" + user.Role + ":" + user.ID

	var cached []models.PermissionRequest
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	result := s.gw.Call(ctx, gateway.ActionGetPermissions, gateway.Params{
		"role":   user.Role,
		"userId": user.ID,
	})
	if !result.Success {
		return nil, appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	list := result.Permissions
	if list == nil {
		list = []models.PermissionRequest{}
	}
	_ = s.cache.Set(ctx, key, list, 0)
	return list, nil
}

// FilterByStatus narrows the in-memory list; "all" or empty passes
// everything through.
func (s *PermissionService) FilterByStatus(list []models.PermissionRequest, status string) []models.PermissionRequest {
	if status == "" || status == "all" {
		return list
	}
	filtered := make([]models.PermissionRequest, 0, len(list))
	for _, p := range list {
		if p.Status == status {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Submit files a new leave request for the student. The request reaches
// the gateway only when local validation passes.
func (s *PermissionService) Submit(ctx context.Context, student models.User, req SubmitPermissionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "Alasan, tanggal dan waktu izin diperlukan")
	}

	reason := req.Reason
	if reason == models.ReasonOther {
		if strings.TrimSpace(req.OtherReason) == "" {
			return appErrors.Clone(appErrors.ErrValidation, "Jelaskan alasan izin")
		}
		reason = strings.TrimSpace(req.OtherReason)
	}

	result := s.gw.Call(ctx, gateway.ActionSubmitPermission, gateway.Params{
		"studentId": student.ID,
		"reason":    reason,
		"date":      req.Date,
		"time":      req.Time,
		"notes":     req.Notes,
	})
	if !result.Success {
		return appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	_ = s.cache.Invalidate(ctx, permissionCachePattern)
	return nil
}

// Review applies a teacher's approve/reject decision. Only the two
// terminal statuses are accepted; pending is not a reviewable target.
func (s *PermissionService) Review(ctx context.Context, teacher models.User, req ReviewPermissionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "Status izin tidak valid")
	}

	result := s.gw.Call(ctx, gateway.ActionUpdatePermission, gateway.Params{
		"permissionId": req.PermissionID,
		"status":       req.Status,
		"teacherNotes": req.TeacherNotes,
		"teacherId":    teacher.ID,
	})
	if !result.Success {
		return appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	s.logger.Info("permission reviewed",
		zap.String("permission_id", req.PermissionID),
		zap.String("status", req.Status),
		zap.String("teacher_id", teacher.ID))

	_ = s.cache.Invalidate(ctx, permissionCachePattern)
	return nil
}
