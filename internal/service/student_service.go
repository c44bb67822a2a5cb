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

const rosterCacheKey = "users:student"

// SaveStudentRequest covers both create and update: an empty ID creates,
// a set ID updates. Password is required only for new students.
type SaveStudentRequest struct {
	ID       string `form:"id"`
	Name     string `form:"name" validate:"required"`
	Username string `form:"username" validate:"required"`
	Password string `form:"password"`
	Class    string `form:"class"`
}

// StudentService owns the roster cache and student CRUD.
type StudentService struct {
	gw        gateway.Caller
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(gw gateway.Caller, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{gw: gw, cache: cache, validator: validate, logger: logger}
}

// List returns the student roster.
func (s *StudentService) List(ctx context.Context) ([]models.User, error) {
	var cached []models.User
	if hit, _ := s.cache.Get(ctx, rosterCacheKey, &cached); hit {
		return cached, nil
	}

	result := s.gw.Call(ctx, gateway.ActionGetUsers, gateway.Params{"role": models.RoleStudent})
	if !result.Success {
		return nil, appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	roster := result.Users
	if roster == nil {
		roster = []models.User{}
	}
	_ = s.cache.Set(ctx, rosterCacheKey, roster, 0)
	return roster, nil
}

// Search filters the in-memory roster by name, username or class.
func (s *StudentService) Search(roster []models.User, term string) []models.User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return roster
	}
	filtered := make([]models.User, 0, len(roster))
	for _, u := range roster {
		if strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.Class), term) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// Find returns the roster entry with the given ID.
func (s *StudentService) Find(roster []models.User, id string) *models.User {
	for i := range roster {
		if roster[i].ID == id {
			return &roster[i]
		}
	}
	return nil
}

// Save creates or updates a student record.
func (s *StudentService) Save(ctx context.Context, req SaveStudentRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "Nama dan username diperlukan")
	}

	action := gateway.ActionUpdateStudent
	if req.ID == "" {
		if req.Password == "" {
			return "", appErrors.Clone(appErrors.ErrValidation, "Password diperlukan untuk siswa baru")
		}
		action = gateway.ActionCreateStudent
	}

	result := s.gw.Call(ctx, action, gateway.Params{
		"id":       req.ID,
		"name":     req.Name,
		"username": req.Username,
		"password": req.Password,
		"class":    req.Class,
	})
	if !result.Success {
		return "", appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	_ = s.cache.Invalidate(ctx, rosterCacheKey)
	return result.Message, nil
}

// Delete removes a student record.
func (s *StudentService) Delete(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "Siswa belum dipilih")
	}

	result := s.gw.Call(ctx, gateway.ActionDeleteStudent, gateway.Params{"id": id})
	if !result.Success {
		return "", appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	s.logger.Info("student deleted", zap.String("student_id", id))

	_ = s.cache.Invalidate(ctx, rosterCacheKey)
	return result.Message, nil
}
