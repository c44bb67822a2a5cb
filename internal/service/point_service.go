package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/gateway"
	"github.com/schoolgate/webclient/internal/models"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

// PointService reads discipline points from the gateway. Points are
// append-only server-side; the client only lists and aggregates them.
type PointService struct {
	gw     gateway.Caller
	cache  *CacheService
	logger *zap.Logger
}

// NewPointService constructs the point service.
func NewPointService(gw gateway.Caller, cache *CacheService, logger *zap.Logger) *PointService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PointService{gw: gw, cache: cache, logger: logger}
}

type cachedPoints struct {
	Total  int                      `json:"total"`
	Points []models.DisciplinePoint `json:"points"`
}

// ForStudent returns one student's total and point history.
func (s *PointService) ForStudent(ctx context.Context, studentID string) (int, []models.DisciplinePoint, error) {
	key := "points:" + studentID

	var cached cachedPoints
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached.Total, cached.Points, nil
	}

	result := s.gw.Call(ctx, gateway.ActionGetPoints, gateway.Params{"studentId": studentID})
	if !result.Success {
		return 0, nil, appErrors.Clone(appErrors.ErrGatewayRejected, result.Message)
	}

	points := result.Points
	if points == nil {
		points = []models.DisciplinePoint{}
	}
	_ = s.cache.Set(ctx, key, cachedPoints{Total: result.TotalPoints, Points: points}, 0)
	return result.TotalPoints, points, nil
}

// Overview aggregates totals across the roster for the teacher dashboard:
// the school-wide sum and the highest-point students first. Each student
// is one sequential gateway call; the spreadsheet backend offers no batch
// action.
func (s *PointService) Overview(ctx context.Context, roster []models.User) (int, []models.StudentPoints, error) {
	total := 0
	ranked := make([]models.StudentPoints, 0, len(roster))

	for _, student := range roster {
		studentTotal, _, err := s.ForStudent(ctx, student.ID)
		if err != nil {
			// One unreadable student must not sink the whole overview.
			s.logger.Warn("skipping student in points overview",
				zap.String("student_id", student.ID), zap.Error(err))
			continue
		}
		total += studentTotal
		if studentTotal > 0 {
			ranked = append(ranked, models.StudentPoints{
				StudentID:    student.ID,
				StudentName:  student.Name,
				StudentClass: student.Class,
				TotalPoints:  studentTotal,
			})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		return ranked[i].StudentName < ranked[j].StudentName
	})

	return total, ranked, nil
}
