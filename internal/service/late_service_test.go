package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/gateway"
	"github.com/schoolgate/webclient/internal/models"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

func newLateService(gw gateway.Caller) *LateService {
	return NewLateService(gw, nil, validator.New(), zap.NewNop())
}

func TestLateServiceListForwardsDateFilter(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionGetLateRecords: {Success: true, LateRecords: []models.LateRecord{
			{ID: "l1", StudentID: "s1", Date: "2024-05-02"},
		}},
	}}
	svc := newLateService(gw)

	records, err := svc.List(context.Background(), "2024-05-02")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	call := gw.lastCall(gateway.ActionGetLateRecords)
	require.NotNil(t, call)
	assert.Equal(t, "2024-05-02", call.params["date"])

	// unfiltered list omits the date param entirely
	_, err = svc.List(context.Background(), "")
	require.NoError(t, err)
	call = gw.lastCall(gateway.ActionGetLateRecords)
	_, present := call.params["date"]
	assert.False(t, present)
}

func TestLateServiceListEmptyIsNotNil(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionGetLateRecords: {Success: true},
	}}
	svc := newLateService(gw)

	records, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestLateServiceSearch(t *testing.T) {
	svc := newLateService(&fakeGateway{})
	records := []models.LateRecord{
		{ID: "l1", StudentName: "Budi Santoso", StudentClass: "X-A"},
		{ID: "l2", StudentName: "Siti Nuraini", StudentClass: "XI-B"},
	}

	assert.Len(t, svc.Search(records, ""), 2)

	byName := svc.Search(records, "budi")
	require.Len(t, byName, 1)
	assert.Equal(t, "l1", byName[0].ID)

	byClass := svc.Search(records, "xi-b")
	require.Len(t, byClass, 1)
	assert.Equal(t, "l2", byClass[0].ID)
}

func TestLateServiceGet(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionGetLateRecordByID: {Success: true, LateRecord: &models.LateRecord{ID: "l1", StudentID: "s1"}},
	}}
	svc := newLateService(gw)

	_, err := svc.Get(context.Background(), "")
	require.Error(t, err)

	record, err := svc.Get(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, "s1", record.StudentID)
}

func TestLateServiceGetMissingRecord(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionGetLateRecordByID: {Success: true},
	}}
	svc := newLateService(gw)

	_, err := svc.Get(context.Background(), "l404")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLateServiceSaveValidatesLocally(t *testing.T) {
	gw := &fakeGateway{}
	svc := newLateService(gw)

	cases := []SaveLateRecordRequest{
		{StudentID: "", Date: "2024-05-02", Time: "07:30", Duration: 15},
		{StudentID: "s1", Date: "", Time: "07:30", Duration: 15},
		{StudentID: "s1", Date: "2024-05-02", Time: "", Duration: 15},
		{StudentID: "s1", Date: "2024-05-02", Time: "07:30", Duration: 0},
		{StudentID: "s1", Date: "2024-05-02", Time: "07:30", Duration: -5},
	}
	for _, req := range cases {
		_, err := svc.Save(context.Background(), testTeacher, req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, gw.calls)
}

func TestLateServiceSaveDispatchesCreateOrUpdate(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionSaveLateRecord:   {Success: true, Message: "Keterlambatan berhasil dicatat"},
		gateway.ActionUpdateLateRecord: {Success: true, Message: "Catatan berhasil diperbarui"},
	}}
	svc := newLateService(gw)

	message, err := svc.Save(context.Background(), testTeacher, SaveLateRecordRequest{
		StudentID: "s1", Date: "2024-05-02", Time: "07:30", Duration: 15, Reason: "Macet",
	})
	require.NoError(t, err)
	assert.Equal(t, "Keterlambatan berhasil dicatat", message)

	call := gw.lastCall(gateway.ActionSaveLateRecord)
	require.NotNil(t, call)
	assert.Equal(t, "15", call.params["duration"])
	assert.Equal(t, "t1", call.params["recordedBy"])

	message, err = svc.Save(context.Background(), testTeacher, SaveLateRecordRequest{
		ID: "l1", StudentID: "s1", Date: "2024-05-02", Time: "07:45", Duration: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "Catatan berhasil diperbarui", message)
	assert.Equal(t, 1, gw.callCount(gateway.ActionUpdateLateRecord))
}

func TestLateServiceDelete(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionDeleteLateRecord: {Success: true, Message: "Catatan berhasil dihapus"},
	}}
	svc := newLateService(gw)

	_, err := svc.Delete(context.Background(), "")
	require.Error(t, err)

	message, err := svc.Delete(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, "Catatan berhasil dihapus", message)
}

func TestLateServiceStatisticsFallsBackToEmpty(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionGetLateStatistics: {Success: true},
	}}
	svc := newLateService(gw)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalLate)
	assert.Len(t, stats.ByDayOfWeek, 7)
}

func TestLateServiceStatisticsPassthrough(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionGetLateStatistics: {Success: true, Statistics: &models.LateStatistics{
			TotalLate:   4,
			ByDayOfWeek: []int{0, 2, 1, 0, 1, 0, 0},
			FrequentStudents: []models.FrequentLateStudent{
				{StudentID: "s1", StudentName: "Budi", Count: 2},
			},
		}},
	}}
	svc := newLateService(gw)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalLate)
	require.Len(t, stats.FrequentStudents, 1)
	assert.Equal(t, 2, stats.FrequentStudents[0].Count)
}
