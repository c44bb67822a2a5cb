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

func newStudentService(gw gateway.Caller) *StudentService {
	return NewStudentService(gw, nil, validator.New(), zap.NewNop())
}

func sampleRoster() []models.User {
	return []models.User{
		{ID: "s1", Name: "Budi Santoso", Username: "budi", Role: models.RoleStudent, Class: "X-A"},
		{ID: "s2", Name: "Siti Nuraini", Username: "siti", Role: models.RoleStudent, Class: "XI-B"},
		{ID: "s3", Name: "Ahmad Hidayat", Username: "ahmad", Role: models.RoleStudent, Class: "XII-C"},
	}
}

func TestStudentServiceListRequestsStudentRole(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionGetUsers: {Success: true, Users: sampleRoster()},
	}}
	svc := newStudentService(gw)

	roster, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, roster, 3)

	call := gw.lastCall(gateway.ActionGetUsers)
	require.NotNil(t, call)
	assert.Equal(t, models.RoleStudent, call.params["role"])
}

func TestStudentServiceSearch(t *testing.T) {
	svc := newStudentService(&fakeGateway{})
	roster := sampleRoster()

	assert.Len(t, svc.Search(roster, ""), 3)

	byName := svc.Search(roster, "siti")
	require.Len(t, byName, 1)
	assert.Equal(t, "s2", byName[0].ID)

	byClass := svc.Search(roster, "x-a")
	require.Len(t, byClass, 1)
	assert.Equal(t, "s1", byClass[0].ID)

	assert.Empty(t, svc.Search(roster, "tidak ada"))
}

func TestStudentServiceSaveCreateRequiresPassword(t *testing.T) {
	gw := &fakeGateway{}
	svc := newStudentService(gw)

	_, err := svc.Save(context.Background(), SaveStudentRequest{Name: "Andi", Username: "andi"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, gw.calls)
}

func TestStudentServiceSaveDispatchesCreateOrUpdate(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionCreateStudent: {Success: true, Message: "Siswa berhasil ditambahkan"},
		gateway.ActionUpdateStudent: {Success: true, Message: "Data siswa berhasil diperbarui"},
	}}
	svc := newStudentService(gw)

	message, err := svc.Save(context.Background(), SaveStudentRequest{
		Name: "Andi", Username: "andi", Password: "pw", Class: "X-B",
	})
	require.NoError(t, err)
	assert.Equal(t, "Siswa berhasil ditambahkan", message)
	assert.Equal(t, 1, gw.callCount(gateway.ActionCreateStudent))

	// update keeps the password optional
	message, err = svc.Save(context.Background(), SaveStudentRequest{
		ID: "s9", Name: "Andi W.", Username: "andi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Data siswa berhasil diperbarui", message)
	assert.Equal(t, 1, gw.callCount(gateway.ActionUpdateStudent))
}

func TestStudentServiceDelete(t *testing.T) {
	gw := &fakeGateway{results: map[string]*gateway.Result{
		gateway.ActionDeleteStudent: {Success: true, Message: "Siswa berhasil dihapus"},
	}}
	svc := newStudentService(gw)

	_, err := svc.Delete(context.Background(), "")
	require.Error(t, err)

	message, err := svc.Delete(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Siswa berhasil dihapus", message)
}
