package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/gateway"
	"github.com/schoolgate/webclient/internal/service"
)

const testCookieName = "schoolgate_user"

// newTestRouter wires the full route table against the seeded demo
// gateway, the same composition main performs.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := gateway.NewDemoGateway(zap.NewNop())
	auth := service.NewAuthService(gw, service.SessionConfig{Secret: "test_secret", TTL: time.Hour}, nil, zap.NewNop())
	permissions := service.NewPermissionService(gw, nil, nil, zap.NewNop())
	students := service.NewStudentService(gw, nil, nil, zap.NewNop())
	points := service.NewPointService(gw, nil, zap.NewNop())
	late := service.NewLateService(gw, nil, nil, zap.NewNop())
	exports := service.NewExportService(zap.NewNop())

	router, err := NewRouter(RouterDeps{
		Auth:       NewAuthHandler(auth, testCookieName, gw.Degraded()),
		Student:    NewStudentHandler(permissions, points, gw.Degraded(), zap.NewNop()),
		Teacher:    NewTeacherHandler(permissions, students, points, late, gw.Degraded(), zap.NewNop()),
		Export:     NewExportHandler(exports, late, permissions, zap.NewNop()),
		Metrics:    NewMetricsHandler(service.NewMetricsService()),
		Sessions:   auth,
		CookieName: testCookieName,
	})
	require.NoError(t, err)
	return router
}

// loginAs performs the login POST and returns the session cookie.
func loginAs(t *testing.T, router *gin.Engine, username, password string) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusFound, recorder.Code)
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == testCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func get(router *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(recorder, req)
	return recorder
}

func postForm(router *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRootRedirectsByRole(t *testing.T) {
	router := newTestRouter(t)

	anon := get(router, "/", nil)
	assert.Equal(t, "/login", anon.Header().Get("Location"))

	student := loginAs(t, router, "budi", "siswa123")
	assert.Equal(t, "/student", get(router, "/", student).Header().Get("Location"))

	teacher := loginAs(t, router, "ratna", "guru123")
	assert.Equal(t, "/teacher", get(router, "/", teacher).Header().Get("Location"))
}

func TestLoginPageSkippedWhenAuthenticated(t *testing.T) {
	router := newTestRouter(t)

	anon := get(router, "/login", nil)
	assert.Equal(t, http.StatusOK, anon.Code)
	assert.Contains(t, anon.Body.String(), "Masuk")

	cookie := loginAs(t, router, "budi", "siswa123")
	authed := get(router, "/login", cookie)
	assert.Equal(t, http.StatusFound, authed.Code)
	assert.Equal(t, "/student", authed.Header().Get("Location"))
}

func TestLoginFailureRerendersForm(t *testing.T) {
	router := newTestRouter(t)

	recorder := postForm(router, "/login", url.Values{
		"username": {"budi"},
		"password": {"salah"},
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Username atau password salah")
}

func TestLogoutClearsCookie(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "budi", "siswa123")

	recorder := postForm(router, "/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))

	cleared := false
	for _, c := range recorder.Result().Cookies() {
		if c.Name == testCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestStudentAreaRequiresStudentRole(t *testing.T) {
	router := newTestRouter(t)

	anon := get(router, "/student", nil)
	assert.Equal(t, "/login", anon.Header().Get("Location"))

	teacher := loginAs(t, router, "ratna", "guru123")
	bounced := get(router, "/student", teacher)
	assert.Equal(t, "/teacher", bounced.Header().Get("Location"))
}

func TestStudentDashboardRendersDegradedBanner(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "budi", "siswa123")

	recorder := get(router, "/student", cookie)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Mode demo aktif")
}

func TestStudentPermissionsPage(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "budi", "siswa123")

	recorder := get(router, "/student/permissions", cookie)
	assert.Equal(t, http.StatusOK, recorder.Code)
	// budi's seeded request is approved
	assert.Contains(t, recorder.Body.String(), "Disetujui")
}

func TestStudentSubmitPermissionFlow(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "budi", "siswa123")

	recorder := postForm(router, "/student/permissions", url.Values{
		"reason": {"Sakit"},
		"date":   {"2024-06-01"},
		"time":   {"08:00"},
	}, cookie)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Location"), "msg=")

	page := get(router, "/student/permissions", cookie)
	assert.Contains(t, page.Body.String(), "1 Juni 2024")
}

func TestStudentSubmitPermissionValidationError(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "budi", "siswa123")

	recorder := postForm(router, "/student/permissions", url.Values{
		"reason": {""},
		"date":   {"2024-06-01"},
		"time":   {"08:00"},
	}, cookie)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Location"), "err=")
}

func TestStudentPointsPage(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "budi", "siswa123")

	recorder := get(router, "/student/points", cookie)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Poin Saya")
}

func TestTeacherDashboard(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "ratna", "guru123")

	recorder := get(router, "/teacher", cookie)
	assert.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, "Izin menunggu tinjauan")
	assert.Contains(t, body, "Keterlambatan per Hari")
}

func TestTeacherReviewPermissionFlow(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "ratna", "guru123")

	// p1 is the seeded pending request
	recorder := postForm(router, "/teacher/permissions/review", url.Values{
		"permissionId": {"p1"},
		"status":       {"approved"},
		"teacherNotes": {"OK"},
	}, cookie)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Location"), "msg=")

	// second review of the same request is refused by the gateway
	again := postForm(router, "/teacher/permissions/review", url.Values{
		"permissionId": {"p1"},
		"status":       {"rejected"},
	}, cookie)
	assert.Contains(t, again.Header().Get("Location"), "err=")
}

func TestTeacherStudentsPage(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "ratna", "guru123")

	recorder := get(router, "/teacher/students", cookie)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "budi")

	filtered := get(router, "/teacher/students?q=tidakada", cookie)
	assert.Contains(t, filtered.Body.String(), "Tidak ada siswa ditemukan")
}

func TestTeacherStudentCRUDFlow(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "ratna", "guru123")

	created := postForm(router, "/teacher/students", url.Values{
		"name":     {"Intan Permata"},
		"username": {"intan"},
		"password": {"rahasia"},
		"class":    {"X-C"},
	}, cookie)
	assert.Equal(t, http.StatusFound, created.Code)
	assert.Contains(t, created.Header().Get("Location"), "msg=")

	page := get(router, "/teacher/students?q=intan", cookie)
	assert.Contains(t, page.Body.String(), "Intan Permata")

	// creating without a password is rejected before the gateway
	missing := postForm(router, "/teacher/students", url.Values{
		"name":     {"Tanpa Sandi"},
		"username": {"tanpasandi"},
	}, cookie)
	assert.Contains(t, missing.Header().Get("Location"), "err=")
}

func TestTeacherLatePageAndSave(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "ratna", "guru123")

	page := get(router, "/teacher/late", cookie)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Catat Keterlambatan")

	saved := postForm(router, "/teacher/late", url.Values{
		"studentId": {"s2"},
		"date":      {"2024-06-03"},
		"time":      {"07:20"},
		"duration":  {"10"},
		"reason":    {"Ban bocor"},
	}, cookie)
	assert.Equal(t, http.StatusFound, saved.Code)
	assert.Contains(t, saved.Header().Get("Location"), "msg=")

	filtered := get(router, "/teacher/late?date=2024-06-03", cookie)
	assert.Contains(t, filtered.Body.String(), "Ban bocor")
}

func TestTeacherExports(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginAs(t, router, "ratna", "guru123")

	csv := get(router, "/teacher/exports/late.csv", cookie)
	assert.Equal(t, http.StatusOK, csv.Code)
	assert.Contains(t, csv.Header().Get("Content-Disposition"), "keterlambatan.csv")
	assert.Contains(t, csv.Body.String(), "Tanggal,Nama,Kelas")

	pdf := get(router, "/teacher/exports/permissions.pdf", cookie)
	assert.Equal(t, http.StatusOK, pdf.Code)
	assert.Equal(t, "application/pdf", pdf.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(pdf.Body.String(), "%PDF"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := get(router, "/metrics", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "goroutines_total")
}
