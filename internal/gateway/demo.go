package gateway

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/models"
)

// DemoGateway is the explicit degraded-mode replacement for the remote
// gateway. It serves a seeded in-memory dataset with working CRUD so the
// application stays demonstrable while the backend is down. It is only
// ever selected through configuration, logged at construction, and every
// page renders a degraded-mode banner while it is active.
type DemoGateway struct {
	mu          sync.Mutex
	users       []models.User
	passwords   map[string]string
	permissions []models.PermissionRequest
	points      []models.DisciplinePoint
	lateRecords []models.LateRecord
	now         func() time.Time
}

// NewDemoGateway seeds the demo dataset.
func NewDemoGateway(logger *zap.Logger) *DemoGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Warn("degraded mode enabled: serving seeded demo data instead of the remote gateway")

	g := &DemoGateway{now: time.Now}
	g.seed()
	return g
}

// Degraded always reports true.
func (g *DemoGateway) Degraded() bool { return true }

func (g *DemoGateway) seed() {
	g.users = []models.User{
		{ID: "t1", Name: "Ibu Ratna Dewi", Username: "ratna", Role: models.RoleTeacher, Subject: "Bimbingan Konseling"},
		{ID: "s1", Name: "Budi Santoso", Username: "budi", Role: models.RoleStudent, Class: "X-A"},
		{ID: "s2", Name: "Siti Nuraini", Username: "siti", Role: models.RoleStudent, Class: "XI-B"},
		{ID: "s3", Name: "Ahmad Hidayat", Username: "ahmad", Role: models.RoleStudent, Class: "XII-C"},
		{ID: "s4", Name: "Dewi Safitri", Username: "dewi", Role: models.RoleStudent, Class: "XI-A"},
		{ID: "s5", Name: "Rudi Hermawan", Username: "rudi", Role: models.RoleStudent, Class: "X-C"},
	}
	g.passwords = map[string]string{
		"ratna": "guru123",
		"budi":  "siswa123",
		"siti":  "siswa123",
		"ahmad": "siswa123",
		"dewi":  "siswa123",
		"rudi":  "siswa123",
	}

	today := g.now()
	day := func(offset int) string { return today.AddDate(0, 0, offset).Format("2006-01-02") }
	stamp := func(offset int) string { return today.AddDate(0, 0, offset).Format(time.RFC3339) }

	g.permissions = []models.PermissionRequest{
		{ID: "p1", StudentID: "s2", StudentName: "Siti Nuraini", StudentClass: "XI-B", Reason: "Sakit", Date: day(0), Time: "08:00", Status: models.StatusPending, Timestamp: stamp(0)},
		{ID: "p2", StudentID: "s1", StudentName: "Budi Santoso", StudentClass: "X-A", Reason: "Acara keluarga", Date: day(-2), Time: "10:30", Status: models.StatusApproved, TeacherNotes: "Disetujui, harap kabari wali kelas", Timestamp: stamp(-2)},
		{ID: "p3", StudentID: "s3", StudentName: "Ahmad Hidayat", StudentClass: "XII-C", Reason: "Urusan administrasi", Date: day(-5), Status: models.StatusRejected, TeacherNotes: "Dokumen tidak lengkap", Timestamp: stamp(-5)},
	}

	g.points = []models.DisciplinePoint{
		{ID: "d1", StudentID: "s1", Violation: "Terlambat masuk kelas", Points: 5, Timestamp: stamp(-3)},
		{ID: "d2", StudentID: "s1", Violation: "Tidak memakai atribut lengkap", Points: 10, Notes: "Upacara Senin", Timestamp: stamp(-10)},
		{ID: "d3", StudentID: "s3", Violation: "Membolos jam pelajaran", Points: 25, Timestamp: stamp(-7)},
	}

	g.lateRecords = []models.LateRecord{
		{ID: "l1", StudentID: "s1", StudentName: "Budi Santoso", StudentClass: "X-A", Date: day(0), Time: "07:45", Duration: 15, Reason: "Transportasi umum terlambat", RecordedBy: "t1", Timestamp: stamp(0)},
		{ID: "l2", StudentID: "s5", StudentName: "Rudi Hermawan", StudentClass: "X-C", Date: day(0), Time: "08:05", Duration: 35, Reason: "Bangun kesiangan", RecordedBy: "t1", Timestamp: stamp(0)},
		{ID: "l3", StudentID: "s1", StudentName: "Budi Santoso", StudentClass: "X-A", Date: day(-1), Time: "07:40", Duration: 10, Reason: "Kemacetan lalu lintas", RecordedBy: "t1", Timestamp: stamp(-1)},
		{ID: "l4", StudentID: "s4", StudentName: "Dewi Safitri", StudentClass: "XI-A", Date: day(-4), Time: "07:50", Duration: 20, Reason: "Hujan lebat", RecordedBy: "t1", Timestamp: stamp(-4)},
	}
}

// Call dispatches an action against the in-memory dataset.
func (g *DemoGateway) Call(_ context.Context, action string, params Params) *Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch action {
	case ActionLogin:
		return g.login(params)
	case ActionGetPermissions:
		return g.getPermissions(params)
	case ActionSubmitPermission:
		return g.submitPermission(params)
	case ActionUpdatePermission:
		return g.updatePermission(params)
	case ActionGetPoints:
		return g.getPoints(params)
	case ActionGetUsers:
		return g.getUsers(params)
	case ActionCreateStudent:
		return g.createStudent(params)
	case ActionUpdateStudent:
		return g.updateStudent(params)
	case ActionDeleteStudent:
		return g.deleteStudent(params)
	case ActionGetLateRecords:
		return g.getLateRecords(params)
	case ActionGetLateRecordByID:
		return g.getLateRecordByID(params)
	case ActionSaveLateRecord, ActionUpdateLateRecord:
		return g.saveLateRecord(params)
	case ActionDeleteLateRecord:
		return g.deleteLateRecord(params)
	case ActionGetLateStatistics:
		return g.getLateStatistics()
	default:
		return &Result{Success: false, Message: "Aksi tidak dikenal: " + action}
	}
}

func (g *DemoGateway) login(params Params) *Result {
	username := params["username"]
	if pw, ok := g.passwords[username]; !ok || pw != params["password"] {
		return &Result{Success: false, Message: "Username atau password salah"}
	}
	for _, u := range g.users {
		if u.Username == username {
			user := u
			return &Result{Success: true, User: &user}
		}
	}
	return &Result{Success: false, Message: "Username atau password salah"}
}

func (g *DemoGateway) getPermissions(params Params) *Result {
	list := make([]models.PermissionRequest, 0, len(g.permissions))
	for _, p := range g.permissions {
		if params["role"] == models.RoleStudent && p.StudentID != params["userId"] {
			continue
		}
		list = append(list, p)
	}
	return &Result{Success: true, Permissions: list}
}

func (g *DemoGateway) submitPermission(params Params) *Result {
	student := g.findUser(params["studentId"])
	if student == nil {
		return &Result{Success: false, Message: "Siswa tidak ditemukan"}
	}
	g.permissions = append(g.permissions, models.PermissionRequest{
		ID:           uuid.NewString(),
		StudentID:    student.ID,
		StudentName:  student.Name,
		StudentClass: student.Class,
		Reason:       params["reason"],
		Date:         params["date"],
		Time:         params["time"],
		Notes:        params["notes"],
		Status:       models.StatusPending,
		Timestamp:    g.now().Format(time.RFC3339),
	})
	return &Result{Success: true, Message: "Permintaan izin berhasil diajukan"}
}

func (g *DemoGateway) updatePermission(params Params) *Result {
	for i := range g.permissions {
		if g.permissions[i].ID != params["permissionId"] {
			continue
		}
		if g.permissions[i].Status != models.StatusPending {
			return &Result{Success: false, Message: "Permintaan izin sudah diproses"}
		}
		g.permissions[i].Status = params["status"]
		g.permissions[i].TeacherNotes = params["teacherNotes"]
		return &Result{Success: true, Message: "Status izin berhasil diperbarui"}
	}
	return &Result{Success: false, Message: "Permintaan izin tidak ditemukan"}
}

func (g *DemoGateway) getPoints(params Params) *Result {
	list := make([]models.DisciplinePoint, 0)
	total := 0
	for _, p := range g.points {
		if p.StudentID == params["studentId"] {
			list = append(list, p)
			total += p.Points
		}
	}
	return &Result{Success: true, Points: list, TotalPoints: total}
}

func (g *DemoGateway) getUsers(params Params) *Result {
	list := make([]models.User, 0, len(g.users))
	for _, u := range g.users {
		if params["role"] != "" && u.Role != params["role"] {
			continue
		}
		list = append(list, u)
	}
	return &Result{Success: true, Users: list}
}

func (g *DemoGateway) createStudent(params Params) *Result {
	for _, u := range g.users {
		if u.Username == params["username"] {
			return &Result{Success: false, Message: "Username sudah digunakan"}
		}
	}
	g.users = append(g.users, models.User{
		ID:       uuid.NewString(),
		Name:     params["name"],
		Username: params["username"],
		Role:     models.RoleStudent,
		Class:    params["class"],
	})
	g.passwords[params["username"]] = params["password"]
	return &Result{Success: true, Message: "Siswa berhasil ditambahkan"}
}

func (g *DemoGateway) updateStudent(params Params) *Result {
	for i := range g.users {
		if g.users[i].ID != params["id"] {
			continue
		}
		g.users[i].Name = params["name"]
		g.users[i].Username = params["username"]
		g.users[i].Class = params["class"]
		if params["password"] != "" {
			g.passwords[params["username"]] = params["password"]
		}
		return &Result{Success: true, Message: "Data siswa berhasil diperbarui"}
	}
	return &Result{Success: false, Message: "Siswa tidak ditemukan"}
}

func (g *DemoGateway) deleteStudent(params Params) *Result {
	for i := range g.users {
		if g.users[i].ID == params["id"] {
			delete(g.passwords, g.users[i].Username)
			g.users = append(g.users[:i], g.users[i+1:]...)
			return &Result{Success: true, Message: "Siswa berhasil dihapus"}
		}
	}
	return &Result{Success: false, Message: "Siswa tidak ditemukan"}
}

func (g *DemoGateway) getLateRecords(params Params) *Result {
	list := make([]models.LateRecord, 0, len(g.lateRecords))
	for _, r := range g.lateRecords {
		if params["date"] != "" && r.Date != params["date"] {
			continue
		}
		list = append(list, r)
	}
	return &Result{Success: true, LateRecords: list}
}

func (g *DemoGateway) getLateRecordByID(params Params) *Result {
	for _, r := range g.lateRecords {
		if r.ID == params["id"] {
			record := r
			return &Result{Success: true, LateRecord: &record}
		}
	}
	return &Result{Success: false, Message: "Catatan keterlambatan tidak ditemukan"}
}

func (g *DemoGateway) saveLateRecord(params Params) *Result {
	student := g.findUser(params["studentId"])
	if student == nil {
		return &Result{Success: false, Message: "Siswa tidak ditemukan"}
	}
	duration := atoiOrZero(params["duration"])

	if id := params["id"]; id != "" {
		for i := range g.lateRecords {
			if g.lateRecords[i].ID != id {
				continue
			}
			g.lateRecords[i].StudentID = student.ID
			g.lateRecords[i].StudentName = student.Name
			g.lateRecords[i].StudentClass = student.Class
			g.lateRecords[i].Date = params["date"]
			g.lateRecords[i].Time = params["time"]
			g.lateRecords[i].Duration = duration
			g.lateRecords[i].Reason = params["reason"]
			return &Result{Success: true, Message: "Data keterlambatan berhasil diperbarui"}
		}
		return &Result{Success: false, Message: "Catatan keterlambatan tidak ditemukan"}
	}

	g.lateRecords = append(g.lateRecords, models.LateRecord{
		ID:           uuid.NewString(),
		StudentID:    student.ID,
		StudentName:  student.Name,
		StudentClass: student.Class,
		Date:         params["date"],
		Time:         params["time"],
		Duration:     duration,
		Reason:       params["reason"],
		RecordedBy:   params["recordedBy"],
		Timestamp:    g.now().Format(time.RFC3339),
	})
	return &Result{Success: true, Message: "Keterlambatan siswa berhasil dicatat"}
}

func (g *DemoGateway) deleteLateRecord(params Params) *Result {
	for i := range g.lateRecords {
		if g.lateRecords[i].ID == params["id"] {
			g.lateRecords = append(g.lateRecords[:i], g.lateRecords[i+1:]...)
			return &Result{Success: true, Message: "Catatan keterlambatan berhasil dihapus"}
		}
	}
	return &Result{Success: false, Message: "Catatan keterlambatan tidak ditemukan"}
}

func (g *DemoGateway) getLateStatistics() *Result {
	counts := make(map[string]*models.FrequentLateStudent)
	byDay := make([]int, 7)
	for _, r := range g.lateRecords {
		entry, ok := counts[r.StudentID]
		if !ok {
			entry = &models.FrequentLateStudent{StudentID: r.StudentID, StudentName: r.StudentName, StudentClass: r.StudentClass}
			counts[r.StudentID] = entry
		}
		entry.Count++
		if t, err := time.Parse("2006-01-02", r.Date); err == nil {
			byDay[int(t.Weekday())]++
		}
	}

	frequent := make([]models.FrequentLateStudent, 0, len(counts))
	for _, entry := range counts {
		frequent = append(frequent, *entry)
	}
	sort.Slice(frequent, func(i, j int) bool {
		if frequent[i].Count != frequent[j].Count {
			return frequent[i].Count > frequent[j].Count
		}
		return frequent[i].StudentName < frequent[j].StudentName
	})

	return &Result{Success: true, Statistics: &models.LateStatistics{
		TotalLate:        len(g.lateRecords),
		FrequentStudents: frequent,
		ByDayOfWeek:      byDay,
	}}
}

func (g *DemoGateway) findUser(id string) *models.User {
	for i := range g.users {
		if g.users[i].ID == id {
			return &g.users[i]
		}
	}
	return nil
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
