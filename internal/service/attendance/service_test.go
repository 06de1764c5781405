package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
)

// ---------------------------------------------------------------------------
// in-memory fakes
// ---------------------------------------------------------------------------

type fakeAttendanceRepo struct {
	rows map[string]attendance.Attendance
	seq  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{rows: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.seq++
	att.ID = fmt.Sprintf("att-%d", f.seq)
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt
	f.rows[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string, companyID string) (attendance.Attendance, error) {
	att, ok := f.rows[id]
	if !ok || att.CompanyID != companyID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeDateDay(_ context.Context, employeeID string, date time.Time, day shift.Weekday, companyID string) (*attendance.Attendance, error) {
	for _, att := range f.rows {
		if att.EmployeeID == employeeID && att.CompanyID == companyID && att.Date.Equal(date) && att.Day == day {
			a := att
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetLatestByEmployee(_ context.Context, employeeID string, companyID string) (attendance.Attendance, error) {
	var latest *attendance.Attendance
	for _, att := range f.rows {
		if att.EmployeeID != employeeID || att.CompanyID != companyID {
			continue
		}
		a := att
		if latest == nil || a.Date.After(latest.Date) || (a.Date.Equal(latest.Date) && a.ID > latest.ID) {
			latest = &a
		}
	}
	if latest == nil {
		return attendance.Attendance{}, attendance.ErrNoOpenAttendance
	}
	return *latest, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, att attendance.Attendance) error {
	if _, ok := f.rows[att.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.rows[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, id string, companyID string) error {
	att, ok := f.rows[id]
	if !ok || att.CompanyID != companyID {
		return attendance.ErrAttendanceNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, att := range f.rows {
		if att.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && att.EmployeeID != *filter.EmployeeID {
			continue
		}
		switch filter.Type {
		case "validated":
			if !att.Validated {
				continue
			}
		case "non-validated":
			if att.Validated {
				continue
			}
		case "ot":
			if !att.Validated || att.OvertimeSeconds < filter.MinOvertimeSeconds {
				continue
			}
		}
		out = append(out, att)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListRequests(_ context.Context, filter attendance.RequestFilter, companyID string) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, att := range f.rows {
		if att.CompanyID != companyID || !att.PendingRequest {
			continue
		}
		if filter.EmployeeID != nil && att.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, att)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListStaleOpen(_ context.Context, before time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.rows {
		if att.ClockOutAt == nil && att.ClockInAt.Before(before) {
			out = append(out, att)
		}
	}
	return out, nil
}

type fakeActivityRepo struct {
	rows map[string]attendance.AttendanceActivity
	seq  int
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{rows: make(map[string]attendance.AttendanceActivity)}
}

func (f *fakeActivityRepo) Create(_ context.Context, activity attendance.AttendanceActivity) (attendance.AttendanceActivity, error) {
	f.seq++
	activity.ID = fmt.Sprintf("act-%d", f.seq)
	f.rows[activity.ID] = activity
	return activity, nil
}

func (f *fakeActivityRepo) GetOpenForUpdate(_ context.Context, employeeID string, companyID string) (attendance.AttendanceActivity, error) {
	var open *attendance.AttendanceActivity
	for _, a := range f.rows {
		if a.EmployeeID != employeeID || a.CompanyID != companyID || a.ClockOutAt != nil {
			continue
		}
		act := a
		if open == nil || act.ClockInAt.After(open.ClockInAt) {
			open = &act
		}
	}
	if open == nil {
		return attendance.AttendanceActivity{}, attendance.ErrNoOpenActivity
	}
	return *open, nil
}

func (f *fakeActivityRepo) Update(_ context.Context, activity attendance.AttendanceActivity) error {
	if _, ok := f.rows[activity.ID]; !ok {
		return attendance.ErrNoOpenActivity
	}
	f.rows[activity.ID] = activity
	return nil
}

func (f *fakeActivityRepo) ListByAttendance(_ context.Context, employeeID string, date time.Time, companyID string) ([]attendance.AttendanceActivity, error) {
	var out []attendance.AttendanceActivity
	for _, a := range f.rows {
		if a.EmployeeID == employeeID && a.CompanyID == companyID && a.AttendanceDate.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) FindMatch(_ context.Context, employeeID string, date time.Time, clockInAt time.Time, companyID string) (*attendance.AttendanceActivity, error) {
	for _, a := range f.rows {
		if a.EmployeeID == employeeID && a.CompanyID == companyID && a.AttendanceDate.Equal(date) && a.ClockInAt.Equal(clockInAt) {
			act := a
			return &act, nil
		}
	}
	return nil, nil
}

type overtimeKey struct {
	employeeID string
	year       int
	month      time.Month
}

type fakeOvertimeRepo struct {
	rows map[overtimeKey]attendance.OvertimeAccount
	seq  int
}

func newFakeOvertimeRepo() *fakeOvertimeRepo {
	return &fakeOvertimeRepo{rows: make(map[overtimeKey]attendance.OvertimeAccount)}
}

func (f *fakeOvertimeRepo) GetForUpdate(_ context.Context, employeeID string, year int, month time.Month, companyID string) (*attendance.OvertimeAccount, error) {
	account, ok := f.rows[overtimeKey{employeeID, year, month}]
	if !ok || account.CompanyID != companyID {
		return nil, nil
	}
	a := account
	return &a, nil
}

func (f *fakeOvertimeRepo) Upsert(_ context.Context, account attendance.OvertimeAccount) (attendance.OvertimeAccount, error) {
	if account.ID == "" {
		f.seq++
		account.ID = fmt.Sprintf("ot-%d", f.seq)
	}
	f.rows[overtimeKey{account.EmployeeID, account.Year, account.Month}] = account
	return account, nil
}

func (f *fakeOvertimeRepo) GetByID(_ context.Context, id string, companyID string) (attendance.OvertimeAccount, error) {
	for _, account := range f.rows {
		if account.ID == id && account.CompanyID == companyID {
			return account, nil
		}
	}
	return attendance.OvertimeAccount{}, attendance.ErrOvertimeAccountNotFound
}

func (f *fakeOvertimeRepo) List(_ context.Context, filter attendance.OvertimeFilter, companyID string) ([]attendance.OvertimeAccount, int64, error) {
	var out []attendance.OvertimeAccount
	for _, account := range f.rows {
		if account.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && account.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, account)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOvertimeRepo) seconds(employeeID string, year int, month time.Month) int {
	return f.rows[overtimeKey{employeeID, year, month}].OvertimeSeconds
}

type fakeLateEarlyRepo struct {
	rows []attendance.LateComeEarlyOut
	seq  int
}

func (f *fakeLateEarlyRepo) Create(_ context.Context, record attendance.LateComeEarlyOut) (attendance.LateComeEarlyOut, error) {
	f.seq++
	record.ID = fmt.Sprintf("le-%d", f.seq)
	f.rows = append(f.rows, record)
	return record, nil
}

func (f *fakeLateEarlyRepo) ExistsForAttendance(_ context.Context, attendanceID string, kind attendance.LateEarlyType) (bool, error) {
	for _, r := range f.rows {
		if r.AttendanceID == attendanceID && r.Type == kind {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLateEarlyRepo) List(_ context.Context, companyID string) ([]attendance.LateComeEarlyOut, error) {
	var out []attendance.LateComeEarlyOut
	for _, r := range f.rows {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLateEarlyRepo) Delete(_ context.Context, id string, _ string) error {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return attendance.ErrLateEarlyNotFound
}

func (f *fakeLateEarlyRepo) flags(attendanceID string) []attendance.LateEarlyType {
	var out []attendance.LateEarlyType
	for _, r := range f.rows {
		if r.AttendanceID == attendanceID {
			out = append(out, r.Type)
		}
	}
	return out
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string, _ string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) List(_ context.Context, _ string) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range f.shifts {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) UpsertDay(_ context.Context, day shift.ShiftDay) (shift.ShiftDay, error) {
	return day, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	workInfos map[string]employee.WorkInfo
	managers  map[string]string
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string, _ string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetActiveWorkInfo(_ context.Context, employeeID string, _ string) (employee.WorkInfo, error) {
	info, ok := f.workInfos[employeeID]
	if !ok {
		return employee.WorkInfo{}, employee.ErrNoWorkInformation
	}
	return info, nil
}

func (f *fakeEmployeeRepo) IsReportingManagerOf(_ context.Context, managerEmployeeID, employeeID string, _ string) (bool, error) {
	return f.managers[employeeID] == managerEmployeeID, nil
}

type fakeNotificationService struct {
	notices []notification.Notice
}

func (f *fakeNotificationService) Notify(_ context.Context, notice notification.Notice) {
	f.notices = append(f.notices, notice)
}

func (f *fakeNotificationService) GetNotifications(_ context.Context, _ string, _, _ int, _ bool) (*notification.NotificationListResponse, error) {
	return &notification.NotificationListResponse{}, nil
}

func (f *fakeNotificationService) GetUnreadCount(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (f *fakeNotificationService) MarkAsRead(_ context.Context, _ string, _ notification.MarkAsReadRequest) error {
	return nil
}

func (f *fakeNotificationService) MarkAllAsRead(_ context.Context, _ string) error { return nil }

func (f *fakeNotificationService) Delete(_ context.Context, _ string, _ string) error { return nil }

func (f *fakeNotificationService) Subscribe(_ context.Context, _ string) (<-chan notification.SSEEvent, func()) {
	ch := make(chan notification.SSEEvent)
	return ch, func() { close(ch) }
}

func (f *fakeNotificationService) Stop() {}

// ---------------------------------------------------------------------------
// fixture
// ---------------------------------------------------------------------------

const (
	testCompanyID  = "company-1"
	testEmployeeID = "employee-1"
	testManagerID  = "manager-1"
)

type fixture struct {
	svc         *AttendanceServiceImpl
	attendances *fakeAttendanceRepo
	activities  *fakeActivityRepo
	overtime    *fakeOvertimeRepo
	lateEarly   *fakeLateEarlyRepo
	notifier    *fakeNotificationService
}

func newFixture(t *testing.T, s shift.Shift) *fixture {
	t.Helper()

	attendances := newFakeAttendanceRepo()
	activities := newFakeActivityRepo()
	overtime := newFakeOvertimeRepo()
	lateEarly := &fakeLateEarlyRepo{}
	notifier := &fakeNotificationService{}

	userID := "user-1"
	managerUserID := "user-m"
	employees := &fakeEmployeeRepo{
		employees: map[string]employee.Employee{
			testEmployeeID: {ID: testEmployeeID, CompanyID: testCompanyID, FullName: "Dina Putri", Email: "dina@example.com", UserID: &userID, IsActive: true},
			testManagerID:  {ID: testManagerID, CompanyID: testCompanyID, FullName: "Raka Wijaya", Email: "raka@example.com", UserID: &managerUserID, IsActive: true},
		},
		workInfos: map[string]employee.WorkInfo{
			testEmployeeID: {ID: "wi-1", EmployeeID: testEmployeeID, ShiftID: s.ID},
		},
		managers: map[string]string{testEmployeeID: testManagerID},
	}

	shifts := &fakeShiftRepo{shifts: map[string]shift.Shift{s.ID: s}}

	passthrough := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}

	svc := &AttendanceServiceImpl{
		AttendanceRepository: attendances,
		ActivityRepository:   activities,
		OvertimeRepository:   overtime,
		LateEarlyRepository:  lateEarly,
		ShiftRepository:      shifts,
		EmployeeRepository:   employees,
		NotificationService:  notifier,
		InTx:                 passthrough,
		MinOvertimeSeconds:   1800,
	}

	return &fixture{
		svc:         svc,
		attendances: attendances,
		activities:  activities,
		overtime:    overtime,
		lateEarly:   lateEarly,
		notifier:    notifier,
	}
}

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func ctxWithClaims(t *testing.T, employeeID, role string) context.Context {
	t.Helper()
	tok, _, err := testTokenAuth.Encode(map[string]interface{}{
		"user_id":     "user-" + role,
		"employee_id": employeeID,
		"company_id":  testCompanyID,
		"role":        role,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

func dayShift() shift.Shift {
	return shift.Shift{
		ID:           "shift-day",
		CompanyID:    testCompanyID,
		Name:         "Office Hours",
		GraceSeconds: 300,
		Days: []shift.ShiftDay{
			{Day: shift.Monday, StartTime: "09:00", EndTime: "17:00", MinimumHours: "08:00"},
			{Day: shift.Tuesday, StartTime: "09:00", EndTime: "17:00", MinimumHours: "08:00"},
		},
	}
}

func nightShift() shift.Shift {
	return shift.Shift{
		ID:           "shift-night",
		CompanyID:    testCompanyID,
		Name:         "Night Watch",
		GraceSeconds: 300,
		Days: []shift.ShiftDay{
			{Day: shift.Monday, StartTime: "22:00", EndTime: "06:00", MinimumHours: "07:00"},
			{Day: shift.Tuesday, StartTime: "22:00", EndTime: "06:00", MinimumHours: "07:00"},
		},
	}
}

func tsPtr(t time.Time) *string {
	s := t.Format(time.RFC3339)
	return &s
}

// ---------------------------------------------------------------------------
// clock events
// ---------------------------------------------------------------------------

func TestClockInAndOutDayShift(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	in := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) // Monday
	resp, err := f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(in)})
	require.NoError(t, err)
	assert.Equal(t, "clocked-in", resp.Status)

	att, err := f.attendances.GetLatestByEmployee(ctx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.True(t, att.IsOpen())
	assert.Equal(t, shift.Monday, att.Day)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), att.Date)
	assert.Empty(t, f.lateEarly.flags(att.ID))

	out := in.Add(9 * time.Hour)
	resp, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(out)})
	require.NoError(t, err)
	assert.Equal(t, "clocked-out", resp.Status)

	att, err = f.attendances.GetByID(ctx, att.ID, testCompanyID)
	require.NoError(t, err)
	assert.False(t, att.IsOpen())
	assert.Equal(t, 9*3600, att.WorkedSeconds)
	assert.Equal(t, 3600, att.OvertimeSeconds)
}

func TestClockInLateComeTolerance(t *testing.T) {
	cases := []struct {
		name     string
		clockIn  time.Time
		wantLate bool
	}{
		{"within grace", time.Date(2025, 3, 3, 9, 5, 0, 0, time.UTC), false},
		{"past grace", time.Date(2025, 3, 3, 9, 20, 0, 0, time.UTC), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, dayShift())
			ctx := ctxWithClaims(t, testEmployeeID, "employee")

			_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(tc.clockIn)})
			require.NoError(t, err)

			att, err := f.attendances.GetLatestByEmployee(ctx, testEmployeeID, testCompanyID)
			require.NoError(t, err)

			flags := f.lateEarly.flags(att.ID)
			if tc.wantLate {
				assert.Equal(t, []attendance.LateEarlyType{attendance.LateCome}, flags)
			} else {
				assert.Empty(t, flags)
			}
		})
	}
}

func TestClockOutEarlyOutFlag(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	in := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(in)})
	require.NoError(t, err)

	out := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(out)})
	require.NoError(t, err)

	att, err := f.attendances.GetLatestByEmployee(ctx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, []attendance.LateEarlyType{attendance.EarlyOut}, f.lateEarly.flags(att.ID))
	assert.Equal(t, 6*3600, att.WorkedSeconds)
	assert.Equal(t, 0, att.OvertimeSeconds)
}

func TestNightShiftFilesUnderPreviousDay(t *testing.T) {
	f := newFixture(t, nightShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	// Monday 23:00 clock-in, Tuesday 06:30 clock-out
	in := time.Date(2025, 3, 3, 23, 0, 0, 0, time.UTC)
	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(in)})
	require.NoError(t, err)

	out := time.Date(2025, 3, 4, 6, 30, 0, 0, time.UTC)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(out)})
	require.NoError(t, err)

	require.Len(t, f.attendances.rows, 1)
	att, err := f.attendances.GetLatestByEmployee(ctx, testEmployeeID, testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), att.Date)
	assert.Equal(t, shift.Monday, att.Day)
	assert.Equal(t, 27000, att.WorkedSeconds)
	assert.Equal(t, 1800, att.OvertimeSeconds)
}

func TestNightShiftClockInAfterMidnightContinuesSameDay(t *testing.T) {
	f := newFixture(t, nightShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	// Break over midnight: both sessions land on Monday's attendance
	firstIn := time.Date(2025, 3, 3, 22, 0, 0, 0, time.UTC)
	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(firstIn)})
	require.NoError(t, err)

	firstOut := time.Date(2025, 3, 4, 1, 0, 0, 0, time.UTC)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(firstOut)})
	require.NoError(t, err)

	secondIn := time.Date(2025, 3, 4, 2, 0, 0, 0, time.UTC)
	_, err = f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(secondIn)})
	require.NoError(t, err)

	secondOut := time.Date(2025, 3, 4, 6, 0, 0, 0, time.UTC)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(secondOut)})
	require.NoError(t, err)

	require.Len(t, f.attendances.rows, 1)
	att, err := f.attendances.GetLatestByEmployee(ctx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, shift.Monday, att.Day)
	assert.Equal(t, 7*3600, att.WorkedSeconds)
}

func TestClockInAfterBreakReopensAttendance(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	in := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(in)})
	require.NoError(t, err)

	breakOut := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(breakOut)})
	require.NoError(t, err)

	backIn := time.Date(2025, 3, 3, 13, 0, 0, 0, time.UTC)
	_, err = f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(backIn)})
	require.NoError(t, err)

	// The row is open again, so its clock-out must read null
	att, err := f.attendances.GetLatestByEmployee(ctx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.Nil(t, att.ClockOutAt)
	assert.True(t, att.IsOpen())

	out := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(out)})
	require.NoError(t, err)

	att, err = f.attendances.GetLatestByEmployee(ctx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.False(t, att.IsOpen())
	assert.Equal(t, 8*3600, att.WorkedSeconds)
	assert.Equal(t, 0, att.OvertimeSeconds)
}

func TestClockOutTwiceSecondObservesNoOpenAttendance(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	in := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{Timestamp: tsPtr(in)})
	require.NoError(t, err)

	out := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)
	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(out)})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, attendance.ClockRequest{Timestamp: tsPtr(out.Add(time.Minute))})
	assert.ErrorIs(t, err, attendance.ErrNoOpenAttendance)

	// Overtime credited once, never doubled
	att, err := f.attendances.GetLatestByEmployee(ctx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 3600, att.OvertimeSeconds)
}

func TestClockOutWithoutAnyAttendance(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	_, err := f.svc.ClockOut(ctx, attendance.ClockRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoOpenAttendance)
}

func TestClockInWithoutWorkInfo(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testManagerID, "manager") // manager has no work info in fixture

	_, err := f.svc.ClockIn(ctx, attendance.ClockRequest{})
	assert.ErrorIs(t, err, employee.ErrNoWorkInformation)
}

// ---------------------------------------------------------------------------
// request workflow
// ---------------------------------------------------------------------------

func TestSubmitCreateRequestAndCancelDeletesRow(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	clockOut := "2025-03-03 17:00:00"
	resp, err := f.svc.SubmitRequest(ctx, attendance.SubmitRequestRequest{
		Date:        "2025-03-03",
		ClockInAt:   "2025-03-03 09:00:00",
		ClockOutAt:  &clockOut,
		Description: "forgot to clock in",
	})
	require.NoError(t, err)
	assert.True(t, resp.PendingRequest)
	assert.Equal(t, string(attendance.RequestTypeCreate), resp.RequestType)

	require.Len(t, f.attendances.rows, 1)

	err = f.svc.CancelRequest(ctx, resp.ID)
	require.NoError(t, err)
	assert.Empty(t, f.attendances.rows)
}

func TestSubmitUpdateRequestLeavesLiveValuesUntouched(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	out := time.Date(2025, 3, 3, 17, 0, 0, 0, time.UTC)
	att, err := f.attendances.Create(ctx, attendance.Attendance{
		EmployeeID:     testEmployeeID,
		CompanyID:      testCompanyID,
		ShiftID:        "shift-day",
		Date:           time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Day:            shift.Monday,
		ClockInAt:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		ClockOutAt:     &out,
		WorkedSeconds:  8 * 3600,
		MinimumSeconds: 8 * 3600,
		Validated:      true,
	})
	require.NoError(t, err)

	newOut := "2025-03-03 18:00:00"
	resp, err := f.svc.SubmitRequest(ctx, attendance.SubmitRequestRequest{
		AttendanceID: &att.ID,
		Date:         "2025-03-03",
		ClockInAt:    "2025-03-03 10:00:00",
		ClockOutAt:   &newOut,
		Description:  "badge reader failed",
	})
	require.NoError(t, err)
	assert.True(t, resp.PendingRequest)

	stored, err := f.attendances.GetByID(ctx, att.ID, testCompanyID)
	require.NoError(t, err)
	// Proposed values are only snapshotted; the live columns stay put
	assert.Equal(t, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), stored.ClockInAt)
	require.NotNil(t, stored.RequestedData)
	assert.Equal(t, attendance.RequestTypeUpdate, stored.RequestType)
}

func TestCancelUpdateRequestKeepsRow(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	att, err := f.attendances.Create(ctx, attendance.Attendance{
		EmployeeID: testEmployeeID,
		CompanyID:  testCompanyID,
		ShiftID:    "shift-day",
		Date:       time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Day:        shift.Monday,
		ClockInAt:  time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	newOut := "2025-03-03 18:00:00"
	_, err = f.svc.SubmitRequest(ctx, attendance.SubmitRequestRequest{
		AttendanceID: &att.ID,
		Date:         "2025-03-03",
		ClockInAt:    "2025-03-03 09:00:00",
		ClockOutAt:   &newOut,
		Description:  "left without badging",
	})
	require.NoError(t, err)

	err = f.svc.CancelRequest(ctx, att.ID)
	require.NoError(t, err)

	stored, err := f.attendances.GetByID(ctx, att.ID, testCompanyID)
	require.NoError(t, err)
	assert.False(t, stored.PendingRequest)
	assert.Nil(t, stored.RequestedData)
	assert.Equal(t, attendance.RequestTypeNone, stored.RequestType)
	// Live clock-in was never touched by the withdrawn proposal
	assert.Equal(t, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), stored.ClockInAt)
}

func TestApproveUpdateRequestAppliesSnapshot(t *testing.T) {
	f := newFixture(t, dayShift())
	employeeCtx := ctxWithClaims(t, testEmployeeID, "employee")
	managerCtx := ctxWithClaims(t, testManagerID, "manager")

	out := time.Date(2025, 3, 3, 17, 0, 0, 0, time.UTC)
	att, err := f.attendances.Create(employeeCtx, attendance.Attendance{
		EmployeeID:     testEmployeeID,
		CompanyID:      testCompanyID,
		ShiftID:        "shift-day",
		Date:           time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Day:            shift.Monday,
		ClockInAt:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		ClockOutAt:     &out,
		WorkedSeconds:  8 * 3600,
		MinimumSeconds: 8 * 3600,
	})
	require.NoError(t, err)

	newOut := "2025-03-03 18:30:00"
	_, err = f.svc.SubmitRequest(employeeCtx, attendance.SubmitRequestRequest{
		AttendanceID: &att.ID,
		Date:         "2025-03-03",
		ClockInAt:    "2025-03-03 09:00:00",
		ClockOutAt:   &newOut,
		Description:  "stayed for release",
	})
	require.NoError(t, err)

	err = f.svc.ApproveRequest(managerCtx, att.ID)
	require.NoError(t, err)

	stored, err := f.attendances.GetByID(managerCtx, att.ID, testCompanyID)
	require.NoError(t, err)
	assert.True(t, stored.Validated)
	assert.True(t, stored.RequestApproved)
	assert.False(t, stored.PendingRequest)
	assert.Nil(t, stored.RequestedData)
	require.NotNil(t, stored.ClockOutAt)
	assert.Equal(t, time.Date(2025, 3, 3, 18, 30, 0, 0, time.UTC), *stored.ClockOutAt)
	assert.Equal(t, 9*3600+1800, stored.WorkedSeconds)
	assert.Equal(t, 3600+1800, stored.OvertimeSeconds)

	// Owner got notified
	require.NotEmpty(t, f.notifier.notices)
	assert.Equal(t, notification.TypeRequestApproved, f.notifier.notices[len(f.notifier.notices)-1].Type)
}

func TestApproveRequestNormalizesNoneClockOut(t *testing.T) {
	f := newFixture(t, dayShift())
	employeeCtx := ctxWithClaims(t, testEmployeeID, "employee")
	managerCtx := ctxWithClaims(t, testManagerID, "manager")

	out := time.Date(2025, 3, 3, 17, 0, 0, 0, time.UTC)
	att, err := f.attendances.Create(employeeCtx, attendance.Attendance{
		EmployeeID:     testEmployeeID,
		CompanyID:      testCompanyID,
		ShiftID:        "shift-day",
		Date:           time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Day:            shift.Monday,
		ClockInAt:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		ClockOutAt:     &out,
		MinimumSeconds: 8 * 3600,
	})
	require.NoError(t, err)

	// Legacy clients serialize an absent clock-out as the string "None"
	noneOut := "None"
	_, err = f.svc.SubmitRequest(employeeCtx, attendance.SubmitRequestRequest{
		AttendanceID: &att.ID,
		Date:         "2025-03-03",
		ClockInAt:    "2025-03-03 09:30:00",
		ClockOutAt:   &noneOut,
		Description:  "clock-out was recorded by mistake",
	})
	require.NoError(t, err)

	err = f.svc.ApproveRequest(managerCtx, att.ID)
	require.NoError(t, err)

	stored, err := f.attendances.GetByID(managerCtx, att.ID, testCompanyID)
	require.NoError(t, err)
	assert.Nil(t, stored.ClockOutAt, "sentinel clock-out must become a real null")
	assert.True(t, stored.IsOpen())

	// Reopened row got a fresh open activity since none matched
	open, err := f.activities.GetOpenForUpdate(managerCtx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC), open.ClockInAt)
}

func TestApproveRequestMovesMatchingActivity(t *testing.T) {
	f := newFixture(t, dayShift())
	employeeCtx := ctxWithClaims(t, testEmployeeID, "employee")
	managerCtx := ctxWithClaims(t, testManagerID, "manager")

	// Open attendance created by a real clock-in
	in := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.ClockIn(employeeCtx, attendance.ClockRequest{Timestamp: tsPtr(in)})
	require.NoError(t, err)

	att, err := f.attendances.GetLatestByEmployee(employeeCtx, testEmployeeID, testCompanyID)
	require.NoError(t, err)

	noneOut := "None"
	_, err = f.svc.SubmitRequest(employeeCtx, attendance.SubmitRequestRequest{
		AttendanceID: &att.ID,
		Date:         "2025-03-04",
		ClockInAt:    "2025-03-04 09:15:00",
		ClockOutAt:   &noneOut,
		Description:  "badged on the wrong day",
	})
	require.NoError(t, err)

	err = f.svc.ApproveRequest(managerCtx, att.ID)
	require.NoError(t, err)

	// The original open activity followed the approved date change
	require.Len(t, f.activities.rows, 1)
	open, err := f.activities.GetOpenForUpdate(managerCtx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), open.AttendanceDate)
	assert.Equal(t, time.Date(2025, 3, 4, 9, 15, 0, 0, time.UTC), open.ClockInAt)
}

func TestApproveRequestRequiresCapability(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	att, err := f.attendances.Create(ctx, attendance.Attendance{
		EmployeeID:     testEmployeeID,
		CompanyID:      testCompanyID,
		PendingRequest: true,
		RequestType:    attendance.RequestTypeUpdate,
	})
	require.NoError(t, err)

	err = f.svc.ApproveRequest(ctx, att.ID)
	assert.ErrorIs(t, err, attendance.ErrPermissionDenied)
}

func TestApproveRequestWithoutPendingRequest(t *testing.T) {
	f := newFixture(t, dayShift())
	managerCtx := ctxWithClaims(t, testManagerID, "manager")

	att, err := f.attendances.Create(managerCtx, attendance.Attendance{
		EmployeeID: testEmployeeID,
		CompanyID:  testCompanyID,
	})
	require.NoError(t, err)

	err = f.svc.ApproveRequest(managerCtx, att.ID)
	assert.ErrorIs(t, err, attendance.ErrNoPendingRequest)
}

// ---------------------------------------------------------------------------
// validation, overtime, delete
// ---------------------------------------------------------------------------

func TestValidateNotifiesEmployee(t *testing.T) {
	f := newFixture(t, dayShift())
	managerCtx := ctxWithClaims(t, testManagerID, "manager")

	att, err := f.attendances.Create(managerCtx, attendance.Attendance{
		EmployeeID: testEmployeeID,
		CompanyID:  testCompanyID,
		Date:       time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	err = f.svc.Validate(managerCtx, att.ID)
	require.NoError(t, err)

	stored, err := f.attendances.GetByID(managerCtx, att.ID, testCompanyID)
	require.NoError(t, err)
	assert.True(t, stored.Validated)

	require.Len(t, f.notifier.notices, 1)
	notice := f.notifier.notices[0]
	assert.Equal(t, notification.TypeAttendanceValidated, notice.Type)
	assert.Equal(t, "user-1", notice.RecipientID)
	assert.Contains(t, notice.Message, "2025-03-03")
	assert.NotEmpty(t, notice.Translations)
}

func TestApproveOvertimeCreditsMonthlyAccount(t *testing.T) {
	f := newFixture(t, dayShift())
	managerCtx := ctxWithClaims(t, testManagerID, "manager")

	att, err := f.attendances.Create(managerCtx, attendance.Attendance{
		EmployeeID:      testEmployeeID,
		CompanyID:       testCompanyID,
		Date:            time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		OvertimeSeconds: 1800,
	})
	require.NoError(t, err)

	err = f.svc.ApproveOvertime(managerCtx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, 1800, f.overtime.seconds(testEmployeeID, 2025, time.March))

	// Idempotent: approving again must not double-credit
	err = f.svc.ApproveOvertime(managerCtx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, 1800, f.overtime.seconds(testEmployeeID, 2025, time.March))
}

func TestDeleteDecrementsApprovedOvertime(t *testing.T) {
	f := newFixture(t, dayShift())
	adminCtx := ctxWithClaims(t, testManagerID, "admin")

	att, err := f.attendances.Create(adminCtx, attendance.Attendance{
		EmployeeID:      testEmployeeID,
		CompanyID:       testCompanyID,
		Date:            time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		OvertimeSeconds: 1800,
	})
	require.NoError(t, err)

	err = f.svc.ApproveOvertime(adminCtx, att.ID)
	require.NoError(t, err)

	other, err := f.attendances.Create(adminCtx, attendance.Attendance{
		EmployeeID:      testEmployeeID,
		CompanyID:       testCompanyID,
		Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		OvertimeSeconds: 900,
	})
	require.NoError(t, err)
	err = f.svc.ApproveOvertime(adminCtx, other.ID)
	require.NoError(t, err)

	require.Equal(t, 2700, f.overtime.seconds(testEmployeeID, 2025, time.March))

	err = f.svc.Delete(adminCtx, att.ID)
	require.NoError(t, err)

	// Exactly this attendance's contribution is removed
	assert.Equal(t, 900, f.overtime.seconds(testEmployeeID, 2025, time.March))
	_, err = f.attendances.GetByID(adminCtx, att.ID, testCompanyID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestDeleteWithoutApprovedOvertimeLeavesAccountAlone(t *testing.T) {
	f := newFixture(t, dayShift())
	adminCtx := ctxWithClaims(t, testManagerID, "admin")

	approved, err := f.attendances.Create(adminCtx, attendance.Attendance{
		EmployeeID:      testEmployeeID,
		CompanyID:       testCompanyID,
		Date:            time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		OvertimeSeconds: 1800,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.ApproveOvertime(adminCtx, approved.ID))

	unapproved, err := f.attendances.Create(adminCtx, attendance.Attendance{
		EmployeeID:      testEmployeeID,
		CompanyID:       testCompanyID,
		Date:            time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		OvertimeSeconds: 2400,
	})
	require.NoError(t, err)

	err = f.svc.Delete(adminCtx, unapproved.ID)
	require.NoError(t, err)

	assert.Equal(t, 1800, f.overtime.seconds(testEmployeeID, 2025, time.March))
}

func TestDeleteRequiresCapability(t *testing.T) {
	f := newFixture(t, dayShift())
	managerCtx := ctxWithClaims(t, testManagerID, "manager")

	att, err := f.attendances.Create(managerCtx, attendance.Attendance{
		EmployeeID: testEmployeeID,
		CompanyID:  testCompanyID,
	})
	require.NoError(t, err)

	err = f.svc.Delete(managerCtx, att.ID)
	assert.ErrorIs(t, err, attendance.ErrPermissionDenied)
}

// ---------------------------------------------------------------------------
// listings
// ---------------------------------------------------------------------------

func TestListRestrictsEmployeesToOwnRows(t *testing.T) {
	f := newFixture(t, dayShift())
	ctx := ctxWithClaims(t, testEmployeeID, "employee")

	_, err := f.attendances.Create(ctx, attendance.Attendance{EmployeeID: testEmployeeID, CompanyID: testCompanyID})
	require.NoError(t, err)
	_, err = f.attendances.Create(ctx, attendance.Attendance{EmployeeID: "someone-else", CompanyID: testCompanyID})
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, testEmployeeID, resp.Attendances[0].EmployeeID)
}

func TestListLateEarlyRestrictsEmployeesToOwnRows(t *testing.T) {
	f := newFixture(t, dayShift())

	_, err := f.lateEarly.Create(context.Background(), attendance.LateComeEarlyOut{
		AttendanceID: "att-1", EmployeeID: testEmployeeID, CompanyID: testCompanyID, Type: attendance.LateCome,
	})
	require.NoError(t, err)
	_, err = f.lateEarly.Create(context.Background(), attendance.LateComeEarlyOut{
		AttendanceID: "att-2", EmployeeID: "employee-2", CompanyID: testCompanyID, Type: attendance.EarlyOut,
	})
	require.NoError(t, err)

	records, err := f.svc.ListLateEarly(ctxWithClaims(t, testEmployeeID, "employee"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testEmployeeID, records[0].EmployeeID)
	assert.Equal(t, string(attendance.LateCome), records[0].Type)

	records, err = f.svc.ListLateEarly(ctxWithClaims(t, testManagerID, "manager"))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDeleteLateEarlyRequiresCapability(t *testing.T) {
	f := newFixture(t, dayShift())

	record, err := f.lateEarly.Create(context.Background(), attendance.LateComeEarlyOut{
		AttendanceID: "att-1", EmployeeID: testEmployeeID, CompanyID: testCompanyID, Type: attendance.LateCome,
	})
	require.NoError(t, err)

	err = f.svc.DeleteLateEarly(ctxWithClaims(t, testEmployeeID, "employee"), record.ID)
	assert.ErrorIs(t, err, attendance.ErrPermissionDenied)
	assert.Len(t, f.lateEarly.rows, 1)

	err = f.svc.DeleteLateEarly(ctxWithClaims(t, testManagerID, "manager"), record.ID)
	require.NoError(t, err)
	assert.Empty(t, f.lateEarly.rows)
}

func TestListOvertimeTypeUsesThreshold(t *testing.T) {
	f := newFixture(t, dayShift())
	managerCtx := ctxWithClaims(t, testManagerID, "manager")

	_, err := f.attendances.Create(managerCtx, attendance.Attendance{
		EmployeeID: testEmployeeID, CompanyID: testCompanyID, Validated: true, OvertimeSeconds: 1800,
	})
	require.NoError(t, err)
	_, err = f.attendances.Create(managerCtx, attendance.Attendance{
		EmployeeID: testEmployeeID, CompanyID: testCompanyID, Validated: true, OvertimeSeconds: 900,
	})
	require.NoError(t, err)

	resp, err := f.svc.List(managerCtx, attendance.AttendanceFilter{Type: "ot"})
	require.NoError(t, err)
	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, "00:30:00", resp.Attendances[0].OvertimeHours)
}
