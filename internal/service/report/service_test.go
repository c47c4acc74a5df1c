package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type stubUsers struct {
	user.UserRepository
	users      []user.User
	lastFilter user.ListFilter
}

func (s *stubUsers) ListActive(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	s.lastFilter = filter
	return departmentFetcher(s.users)(ctx, &report.Filter{DepartmentID: filter.DepartmentID})
}

func (s *stubUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (s *stubUsers) CountActive(ctx context.Context) (int, error) { return len(s.users), nil }

type stubSummaries struct {
	byUser map[string][]attendance.DailySummary
	err    error
}

func (s *stubSummaries) Upsert(ctx context.Context, sum attendance.DailySummary) (attendance.DailySummary, error) {
	return sum, nil
}

func (s *stubSummaries) ListByUserAndRange(ctx context.Context, userID, start, end string) ([]attendance.DailySummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return mapFetcher(s.byUser)(ctx, userID, start, end)
}

func (s *stubSummaries) ListByDate(ctx context.Context, date string) ([]attendance.DailySummary, error) {
	return nil, nil
}

type stubHolidays struct {
	holidays         []attendance.Holiday
	gotStart, gotEnd string
}

func (s *stubHolidays) ListBetween(ctx context.Context, start, end string) ([]attendance.Holiday, error) {
	s.gotStart, s.gotEnd = start, end
	return s.holidays, nil
}

func (s *stubHolidays) Create(ctx context.Context, h attendance.Holiday) (attendance.Holiday, error) {
	return h, nil
}

func (s *stubHolidays) Delete(ctx context.Context, date string) error { return nil }

type stubRules struct {
	rules attendance.AttendanceRules
}

func (s *stubRules) GetRules(ctx context.Context) (attendance.AttendanceRules, error) {
	return s.rules, nil
}

func (s *stubRules) SaveRules(ctx context.Context, rules attendance.AttendanceRules) error {
	s.rules = rules
	return nil
}

type reportFixture struct {
	users     *stubUsers
	summaries *stubSummaries
	holidays  *stubHolidays
	rules     *stubRules
	svc       *ReportServiceImpl
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		users: &stubUsers{users: testUsers},
		summaries: &stubSummaries{byUser: map[string][]attendance.DailySummary{
			"u1": {
				stored("u1", "2024-01-15", attendance.StatusPresent, strPtr("08:50"), strPtr("18:20"), 0, 0),
				stored("u1", "2024-01-16", attendance.StatusLate, strPtr("09:20"), strPtr("18:00"), 5, 0),
			},
		}},
		holidays: &stubHolidays{holidays: []attendance.Holiday{{Date: "2024-01-19"}}},
		rules:    &stubRules{rules: attendance.DefaultRules()},
	}
	svc := NewReportService(f.users, f.summaries, f.holidays, f.rules, 2, DefaultSpreadsheetStyle())
	f.svc = svc.(*ReportServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2024, 1, 22, 8, 0, 0, 0, time.UTC) }
	return f
}

// ===== WEEKLY =====

func TestReportService_WeeklyReport_NormalizesWeekStart(t *testing.T) {
	f := newReportFixture()

	rep, err := f.svc.WeeklyReport(context.Background(), report.WeeklyReportRequest{WeekStart: "2024-01-18"})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", rep.WeekStart)
	assert.Equal(t, "2024-01-21", rep.WeekEnd)
	assert.Equal(t, "2024-01-22T08:00:00Z", rep.GeneratedAt)
	assert.Equal(t, "2024-01-15", f.holidays.gotStart)
	assert.Equal(t, "2024-01-21", f.holidays.gotEnd)
	require.Len(t, rep.Rows, 3)
	assert.Equal(t, attendance.StatusHoliday, rep.Rows[0].Days[4].Status)
	assert.Equal(t, 2, rep.Rows[0].Summary.DaysPresent)
}

func TestReportService_WeeklyReport_Filter(t *testing.T) {
	f := newReportFixture()
	dept := "eng"

	rep, err := f.svc.WeeklyReport(context.Background(), report.WeeklyReportRequest{
		WeekStart:    "2024-01-15",
		DepartmentID: &dept,
		UserIDs:      []string{"u1"},
	})

	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "u1", rep.Rows[0].User.ID)
	require.NotNil(t, f.users.lastFilter.DepartmentID)
	assert.Equal(t, "eng", *f.users.lastFilter.DepartmentID)
}

func TestReportService_WeeklyReport_ValidationError(t *testing.T) {
	f := newReportFixture()

	_, err := f.svc.WeeklyReport(context.Background(), report.WeeklyReportRequest{WeekStart: "15-01-2024", Format: "pdf"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "week_start")
	assert.Contains(t, verrs.ToMap(), "format")
}

func TestReportService_WeeklyReport_InvalidStoredRules(t *testing.T) {
	f := newReportFixture()
	f.rules.rules.WorkEndTime = "6pm"

	_, err := f.svc.WeeklyReport(context.Background(), report.WeeklyReportRequest{WeekStart: "2024-01-15"})

	assert.ErrorIs(t, err, attendance.ErrInvalidConfiguration)
}

func TestReportService_WeeklyReport_FetchError(t *testing.T) {
	f := newReportFixture()
	f.summaries.err = errors.New("pool exhausted")

	_, err := f.svc.WeeklyReport(context.Background(), report.WeeklyReportRequest{WeekStart: "2024-01-15"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool exhausted")
}

// ===== MONTHLY =====

func TestReportService_MonthlyReport(t *testing.T) {
	f := newReportFixture()

	rep, err := f.svc.MonthlyReport(context.Background(), report.MonthlyReportRequest{Year: 2024, Month: 1})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", rep.PeriodStart)
	assert.Equal(t, "2024-01-31", rep.PeriodEnd)
	require.Len(t, rep.Rows, 3)
	assert.Len(t, rep.Rows[0].DailyDetails, 31)
	// 23 weekdays in January 2024, minus the 19th holiday.
	assert.Equal(t, 22, rep.Rows[0].Summary.TotalWorkingDays)
	assert.Equal(t, 9, rep.Rows[0].Summary.AttendancePercentage)
}

func TestReportService_MonthlyReport_InvalidMonth(t *testing.T) {
	f := newReportFixture()

	_, err := f.svc.MonthlyReport(context.Background(), report.MonthlyReportRequest{Year: 2024, Month: 13})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "month")
}

// ===== EXPORT =====

func TestReportService_ExportWeekly_CSV(t *testing.T) {
	f := newReportFixture()

	file, err := f.svc.ExportWeekly(context.Background(), report.WeeklyReportRequest{WeekStart: "2024-01-17", Format: report.FormatCSV})

	require.NoError(t, err)
	assert.Equal(t, "attendance_weekly_2024-01-15.csv", file.Filename)
	assert.True(t, strings.HasPrefix(file.ContentType, "text/csv"))
	records, err := ParseCSV(string(file.Data))
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestReportService_ExportMonthly_XLSX(t *testing.T) {
	f := newReportFixture()

	file, err := f.svc.ExportMonthly(context.Background(), report.MonthlyReportRequest{Year: 2024, Month: 3, Format: report.FormatXLSX})

	require.NoError(t, err)
	assert.Equal(t, "attendance_monthly_2024-03.xlsx", file.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.ContentType)
	assert.NotEmpty(t, file.Data)
}

func TestReportService_Export_UnsupportedFormat(t *testing.T) {
	f := newReportFixture()

	_, err := f.svc.ExportWeekly(context.Background(), report.WeeklyReportRequest{WeekStart: "2024-01-15", Format: report.FormatJSON})
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)

	_, err = f.svc.ExportMonthly(context.Background(), report.MonthlyReportRequest{Year: 2024, Month: 1})
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
}
