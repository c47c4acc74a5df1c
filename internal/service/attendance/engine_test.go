package attendance

import (
	"testing"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-15 is a Monday, 2024-01-13 a Saturday.
const (
	testMonday   = "2024-01-15"
	testSaturday = "2024-01-13"
)

func punchAt(date string, hhmm string) attendance.PunchRecord {
	d, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, time.Local)
	if err != nil {
		panic(err)
	}
	return attendance.PunchRecord{
		ID:           date + "T" + hhmm,
		DeviceID:     "device-1",
		DeviceUserID: "42",
		Timestamp:    d,
	}
}

func punches(date string, times ...string) []attendance.PunchRecord {
	out := make([]attendance.PunchRecord, 0, len(times))
	for _, t := range times {
		out = append(out, punchAt(date, t))
	}
	return out
}

func TestProcessDay_PresentOnTime(t *testing.T) {
	summary, err := ProcessDay("user-1", testMonday, punches(testMonday, "08:50", "18:20"), attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.Equal(t, "user-1", summary.UserID)
	assert.Equal(t, testMonday, summary.Date)
	require.NotNil(t, summary.CheckInTime)
	require.NotNil(t, summary.CheckOutTime)
	assert.Equal(t, "08:50", *summary.CheckInTime)
	assert.Equal(t, "18:20", *summary.CheckOutTime)
	assert.False(t, summary.IsIncomplete)
	assert.Equal(t, 0, summary.LateMinutes)
	assert.Equal(t, 0, summary.EarlyMinutes)
	assert.Equal(t, attendance.StatusPresent, summary.Status)
	assert.Empty(t, summary.Flags)
}

func TestProcessDay_LateCheckIn(t *testing.T) {
	summary, err := ProcessDay("user-1", testMonday, punches(testMonday, "09:20", "18:20"), attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.Equal(t, 5, summary.LateMinutes)
	assert.Equal(t, attendance.StatusLate, summary.Status)
}

func TestProcessDay_LateMinutesFormula(t *testing.T) {
	rules := attendance.DefaultRules()
	rules.WorkStartTime = "08:00"
	rules.LateGracePeriod = 10

	cases := []struct {
		checkIn string
		want    int
	}{
		{"07:45", 0},
		{"08:10", 0}, // exactly at start + grace
		{"08:11", 1},
		{"08:40", 30},
	}
	for _, c := range cases {
		summary, err := ProcessDay("u", testMonday, punches(testMonday, c.checkIn, "18:00"), rules, false)
		require.NoError(t, err)
		assert.Equal(t, c.want, summary.LateMinutes, "check-in %s", c.checkIn)
	}
}

func TestProcessDay_EarlyMinutesFormula(t *testing.T) {
	rules := attendance.DefaultRules()
	rules.WorkEndTime = "17:00"
	rules.EarlyLeaveGracePeriod = 10

	cases := []struct {
		checkOut string
		want     int
	}{
		{"17:30", 0},
		{"16:50", 0}, // exactly at end - grace
		{"16:49", 1},
		{"16:00", 50},
	}
	for _, c := range cases {
		summary, err := ProcessDay("u", testMonday, punches(testMonday, "08:00", c.checkOut), rules, false)
		require.NoError(t, err)
		assert.Equal(t, c.want, summary.EarlyMinutes, "check-out %s", c.checkOut)
		if c.want > 0 {
			assert.Equal(t, attendance.StatusEarlyLeave, summary.Status)
		}
	}
}

func TestProcessDay_FirstAndLastPunchWin(t *testing.T) {
	// Deliberately unsorted, with intermediate scans.
	input := punches(testMonday, "13:05", "18:30", "08:55", "12:10")

	summary, err := ProcessDay("u", testMonday, input, attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.Equal(t, "08:55", *summary.CheckInTime)
	assert.Equal(t, "18:30", *summary.CheckOutTime)
	assert.False(t, summary.IsIncomplete)
	assert.Equal(t, []string{attendance.FlagMultiplePunches}, summary.Flags)
	assert.Equal(t, attendance.StatusPresent, summary.Status)
}

func TestProcessDay_TwoPunchesNoMultipleFlag(t *testing.T) {
	summary, err := ProcessDay("u", testMonday, punches(testMonday, "09:00", "18:00"), attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.NotContains(t, summary.Flags, attendance.FlagMultiplePunches)
}

func TestProcessDay_SinglePunchCheckIn(t *testing.T) {
	summary, err := ProcessDay("u", testMonday, punches(testMonday, "09:30"), attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.True(t, summary.IsIncomplete)
	require.NotNil(t, summary.CheckInTime)
	assert.Equal(t, "09:30", *summary.CheckInTime)
	assert.Nil(t, summary.CheckOutTime)
	assert.Equal(t, 15, summary.LateMinutes)
	assert.Equal(t, 0, summary.EarlyMinutes)
	assert.Contains(t, summary.Flags, attendance.FlagSinglePunchCheckIn)
	assert.Equal(t, attendance.StatusIncomplete, summary.Status)
}

func TestProcessDay_SinglePunchCheckOut(t *testing.T) {
	summary, err := ProcessDay("u", testMonday, punches(testMonday, "17:00"), attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.True(t, summary.IsIncomplete)
	assert.Nil(t, summary.CheckInTime)
	require.NotNil(t, summary.CheckOutTime)
	assert.Equal(t, "17:00", *summary.CheckOutTime)
	assert.Equal(t, 0, summary.LateMinutes)
	assert.Equal(t, 45, summary.EarlyMinutes)
	assert.Contains(t, summary.Flags, attendance.FlagSinglePunchCheckOut)
	assert.Equal(t, attendance.StatusIncomplete, summary.Status)
}

func TestProcessDay_NoonThreshold(t *testing.T) {
	rules := attendance.DefaultRules()

	before, err := ProcessDay("u", testMonday, punches(testMonday, "11:59"), rules, false)
	require.NoError(t, err)
	assert.NotNil(t, before.CheckInTime)
	assert.Nil(t, before.CheckOutTime)

	at, err := ProcessDay("u", testMonday, punches(testMonday, "12:00"), rules, false)
	require.NoError(t, err)
	assert.Nil(t, at.CheckInTime)
	assert.NotNil(t, at.CheckOutTime)
}

func TestProcessDay_NoonThresholdIgnoresNarrowWindow(t *testing.T) {
	rules := attendance.DefaultRules()
	rules.CheckInWindowEnd = "10:00"

	// 11:30 is a check-in candidate by the noon split and falls outside the check-in window.
	summary, err := ProcessDay("u", testMonday, punches(testMonday, "11:30", "18:00"), rules, false)

	require.NoError(t, err)
	assert.Nil(t, summary.CheckInTime)
	require.NotNil(t, summary.CheckOutTime)
	assert.Equal(t, "18:00", *summary.CheckOutTime)
	assert.True(t, summary.IsIncomplete)
}

func TestProcessDay_OutOfWindowPunchIsIgnored(t *testing.T) {
	rules := attendance.DefaultRules()

	with, err := ProcessDay("u", testMonday, punches(testMonday, "03:00", "08:50", "18:20"), rules, false)
	require.NoError(t, err)
	without, err := ProcessDay("u", testMonday, punches(testMonday, "08:50", "18:20"), rules, false)
	require.NoError(t, err)

	assert.Equal(t, without, with)
}

func TestProcessDay_OnlyOutOfWindowPunchesIsAbsent(t *testing.T) {
	summary, err := ProcessDay("u", testMonday, punches(testMonday, "03:00", "05:59"), attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.Nil(t, summary.CheckInTime)
	assert.Nil(t, summary.CheckOutTime)
	assert.False(t, summary.IsIncomplete)
	assert.Equal(t, attendance.StatusAbsent, summary.Status)
}

func TestProcessDay_ZeroPunches(t *testing.T) {
	summary, err := ProcessDay("u", testMonday, nil, attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.Nil(t, summary.CheckInTime)
	assert.Nil(t, summary.CheckOutTime)
	assert.False(t, summary.IsIncomplete)
	assert.Zero(t, summary.LateMinutes)
	assert.Zero(t, summary.EarlyMinutes)
	assert.Equal(t, attendance.StatusAbsent, summary.Status)
	assert.NotNil(t, summary.Flags)
}

func TestProcessDay_HolidayWinsOverEverything(t *testing.T) {
	// single late punch: incomplete with late minutes, still a holiday
	summary, err := ProcessDay("u", testMonday, punches(testMonday, "09:45"), attendance.DefaultRules(), true)

	require.NoError(t, err)
	assert.Equal(t, 30, summary.LateMinutes)
	assert.True(t, summary.IsIncomplete)
	assert.Equal(t, attendance.StatusHoliday, summary.Status)

	summary, err = ProcessDay("u", testSaturday, nil, attendance.DefaultRules(), true)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, summary.Status)
}

func TestProcessDay_NonWorkdayIsWeekend(t *testing.T) {
	summary, err := ProcessDay("u", testSaturday, punches(testSaturday, "10:00", "14:00"), attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.Equal(t, "10:00", *summary.CheckInTime)
	assert.Equal(t, attendance.StatusWeekend, summary.Status)
}

func TestProcessDay_LateBeatsEarlyLeave(t *testing.T) {
	summary, err := ProcessDay("u", testMonday, punches(testMonday, "10:00", "15:00"), attendance.DefaultRules(), false)

	require.NoError(t, err)
	assert.Greater(t, summary.LateMinutes, 0)
	assert.Greater(t, summary.EarlyMinutes, 0)
	assert.Equal(t, attendance.StatusLate, summary.Status)
}

func TestProcessDay_EmptyWorkdaysIsAlwaysWeekend(t *testing.T) {
	rules := attendance.DefaultRules()
	rules.Workdays = nil

	summary, err := ProcessDay("u", testMonday, punches(testMonday, "08:00", "18:00"), rules, false)

	require.NoError(t, err)
	assert.Equal(t, attendance.StatusWeekend, summary.Status)
}

func TestProcessDay_InvalidRules(t *testing.T) {
	rules := attendance.DefaultRules()
	rules.WorkStartTime = "9am"
	rules.LateGracePeriod = -5

	_, err := ProcessDay("u", testMonday, nil, rules, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "work_start_time")
	assert.Contains(t, err.Error(), "late_grace_period")
}

func TestProcessDay_InvalidDate(t *testing.T) {
	_, err := ProcessDay("u", "15/01/2024", nil, attendance.DefaultRules(), false)

	assert.ErrorIs(t, err, attendance.ErrInvalidDate)
}

func TestIsWorkday(t *testing.T) {
	rules := attendance.DefaultRules()

	assert.True(t, IsWorkday(testMonday, rules))
	assert.False(t, IsWorkday(testSaturday, rules))
	assert.False(t, IsWorkday("2024-01-14", rules)) // Sunday
	assert.False(t, IsWorkday("not-a-date", rules))

	rules.Workdays = []int{0}
	assert.True(t, IsWorkday("2024-01-14", rules))
}

func TestEngine_UsesHolidayChecker(t *testing.T) {
	holidays := attendance.NewHolidaySet([]attendance.Holiday{{Date: testMonday}})
	engine, err := NewEngine(attendance.DefaultRules(), holidays)
	require.NoError(t, err)

	summary, err := engine.ProcessDay("u", testMonday, punches(testMonday, "08:50", "18:20"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, summary.Status)

	summary, err = engine.ProcessDay("u", "2024-01-16", punches("2024-01-16", "08:50", "18:20"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, summary.Status)
}

func TestEngine_NilHolidayCheckerMeansNoHolidays(t *testing.T) {
	engine, err := NewEngine(attendance.DefaultRules(), nil)
	require.NoError(t, err)

	summary, err := engine.ProcessDay("u", testMonday, nil)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, summary.Status)
}

func TestEngine_SetRules(t *testing.T) {
	engine, err := NewEngine(attendance.DefaultRules(), attendance.NoHolidays)
	require.NoError(t, err)

	stricter := attendance.DefaultRules()
	stricter.LateGracePeriod = 0
	require.NoError(t, engine.SetRules(stricter))

	summary, err := engine.ProcessDay("u", testMonday, punches(testMonday, "09:05", "18:00"))
	require.NoError(t, err)
	assert.Equal(t, 5, summary.LateMinutes)

	// invalid rules are rejected and the previous ones stay active
	broken := attendance.DefaultRules()
	broken.WorkEndTime = "25:00"
	assert.ErrorIs(t, engine.SetRules(broken), attendance.ErrInvalidConfiguration)
	assert.Equal(t, 0, engine.Rules().LateGracePeriod)
}

func TestEngine_RulesReturnsCopy(t *testing.T) {
	engine, err := NewEngine(attendance.DefaultRules(), nil)
	require.NoError(t, err)

	rules := engine.Rules()
	rules.Workdays[0] = 6

	assert.True(t, engine.IsWorkday(testMonday))
}

func TestNewEngine_InvalidRules(t *testing.T) {
	rules := attendance.DefaultRules()
	rules.CheckOutWindowEnd = ""

	engine, err := NewEngine(rules, nil)

	assert.Nil(t, engine)
	assert.ErrorIs(t, err, attendance.ErrInvalidConfiguration)
}
