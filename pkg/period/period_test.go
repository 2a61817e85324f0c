package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange("2024-01", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), to)

	// first and last day fall inside, the neighbors do not
	assert.True(t, Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from, to))
	assert.True(t, Contains(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), from, to))
	assert.False(t, Contains(time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), from, to))
	assert.False(t, Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from, to))
}

func TestMonthRangeFebruaryLeapYear(t *testing.T) {
	from, to, err := MonthRange("2024-02", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), to)
	assert.True(t, Contains(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), from, to))
}

func TestMonthRangeInvalid(t *testing.T) {
	for _, bad := range []string{"", "2024", "2024-13", "01-2024", "2024/01"} {
		_, _, err := MonthRange(bad, time.UTC)
		assert.Error(t, err, bad)
	}
}

func TestWeekRangeSundayThroughSaturday(t *testing.T) {
	// 2024-01-17 is a Wednesday
	now := time.Date(2024, 1, 17, 15, 30, 0, 0, time.UTC)
	from, to := WeekRange(now)

	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), from) // Sunday
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), to)  // next Sunday

	assert.True(t, Contains(time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), from, to))
	assert.True(t, Contains(time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC), from, to)) // Saturday
	assert.False(t, Contains(time.Date(2024, 1, 13, 23, 59, 59, 0, time.UTC), from, to))
	assert.False(t, Contains(time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), from, to))
}

func TestWeekRangeOnSunday(t *testing.T) {
	// already a Sunday, the window starts that same day
	now := time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC)
	from, to := WeekRange(now)

	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), to)
}
