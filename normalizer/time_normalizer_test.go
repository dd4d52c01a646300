package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClockNormalizer(t *testing.T) (*TimeNormalizer, time.Time) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	now := time.Date(2024, 3, 18, 12, 0, 0, 0, loc)
	return &TimeNormalizer{Now: func() time.Time { return now }, Location: loc}, now
}

func TestParseRelativeTimes(t *testing.T) {
	n, now := fixedClockNormalizer(t)

	assert.Equal(t, now, n.Parse("刚刚"))
	assert.Equal(t, now, n.Parse("刚才"))
	assert.Equal(t, now.Add(-3*time.Minute), n.Parse("3分钟前"))
	assert.Equal(t, now.Add(-2*time.Hour), n.Parse("2小时前"))
	assert.Equal(t, now.Add(-24*time.Hour), n.Parse("1天前"))
}

func TestParseRelativeTimeWithoutDigitsDefaultsToOne(t *testing.T) {
	n, now := fixedClockNormalizer(t)
	assert.Equal(t, now.Add(-time.Minute), n.Parse("分钟前"))
}

func TestParseAbsoluteTimes(t *testing.T) {
	n, now := fixedClockNormalizer(t)

	parsed := n.Parse("2024-03-17 08:30:15")
	assert.Equal(t, time.Date(2024, 3, 17, 8, 30, 15, 0, now.Location()), parsed)

	parsed = n.Parse("2024-03-17")
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, now.Location()), parsed)
}

func TestParseMonthDayAssumesCurrentYear(t *testing.T) {
	n, now := fixedClockNormalizer(t)
	parsed := n.Parse("03-17")
	assert.Equal(t, time.Date(now.Year(), 3, 17, 0, 0, 0, 0, now.Location()), parsed)
}

func TestParseUnrecognizedFallsBackToNow(t *testing.T) {
	n, now := fixedClockNormalizer(t)
	assert.Equal(t, now, n.Parse("某个神秘时刻"))
	assert.Equal(t, now, n.Parse(""))
}

func TestStandardize(t *testing.T) {
	n, now := fixedClockNormalizer(t)
	assert.Equal(t, "2024-03-18T12:00:00+08:00", n.Standardize(now))
}

func TestRelativize(t *testing.T) {
	n, now := fixedClockNormalizer(t)

	assert.Equal(t, "刚刚", n.Relativize(now.Add(-10*time.Second)))
	assert.Equal(t, "5分钟前", n.Relativize(now.Add(-5*time.Minute)))
	assert.Equal(t, "3小时前", n.Relativize(now.Add(-3*time.Hour)))
	assert.Equal(t, "2天前", n.Relativize(now.Add(-48*time.Hour)))
	assert.Equal(t, "2024-02-01", n.Relativize(time.Date(2024, 2, 1, 8, 0, 0, 0, now.Location())))
}
