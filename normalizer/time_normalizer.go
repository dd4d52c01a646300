package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Absolute formats tried in order before falling back to dateparse. RubyDate
// is the format the mobile API emits for older posts.
var absoluteTimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RubyDate,
}

var (
	digitRunRe    = regexp.MustCompile(`\d+`)
	monthDayRe    = regexp.MustCompile(`^(\d{2})-(\d{2})$`)
	relativeUnits = []struct {
		marker string
		unit   time.Duration
	}{
		{"分钟前", time.Minute},
		{"小时前", time.Hour},
		{"天前", 24 * time.Hour},
	}
)

// TimeNormalizer converts the mixed absolute/relative timestamp strings of
// search-result payloads into absolute instants. Parsing never fails: an
// unrecognized string resolves to the reference now.
type TimeNormalizer struct {
	// Now supplies the reference instant. Defaults to time.Now.
	Now func() time.Time
	// Location used for absolute formats without zone information.
	Location *time.Location
}

func NewTimeNormalizer() *TimeNormalizer {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		loc = time.FixedZone("CST", 8*3600)
	}
	return &TimeNormalizer{Now: time.Now, Location: loc}
}

// Parse resolves a raw time string into an absolute instant.
func (n *TimeNormalizer) Parse(raw string) time.Time {
	now := n.now()
	if raw == "" {
		return now
	}

	if containsAny(raw, "刚刚", "刚才") {
		return now
	}

	for _, rel := range relativeUnits {
		if !containsAny(raw, rel.marker) {
			continue
		}
		count := int64(1)
		if digits := digitRunRe.FindString(raw); digits != "" {
			if v, err := strconv.ParseInt(digits, 10, 64); err == nil {
				count = v
			}
		}
		return now.Add(-time.Duration(count) * rel.unit)
	}

	// Month-day strings like "03-18" refer to the current year.
	if m := monthDayRe.FindStringSubmatch(raw); m != nil {
		raw = fmt.Sprintf("%d-%s-%s", now.Year(), m[1], m[2])
	}

	for _, format := range absoluteTimeFormats {
		if t, err := time.ParseInLocation(format, raw, n.location()); err == nil {
			return t
		}
	}
	if t, err := dateparse.ParseIn(raw, n.location()); err == nil {
		return t
	}

	return now
}

// Standardize renders an absolute instant as a canonical ISO-8601 string.
func (n *TimeNormalizer) Standardize(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Relativize renders an absolute instant as a human string using the same
// unit boundaries as Parse: <1min, <60min, <24h, <7d, else calendar date.
func (n *TimeNormalizer) Relativize(t time.Time) string {
	elapsed := n.now().Sub(t)
	switch {
	case elapsed < time.Minute:
		return "刚刚"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d分钟前", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d小时前", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%d天前", int(elapsed.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

func (n *TimeNormalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n *TimeNormalizer) location() *time.Location {
	if n.Location != nil {
		return n.Location
	}
	return time.Local
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
