// Package epoch converts between calendar days and epoch timestamps.
package epoch

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/osconnect/internal/domain"
)

const (
	// DayLayout is the accepted request date format.
	DayLayout = "2006-01-02"

	// MillisThreshold separates second and millisecond timestamps by magnitude.
	MillisThreshold = 10_000_000_000

	displayLayout = "02-Jan-2006"

	// Representable range: 0001-01-01 through 9999-12-31 in epoch seconds.
	minSeconds = -62135596800
	maxSeconds = 253402300799
)

// DayStart returns 00:00:00.000 UTC of day as epoch milliseconds.
func DayStart(day string) (int64, error) {
	t, err := parseDay(day)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// DayEnd returns 23:59:59.999 UTC of day as epoch milliseconds.
func DayEnd(day string) (int64, error) {
	t, err := parseDay(day)
	if err != nil {
		return 0, err
	}
	return t.Add(24*time.Hour - time.Millisecond).UnixMilli(), nil
}

func parseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, day, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewInvalidDate(day)
	}
	return t, nil
}

// FormatDate renders an epoch timestamp in seconds or milliseconds as DD-MON-YYYY UTC.
// Values that are not numeric, or fall outside years 1-9999, are returned in string form.
func FormatDate(v any) string {
	ts, ok := toFloat(v)
	if !ok || math.IsNaN(ts) || math.IsInf(ts, 0) {
		return stringify(v)
	}
	if ts > MillisThreshold {
		ts /= 1000
	}

	if ts < minSeconds || ts > maxSeconds {
		return stringify(v)
	}

	sec := math.Floor(ts)
	t := time.Unix(int64(sec), int64((ts-sec)*1e9)).UTC()
	return strings.ToUpper(t.Format(displayLayout)) + " UTC"
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
