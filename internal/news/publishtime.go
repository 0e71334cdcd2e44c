package news

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// epochMillisCutoff separates epoch seconds from epoch milliseconds
const epochMillisCutoff = 1e12

var publishLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// maxMillis is the largest float that still converts to int64 without overflow
const maxMillis = float64(math.MaxInt64 - 1023)

// PublishTime coerces an opaque provider timestamp to Unix milliseconds.
// Integer strings are epoch seconds, or epoch milliseconds when above 1e12.
// Empty, unparseable, negative, non-finite or out-of-range values are 0 (oldest).
func PublishTime(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		switch {
		case n < 0:
			return 0
		case n > epochMillisCutoff:
			return n
		default:
			return n * 1000
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f <= epochMillisCutoff {
			f *= 1000
		}
		if math.IsNaN(f) || f < 0 || f > maxMillis {
			return 0
		}
		return int64(f)
	}

	for _, layout := range publishLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return max(t.UnixMilli(), 0)
		}
	}
	return 0
}
