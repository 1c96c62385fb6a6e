package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the on-disk timestamp format of bookmarks.json.
const TimestampLayout = "2006-01-02T15:04:05Z"

// acceptedLayouts are tried in order when decoding string timestamps.
var acceptedLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is a second-precision UTC instant.
//
// It encodes as "2006-01-02T15:04:05Z" (null when zero) and decodes that
// form, RFC3339, zone-less ISO strings, and the [y,m,d,h,mi,s,nanos]
// array form found in older documents.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the second and converts it to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*t = Timestamp{}
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("invalid timestamp array %s: %w", raw, err)
		}
		parsed, err := fromParts(parts)
		if err != nil {
			return err
		}
		*t = NewTimestamp(parsed)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", raw, err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range acceptedLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = NewTimestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp format: %q", s)
}

// fromParts decodes [year, month, day, hour, minute, second, nanos];
// trailing elements are optional.
func fromParts(parts []int) (time.Time, error) {
	if len(parts) < 3 || len(parts) > 7 {
		return time.Time{}, fmt.Errorf("invalid timestamp array length %d", len(parts))
	}
	p := make([]int, 7)
	copy(p, parts)
	return time.Date(p[0], time.Month(p[1]), p[2], p[3], p[4], p[5], p[6], time.UTC), nil
}
