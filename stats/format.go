package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Placeholder is rendered in place of an absent timestamp
const Placeholder = "—"

// timestampLayout renders as DD.MM.YYYY HH:MM:SS
const timestampLayout = "02.01.2006 15:04:05"

var (
	minTimestampMillis = float64(time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	maxTimestampMillis = float64(time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).UnixMilli())
)

// Layout identifies a stats message layout
type Layout string

// Layouts
const (
	// LayoutMinimal renders the unique users and online counts
	LayoutMinimal Layout = "minimal"

	// LayoutExtended renders the online count with its ttl, the start/stop totals and the
	// last start/stop times. This is the default layout
	LayoutExtended Layout = "extended"
)

// ParseLayout returns the Layout matching name (case-insensitive). An empty name is the
// extended layout
func ParseLayout(name string) (l Layout, err error) {
	switch Layout(strings.ToLower(strings.TrimSpace(name))) {
	case "", LayoutExtended:
		return LayoutExtended, nil
	case LayoutMinimal:
		return LayoutMinimal, nil
	}

	return "", fmt.Errorf("Unknown stats layout [%s], must be one of [%s, %s]", name, LayoutMinimal, LayoutExtended)
}

// Formatter renders a Response as a chat message
type Formatter struct {
	layout Layout
	loc    *time.Location
}

// NewFormatter creates a new Formatter rendering with the given layout and timestamps in loc.
// A nil loc renders timestamps in local time
func NewFormatter(layout Layout, loc *time.Location) (f *Formatter) {
	f = new(Formatter)
	f.layout = layout
	f.loc = loc
	if f.loc == nil {
		f.loc = time.Local
	}

	return f
}

// Format renders the response. Every field is always rendered, using its default when absent
func (f *Formatter) Format(r Response) string {
	c := r.Counters()

	if f.layout == LayoutMinimal {
		return fmt.Sprintf("AeroProject\n"+
			"Всего пользователей запустивших клиент: %d\n"+
			"Онлайн сейчас: %d", c.UniqueUsers, r.Online())
	}

	return fmt.Sprintf("AeroProject stats\n"+
		"Online clients: %d (ttl %ds)\n"+
		"Total starts: %d\n"+
		"Total stops: %d\n"+
		"Last start: %s\n"+
		"Last stop: %s",
		r.Online(), r.TTLSeconds(), c.TotalStarts, c.TotalStops, FormatTimestampIn(c.LastStartAt, f.loc), FormatTimestampIn(c.LastStopAt, f.loc))
}

// FormatTimestamp renders epoch milliseconds as a local DD.MM.YYYY HH:MM:SS time. See FormatTimestampIn
func FormatTimestamp(v interface{}) string {
	return FormatTimestampIn(v, time.Local)
}

// FormatTimestampIn renders epoch milliseconds as DD.MM.YYYY HH:MM:SS in loc. Absent values
// (nil, 0, false or "") render as Placeholder. Values that can't be converted to a time
// render as their raw string form rather than failing
func FormatTimestampIn(v interface{}, loc *time.Location) string {
	if isAbsent(v) {
		return Placeholder
	}

	ms, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(ms) || ms < minTimestampMillis || ms > maxTimestampMillis {
		return rawString(v)
	}

	t := time.UnixMilli(int64(ms)).In(loc)
	if t.Year() < 1 || t.Year() > 9999 {
		return rawString(v)
	}

	return t.Format(timestampLayout)
}

// isAbsent returns true for the values that mean "no timestamp"
func isAbsent(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	}

	f, err := cast.ToFloat64E(v)

	return err == nil && f == 0
}

func rawString(v interface{}) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return s
}
