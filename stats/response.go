package stats

import (
	"math"

	"github.com/spf13/cast"
)

// Fields of the stats payload
const (
	onlineField      = "online"
	ttlMillisField   = "ttlMs"
	statsField       = "stats"
	uniqueUsersField = "uniqueUsers"
	totalStartsField = "totalStarts"
	totalStopsField  = "totalStops"
	lastStartAtField = "lastStartAt"
	lastStopAtField  = "lastStopAt"
)

// Response is the stats payload as returned by the stats endpoint. No schema is enforced:
// absent, null or mistyped fields read as their zero value
type Response map[string]interface{}

// Counters holds the nested stats of a Response
type Counters struct {
	UniqueUsers int64
	TotalStarts int64
	TotalStops  int64

	// LastStartAt and LastStopAt are kept raw (epoch milliseconds, nil when absent) since
	// they're rendered with FormatTimestamp
	LastStartAt interface{}
	LastStopAt  interface{}
}

// Online returns the number of online clients or 0
func (r Response) Online() int64 {
	return toInt64(r[onlineField])
}

// TTLMillis returns the client session time-to-live in milliseconds or 0
func (r Response) TTLMillis() int64 {
	return toInt64(r[ttlMillisField])
}

// TTLSeconds returns the client session time-to-live rounded to the nearest second
func (r Response) TTLSeconds() int64 {
	ms, err := cast.ToFloat64E(r[ttlMillisField])
	if err != nil {
		return 0
	}

	s, ok := floatToInt64(math.Round(ms / 1000))
	if !ok {
		return 0
	}

	return s
}

// Counters returns the nested stats. A missing or non-object stats value yields zero counters
func (r Response) Counters() (c Counters) {
	s, ok := r[statsField].(map[string]interface{})
	if !ok {
		return c
	}

	c.UniqueUsers = toInt64(s[uniqueUsersField])
	c.TotalStarts = toInt64(s[totalStartsField])
	c.TotalStops = toInt64(s[totalStopsField])
	c.LastStartAt = s[lastStartAtField]
	c.LastStopAt = s[lastStopAtField]

	return c
}

// toInt64 converts a JSON value to an int64, defaulting to 0 when absent or not numeric
func toInt64(v interface{}) int64 {
	if f, ok := v.(float64); ok {
		i, _ := floatToInt64(f)
		return i
	}

	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0
	}

	return i
}

// floatToInt64 truncates f to an int64. NaN and values out of the int64 range give 0 and false
func floatToInt64(f float64) (i int64, ok bool) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}
