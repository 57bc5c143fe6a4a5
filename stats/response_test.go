package stats_test

import (
	"testing"

	"github.com/aeroproject/aerobot/stats"
	"github.com/stretchr/testify/assert"
)

func TestResponseDefaultsWhenEmpty(t *testing.T) {
	r := stats.Response{}

	assert.Equal(t, int64(0), r.Online())
	assert.Equal(t, int64(0), r.TTLMillis())
	assert.Equal(t, int64(0), r.TTLSeconds())
	assert.Equal(t, stats.Counters{}, r.Counters())
}

func TestResponseWithNullsAndWrongTypes(t *testing.T) {
	r := stats.Response{"online": nil, "ttlMs": "abc", "stats": "not an object"}

	assert.Equal(t, int64(0), r.Online())
	assert.Equal(t, int64(0), r.TTLSeconds())
	assert.Equal(t, stats.Counters{}, r.Counters())
}

func TestResponseCounters(t *testing.T) {
	r := stats.Response{"online": float64(5), "ttlMs": float64(45000), "stats": map[string]interface{}{
		"uniqueUsers": float64(1000),
		"totalStarts": float64(10),
		"totalStops":  nil,
		"lastStartAt": float64(1700000000000),
	}}

	c := r.Counters()
	assert.Equal(t, int64(5), r.Online())
	assert.Equal(t, int64(45000), r.TTLMillis())
	assert.Equal(t, int64(45), r.TTLSeconds())
	assert.Equal(t, int64(1000), c.UniqueUsers)
	assert.Equal(t, int64(10), c.TotalStarts)
	assert.Equal(t, int64(0), c.TotalStops)
	assert.Equal(t, float64(1700000000000), c.LastStartAt)
	assert.Nil(t, c.LastStopAt)
}

func TestTTLSecondsRounding(t *testing.T) {
	assert.Equal(t, int64(30), stats.Response{"ttlMs": float64(30000)}.TTLSeconds())
	assert.Equal(t, int64(2), stats.Response{"ttlMs": float64(1500)}.TTLSeconds())
	assert.Equal(t, int64(1), stats.Response{"ttlMs": float64(1499)}.TTLSeconds())
	assert.Equal(t, int64(0), stats.Response{"ttlMs": float64(499)}.TTLSeconds())
}

func TestResponseOutOfRangeNumbers(t *testing.T) {
	r := stats.Response{"online": float64(1e19), "ttlMs": float64(1e300), "stats": map[string]interface{}{
		"uniqueUsers": float64(-1e19),
		"totalStarts": float64(9223372036854775807),
		"totalStops":  float64(4611686018427387904),
	}}

	c := r.Counters()
	assert.Equal(t, int64(0), r.Online())
	assert.Equal(t, int64(0), r.TTLSeconds())
	assert.Equal(t, int64(0), c.UniqueUsers)
	assert.Equal(t, int64(0), c.TotalStarts)
	assert.Equal(t, int64(4611686018427387904), c.TotalStops)
}
