package stats_test

import (
	"testing"

	"github.com/aeroproject/aerobot/stats"
	"github.com/stretchr/testify/assert"
)

func TestResolveURL(t *testing.T) {
	testCases := []struct {
		name        string
		explicitURL string
		baseURL     string
		expected    string
	}{
		{"explicit url wins over base url", "http://stats.local/custom", "http://api.local", "http://stats.local/custom"},
		{"explicit url returned verbatim", "http://stats.local/custom/", "", "http://stats.local/custom/"},
		{"explicit url not validated", "not a url", "", "not a url"},
		{"base url without trailing slash", "", "http://api.local", "http://api.local/api/client/stats"},
		{"base url with trailing slash", "", "http://api.local/", "http://api.local/api/client/stats"},
		{"base url with many trailing slashes", "", "http://api.local///", "http://api.local/api/client/stats"},
		{"base url with path", "", "https://api.local/v1/", "https://api.local/v1/api/client/stats"},
		{"blank explicit url ignored", "   ", "http://api.local", "http://api.local/api/client/stats"},
		{"nothing configured", "", "", "https://botdisxc.onrender.com/api/client/stats"},
		{"blank everything", " ", "\t", stats.DefaultStatsURL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stats.ResolveURL(tc.explicitURL, tc.baseURL))
		})
	}
}
