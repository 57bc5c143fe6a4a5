package stats

import (
	"strings"
)

const (
	// StatsPath is the path of the stats endpoint relative to the API base URL
	StatsPath = "/api/client/stats"

	// DefaultStatsURL is used when neither an explicit stats URL nor an API base URL is configured
	DefaultStatsURL = "https://botdisxc.onrender.com" + StatsPath
)

// ResolveURL returns the stats endpoint URL. The first match wins:
//  1. explicitStatsURL, unchanged
//  2. baseAPIURL with its trailing slashes removed followed by StatsPath
//  3. DefaultStatsURL
//
// Blank values are considered unset. URLs are not validated: a malformed URL fails on fetch
func ResolveURL(explicitStatsURL string, baseAPIURL string) string {
	if strings.TrimSpace(explicitStatsURL) != "" {
		return explicitStatsURL
	}

	if strings.TrimSpace(baseAPIURL) != "" {
		return strings.TrimRight(baseAPIURL, "/") + StatsPath
	}

	return DefaultStatsURL
}
