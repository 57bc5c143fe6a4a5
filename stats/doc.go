/*
Package stats retrieves the client statistics of the AeroProject heartbeat API and formats
them for chat.

The pipeline is:

	url := stats.ResolveURL(explicitURL, baseAPIURL)
	f := stats.NewHTTPFetcher(url)
	r, err := f.Fetch(ctx)
	text := stats.NewFormatter(stats.LayoutExtended, time.Local).Format(r)

Fetch errors are one of *NetworkError, *HTTPStatusError or *MalformedResponseError.
*/
package stats
