package stats

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const (
	// maxErrorBodyLength is the maximum number of bytes of a non-200 body kept for diagnostics
	maxErrorBodyLength = 512
)

// Fetcher is implemented by any value that has the Fetch method. HTTPFetcher is the main
// implementation; FetcherWithTelemetry decorates any Fetcher with metrics
type Fetcher interface {
	// Fetch retrieves the current stats
	Fetch(ctx context.Context) (r Response, err error)
}

// HTTPFetcher fetches stats with a single GET on the stats endpoint. It holds no state
// between calls and is safe for concurrent use
type HTTPFetcher struct {
	url     string
	client  *http.Client
	headers map[string]string
	timeout time.Duration
}

// FetcherOption defines an option for an HTTPFetcher
type FetcherOption func(f *HTTPFetcher)

// OptionHTTPClient sets the http client used to issue requests. Defaults to http.DefaultClient
func OptionHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// OptionHeaders sets headers to send along with every request. None are sent by default
func OptionHeaders(headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// OptionTimeout sets a per-request timeout. A zero value disables the timeout (the default)
func OptionTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

// NewHTTPFetcher creates a new HTTPFetcher for the given stats endpoint url
func NewHTTPFetcher(url string, options ...FetcherOption) (f *HTTPFetcher) {
	f = new(HTTPFetcher)
	f.url = url
	f.client = http.DefaultClient

	for _, opt := range options {
		opt(f)
	}

	return f
}

// URL returns the stats endpoint url
func (f *HTTPFetcher) URL() string {
	return f.url
}

// Fetch issues a GET on the stats endpoint and decodes its JSON body. Only a 200 status is
// a success. A body that's valid JSON but not an object results in an empty Response
func (f *HTTPFetcher) Fetch(ctx context.Context) (r Response, err error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &NetworkError{URL: f.url, Err: err}
	}

	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: f.url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBodyLength)}
	}

	var payload interface{}
	if err = json.Unmarshal(body, &payload); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	if m, ok := payload.(map[string]interface{}); ok {
		return Response(m), nil
	}

	return Response{}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	return s[:maxLen]
}
