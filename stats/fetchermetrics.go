package stats

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Error kinds reported as the errorKind attribute of the fetch errors counter
const (
	networkErrorKind   = "network"
	httpStatusErrKind  = "httpStatus"
	malformedErrorKind = "malformed"
	otherErrorKind     = "other"
)

// FetcherWithTelemetry implements Fetcher with calls to the base Fetcher measured with
// open telemetry metrics
type FetcherWithTelemetry struct {
	base           Fetcher
	calls          metric.Int64Counter
	errs           metric.Int64Counter
	latencyMillis  metric.Int64Histogram
	nameAttributes attribute.Set
}

// NewFetcherWithTelemetry returns an instance of the Fetcher decorated with open telemetry timing and count metrics
func NewFetcherWithTelemetry(base Fetcher, name string, meter metric.Meter) (f *FetcherWithTelemetry, err error) {
	f = new(FetcherWithTelemetry)
	f.base = base
	f.nameAttributes = attribute.NewSet(attribute.String("name", name))

	if f.calls, err = meter.Int64Counter("statsFetcher_Fetch_Calls", metric.WithDescription("Number of stats fetches")); err != nil {
		return nil, err
	}

	if f.errs, err = meter.Int64Counter("statsFetcher_Fetch_Errors", metric.WithDescription("Number of failed stats fetches")); err != nil {
		return nil, err
	}

	if f.latencyMillis, err = meter.Int64Histogram("statsFetcher_Fetch_ProcessingTimeMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	return f, nil
}

// Fetch implements Fetcher
func (f *FetcherWithTelemetry) Fetch(ctx context.Context) (r Response, err error) {
	before := time.Now()
	defer func() {
		attrs := metric.WithAttributeSet(f.nameAttributes)

		f.calls.Add(ctx, 1, attrs)
		f.latencyMillis.Record(ctx, time.Since(before).Milliseconds(), attrs)

		if err != nil {
			f.errs.Add(ctx, 1, attrs, metric.WithAttributes(attribute.String("errorKind", errorKind(err))))
		}
	}()

	return f.base.Fetch(ctx)
}

// errorKind classifies a fetch error for reporting
func errorKind(err error) string {
	var netErr *NetworkError
	var statusErr *HTTPStatusError
	var malformedErr *MalformedResponseError

	switch {
	case errors.As(err, &netErr):
		return networkErrorKind
	case errors.As(err, &statusErr):
		return httpStatusErrKind
	case errors.As(err, &malformedErr):
		return malformedErrorKind
	}

	return otherErrorKind
}
