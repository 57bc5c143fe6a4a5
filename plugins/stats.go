// Package plugins provides the plugins of the AeroProject bot
package plugins

import (
	"context"
	"fmt"
	"time"

	"github.com/aeroproject/aerobot"
	"github.com/aeroproject/aerobot/actions"
	"github.com/aeroproject/aerobot/config"
	"github.com/aeroproject/aerobot/plugin"
	"github.com/aeroproject/aerobot/schedule"
	"github.com/aeroproject/aerobot/stats"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// StatsPluginName is the name of the stats plugin and of its configuration section
const StatsPluginName = "stats"

// Configuration keys of the stats plugin
const (
	StatsURLKey         = "statsURL"
	APIBaseURLKey       = "apiBaseURL"
	LayoutKey           = "layout"
	TimeoutKey          = "timeout"
	HeadersKey          = "headers"
	TimeLocationKey     = "timeLocation"
	ReportChannelIDsKey = "reportChannelIDs"
	ReportScheduleKey   = "reportSchedule"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultTimeLocation = "Local"

	failedFetchFormat = "Failed to fetch stats: %v"
)

var defaultReportSchedule = schedule.Definition{Interval: 1, Unit: schedule.Days, AtTime: "10:00"}

// StatsReporter fetches the current stats and renders them as a message
type StatsReporter struct {
	fetcher   stats.Fetcher
	formatter *stats.Formatter
	log       aerobot.SLogger
}

// NewStatsReporter creates a new StatsReporter. Fetch failures are logged to log
func NewStatsReporter(fetcher stats.Fetcher, formatter *stats.Formatter, log aerobot.SLogger) (r *StatsReporter) {
	return &StatsReporter{fetcher: fetcher, formatter: formatter, log: log}
}

// Report returns the formatted stats or, when they can't be fetched, a message with the failure
// detail. It never fails
func (r *StatsReporter) Report(ctx context.Context) string {
	resp, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.logFailure(err)
		return fmt.Sprintf(failedFetchFormat, err)
	}

	return r.formatter.Format(resp)
}

func (r *StatsReporter) logFailure(err error) {
	if r.log == nil {
		return
	}

	r.log.Printf("Error fetching stats: %v", err)

	var statusErr *stats.HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.Body != "" {
		r.log.Debugf("Stats endpoint answered [%d] with body [%s]", statusErr.StatusCode, statusErr.Body)
	}
}

// StatsOption defines an option for the stats plugin
type StatsOption func(o *statsOptions)

type statsOptions struct {
	meter metric.Meter
}

// OptionStatsMeter sets the meter recording the stats fetches
func OptionStatsMeter(meter metric.Meter) StatsOption {
	return func(o *statsOptions) {
		o.meter = meter
	}
}

// NewStats creates a new instance of the stats plugin. It answers the stats command and its online alias
// with the current client stats and, if report channels are configured, posts the same report on schedule
func NewStats(c *config.PluginConfig, options ...StatsOption) (p *aerobot.Plugin, err error) {
	opts := statsOptions{meter: noop.NewMeterProvider().Meter(StatsPluginName)}
	for _, opt := range options {
		opt(&opts)
	}

	c.SetDefault(TimeoutKey, defaultTimeout)
	c.SetDefault(TimeLocationKey, defaultTimeLocation)

	layout, err := stats.ParseLayout(c.GetString(LayoutKey))
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(c.GetString(TimeLocationKey))
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid [%s] for plugin [%s]", TimeLocationKey, StatsPluginName)
	}

	fetcher, err := newStatsFetcher(c, opts.meter)
	if err != nil {
		return nil, err
	}

	formatter := stats.NewFormatter(layout, loc)

	b := plugin.New(StatsPluginName)

	// The logger is injected on registration so the reporter picks it up at call time
	report := func() string {
		return NewStatsReporter(fetcher, formatter, p.Logger).Report(context.Background())
	}

	answer := func(m *aerobot.IncomingMessage) *aerobot.Answer {
		return &aerobot.Answer{Text: report()}
	}

	b.WithCommandAliases(actions.NewCommand().
		WithFirstWordMatcher("stats").
		WithUsage("stats").
		WithDescription("Show AeroProject client statistics").
		WithAnswerer(answer).
		Build(), "online")

	if channelIDs := c.GetStringSlice(ReportChannelIDsKey); len(channelIDs) > 0 {
		def := defaultReportSchedule
		if c.IsSet(ReportScheduleKey) {
			if err = c.UnmarshalKey(ReportScheduleKey, &def); err != nil {
				return nil, errors.Wrapf(err, "Invalid [%s] for plugin [%s]", ReportScheduleKey, StatsPluginName)
			}
		}

		if err = def.Validate(); err != nil {
			return nil, errors.Wrapf(err, "Invalid [%s] for plugin [%s]", ReportScheduleKey, StatsPluginName)
		}

		b.WithScheduledAction(actions.NewScheduledAction().
			WithSchedule(def).
			WithDescriptionf("Post client statistics to %d channel(s)", len(channelIDs)).
			WithAction(func(sender aerobot.MessageSender) {
				text := report()

				for _, channelID := range channelIDs {
					if err := sender.SendNewMessage(text, channelID); err != nil && p.Logger != nil {
						p.Logger.Printf("Error posting stats report to channel [%s]: %v", channelID, err)
					}
				}
			}).
			Build())
	}

	p = b.Build()
	return p, nil
}

// newStatsFetcher creates the fetcher for the resolved stats url, decorated with telemetry
func newStatsFetcher(c *config.PluginConfig, meter metric.Meter) (f stats.Fetcher, err error) {
	fetcherOpts := []stats.FetcherOption{stats.OptionTimeout(c.GetDuration(TimeoutKey))}
	if headers := c.GetStringMapString(HeadersKey); len(headers) > 0 {
		fetcherOpts = append(fetcherOpts, stats.OptionHeaders(headers))
	}

	return stats.NewFetcherWithTelemetry(stats.NewHTTPFetcher(StatsURL(c), fetcherOpts...), StatsPluginName, meter)
}

// StatsURL returns the stats url the plugin configuration resolves to
func StatsURL(c *config.PluginConfig) string {
	return stats.ResolveURL(c.GetString(StatsURLKey), c.GetString(APIBaseURLKey))
}
