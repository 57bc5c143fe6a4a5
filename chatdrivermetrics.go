package aerobot

import (
	"context"
	"time"

	"github.com/slack-go/slack"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// chatDriverWithTelemetry implements chatDriver interface with all methods wrapped
// with open telemetry metrics
type chatDriverWithTelemetry struct {
	base              chatDriver
	methodCounters    map[string]metric.Int64Counter
	errCounters       map[string]metric.Int64Counter
	methodHistograms  map[string]metric.Int64Histogram
	defaultAttributes metric.MeasurementOption
}

var chatDriverMethods = []string{"DeleteMessage", "SendMessage", "UpdateMessage"}

// newChatDriverWithTelemetry returns an instance of the chatDriver decorated with open telemetry timing and count metrics
func newChatDriverWithTelemetry(base chatDriver, name string, meter metric.Meter) (d *chatDriverWithTelemetry, err error) {
	d = &chatDriverWithTelemetry{
		base:              base,
		methodCounters:    make(map[string]metric.Int64Counter),
		errCounters:       make(map[string]metric.Int64Counter),
		methodHistograms:  make(map[string]metric.Int64Histogram),
		defaultAttributes: metric.WithAttributeSet(attribute.NewSet(attribute.String("name", name))),
	}

	for _, m := range chatDriverMethods {
		if d.methodCounters[m], err = meter.Int64Counter("chatDriver_" + m + "_Calls"); err != nil {
			return nil, err
		}

		if d.errCounters[m], err = meter.Int64Counter("chatDriver_" + m + "_Errors"); err != nil {
			return nil, err
		}

		if d.methodHistograms[m], err = meter.Int64Histogram("chatDriver_"+m+"_ProcessingTimeMillis", metric.WithUnit("ms")); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// record measures a call to method that started at since and finished with err
func (_d *chatDriverWithTelemetry) record(method string, since time.Time, err error) {
	if err != nil {
		_d.errCounters[method].Add(context.Background(), 1, _d.defaultAttributes)
	}

	_d.methodCounters[method].Add(context.Background(), 1, _d.defaultAttributes)
	_d.methodHistograms[method].Record(context.Background(), time.Since(since).Milliseconds(), _d.defaultAttributes)
}

// DeleteMessage implements chatDriver
func (_d *chatDriverWithTelemetry) DeleteMessage(channelID string, timestamp string) (rChannelID string, rTimestamp string, err error) {
	_since := time.Now()
	defer func() {
		_d.record("DeleteMessage", _since, err)
	}()
	return _d.base.DeleteMessage(channelID, timestamp)
}

// SendMessage implements chatDriver
func (_d *chatDriverWithTelemetry) SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error) {
	_since := time.Now()
	defer func() {
		_d.record("SendMessage", _since, err)
	}()
	return _d.base.SendMessage(channelID, options...)
}

// UpdateMessage implements chatDriver
func (_d *chatDriverWithTelemetry) UpdateMessage(channelID string, timestamp string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error) {
	_since := time.Now()
	defer func() {
		_d.record("UpdateMessage", _since, err)
	}()
	return _d.base.UpdateMessage(channelID, timestamp, options...)
}
