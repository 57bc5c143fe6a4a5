package aerobot

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	newMsgType    = "new"
	updateMsgType = "edit"
	deleteMsgType = "delete"
)

// instrumenter holds the bot's core and plugin instruments. Instruments are created once
// and measurements are recorded with attributes identifying the bot, the message type or the plugin
type instrumenter struct {
	appName string

	msgsSeen                   metric.Int64Counter
	msgsProcessed              metric.Int64Counter
	msgProcessingLatencyMillis metric.Int64Histogram
	msgDispatchLatencyMillis   metric.Int64Histogram
	slackLatencyMillis         metric.Int64Histogram

	pluginProcessingTimeMillis metric.Int64Histogram
	pluginReactionCount        metric.Int64Counter

	defaultAttributes metric.MeasurementOption
}

// newInstrumenter creates a new core instrumenter
func newInstrumenter(appName string, meter metric.Meter) (ins *instrumenter, err error) {
	ins = new(instrumenter)
	ins.appName = appName
	ins.defaultAttributes = metric.WithAttributeSet(attribute.NewSet(attribute.String("name", appName)))

	if ins.msgsSeen, err = meter.Int64Counter("msgSeen", metric.WithDescription("Messages seen on the real time connection")); err != nil {
		return nil, err
	}

	if ins.msgsProcessed, err = meter.Int64Counter("msgProcessed", metric.WithDescription("Messages processed by type")); err != nil {
		return nil, err
	}

	if ins.msgProcessingLatencyMillis, err = meter.Int64Histogram("msgProcessingLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if ins.msgDispatchLatencyMillis, err = meter.Int64Histogram("msgDispatchLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if ins.slackLatencyMillis, err = meter.Int64Histogram("slackLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if ins.pluginProcessingTimeMillis, err = meter.Int64Histogram("processingTimeMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if ins.pluginReactionCount, err = meter.Int64Counter("reactionCount", metric.WithDescription("Answers produced by plugin")); err != nil {
		return nil, err
	}

	return ins, nil
}

func (ins *instrumenter) msgSeen() {
	ins.msgsSeen.Add(context.Background(), 1, ins.defaultAttributes)
}

func (ins *instrumenter) msgDispatched(d time.Duration) {
	ins.msgDispatchLatencyMillis.Record(context.Background(), d.Milliseconds(), ins.defaultAttributes)
}

func (ins *instrumenter) slackLatency(d time.Duration) {
	ins.slackLatencyMillis.Record(context.Background(), d.Milliseconds(), ins.defaultAttributes)
}

// msgProcessed records the processing of a message of type msgType
func (ins *instrumenter) msgProcessed(msgType string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("name", ins.appName), attribute.String("msgType", msgType))

	ins.msgsProcessed.Add(context.Background(), 1, attrs)
	ins.msgProcessingLatencyMillis.Record(context.Background(), d.Milliseconds(), attrs)
}

// pluginProcessed records a plugin action invocation and whether it reacted with an answer
func (ins *instrumenter) pluginProcessed(plugin string, d time.Duration, reacted bool) {
	attrs := metric.WithAttributes(attribute.String("name", ins.appName), attribute.String("plugin", plugin))

	ins.pluginProcessingTimeMillis.Record(context.Background(), d.Milliseconds(), attrs)
	if reacted {
		ins.pluginReactionCount.Add(context.Background(), 1, attrs)
	}
}

type timed func()

// measure returns the execution duration of a timed function
func measure(operation timed) (d time.Duration) {
	before := time.Now()

	operation()

	return time.Since(before)
}
