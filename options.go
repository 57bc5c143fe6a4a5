package aerobot

import (
	"log"

	"github.com/aeroproject/aerobot/config"
	"go.opentelemetry.io/otel/metric"
)

// Option defines an option for a Bot
type Option func(*Bot)

// OptionLog sets a standard library logger for the bot. Debug lines are written when the debug flag is set in
// the bot configuration
func OptionLog(logger *log.Logger) Option {
	return func(b *Bot) {
		b.log = NewSLogger(logger, b.config.GetBool(config.DebugKey))
	}
}

// OptionLogger sets any SLogger implementation (a logrus.Logger, for example) as the bot logger
func OptionLogger(logger SLogger) Option {
	return func(b *Bot) {
		b.log = wrapSLogger(logger)
	}
}

// OptionToken sets the slack token used to connect
func OptionToken(token string) Option {
	return func(b *Bot) {
		b.token = token
	}
}

// OptionMeter sets the meter used to record the bot's core, plugin and chat driver metrics
func OptionMeter(meter metric.Meter) Option {
	return func(b *Bot) {
		b.meter = meter
	}
}

// OptionDefaultAnswer sets the answer given to a direct message or mention that doesn't match any command
func OptionDefaultAnswer(answerer Answerer) Option {
	return func(b *Bot) {
		b.defaultAction = answerer
	}
}

// OptionTestMode sets a termination channel that stops the run loop when closed. Mostly useful
// in tests where termination signals aren't practical
func OptionTestMode(terminationCh chan bool) Option {
	return func(b *Bot) {
		b.terminationCh = terminationCh
	}
}
