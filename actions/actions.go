/*
Package actions provides a fluent API for creating bot plugin actions. Typical usages
will also involve using the plugin fluent API from github.com/aeroproject/aerobot/plugin.

A quick example could look like:

	import (
		"github.com/aeroproject/aerobot"
		"github.com/aeroproject/aerobot/actions"
		"github.com/aeroproject/aerobot/plugin"
		"github.com/aeroproject/aerobot/schedule"
	)

	func newPlugin() (p *aerobot.Plugin) {
		p = plugin.New("pinger").
			WithCommand(actions.NewCommand().
				WithFirstWordMatcher("ping").
				WithUsage("ping").
				WithDescription("Check that I'm alive").
				WithAnswerer(func(m *aerobot.IncomingMessage) *aerobot.Answer {
					return &aerobot.Answer{Text: "pong"}
				}).
				Build()).
			WithScheduledAction(actions.NewScheduledAction().
				WithSchedule(schedule.Definition{Interval: 1, Weekday: "Monday", AtTime: "10:00"}).
				WithDescription("Start the week off").
				WithAction(weeklyKickoff).
				Build()).
			Build()
		return p
	}
*/
package actions

import (
	"fmt"
	"strings"

	"github.com/aeroproject/aerobot"
	"github.com/aeroproject/aerobot/schedule"
)

// ActionBuilder holds the action to build
type ActionBuilder struct {
	action aerobot.ActionDefinition
}

// ScheduledActionBuilder holds the scheduled action to build
type ScheduledActionBuilder struct {
	scheduledAction aerobot.ScheduledActionDefinition
}

var (
	// Default to always match. Returning a nil answer gets the same result as not matching
	// so this is only a problem when the matching logic can be kept separate from the answer logic
	defaultMatcher = func(m *aerobot.IncomingMessage) bool {
		return true
	}

	// Default to always return nil. This is not a default you want to use in most cases
	defaultAnswerer = func(m *aerobot.IncomingMessage) *aerobot.Answer {
		return nil
	}
)

// newAction creates a new action and returns the ActionBuilder to set various attributes
// of the action. When done with the setup, the caller is expected to call Build() to get
// the action
func newAction() (ab *ActionBuilder) {
	ab = new(ActionBuilder)
	ab.action = aerobot.ActionDefinition{Hidden: false}

	ab.action.Match = defaultMatcher
	ab.action.Answer = defaultAnswerer

	return ab
}

// NewCommand returns a new ActionBuilder to build a new command
func NewCommand() (ab *ActionBuilder) {
	return newAction()
}

// NewHearAction returns a new ActionBuilder to build a new hear action
func NewHearAction() (ab *ActionBuilder) {
	return newAction()
}

// WithMatcher sets the action's matcher function
func (ab *ActionBuilder) WithMatcher(matcher aerobot.Matcher) *ActionBuilder {
	ab.action.Match = matcher
	return ab
}

// WithFirstWordMatcher sets a matcher triggering when the first word of the normalized text is one of words.
// The comparison ignores case and anything after the first word
func (ab *ActionBuilder) WithFirstWordMatcher(words ...string) *ActionBuilder {
	ab.action.Match = func(m *aerobot.IncomingMessage) bool {
		fields := strings.Fields(m.NormalizedText)
		if len(fields) == 0 {
			return false
		}

		for _, w := range words {
			if strings.EqualFold(fields[0], w) {
				return true
			}
		}

		return false
	}

	return ab
}

// WithUsage sets the action usage
func (ab *ActionBuilder) WithUsage(usage string) *ActionBuilder {
	ab.action.Usage = usage
	return ab
}

// WithDescription sets the action description
func (ab *ActionBuilder) WithDescription(description string) *ActionBuilder {
	ab.action.Description = description
	return ab
}

// WithDescriptionf sets the action description delegating format and arguments to fmt.Sprintf
func (ab *ActionBuilder) WithDescriptionf(format string, a ...interface{}) *ActionBuilder {
	ab.action.Description = fmt.Sprintf(format, a...)
	return ab
}

// WithAnswerer sets the action's answerer function
func (ab *ActionBuilder) WithAnswerer(answerer aerobot.Answerer) *ActionBuilder {
	ab.action.Answer = answerer
	return ab
}

// Hidden sets the action to hidden
func (ab *ActionBuilder) Hidden() *ActionBuilder {
	ab.action.Hidden = true
	return ab
}

// Build returns the ActionDefinition
func (ab *ActionBuilder) Build() aerobot.ActionDefinition {
	return ab.action
}

// NewScheduledAction returns a new ScheduledActionBuilder to build a new ScheduledActionDefinition
func NewScheduledAction() (sab *ScheduledActionBuilder) {
	sab = new(ScheduledActionBuilder)
	sab.scheduledAction = aerobot.ScheduledActionDefinition{Hidden: false}
	sab.scheduledAction.Action = func(sender aerobot.MessageSender) {}

	return sab
}

// WithSchedule sets the schedule for the scheduled action
func (sab *ScheduledActionBuilder) WithSchedule(schedule schedule.Definition) *ScheduledActionBuilder {
	sab.scheduledAction.Schedule = schedule
	return sab
}

// WithDescription sets the scheduled action description
func (sab *ScheduledActionBuilder) WithDescription(desc string) *ScheduledActionBuilder {
	sab.scheduledAction.Description = desc
	return sab
}

// WithDescriptionf sets the scheduled action description delegating format and arguments to fmt.Sprintf
func (sab *ScheduledActionBuilder) WithDescriptionf(format string, a ...interface{}) *ScheduledActionBuilder {
	sab.scheduledAction.Description = fmt.Sprintf(format, a...)
	return sab
}

// WithAction sets the action function to run on schedule
func (sab *ScheduledActionBuilder) WithAction(action aerobot.ScheduledAction) *ScheduledActionBuilder {
	sab.scheduledAction.Action = action
	return sab
}

// Hidden sets the scheduled action to hidden
func (sab *ScheduledActionBuilder) Hidden() *ScheduledActionBuilder {
	sab.scheduledAction.Hidden = true
	return sab
}

// Build returns the ScheduledActionDefinition
func (sab *ScheduledActionBuilder) Build() aerobot.ScheduledActionDefinition {
	return sab.scheduledAction
}
