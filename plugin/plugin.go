// Package plugin provides a fluent API to assemble a bot plugin from its actions
package plugin

import (
	"github.com/aeroproject/aerobot"
	"github.com/aeroproject/aerobot/actions"
)

// PluginBuilder holds a plugin to build
type PluginBuilder struct {
	plugin *aerobot.Plugin
}

// New creates a new PluginBuilder with a plugin with the given name and empty set of actions
func New(name string) (pb *PluginBuilder) {
	pb = new(PluginBuilder)
	pb.plugin = new(aerobot.Plugin)
	pb.plugin.Name = name
	pb.plugin.Commands = make([]aerobot.ActionDefinition, 0)
	pb.plugin.HearActions = make([]aerobot.ActionDefinition, 0)
	pb.plugin.ScheduledActions = make([]aerobot.ScheduledActionDefinition, 0)

	return pb
}

// WithCommand adds a command to the plugin
func (pb *PluginBuilder) WithCommand(command aerobot.ActionDefinition) *PluginBuilder {
	pb.plugin.Commands = append(pb.plugin.Commands, command)
	return pb
}

// WithCommandAliases adds a command along with one command per alias. An alias matches when it's the first word
// of the message and answers like the command does. Its usage is the alias and its description refers to
// the command's usage
func (pb *PluginBuilder) WithCommandAliases(command aerobot.ActionDefinition, aliases ...string) *PluginBuilder {
	pb.WithCommand(command)

	for _, alias := range aliases {
		ab := actions.NewCommand().
			WithFirstWordMatcher(alias).
			WithUsage(alias).
			WithDescriptionf("Same as `%s`", command.Usage).
			WithAnswerer(command.Answer)

		if command.Hidden {
			ab.Hidden()
		}

		pb.WithCommand(ab.Build())
	}

	return pb
}

// WithHearAction adds an hear action to the plugin
func (pb *PluginBuilder) WithHearAction(hearAction aerobot.ActionDefinition) *PluginBuilder {
	pb.plugin.HearActions = append(pb.plugin.HearActions, hearAction)
	return pb
}

// WithScheduledAction adds a scheduled action to the plugin
func (pb *PluginBuilder) WithScheduledAction(scheduledAction aerobot.ScheduledActionDefinition) *PluginBuilder {
	pb.plugin.ScheduledActions = append(pb.plugin.ScheduledActions, scheduledAction)
	return pb
}

// Build returns the created Plugin instance
func (pb *PluginBuilder) Build() (p *aerobot.Plugin) {
	return pb.plugin
}
