package aerobot

import (
	"io"

	"github.com/aeroproject/aerobot/config"
)

// Builder holds a bot instance to build
type Builder struct {
	bot *Bot
	err error
}

// NewBot returns a new Builder used to set up a new bot
func NewBot(name string, v *config.PluginConfig, options ...Option) (sb *Builder) {
	sb = new(Builder)
	sb.bot, sb.err = New(name, v, options...)

	return sb
}

// WithPlugin adds a plugin to the bot
func (sb *Builder) WithPlugin(p *Plugin) *Builder {
	return sb.WithPluginErr(p, nil)
}

// WithPluginErr adds a plugin that has a creation function returning (Plugin, error) to the bot
func (sb *Builder) WithPluginErr(p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	return sb
}

// WithConfigurablePluginErr adds a plugin created from its own section of the bot configuration. A missing
// section fails the build
func (sb *Builder) WithConfigurablePluginErr(name string, newPlugin func(c *config.PluginConfig) (*Plugin, error)) *Builder {
	if sb.err != nil {
		return sb
	}

	pc, err := config.GetPluginConfig(sb.bot.config, name)
	if err != nil {
		sb.err = err
		return sb
	}

	return sb.WithPluginErr(newPlugin(pc))
}

// WithDefaultablePluginErr adds a plugin created from its own section of the bot configuration. A missing
// section gives the plugin an empty configuration so that it runs with its defaults
func (sb *Builder) WithDefaultablePluginErr(name string, newPlugin func(c *config.PluginConfig) (*Plugin, error)) *Builder {
	if sb.err != nil {
		return sb
	}

	return sb.WithPluginErr(newPlugin(config.GetPluginConfigOrEmpty(sb.bot.config, name)))
}

// WithPluginCloserErr adds a plugin that has a creation function returning (io.Closer, Plugin, error) to the bot
func (sb *Builder) WithPluginCloserErr(closer io.Closer, p *Plugin, err error) *Builder {
	sb.WithPluginErr(p, err)
	if sb.err != nil {
		return sb
	}

	if closer != nil {
		sb.bot.closers = append(sb.bot.closers, closer)
	}

	return sb
}

// Build returns the built bot instance. If there was an error during
// setup, the error is returned along with a nil bot
func (sb *Builder) Build() (b *Bot, err error) {
	if sb.err != nil {
		return nil, sb.err
	}

	return sb.bot, nil
}
