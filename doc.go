/*
Package aerobot provides the building blocks of the AeroProject chat bot.

The bot is extendable via plugins that combine commands, hear actions (listeners) and
scheduled actions. Commands are recognized when a message starts with the configured prefix
(! by default), mentions the bot or is sent directly to it. Triggered responses are updated
when the triggering message is edited and deleted when it is deleted.

Plugins get a SLogger injected on registration and scheduled actions receive a MessageSender
to post on channels outside of the normal reaction flow.

Example code (see cmd/aerobot for the complete version):

	package main

	import (
		"log"

		"github.com/aeroproject/aerobot"
		"github.com/aeroproject/aerobot/config"
		"github.com/aeroproject/aerobot/plugins"
	)

	func main() {
		v := config.NewViperWithDefaults()

		bot, err := aerobot.NewBot("aero", v, aerobot.OptionToken(token)).
			WithDefaultablePluginErr(plugins.StatsPluginName, func(c *config.PluginConfig) (*aerobot.Plugin, error) {
				return plugins.NewStats(c)
			}).
			WithPlugin(plugins.NewVersionner("aero", version)).
			Build()
		if err != nil {
			log.Fatal(err)
		}
		defer bot.Close()

		if err = bot.Run(); err != nil {
			log.Fatal(err)
		}
	}
*/
package aerobot
