package plugins

import (
	"fmt"

	"github.com/aeroproject/aerobot"
	"github.com/aeroproject/aerobot/actions"
	"github.com/aeroproject/aerobot/plugin"
)

// VersionnerPluginName is the name of the versionner plugin
const VersionnerPluginName = "versionner"

// NewVersionner creates a new instance of the versionner plugin answering the version command
// with the bot's name, its version and the version of the engine it runs on
func NewVersionner(name string, version string) (p *aerobot.Plugin) {
	p = plugin.New(VersionnerPluginName).
		WithCommand(actions.NewCommand().
			WithFirstWordMatcher("version").
			WithUsage("version").
			WithDescriptionf("Reply with `%s`'s `version` number", name).
			WithAnswerer(func(m *aerobot.IncomingMessage) *aerobot.Answer {
				return &aerobot.Answer{Text: fmt.Sprintf("I'm `%s`, version `%s` (engine `v%s`)", name, version, aerobot.VERSION)}
			}).
			Build()).
		Build()

	return p
}
