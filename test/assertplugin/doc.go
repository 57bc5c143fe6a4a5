// Package assertplugin provides testing functions to validate a plugin's overall functionality.
// This package is designed to play well but not require the assertanswer package for validation
// of answers
//
// Note that all commands and hearActions are evaluated by assertplugin's driver but this is a
// simplified version of how the bot actually drives plugins and aims to provide the minimal
// processing required to allow a plugin to test functionality given an incoming message.
// Commands are recognized the same way the bot does: with the command prefix (! by default),
// a <@botUserID> mention with the same botUserID the asserter was created with or a channel name
// starting with D for direct channel testing
//
// Example:
//
//	func TestPlugin(t *testing.T) {
//	    assertplugin := assertplugin.New(t, "bot")
//	    yourPlugin := newPlugin()
//
//	    assertplugin.Answers(yourPlugin, &slack.Msg{Text: "!ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
//	        return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "pong")
//	    })
//	}
package assertplugin // import "github.com/aeroproject/aerobot/test/assertplugin"
