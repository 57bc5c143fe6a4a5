package plugins_test

import (
	"fmt"
	"testing"

	"github.com/aeroproject/aerobot"
	"github.com/aeroproject/aerobot/plugins"
	"github.com/aeroproject/aerobot/test/assertanswer"
	"github.com/aeroproject/aerobot/test/assertplugin"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

func TestSendValidVersionMessage(t *testing.T) {
	p := plugins.NewVersionner("aero", "2.3.1")
	assert.NotNil(t, p)

	assertplugin := assertplugin.New(t, "bot")

	assertplugin.Answers(p, &slack.Msg{Text: "<@bot> version"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], fmt.Sprintf("I'm `aero`, version `2.3.1` (engine `v%s`)", aerobot.VERSION))
	})
}

func TestMatchOnVersionCommand(t *testing.T) {
	p := plugins.NewVersionner("aero", "2.3.1")

	tests := map[string]struct {
		msg             slack.Msg
		expectedAnswers int
	}{
		"Mention":           {slack.Msg{Text: "<@bot> version"}, 1},
		"MentionTrailing":   {slack.Msg{Text: "<@bot> version "}, 1},
		"Prefixed":          {slack.Msg{Channel: "Cgeneral", Text: "!Version"}, 1},
		"DirectMessage":     {slack.Msg{Channel: "DUser", Text: "version please"}, 1},
		"NotFirstWord":      {slack.Msg{Text: "<@bot> what version"}, 0},
		"LongerWord":        {slack.Msg{Text: "<@bot> versions"}, 0},
		"UnaddressedInChat": {slack.Msg{Channel: "Cgeneral", Text: "version"}, 0},
	}

	assertplugin := assertplugin.New(t, "bot")
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			msg := tc.msg
			assertplugin.Answers(p, &msg, func(t *testing.T, answers []*aerobot.Answer) bool {
				return assert.Len(t, answers, tc.expectedAnswers)
			})
		})
	}
}
