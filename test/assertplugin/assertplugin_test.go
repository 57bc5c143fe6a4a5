package assertplugin_test

import (
	"log"
	"strings"
	"testing"

	"github.com/aeroproject/aerobot"
	"github.com/aeroproject/aerobot/test/assertanswer"
	"github.com/aeroproject/aerobot/test/assertplugin"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

type myLittleTester struct {
	aerobot.Plugin
}

func newLittleTester() (mlt *myLittleTester) {
	mlt = new(myLittleTester)
	mlt.Name = "myLittleTester"

	mlt.Commands = []aerobot.ActionDefinition{{
		Match: func(m *aerobot.IncomingMessage) bool {
			return strings.HasPrefix(m.NormalizedText, "ping")
		},
		Usage:       "ping",
		Description: "Check that I'm alive",
		Answer:      mlt.pong,
	}}

	mlt.HearActions = []aerobot.ActionDefinition{
		{
			Hidden: true,
			Match: func(m *aerobot.IncomingMessage) bool {
				return strings.Contains(m.NormalizedText, "are you up?")
			},
			Answer: func(m *aerobot.IncomingMessage) *aerobot.Answer {
				return &aerobot.Answer{Text: "I'm 😴, you?"}
			},
		},
		{
			Hidden: true,
			Match: func(m *aerobot.IncomingMessage) bool {
				return strings.Contains(m.NormalizedText, "hey")
			},
			Answer: func(m *aerobot.IncomingMessage) *aerobot.Answer {
				return &aerobot.Answer{Text: "Hey!", Options: []aerobot.AnswerOption{aerobot.AnswerInThread()}}
			},
		},
	}

	return mlt
}

func (mlt *myLittleTester) pong(m *aerobot.IncomingMessage) *aerobot.Answer {
	mlt.Logger.Debugf("a debug statement")

	return &aerobot.Answer{Text: "pong"}
}

func TestPrefixedCommand(t *testing.T) {
	assertplugin := assertplugin.New(t, "bot")
	tester := newLittleTester()

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "!ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "pong")
	})
}

func TestCustomPrefixCommand(t *testing.T) {
	assertplugin := assertplugin.New(t, "bot", assertplugin.OptionPrefix("?"))
	tester := newLittleTester()

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "?ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "pong")
	})

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "!ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Empty(t, answers)
	})
}

func TestPrefixOnly(t *testing.T) {
	assertplugin := assertplugin.New(t, "bot")
	tester := newLittleTester()

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "!"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Empty(t, answers)
	})
}

func TestMentionCommand(t *testing.T) {
	assertplugin := assertplugin.New(t, "bot")
	tester := newLittleTester()

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "<@bot> ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "pong")
	})
}

func TestDirectMessageCommand(t *testing.T) {
	assertplugin := assertplugin.New(t, "bot")
	tester := newLittleTester()

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "DFromUser", Text: "ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "pong")
	})
}

func TestCommandNotTriggeredAsHearAction(t *testing.T) {
	assertplugin := assertplugin.New(t, "bot")
	tester := newLittleTester()

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Empty(t, answers)
	})
}

func TestManyHearActionsTriggered(t *testing.T) {
	assertplugin := assertplugin.New(t, "bot")
	tester := newLittleTester()

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "hey, are you up?"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Len(t, answers, 2) &&
			assertanswer.HasText(t, answers[0], "I'm 😴, you?") &&
			assertanswer.HasText(t, answers[1], "Hey!") &&
			assertanswer.HasOptions(t, answers[1], aerobot.ApplyAnswerOpts(aerobot.AnswerInThread()))
	})
}

func TestLoggerAttachedToPlugin(t *testing.T) {
	var b strings.Builder
	assertplugin := assertplugin.New(t, "bot", assertplugin.OptionLog(log.New(&b, "", 0)))
	tester := newLittleTester()

	assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "!ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Len(t, answers, 1)
	})

	assert.Equal(t, "a debug statement\n", b.String())
}

func TestValidationResultPropagated(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	tester := newLittleTester()

	valid := assertplugin.Answers(&tester.Plugin, &slack.Msg{Channel: "Cgeneral", Text: "!ping"}, func(t *testing.T, answers []*aerobot.Answer) bool {
		return assert.Empty(t, answers)
	})

	assert.False(t, valid)
	assert.True(t, mockT.Failed())
}
