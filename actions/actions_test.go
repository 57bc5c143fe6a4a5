package actions_test

import (
	"testing"

	"github.com/aeroproject/aerobot"
	"github.com/aeroproject/aerobot/actions"
	"github.com/aeroproject/aerobot/schedule"
	"github.com/stretchr/testify/assert"
)

type sentMessage struct {
	message   string
	channelID string
}

type recordingSender struct {
	sent []sentMessage
}

func (s *recordingSender) SendNewMessage(message string, channelID string) (err error) {
	s.sent = append(s.sent, sentMessage{message: message, channelID: channelID})
	return nil
}

func TestNewCommandWithDefaults(t *testing.T) {
	action := actions.NewCommand().Build()
	assert.False(t, action.Hidden)
	assert.True(t, action.Match(&aerobot.IncomingMessage{}))
	assert.Nil(t, action.Answer(&aerobot.IncomingMessage{}))
}

func TestNewHearActionWithDefaults(t *testing.T) {
	action := actions.NewHearAction().Build()
	assert.False(t, action.Hidden)
	assert.True(t, action.Match(&aerobot.IncomingMessage{}))
	assert.Nil(t, action.Answer(&aerobot.IncomingMessage{}))
}

func TestNewActionWithMatcher(t *testing.T) {
	action := actions.NewHearAction().
		WithMatcher(func(m *aerobot.IncomingMessage) bool {
			return false
		}).
		Build()

	assert.False(t, action.Match(&aerobot.IncomingMessage{}))
}

func TestNewActionWithFirstWordMatcher(t *testing.T) {
	action := actions.NewCommand().
		WithFirstWordMatcher("stats", "online").
		Build()

	tests := map[string]bool{
		"stats":           true,
		"STATS":           true,
		"Online":          true,
		"stats please":    true,
		"  online  now":   true,
		"statsy":          false,
		"show stats":      false,
		"":                false,
		"   ":             false,
		"onlinestats now": false,
	}

	for text, expected := range tests {
		t.Run(text, func(t *testing.T) {
			assert.Equal(t, expected, action.Match(&aerobot.IncomingMessage{NormalizedText: text}))
		})
	}
}

func TestNewActionWithAnswerer(t *testing.T) {
	action := actions.NewHearAction().
		WithAnswerer(func(m *aerobot.IncomingMessage) *aerobot.Answer {
			return &aerobot.Answer{Text: "fake answer"}
		}).
		Build()

	assert.Equal(t, &aerobot.Answer{Text: "fake answer"}, action.Answer(&aerobot.IncomingMessage{}))
}

func TestNewActionWithUsage(t *testing.T) {
	action := actions.NewHearAction().
		WithUsage("stats").
		Build()

	assert.Equal(t, "stats", action.Usage)
}

func TestNewActionWithDescription(t *testing.T) {
	action := actions.NewHearAction().
		WithDescription("Show client statistics").
		Build()

	assert.Equal(t, "Show client statistics", action.Description)
}

func TestNewActionWithDescriptionf(t *testing.T) {
	action := actions.NewHearAction().
		WithDescriptionf("Show statistics from %s", "https://example.com/api/client/stats").
		Build()

	assert.Equal(t, "Show statistics from https://example.com/api/client/stats", action.Description)
}

func TestNewHiddenAction(t *testing.T) {
	action := actions.NewHearAction().
		Hidden().
		Build()

	assert.True(t, action.Hidden)
}

func TestNewScheduledActionWithDefaults(t *testing.T) {
	action := actions.NewScheduledAction().Build()

	assert.False(t, action.Hidden)
	assert.Equal(t, schedule.Definition{}, action.Schedule)
	assert.NotPanics(t, func() { action.Action(&recordingSender{}) })
}

func TestNewScheduledActionWithSchedule(t *testing.T) {
	action := actions.NewScheduledAction().WithSchedule(schedule.Definition{Interval: 1, Unit: schedule.Hours}).Build()

	assert.Equal(t, schedule.Definition{Interval: 1, Unit: schedule.Hours}, action.Schedule)
}

func TestNewScheduledActionWithDescriptionf(t *testing.T) {
	action := actions.NewScheduledAction().
		WithDescriptionf("Post stats to %d channels", 2).
		Build()

	assert.Equal(t, "Post stats to 2 channels", action.Description)
}

func TestNewHiddenScheduledAction(t *testing.T) {
	action := actions.NewScheduledAction().
		Hidden().
		Build()

	assert.True(t, action.Hidden)
}

func TestNewScheduledActionWithAction(t *testing.T) {
	action := actions.NewScheduledAction().
		WithAction(func(sender aerobot.MessageSender) {
			sender.SendNewMessage("daily report", "C1")
		}).
		Build()

	sender := &recordingSender{}
	action.Action(sender)

	assert.Equal(t, []sentMessage{{message: "daily report", channelID: "C1"}}, sender.sent)
}
