package assertplugin

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/aeroproject/aerobot"
	"github.com/slack-go/slack"
)

const defaultPrefix = "!"

// Asserter represents a plugin driver/asserter and holds the bot identifier and command prefix that tests
// are using when sending test messages for processing
type Asserter struct {
	t         *testing.T
	botUserID string
	prefix    string
	logger    *log.Logger
}

// New creates a new asserter with the given botUserID
// (only include the id without the '@' prefix).
// The botUserID is used in order to detect commands formed with
// <@botUserID>
func New(t *testing.T, botUserID string, options ...Option) (a *Asserter) {
	a = new(Asserter)
	a.t = t
	a.botUserID = botUserID
	a.prefix = defaultPrefix

	for _, option := range options {
		option(a)
	}

	return a
}

// Option defines an option for the Asserter
type Option func(*Asserter)

// OptionLog sets a logger for the asserter such that this logger is attached to the plugin when driven by
// the asserter
func OptionLog(logger *log.Logger) Option {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// OptionPrefix sets the command prefix recognized by the asserter
func OptionPrefix(prefix string) Option {
	return func(a *Asserter) {
		a.prefix = prefix
	}
}

// ResultValidator is a function to do further validation of the answers resulting from a plugin processing
// of all of its commands and hear actions. The return value is meant to be true if validation is successful
// and false otherwise (following the testify convention)
type ResultValidator func(t *testing.T, answers []*aerobot.Answer) bool

// Answers drives a plugin and collects Answers. Once all of those have been collected, it passes handling to a
// validator to assert the expected answers. It follows the style of github.com/stretchr/testify/assert as far as
// returning true/false to indicate success for further nested testing
func (a *Asserter) Answers(p *aerobot.Plugin, m *slack.Msg, validate ResultValidator) (valid bool) {
	p.Logger = aerobot.NewSLogger(getLogger(a), true)

	answers := a.driveActions(p, m)

	return validate(a.t, answers)
}

func getLogger(a *Asserter) (logger *log.Logger) {
	if a.logger != nil {
		return a.logger
	}

	return log.New(io.Discard, "", 0)
}

func (a *Asserter) driveActions(p *aerobot.Plugin, m *slack.Msg) (answers []*aerobot.Answer) {
	if a.prefix != "" && strings.HasPrefix(m.Text, a.prefix) {
		normalizedText := strings.TrimSpace(strings.TrimPrefix(m.Text, a.prefix))
		if normalizedText == "" {
			return make([]*aerobot.Answer, 0)
		}

		return runActions(p.Commands, &aerobot.IncomingMessage{NormalizedText: normalizedText, Msg: *m})
	}

	botMentionPrefix := fmt.Sprintf("<@%s> ", a.botUserID)
	if strings.HasPrefix(m.Text, botMentionPrefix) {
		normalizedText := strings.TrimPrefix(m.Text, botMentionPrefix)

		return runActions(p.Commands, &aerobot.IncomingMessage{NormalizedText: normalizedText, Msg: *m})
	}

	inMsg := aerobot.IncomingMessage{NormalizedText: m.Text, Msg: *m}

	if strings.HasPrefix(m.Channel, "D") {
		return runActions(p.Commands, &inMsg)
	}

	return runActions(p.HearActions, &inMsg)
}

func runActions(actions []aerobot.ActionDefinition, m *aerobot.IncomingMessage) (answers []*aerobot.Answer) {
	answers = make([]*aerobot.Answer, 0)

	for _, action := range actions {
		if action.Match(m) {
			a := action.Answer(m)

			if a != nil {
				answers = append(answers, a)
			}
		}
	}

	return answers
}
