// Package assertanswer provides testing functions to validate a plugin's answer
package assertanswer

import (
	"strings"
	"testing"

	"github.com/aeroproject/aerobot"
	"github.com/stretchr/testify/assert"
)

// HasText asserts that the answer's text is the expected text
func HasText(t *testing.T, answer *aerobot.Answer, text string) bool {
	if assert.NotNil(t, answer) {
		return assert.Equalf(t, text, answer.Text, "Answer text expected to be [%s] but was [%s]", text, answer.Text)
	}
	return false
}

// HasTextContaining asserts that the answer's text contains the expected subString
func HasTextContaining(t *testing.T, answer *aerobot.Answer, subString string) bool {
	if assert.NotNil(t, answer) {
		return assert.Containsf(t, answer.Text, subString, "Answer expected to have text containing [%s] but its text [%s] didn't", subString, answer.Text)
	}
	return false
}

// HasTextPrefix asserts that the answer's text starts with prefix
func HasTextPrefix(t *testing.T, answer *aerobot.Answer, prefix string) bool {
	if assert.NotNil(t, answer) {
		return assert.Truef(t, strings.HasPrefix(answer.Text, prefix), "Answer expected to start with [%s] but its text was [%s]", prefix, answer.Text)
	}
	return false
}

// HasOptions asserts that the answer's options resolve to the expected reply options
func HasOptions(t *testing.T, answer *aerobot.Answer, expected aerobot.ReplyOptions) bool {
	if assert.NotNil(t, answer) {
		ro := aerobot.ApplyAnswerOpts(answer.Options...)
		return assert.Equalf(t, expected, ro, "Answer options expected %+v but were %+v", expected, ro)
	}
	return false
}
