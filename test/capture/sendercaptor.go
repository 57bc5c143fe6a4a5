// Package capture provides captors standing in for the bot's services in plugin tests
package capture

import (
	"sync"
)

// SenderCaptor is a MessageSender holding messages sent to it keyed by channel ID
type SenderCaptor struct {
	sync.Mutex

	SentMessages map[string][]string
	err          error
}

// NewSender returns a new initialized SenderCaptor instance
func NewSender() (sc *SenderCaptor) {
	sc = new(SenderCaptor)
	sc.SentMessages = make(map[string][]string)

	return sc
}

// NewFailingSender returns a SenderCaptor that captures messages but fails every send with err
func NewFailingSender(err error) (sc *SenderCaptor) {
	sc = NewSender()
	sc.err = err

	return sc
}

// SendNewMessage captures the details of a sent message (the message itself and the channel it's sent to)
func (sc *SenderCaptor) SendNewMessage(message string, channelID string) (err error) {
	sc.Lock()
	defer sc.Unlock()

	sc.SentMessages[channelID] = append(sc.SentMessages[channelID], message)

	return sc.err
}
