package aerobot

import (
	"github.com/slack-go/slack"
)

// MessageSender is what scheduled actions get to post new messages on a channel
type MessageSender interface {
	SendNewMessage(message string, channelID string) (err error)
}

// messageSender is implemented by any value that has the SendMessage method. It's synchronous and returns
// the information identifying the sent message.
//
// slack.Client implements this interface
type messageSender interface {
	SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error)
}

// messageUpdater is implemented by any value that has the UpdateMessage method.
//
// slack.Client implements this interface
type messageUpdater interface {
	UpdateMessage(channelID, timestamp string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error)
}

// messageDeleter is implemented by any value that has the DeleteMessage method.
//
// slack.Client implements this interface
type messageDeleter interface {
	DeleteMessage(channelID string, timestamp string) (rChannelID string, rTimestamp string, err error)
}

// chatDriver encompasses the messageSender, messageUpdater and messageDeleter interfaces
type chatDriver interface {
	messageDeleter
	messageSender
	messageUpdater
}

// selfInfoFinder gives access to the connection info, which includes our own identity.
//
// slack.RTM implements this interface
type selfInfoFinder interface {
	GetInfo() *slack.Info
}

// chatDriverSender adapts a messageSender to the MessageSender given to scheduled actions
type chatDriverSender struct {
	driver messageSender
}

// SendNewMessage posts a new message to channelID
func (s *chatDriverSender) SendNewMessage(message string, channelID string) (err error) {
	_, _, _, err = s.driver.SendMessage(channelID, slack.MsgOptionText(message, false), slack.MsgOptionAsUser(true))
	return err
}
