package aerobot

// Answer is what an action replies with: its text and how it should be delivered
type Answer struct {
	Text string

	// Options overriding the configured reply behavior for this answer only
	Options []AnswerOption
}

// ReplyOptions is the reply behavior an answer asks for. A nil flag leaves the configured
// behavior (replyBehavior.threadedReplies and replyBehavior.broadcastThreadedReplies) in place
type ReplyOptions struct {
	Threaded  *bool
	Broadcast *bool

	// ThreadTimestamp is the thread to reply to. Empty means the triggering message's thread
	ThreadTimestamp string
}

// AnswerOption sets a reply option of an answer
type AnswerOption func(o *ReplyOptions)

// AnswerInThread replies in the triggering message's thread
func AnswerInThread() AnswerOption {
	return func(o *ReplyOptions) {
		o.Threaded = boolPtr(true)
	}
}

// AnswerInExistingThread replies in the thread with the given timestamp
func AnswerInExistingThread(threadTimestamp string) AnswerOption {
	return func(o *ReplyOptions) {
		o.Threaded = boolPtr(true)
		o.ThreadTimestamp = threadTimestamp
	}
}

// AnswerInThreadWithBroadcast replies in thread and also sends the reply to the channel
func AnswerInThreadWithBroadcast() AnswerOption {
	return func(o *ReplyOptions) {
		o.Threaded = boolPtr(true)
		o.Broadcast = boolPtr(true)
	}
}

// AnswerWithoutThreading replies in the channel regardless of the bot configuration
func AnswerWithoutThreading() AnswerOption {
	return func(o *ReplyOptions) {
		o.Threaded = boolPtr(false)
	}
}

// ApplyAnswerOpts resolves answer options in order, later options overriding earlier ones
func ApplyAnswerOpts(opts ...AnswerOption) (ro ReplyOptions) {
	for _, opt := range opts {
		opt(&ro)
	}

	return ro
}

// threaded returns whether to reply in a thread given the configured default
func (ro ReplyOptions) threaded(configured bool) bool {
	if ro.Threaded != nil {
		return *ro.Threaded
	}

	return configured
}

// broadcast returns whether to broadcast a threaded reply given the configured default
func (ro ReplyOptions) broadcast(configured bool) bool {
	if ro.Broadcast != nil {
		return *ro.Broadcast
	}

	return configured
}

func boolPtr(b bool) *bool {
	return &b
}
