package aerobot

import (
	"fmt"
	"hash"
	"hash/crc32"
	"math"
	"sync"

	"github.com/slack-go/slack"
)

type partitionRouter struct {
	log SLogger

	// messageQueues with partition keyed by the hash of the incoming message id
	// so that processing of messages (new, updates and deletes) are handled by
	// the same work queue therefore ensuring correct ordered processing
	// of those events
	messageQueues []chan slack.MessageEvent

	// hash function to direct message processing to partitions
	hasher   hash.Hash32
	hashMask int

	*instrumenter
}

func newPartitionRouter(partitionCount int, queueBufferSize int, log SLogger, instrumenter *instrumenter) (pr *partitionRouter, err error) {
	if !isPowerOfTwo(partitionCount) {
		return nil, fmt.Errorf("A partition router can only work with a partitionCount that is a power of two but was [%d]", partitionCount)
	}

	if queueBufferSize < 0 {
		return nil, fmt.Errorf("A partition router needs a positive queue buffer size but was [%d]", queueBufferSize)
	}

	pr = new(partitionRouter)
	pr.messageQueues = make([]chan slack.MessageEvent, partitionCount)
	for i := range pr.messageQueues {
		pr.messageQueues[i] = make(chan slack.MessageEvent, queueBufferSize)
	}
	pr.hasher = crc32.NewIEEE()
	pr.hashMask = hashMask(partitionCount)
	pr.log = log
	pr.instrumenter = instrumenter

	return pr, nil
}

// start launches one worker per partition. Each worker processes the messages of its partition in order
// until the partition queue is closed by stop
func (pr *partitionRouter) start(wg *sync.WaitGroup, process func(msgEvent slack.MessageEvent)) {
	for i, q := range pr.messageQueues {
		wg.Add(1)

		go func(partition int, queue <-chan slack.MessageEvent) {
			defer wg.Done()

			for msgEvent := range queue {
				process(msgEvent)
			}

			pr.log.Debugf("Worker for partition [%d] stopped", partition)
		}(i, q)
	}
}

// stop closes all partition queues. Workers finish processing what's already queued before exiting
func (pr *partitionRouter) stop() {
	for _, q := range pr.messageQueues {
		close(q)
	}
}

// routeMessageEvent routes the message processing to the correct partition based on its original message id to ensure
// that all message and its updates are processed in order
func (pr *partitionRouter) routeMessageEvent(msgEvent slack.MessageEvent) {
	msgID := getOriginalMessageID(msgEvent)

	partition := pr.partitionForMsgID(msgID)

	pr.log.Debugf("Dispatching message [%s] to partition [%d]", msgID, partition)
	d := measure(func() {
		pr.messageQueues[partition] <- msgEvent
	})

	pr.msgDispatched(d)
}

// getOriginalMessageID returns the identifier of the message a message event is about: the edited message for changes,
// the deleted message for deletions and the message itself otherwise
func getOriginalMessageID(msgEvent slack.MessageEvent) (msgID SlackMessageID) {
	switch {
	case msgEvent.SubType == slack.MsgSubTypeMessageChanged && msgEvent.SubMessage != nil:
		return SlackMessageID{channelID: msgEvent.Channel, timestamp: msgEvent.SubMessage.Timestamp}
	case msgEvent.SubType == slack.MsgSubTypeMessageDeleted:
		return SlackMessageID{channelID: msgEvent.Channel, timestamp: msgEvent.DeletedTimestamp}
	default:
		return SlackMessageID{channelID: msgEvent.Channel, timestamp: msgEvent.Timestamp}
	}
}

// partitionForMsgID returns the partition index for a given message ID
func (pr *partitionRouter) partitionForMsgID(msgID SlackMessageID) (partition int) {
	pr.hasher.Reset()
	pr.hasher.Write([]byte(msgID.channelID))
	pr.hasher.Write([]byte(msgID.timestamp))
	res := pr.hasher.Sum32()

	// Keep only the rightmost bits so we have a max equal to the partition count
	return int(res) & pr.hashMask
}

// isPowerOfTwo returns true if val is a power of two or false if not
func isPowerOfTwo(val int) bool {
	return (val != 0) && (val&(val-1)) == 0
}

// hashMask builds a mask for a partitionCount (which should be a power of two) to get a hash value
// that is in the range of the number of partitions we have
func hashMask(partitionCount int) int {
	maskSize := int(math.Log2(float64(partitionCount)))
	mask := 0
	for i := 0; i < maskSize; i++ {
		mask = mask<<1 | 1
	}

	return mask
}
