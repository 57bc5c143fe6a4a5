package aerobot

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aeroproject/aerobot/config"
	"github.com/aeroproject/aerobot/schedule"
	"github.com/hashicorp/golang-lru"
	"github.com/marcsantiago/gocron"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	// VERSION represents the current aerobot version
	VERSION = "1.0.0"

	defaultActionID = "default"
)

// Bot represents what defines a chat bot: mostly, a name and its plugins
type Bot struct {
	name          string
	token         string
	config        *viper.Viper
	prefix        string
	defaultAction Answerer

	plugins []*Plugin
	closers []io.Closer

	// Responses keyed by the identifier of the message that triggered them
	triggeringMsgToResponses *lru.ARCCache

	// Internal state as an optimization when looping through all commands/hearActions
	commandsWithID    []ActionDefinitionWithID
	hearActionsWithID []ActionDefinitionWithID

	self atomic.Pointer[selfIdentity]

	log          *sLogger
	meter        metric.Meter
	instrumenter *instrumenter

	// Test mode overrides
	terminationCh chan bool
}

// Plugin represents a plugin (its name, action definitions and injected services)
type Plugin struct {
	Name             string
	Commands         []ActionDefinition
	HearActions      []ActionDefinition
	ScheduledActions []ScheduledActionDefinition

	// Logger is injected by the bot when the plugin is registered
	Logger SLogger
}

// ActionDefinition represents how an action is triggered, published, used and described
// along with defining the function defining its behavior
type ActionDefinition struct {
	// Indicates whether the action should be omitted from the help message
	Hidden bool

	// Matcher that will determine whether or not the action should be triggered
	Match Matcher

	// Usage example
	Usage string

	// Help description for the action
	Description string

	// Function to execute if the Matcher matches
	Answer Answerer
}

// ActionDefinitionWithID holds an action definition along with its identifier string
type ActionDefinitionWithID struct {
	ActionDefinition
	id     string
	plugin string
}

// ScheduledActionDefinition represents when a scheduled action is triggered as well
// as what it does and how
type ScheduledActionDefinition struct {
	// Indicates whether the action should be omitted from the help message
	Hidden bool

	// Schedule definition determining when the action runs
	Schedule schedule.Definition

	// Help description for the scheduled action
	Description string

	// Action is the function that is invoked when the schedule activates
	Action ScheduledAction
}

// IncomingMessage holds the original slack message along with its text normalized for
// matching: the command prefix or bot mention is stripped for commands
type IncomingMessage struct {
	NormalizedText string
	slack.Msg
}

// Matcher is the function that determines whether or not an action should be triggered. Note that a match doesn't guarantee that the action should
// actually respond with anything once invoked
type Matcher func(m *IncomingMessage) bool

// Answerer is what gets executed when an ActionDefinition is triggered. A nil answer means no response
type Answerer func(m *IncomingMessage) *Answer

// ScheduledAction is what gets executed when a ScheduledActionDefinition is triggered (by its schedule)
type ScheduledAction func(sender MessageSender)

// SlackMessageID holds the elements that form a unique message identifier for slack. Technically, slack also uses
// the workspace id as the first part of that unique identifier but since an instance of the bot only lives within
// a single workspace, that part is left out
type SlackMessageID struct {
	channelID string
	timestamp string
}

// OutgoingMessage holds a plugin generated answer along with the channel it's for and the plugin action identifier
type OutgoingMessage struct {
	channelID string
	*Answer

	// The identifier of the source of the outgoing message. The format being: pluginName.c[commandIndex] (for a command) or pluginName.h[actionIndex] (for an hear action)
	pluginIdentifier string
}

// runDependencies holds the slack facing dependencies of a run. They're replaced by in-memory versions in tests
type runDependencies struct {
	chatDriver     chatDriver
	selfInfoFinder selfInfoFinder
}

// String returns a friendly description of a ScheduledActionDefinition
func (a ScheduledActionDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", a.Schedule, a.Description)
}

// String returns a friendly description of an ActionDefinition
func (a ActionDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", a.Usage, a.Description)
}

func (id SlackMessageID) String() string {
	return fmt.Sprintf("%s/%s", id.channelID, id.timestamp)
}

// New creates a new bot from a name and a configuration. Prefer NewBot for a fluent setup
func New(name string, v *viper.Viper, options ...Option) (b *Bot, err error) {
	b = new(Bot)
	b.name = name
	b.config = config.LayerConfigWithDefaults(v)
	b.prefix = b.config.GetString(config.PrefixKey)
	b.plugins = make([]*Plugin, 0)
	b.closers = make([]io.Closer, 0)
	b.log = NewSLogger(log.New(os.Stdout, "aerobot: ", log.Lshortfile|log.LstdFlags), b.config.GetBool(config.DebugKey))
	b.meter = noop.NewMeterProvider().Meter(name)

	b.defaultAction = func(m *IncomingMessage) *Answer {
		return &Answer{Text: fmt.Sprintf("I don't understand, ask me for \"%s\" to get a list of things I do", helpPluginName)}
	}

	for _, opt := range options {
		opt(b)
	}

	b.triggeringMsgToResponses, err = lru.NewARC(b.config.GetInt(config.ResponseCacheSizeKey))
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid [%s] value", config.ResponseCacheSizeKey)
	}

	b.instrumenter, err = newInstrumenter(name, b.meter)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// RegisterPlugin registers a plugin with the bot. This should be invoked prior to calling Run
func (b *Bot) RegisterPlugin(p *Plugin) {
	p.Logger = b.log
	b.plugins = append(b.plugins, p)
}

// Close closes all closers registered with the bot
func (b *Bot) Close() (err error) {
	for _, c := range b.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

// Run connects to slack and processes events until the process is interrupted or
// slack rejects the credentials
func (b *Bot) Run() (err error) {
	api := slack.New(
		b.token,
		slack.OptionDebug(b.config.GetBool(config.DebugKey)),
		slack.OptionLog(log.New(os.Stdout, "slack: ", log.Lshortfile|log.LstdFlags)),
	)

	rtm := api.NewRTM()
	go rtm.ManageConnection()
	defer rtm.Disconnect()

	if b.terminationCh == nil {
		b.terminationCh = make(chan bool)
		go watchForTerminationSignal(b.terminationCh, b.log)
	}

	return b.runInternal(rtm.IncomingEvents, &runDependencies{chatDriver: api, selfInfoFinder: rtm})
}

// watchForTerminationSignal waits for a SIGTERM or SIGINT and closes the termination channel to finish
// the main run loop and terminate cleanly. Note that this is meant to run in a go routine given that this is blocking
func watchForTerminationSignal(terminationCh chan bool, log SLogger) {
	tSignals := make(chan os.Signal, 1)
	signal.Notify(tSignals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-tSignals

	log.Debugf("Received termination signal [%s], stopping", sig)
	close(terminationCh)
}

// runInternal registers the help plugin, starts the message processing workers and the action scheduler and
// then loops over incoming events until termination. On termination, queued messages are processed before returning
func (b *Bot) runInternal(events <-chan slack.RTMEvent, deps *runDependencies) (err error) {
	helpPlugin := b.newHelpPlugin(VERSION)
	b.RegisterPlugin(&helpPlugin.Plugin)
	b.attachIdentifiersToPluginActions()

	timeLoc, err := config.GetTimeLocation(b.config)
	if err != nil {
		return err
	}

	pr, err := newPartitionRouter(b.config.GetInt(config.MessageProcessingPartitionCount), b.config.GetInt(config.MessageProcessingBufferedMessageCount), b.log, b.instrumenter)
	if err != nil {
		return err
	}

	driver, err := newChatDriverWithTelemetry(deps.chatDriver, b.name, b.meter)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	pr.start(&wg, func(msgEvent slack.MessageEvent) {
		b.processMessageEvent(driver, &msgEvent)
	})
	defer func() {
		pr.stop()
		wg.Wait()
	}()

	stopScheduler := b.startActionScheduler(timeLoc, &chatDriverSender{driver: driver})
	defer stopScheduler()

	for {
		select {
		case <-b.terminationCh:
			return nil

		case e, ok := <-events:
			if !ok {
				return nil
			}

			switch ev := e.Data.(type) {
			case *slack.ConnectedEvent:
				b.log.Printf("Connected to slack (connection counter: %d)", ev.ConnectionCount)
				b.cacheSelfIdentity(deps.selfInfoFinder)

			case *slack.MessageEvent:
				b.instrumenter.msgSeen()
				pr.routeMessageEvent(*ev)

			case *slack.LatencyReport:
				b.instrumenter.slackLatency(ev.Value)

			case *slack.RTMError:
				b.log.Printf("Error: %s", ev.Error())

			case *slack.InvalidAuthEvent:
				return errors.New("Invalid credentials")
			}
		}
	}
}

// attachIdentifiersToPluginActions attaches an action identifier to every plugin action and sets them accordingly
// in the internal state of the bot. The identifiers are generated the following way:
//   - pluginName.c[pluginIndexOfTheCommand] for commands
//   - pluginName.h[pluginIndexOfTheHearAction] for hear actions
func (b *Bot) attachIdentifiersToPluginActions() {
	b.commandsWithID = make([]ActionDefinitionWithID, 0)
	b.hearActionsWithID = make([]ActionDefinitionWithID, 0)

	for _, p := range b.plugins {
		for i, c := range p.Commands {
			b.commandsWithID = append(b.commandsWithID, ActionDefinitionWithID{ActionDefinition: c, id: fmt.Sprintf("%s.c[%d]", p.Name, i), plugin: p.Name})
		}

		for i, h := range p.HearActions {
			b.hearActionsWithID = append(b.hearActionsWithID, ActionDefinitionWithID{ActionDefinition: h, id: fmt.Sprintf("%s.h[%d]", p.Name, i), plugin: p.Name})
		}
	}
}

// selfIdentity is the bot's own identity as reported on connection. It is replaced, never modified,
// on every reconnection
type selfIdentity struct {
	id           string
	name         string
	mentionRegex *regexp.Regexp
}

// cacheSelfIdentity gets "our" identity and keeps it to avoid having to look it up every time
func (b *Bot) cacheSelfIdentity(finder selfInfoFinder) {
	info := finder.GetInfo()
	if info == nil || info.User == nil {
		b.log.Printf("Unable to get self identity, mentions won't be recognized")
		return
	}

	self := &selfIdentity{id: info.User.ID, name: info.User.Name}
	self.mentionRegex = regexp.MustCompile("^(<@" + regexp.QuoteMeta(self.id) + ">|@?" + regexp.QuoteMeta(self.name) + "):?\\s+(.+)")
	b.self.Store(self)

	b.log.Debugf("Caching self id [%s] and self name [%s]", self.id, self.name)
}

// startActionScheduler registers every plugin scheduled action with a scheduler and starts it. The returned
// function stops the scheduler
func (b *Bot) startActionScheduler(timeLoc *time.Location, sender MessageSender) (stop func()) {
	gocron.ChangeLoc(timeLoc)
	sc := gocron.NewScheduler()

	jobCount := 0
	for _, p := range b.plugins {
		for _, sa := range p.ScheduledActions {
			j, err := schedule.NewJob(sc, sa.Schedule)
			if err != nil {
				b.log.Printf("Unable to schedule action [%s] of plugin [%s]: %v", sa, p.Name, err)
				continue
			}

			b.log.Debugf("Adding job [%s] of plugin [%s] to scheduler", sa.Schedule, p.Name)
			j.Do(sa.Action, sender)
			jobCount++
		}
	}

	if jobCount == 0 {
		return func() {}
	}

	_, t := sc.NextRun()
	b.log.Debugf("Starting scheduler with first job scheduled at [%s]", t)

	stopped := sc.Start()
	return func() {
		select {
		case stopped <- true:
		default:
		}
	}
}

// processMessageEvent handles high-level processing of all slack message events
func (b *Bot) processMessageEvent(driver chatDriver, msgEvent *slack.MessageEvent) {
	// reply_to is set by slack when a sent message has been acknowledged. Those are only meaningful to clients
	if msgEvent.ReplyTo > 0 || msgEvent.Type != "message" {
		return
	}

	b.log.Debugf("Processing event: %v", msgEvent)

	incomingMessageID := SlackMessageID{channelID: msgEvent.Channel, timestamp: msgEvent.Timestamp}

	switch msgEvent.SubType {
	case slack.MsgSubTypeMessageDeleted:
		d := measure(func() { b.processDeletedMessage(driver, msgEvent) })
		b.instrumenter.msgProcessed(deleteMsgType, d)
	case slack.MsgSubTypeMessageChanged:
		d := measure(func() { b.processUpdatedMessage(driver, msgEvent, incomingMessageID) })
		b.instrumenter.msgProcessed(updateMsgType, d)
	default:
		d := measure(func() { b.processNewMessage(driver, msgEvent, incomingMessageID) })
		b.instrumenter.msgProcessed(newMsgType, d)
	}
}

// processUpdatedMessage processes changed messages:
//  1. If the message isn't present in the triggering message cache, it's processed as a new message
//  2. If the message is present in cache, responses are handled on a plugin action basis: a still triggering
//     action gets its response updated, an action not triggering anymore gets its response deleted and a newly
//     triggered action gets a new response
//  3. The new state of responses replaces the previous one for the triggering message in the cache
func (b *Bot) processUpdatedMessage(driver chatDriver, msgEvent *slack.MessageEvent, incomingMessageID SlackMessageID) {
	if msgEvent.SubMessage == nil {
		return
	}

	editedMessageID := SlackMessageID{channelID: msgEvent.Channel, timestamp: msgEvent.SubMessage.Timestamp}
	combined := combineIncomingMessageToHandle(msgEvent)

	cachedResponses, exists := b.triggeringMsgToResponses.Get(editedMessageID)
	if !exists {
		outMsgs := b.routeMessage(combined)
		b.sendOutgoingMessages(driver, editedMessageID, combined.Timestamp, outMsgs)
		return
	}

	responsesByAction := cachedResponses.(map[string]SlackMessageID)
	newResponsesByAction := make(map[string]SlackMessageID)

	outMsgs := b.routeMessage(combined)
	b.log.Debugf("Detected %d existing responses to message [%s]", len(responsesByAction), editedMessageID)

	for _, o := range outMsgs {
		if r, ok := responsesByAction[o.pluginIdentifier]; ok {
			rID, err := b.updateExistingMessage(driver, r, o)
			if err != nil {
				b.log.Printf("Unable to update message [%s] to triggering message [%s]: %v", r, editedMessageID, err)
				continue
			}

			newResponsesByAction[o.pluginIdentifier] = rID

			// Remove entries as we process them so that the ones left are the responses to delete
			delete(responsesByAction, o.pluginIdentifier)
		} else {
			rID, err := b.sendNewMessage(driver, o, combined.Timestamp)
			if err != nil {
				b.log.Printf("Unable to send new message to updated message [%s]: %v", editedMessageID, err)
				continue
			}

			newResponsesByAction[o.pluginIdentifier] = rID
		}
	}

	for _, r := range responsesByAction {
		if _, _, err := driver.DeleteMessage(r.channelID, r.timestamp); err != nil {
			b.log.Printf("Unable to delete stale response [%s] to message [%s]: %v", r, editedMessageID, err)
		}
	}

	if len(newResponsesByAction) > 0 {
		b.triggeringMsgToResponses.Add(editedMessageID, newResponsesByAction)
	} else {
		b.log.Debugf("Deleting entry for edited message [%s] since no more triggered response", editedMessageID)
		b.triggeringMsgToResponses.Remove(editedMessageID)
	}
}

// processDeletedMessage deletes any previous responses triggered by a now deleted message
func (b *Bot) processDeletedMessage(driver chatDriver, msgEvent *slack.MessageEvent) {
	deletedMessageID := SlackMessageID{channelID: msgEvent.Channel, timestamp: msgEvent.DeletedTimestamp}

	if existingResponses, exists := b.triggeringMsgToResponses.Get(deletedMessageID); exists {
		for _, r := range existingResponses.(map[string]SlackMessageID) {
			if _, _, err := driver.DeleteMessage(r.channelID, r.timestamp); err != nil {
				b.log.Printf("Error deleting existing response to triggering message [%s]: %s: %v", deletedMessageID, r, err)
			}
		}

		b.triggeringMsgToResponses.Remove(deletedMessageID)
	}
}

// processNewMessage handles a regular new message and sends any triggered response
func (b *Bot) processNewMessage(driver chatDriver, msgEvent *slack.MessageEvent, incomingMessageID SlackMessageID) {
	outMsgs := b.routeMessage(&msgEvent.Msg)

	threadTS := msgEvent.ThreadTimestamp
	if threadTS == "" {
		threadTS = msgEvent.Timestamp
	}

	b.sendOutgoingMessages(driver, incomingMessageID, threadTS, outMsgs)
}

// sendOutgoingMessages sends out any triggered plugin responses and keeps track of those in the internal cache
func (b *Bot) sendOutgoingMessages(driver chatDriver, incomingMessageID SlackMessageID, threadTS string, outMsgs []*OutgoingMessage) {
	newResponsesByAction := make(map[string]SlackMessageID)

	for _, o := range outMsgs {
		rID, err := b.sendNewMessage(driver, o, threadTS)
		if err != nil {
			b.log.Printf("Unable to send new message triggered by [%s]: %v", incomingMessageID, err)
			continue
		}

		newResponsesByAction[o.pluginIdentifier] = rID
	}

	if len(newResponsesByAction) > 0 {
		b.triggeringMsgToResponses.Add(incomingMessageID, newResponsesByAction)
	}
}

// sendNewMessage sends a new outgoing message and returns that message's identifier
func (b *Bot) sendNewMessage(driver messageSender, o *OutgoingMessage, threadTS string) (rID SlackMessageID, err error) {
	options := append([]slack.MsgOption{slack.MsgOptionText(o.Text, false), slack.MsgOptionAsUser(true)}, b.threadingOptions(o.Answer, threadTS)...)

	channelID, ts, _, err := driver.SendMessage(o.channelID, options...)

	return SlackMessageID{channelID: channelID, timestamp: ts}, err
}

// updateExistingMessage updates an existing message with the content of a newly triggered OutgoingMessage
func (b *Bot) updateExistingMessage(driver messageUpdater, r SlackMessageID, o *OutgoingMessage) (rID SlackMessageID, err error) {
	channelID, ts, _, err := driver.UpdateMessage(r.channelID, r.timestamp, slack.MsgOptionText(o.Text, false), slack.MsgOptionAsUser(true))

	// Slack keeps the timestamp of the original message on updates
	if ts == "" {
		ts = r.timestamp
	}

	return SlackMessageID{channelID: channelID, timestamp: ts}, err
}

// threadingOptions returns the thread related message options resulting from the configuration defaults
// overridden by the answer's options
func (b *Bot) threadingOptions(answer *Answer, threadTS string) (options []slack.MsgOption) {
	ro := ApplyAnswerOpts(answer.Options...)

	if !ro.threaded(b.config.GetBool(config.ThreadedRepliesKey)) {
		return nil
	}

	if ro.ThreadTimestamp != "" {
		threadTS = ro.ThreadTimestamp
	}

	options = append(options, slack.MsgOptionTS(threadTS))
	if ro.broadcast(b.config.GetBool(config.BroadcastThreadedRepliesKey)) {
		options = append(options, slack.MsgOptionBroadcast())
	}

	return options
}

// combineIncomingMessageToHandle combines a main message and its sub message to form what would be an intuitive message to process for
// a bot: a message with the new updated text (in the case of a changed message) along with the channel being the one where the message
// is visible and with the user correctly set to the person who updated the message
func combineIncomingMessageToHandle(messageEvent *slack.MessageEvent) (combinedMessage *slack.Msg) {
	if messageEvent.SubType == slack.MsgSubTypeMessageChanged && messageEvent.SubMessage != nil {
		combined := messageEvent.Msg
		combined.Text = messageEvent.SubMessage.Text
		combined.User = messageEvent.SubMessage.User
		combined.BotID = messageEvent.SubMessage.BotID
		combined.Timestamp = messageEvent.SubMessage.Timestamp
		combined.SubType = ""
		return &combined
	}

	return &messageEvent.Msg
}

// routeMessage handles routing the message to commands or hear actions according to the context.
// The rules are the following:
//  1. Messages from "us" or from other bots are ignored
//  2. A message starting with the command prefix is routed to commands. Unknown commands are ignored
//  3. A message on a channel with a direct mention to us (@name) is routed to commands
//  4. A direct message to us is routed to commands
//  5. Any other message (regular conversation) is routed to hear actions
func (b *Bot) routeMessage(m *slack.Msg) (responses []*OutgoingMessage) {
	responses = make([]*OutgoingMessage, 0)

	self := b.self.Load()

	if (self != nil && m.User == self.id) || m.BotID != "" {
		b.log.Debugf("Ignoring message from user [%s] (bot [%s])", m.User, m.BotID)
		return responses
	}

	if b.prefix != "" && strings.HasPrefix(m.Text, b.prefix) {
		normalizedText := strings.TrimSpace(strings.TrimPrefix(m.Text, b.prefix))
		if normalizedText == "" {
			return responses
		}

		return b.handleMessage(b.commandsWithID, &IncomingMessage{NormalizedText: normalizedText, Msg: *m})
	}

	if self != nil {
		if matches := self.mentionRegex.FindStringSubmatch(m.Text); len(matches) == 3 {
			return b.handleCommand(&IncomingMessage{NormalizedText: matches[2], Msg: *m})
		}
	}

	if strings.HasPrefix(m.Channel, "D") {
		return b.handleCommand(&IncomingMessage{NormalizedText: strings.TrimSpace(m.Text), Msg: *m})
	}

	return b.handleMessage(b.hearActionsWithID, &IncomingMessage{NormalizedText: m.Text, Msg: *m})
}

// handleCommand handles a command by trying a match with all known commands. If no match is found, the default action is invoked
func (b *Bot) handleCommand(m *IncomingMessage) (outMsgs []*OutgoingMessage) {
	outMsgs = b.handleMessage(b.commandsWithID, m)
	if len(outMsgs) == 0 {
		return []*OutgoingMessage{{channelID: m.Channel, Answer: b.defaultAction(m), pluginIdentifier: defaultActionID}}
	}

	return outMsgs
}

// handleMessage loops over all action definitions and invokes its action if the incoming message matches it.
// Note that more than one action can be triggered during the processing of a single message
func (b *Bot) handleMessage(actions []ActionDefinitionWithID, m *IncomingMessage) (outMsgs []*OutgoingMessage) {
	outMsgs = make([]*OutgoingMessage, 0)

	for _, action := range actions {
		if !action.Match(m) {
			continue
		}

		var answer *Answer
		d := measure(func() { answer = action.Answer(m) })
		b.instrumenter.pluginProcessed(action.plugin, d, answer != nil)

		if answer != nil {
			outMsgs = append(outMsgs, &OutgoingMessage{channelID: m.Channel, Answer: answer, pluginIdentifier: action.id})
		}
	}

	return outMsgs
}
