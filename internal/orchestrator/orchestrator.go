// Package orchestrator decides which AI personas reply after a human
// message, generates their replies and publishes them back onto the event
// stream — the same stream the reconciler consumes, so replies reach every
// client (the sender's included) through one path.
package orchestrator

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/volkanakbulut73/sohbetchat3/internal/debug"
	"github.com/volkanakbulut73/sohbetchat3/internal/llm"
	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

var log = debug.GetLogger()

const (
	// generalContextWindow bounds the context sent to the group generator.
	generalContextWindow = 15
	// specializedContextWindow bounds the context sent to the specialized
	// persona backend.
	specializedContextWindow = 10
)

// Publisher writes messages durably onto the event stream.
type Publisher interface {
	CreateMessage(ctx context.Context, roomID string, message types.Message) (types.Message, error)
}

// Options configures an Orchestrator.
type Options struct {
	// TypingDelay paces sequential replies to emulate thinking time.
	TypingDelay time.Duration
	// SpecializedBotID routes one persona to the specialized backend.
	SpecializedBotID string
	// OnTyping toggles the room-wide typing indicator. May be nil.
	OnTyping func(active bool)
}

// Orchestrator runs one generation turn per human message. Either backend
// may be nil when its credentials are missing; the turn then degrades
// instead of failing.
type Orchestrator struct {
	general     llm.GroupGenerator
	specialized llm.PersonaGenerator
	publisher   Publisher
	opts        Options

	warnGeneralMissing     sync.Once
	warnSpecializedMissing sync.Once
}

// New instantiates an orchestrator.
func New(general llm.GroupGenerator, specialized llm.PersonaGenerator, publisher Publisher, opts Options) *Orchestrator {
	return &Orchestrator{
		general:     general,
		specialized: specialized,
		publisher:   publisher,
		opts:        opts,
	}
}

// Respond runs the generation turn for a room whose newest message is the
// human's. The human message is already durably published, so every failure
// here degrades to fewer (or zero) bot replies; nothing is surfaced as an
// error to the user.
//
// Replies are published sequentially, each publish awaited before the next
// pacing delay, which yields a deterministic transcript order and keeps the
// typing indicator a single boolean.
func (o *Orchestrator) Respond(ctx context.Context, room types.ChatRoom, messages []types.Message, user types.User) {
	bots := room.Bots()
	if len(bots) == 0 {
		return
	}

	o.setTyping(true)
	defer o.setTyping(false)

	items := o.generateCandidates(ctx, room, messages, bots, user)
	for _, item := range items {
		bot, ok := room.Bot(item.BotID)
		if !ok {
			// The backend hallucinated a persona id.
			log.Warn("discarding reply for unknown bot", "room", room.ID, "bot", item.BotID)
			continue
		}

		select {
		case <-time.After(o.opts.TypingDelay):
		case <-ctx.Done():
			return
		}

		text := item.Message
		if bot.ID == o.opts.SpecializedBotID {
			if specialized, err := o.specializedReply(ctx, messages, user); err != nil {
				// Keep the general backend's candidate for this persona.
				log.Warn("specialized backend failed, using general candidate", "bot", bot.ID, "error", err)
			} else {
				text = specialized
			}
		}

		message := types.Message{
			SenderID:     bot.ID,
			SenderName:   bot.Name,
			SenderAvatar: bot.Avatar,
			Text:         text,
			Timestamp:    time.Now(),
			IsUser:       false,
		}
		if _, err := o.publisher.CreateMessage(ctx, room.ID, message); err != nil {
			log.Warn("publishing bot reply failed, aborting turn", "room", room.ID, "bot", bot.ID, "error", err)
			return
		}
	}
}

// generateCandidates invokes the general backend once for the turn and
// returns the validated, capped reply candidates.
func (o *Orchestrator) generateCandidates(
	ctx context.Context, room types.ChatRoom, messages []types.Message, bots []types.User, user types.User,
) []types.BotResponseItem {
	if o.general == nil {
		o.warnGeneralMissing.Do(func() {
			log.Warn("general generation backend not configured; turns produce no bot replies")
		})
		return nil
	}

	descriptors := make([]llm.PersonaDescriptor, 0, len(bots))
	for _, bot := range bots {
		descriptors = append(descriptors, llm.PersonaDescriptor{ID: bot.ID, Name: bot.Name, Role: bot.Role})
	}
	request := &llm.GroupRequest{
		Context:  boundedContext(messages, generalContextWindow),
		Bots:     descriptors,
		Topic:    room.Topic,
		UserName: user.Name,
		Image:    lastImageBytes(messages),
	}

	items, err := o.general.GenerateGroupReplies(ctx, request)
	if err != nil {
		log.Warn("general generation failed, turn produces no replies", "room", room.ID, "error", err)
		return nil
	}
	// The cap is a hard fan-out limit, enforced here even if the backend
	// ignores its instructions.
	if len(items) > llm.MaxGroupReplies {
		items = items[:llm.MaxGroupReplies]
	}
	return items
}

func (o *Orchestrator) specializedReply(ctx context.Context, messages []types.Message, user types.User) (string, error) {
	if o.specialized == nil {
		o.warnSpecializedMissing.Do(func() {
			log.Warn("specialized generation backend not configured; persona falls back to general candidates")
		})
		return "", errors.New("specialized backend not configured")
	}
	return o.specialized.GeneratePersonaReply(ctx, &llm.PersonaRequest{
		Context:  boundedContext(messages, specializedContextWindow),
		UserName: user.Name,
	})
}

func (o *Orchestrator) setTyping(active bool) {
	if o.opts.OnTyping != nil {
		o.opts.OnTyping(active)
	}
}

// boundedContext projects the most recent n messages onto plain text.
func boundedContext(messages []types.Message, n int) []llm.ContextMessage {
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	contextMessages := make([]llm.ContextMessage, 0, len(messages))
	for _, message := range messages {
		contextMessages = append(contextMessages, llm.ContextMessage{
			SenderName: message.SenderName,
			Text:       types.PlainText(message.Text),
			HasImage:   message.Image != "",
		})
	}
	return contextMessages
}

// lastImageBytes decodes the newest message's attachment, if any. Only the
// newest attachment rides along with a generation request.
func lastImageBytes(messages []types.Message) []byte {
	if len(messages) == 0 {
		return nil
	}
	image := messages[len(messages)-1].Image
	if image == "" {
		return nil
	}
	if i := strings.Index(image, ","); i >= 0 {
		image = image[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		log.Warn("dropping undecodable image attachment", "error", err)
		return nil
	}
	return data
}
