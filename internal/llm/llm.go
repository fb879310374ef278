// Package llm holds the two generation backends: the general group
// generator that proposes replies for a whole persona roster, and the
// specialized generator serving a single persona. Both consume plain-text
// context only; markup stripping happens upstream.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

// PersonaDescriptor describes one bot to the general backend.
type PersonaDescriptor struct {
	ID   string
	Name string
	Role string
}

// ContextMessage is one line of bounded conversation context.
type ContextMessage struct {
	SenderName string
	Text       string
	HasImage   bool
}

// GroupRequest asks the general backend for up to MaxGroupReplies bot
// replies for one human turn.
type GroupRequest struct {
	Context  []ContextMessage
	Bots     []PersonaDescriptor
	Topic    string
	UserName string
	// Image optionally carries the newest message's attachment as raw bytes.
	Image []byte
}

// PersonaRequest asks the specialized backend for a single free-text reply.
type PersonaRequest struct {
	Context  []ContextMessage
	UserName string
}

// MaxGroupReplies is the hard cap on bot replies per human turn.
const MaxGroupReplies = 2

// GroupGenerator produces bounded persona reply sets.
type GroupGenerator interface {
	GenerateGroupReplies(ctx context.Context, request *GroupRequest) ([]types.BotResponseItem, error)
}

// PersonaGenerator produces a single persona's reply.
type PersonaGenerator interface {
	GeneratePersonaReply(ctx context.Context, request *PersonaRequest) (string, error)
}

// renderHistory flattens context messages into the transcript form both
// backends are prompted with. Attachments appear as a placeholder marker
// rather than being inlined per request.
func renderHistory(messages []ContextMessage) string {
	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		line := fmt.Sprintf("%s: %s", message.SenderName, message.Text)
		if message.HasImage {
			line += " [RESİM]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
