// Package types holds the domain model shared by every component: users,
// messages, rooms and the generation backend's reply items.
package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PrivateRoomPrefix marks room ids that denote a two-human private room.
const PrivateRoomPrefix = "private_"

// User is a chat participant. Humans are created at registration; bots are
// defined in the static registry and never persisted.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	IsBot  bool   `json:"isBot"`
	// Role describes a bot's behavior in natural language. Empty for humans.
	Role string `json:"role,omitempty"`
}

// Message is a single chat message. The ID is assigned by the backend at
// creation and serves as the deduplication key. Messages are immutable.
type Message struct {
	ID           string `json:"id"`
	SenderID     string `json:"senderId"`
	SenderName   string `json:"senderName"`
	SenderAvatar string `json:"senderAvatar"`
	// Text may carry inline <b>/<i>/<u> markup from the rich editor. Strip it
	// with PlainText before handing it to a generation backend.
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsUser    bool      `json:"isUser"`
	// Image is an optional base64 attachment.
	Image string `json:"image,omitempty"`
}

// ChatRoom is a logical conversation channel. Public rooms come from the
// static registry; private rooms are synthesized at runtime.
type ChatRoom struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Topic        string `json:"topic"`
	Description  string `json:"description"`
	Participants []User `json:"participants"`
	IsPrivate    bool   `json:"isPrivate,omitempty"`
}

// Bots returns the bot participants of the room.
func (r *ChatRoom) Bots() []User {
	var bots []User
	for _, p := range r.Participants {
		if p.IsBot {
			bots = append(bots, p)
		}
	}
	return bots
}

// Bot returns the bot participant with the given id, if present.
func (r *ChatRoom) Bot(id string) (User, bool) {
	for _, p := range r.Participants {
		if p.IsBot && p.ID == id {
			return p, true
		}
	}
	return User{}, false
}

// BotResponseItem is one proposed bot reply from the general generation
// backend. Items referencing a bot absent from the room are discarded.
type BotResponseItem struct {
	BotID   string `json:"botId"`
	Message string `json:"message"`
}

// PrivateRoomID returns the canonical id of the private room between two
// users. Both sides compute the same id regardless of who initiates.
func PrivateRoomID(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return PrivateRoomPrefix + strings.Join(ids, "_")
}

// IsPrivateRoomID reports whether the room id denotes a private room.
func IsPrivateRoomID(roomID string) bool {
	return strings.HasPrefix(roomID, PrivateRoomPrefix)
}

// PrivateRoomHasMember reports whether the given user id is one of the two
// components of a private room id.
func PrivateRoomHasMember(roomID, userID string) bool {
	if !IsPrivateRoomID(roomID) || userID == "" {
		return false
	}
	return strings.Contains(roomID, userID)
}

// NewPrivateRoom synthesizes the private room between self and peer, listing
// only the peer as participant.
func NewPrivateRoom(selfID string, peer User) ChatRoom {
	return ChatRoom{
		ID:           PrivateRoomID(selfID, peer.ID),
		Name:         peer.Name,
		Topic:        "Özel Sohbet",
		Description:  fmt.Sprintf("%s ile özel sohbet", peer.Name),
		Participants: []User{peer},
		IsPrivate:    true,
	}
}
