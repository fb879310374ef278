package pocketbase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

// messageRecord is the wire shape of a message record.
type messageRecord struct {
	ID           string `json:"id"`
	Room         string `json:"room"`
	SenderID     string `json:"senderId"`
	SenderName   string `json:"senderName"`
	SenderAvatar string `json:"senderAvatar"`
	Text         string `json:"text"`
	IsUser       bool   `json:"isUser"`
	Image        string `json:"image"`
	Timestamp    string `json:"timestamp,omitempty"`
	Created      string `json:"created,omitempty"`
}

func (r *messageRecord) toMessage() types.Message {
	return types.Message{
		ID:           r.ID,
		SenderID:     r.SenderID,
		SenderName:   r.SenderName,
		SenderAvatar: r.SenderAvatar,
		Text:         r.Text,
		Timestamp:    parseRecordTime(r.Created),
		IsUser:       r.IsUser,
		Image:        r.Image,
	}
}

// CreateMessage durably publishes a message into the given room and returns
// it with the server-assigned id and creation time.
func (c *Client) CreateMessage(ctx context.Context, roomID string, message types.Message) (types.Message, error) {
	payload := &messageRecord{
		Room:         roomID,
		SenderID:     message.SenderID,
		SenderName:   message.SenderName,
		SenderAvatar: message.SenderAvatar,
		Text:         message.Text,
		IsUser:       message.IsUser,
		Image:        message.Image,
		Timestamp:    formatRecordTime(message.Timestamp),
	}
	created := &messageRecord{}
	if err := c.do(ctx, "POST", "/api/collections/messages/records", payload, created); err != nil {
		return types.Message{}, errors.Wrap(err, "creating message record")
	}
	return created.toMessage(), nil
}

// ListMessages fetches one page of a room's messages ordered by creation time
// ascending.
func (c *Client) ListMessages(ctx context.Context, roomID string, page, pageSize int) ([]types.Message, error) {
	filter := url.QueryEscape(fmt.Sprintf("room = %q", roomID))
	response := &listResponse[*messageRecord]{}
	path := listPath("messages", page, pageSize, "created", filter)
	if err := c.do(ctx, "GET", path, nil, response); err != nil {
		return nil, errors.Wrap(err, "listing message records")
	}
	messages := make([]types.Message, 0, len(response.Items))
	for _, record := range response.Items {
		messages = append(messages, record.toMessage())
	}
	return messages, nil
}

// ListUsers fetches all registered human users, newest first.
func (c *Client) ListUsers(ctx context.Context) ([]types.User, error) {
	response := &listResponse[*userRecord]{}
	path := listPath("users", 1, 200, url.QueryEscape("-created"), "")
	if err := c.do(ctx, "GET", path, nil, response); err != nil {
		return nil, errors.Wrap(err, "listing user records")
	}
	users := make([]types.User, 0, len(response.Items))
	for _, record := range response.Items {
		users = append(users, record.toUser())
	}
	return users, nil
}
