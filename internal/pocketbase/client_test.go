package pocketbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

func TestLoginAndCurrentUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/collections/users/auth-with-password", r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "a@b.c", payload["identity"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"record": map[string]any{
				"id":       "u1",
				"username": "user_123",
				"name":     "Ayşe",
				"avatar":   "",
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	user, err := client.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Ayşe", user.Name)
	// No avatar set: a deterministic placeholder is synthesized.
	assert.Contains(t, user.Avatar, "dicebear")
	assert.Contains(t, user.Avatar, "seed=u1")

	current, ok := client.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, user, current)

	client.SignOut()
	_, ok = client.CurrentUser()
	assert.False(t, ok)
}

func TestLoginServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"code": 400, "message": "Failed to authenticate."})
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to authenticate.")
}

func TestCreateMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/collections/messages/records", r.URL.Path)
		var record messageRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		assert.Equal(t, "room_life", record.Room)
		assert.Equal(t, "merhaba", record.Text)

		record.ID = "m1"
		record.Created = "2026-01-02 15:04:05.000Z"
		json.NewEncoder(w).Encode(&record)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	created, err := client.CreateMessage(context.Background(), "room_life", types.Message{
		SenderID:   "u1",
		SenderName: "Ayşe",
		Text:       "merhaba",
		Timestamp:  time.Now(),
		IsUser:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", created.ID)
	assert.Equal(t, 2026, created.Timestamp.Year())
}

func TestListMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/collections/messages/records", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "1", query.Get("page"))
		assert.Equal(t, "50", query.Get("perPage"))
		assert.Equal(t, "created", query.Get("sort"))
		assert.Equal(t, `room = "room_life"`, query.Get("filter"))

		json.NewEncoder(w).Encode(map[string]any{
			"page": 1, "perPage": 50, "totalItems": 2, "totalPages": 1,
			"items": []map[string]any{
				{"id": "m1", "room": "room_life", "senderId": "u1", "text": "ilk", "created": "2026-01-02 15:04:05.000Z"},
				{"id": "m2", "room": "room_life", "senderId": "bot_atlas", "text": "ikinci", "created": "2026-01-02 15:04:06.000Z"},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	messages, err := client.ListMessages(context.Background(), "room_life", 1, 50)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.True(t, messages[0].Timestamp.Before(messages[1].Timestamp))
}

func TestListUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "-created", r.URL.Query().Get("sort"))
		json.NewEncoder(w).Encode(map[string]any{
			"page": 1, "perPage": 200, "totalItems": 2, "totalPages": 1,
			"items": []map[string]any{
				{"id": "u2", "username": "user_2", "name": "", "avatar": "https://cdn.example.com/u2.png"},
				{"id": "u3", "username": "user_3", "name": "Mehmet", "avatar": "storage-key.png"},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	// Name falls back to username; http avatars pass through, everything else
	// gets the placeholder.
	assert.Equal(t, "user_2", users[0].Name)
	assert.Equal(t, "https://cdn.example.com/u2.png", users[0].Avatar)
	assert.Contains(t, users[1].Avatar, "dicebear")
	assert.False(t, users[0].IsBot)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	registered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "POST":
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "c1", payload["clientId"])
			close(registered)
			w.WriteHeader(http.StatusNoContent)

		case "GET":
			flusher, ok := w.(http.Flusher)
			require.True(t, ok)
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "event:PB_CONNECT\ndata:{\"clientId\":\"c1\"}\n\n")
			flusher.Flush()

			<-registered
			record := `{"action":"create","record":{"id":"m9","room":"private_u1_u2","senderId":"u2","senderName":"Mehmet","text":"selam","created":"2026-01-02 15:04:05.000Z"}}`
			fmt.Fprintf(w, "event:messages/*\ndata:%s\n\n", record)
			flusher.Flush()

			// Keep the stream open until the client goes away.
			<-r.Context().Done()
		}
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	events := make(chan Event, 1)
	subscription := client.Subscribe(context.Background(), "messages/*", func(event Event) {
		events <- event
	})
	defer subscription.Unsubscribe()

	select {
	case event := <-events:
		assert.Equal(t, "create", event.Action)
		assert.Equal(t, "private_u1_u2", event.Room)
		assert.Equal(t, "m9", event.Message.ID)
		assert.Equal(t, "selam", event.Message.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for realtime event")
	}
}
