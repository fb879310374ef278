package reconciler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volkanakbulut73/sohbetchat3/internal/pocketbase"
	"github.com/volkanakbulut73/sohbetchat3/internal/session"
	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

type fakeStream struct {
	mu       sync.Mutex
	handlers map[int]pocketbase.Handler
	nextID   int
}

func newFakeStream() *fakeStream {
	return &fakeStream{handlers: map[int]pocketbase.Handler{}}
}

func (s *fakeStream) Subscribe(_ context.Context, _ string, handler pocketbase.Handler) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return &fakeSubscription{stream: s, id: id}
}

func (s *fakeStream) deliver(event pocketbase.Event) {
	s.mu.Lock()
	handlers := make([]pocketbase.Handler, 0, len(s.handlers))
	for _, handler := range s.handlers {
		handlers = append(handlers, handler)
	}
	s.mu.Unlock()
	for _, handler := range handlers {
		handler(event)
	}
}

func (s *fakeStream) listenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

type fakeSubscription struct {
	stream *fakeStream
	id     int
}

func (f *fakeSubscription) Unsubscribe() {
	f.stream.mu.Lock()
	defer f.stream.mu.Unlock()
	delete(f.stream.handlers, f.id)
}

type fakeHistory struct {
	messages map[string][]types.Message
	err      error
}

func (h *fakeHistory) ListMessages(_ context.Context, roomID string, _, pageSize int) ([]types.Message, error) {
	if h.err != nil {
		return nil, h.err
	}
	messages := h.messages[roomID]
	if len(messages) > pageSize {
		messages = messages[:pageSize]
	}
	return messages, nil
}

type fakeArchive struct {
	mu    sync.Mutex
	saved []string
}

func (a *fakeArchive) SaveMessage(_ string, message types.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, message.ID)
	return nil
}

var self = types.User{ID: "alice", Name: "Alice"}

func createEvent(room, id, senderID string) pocketbase.Event {
	return pocketbase.Event{
		Action: "create",
		Room:   room,
		Message: types.Message{
			ID:        id,
			SenderID:  senderID,
			Timestamp: time.Now(),
		},
	}
}

func TestRoomDeduplication(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	r := New(stream, &fakeHistory{}, manager, Options{})
	r.WatchRoom(context.Background(), "room_life")

	stream.deliver(createEvent("room_life", "m1", "bob"))
	stream.deliver(createEvent("room_life", "m2", "alice"))
	stream.deliver(createEvent("room_life", "m1", "bob")) // redelivery
	stream.deliver(createEvent("room_life", "m2", "alice"))

	messages := r.Messages("room_life")
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
}

func TestHistoryThenLiveIsIdempotent(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	history := &fakeHistory{messages: map[string][]types.Message{
		"room_life": {{ID: "m1", SenderID: "bob"}, {ID: "m2", SenderID: "alice"}},
	}}
	r := New(stream, history, manager, Options{})
	r.WatchRoom(context.Background(), "room_life")

	// The live stream redelivers a message already covered by history.
	stream.deliver(createEvent("room_life", "m2", "alice"))
	stream.deliver(createEvent("room_life", "m3", "bob"))

	messages := r.Messages("room_life")
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"},
		[]string{messages[0].ID, messages[1].ID, messages[2].ID})
}

func TestHistoryFailureStillWatches(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	r := New(stream, &fakeHistory{err: assert.AnError}, manager, Options{})
	r.WatchRoom(context.Background(), "room_life")

	stream.deliver(createEvent("room_life", "m1", "bob"))
	assert.Len(t, r.Messages("room_life"), 1)
}

func TestRoomScopedIgnoresOtherRooms(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	r := New(stream, &fakeHistory{}, manager, Options{})
	r.WatchRoom(context.Background(), "room_life")

	stream.deliver(createEvent("room_chaos", "m1", "bob"))
	assert.Empty(t, r.Messages("room_life"))
	assert.Empty(t, r.Messages("room_chaos"))
}

func TestNotificationOnlyForForeignMessages(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	var mu sync.Mutex
	rings := 0
	r := New(stream, &fakeHistory{}, manager, Options{Notify: func() {
		mu.Lock()
		rings++
		mu.Unlock()
	}})
	r.WatchRoom(context.Background(), "room_life")

	stream.deliver(createEvent("room_life", "m1", "alice")) // own echo
	stream.deliver(createEvent("room_life", "m2", "bob"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, rings)
}

func TestGlobalMaterializesPrivateTab(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	r := New(stream, &fakeHistory{}, manager, Options{})
	r.StartGlobal(context.Background())

	privateRoom := types.PrivateRoomID("alice", "bob")
	event := createEvent(privateRoom, "m1", "bob")
	event.Message.SenderName = "Bob"
	stream.deliver(event)

	// Tab exists, is unread, and focus was not stolen.
	require.True(t, manager.IsOpen(privateRoom))
	assert.True(t, manager.IsUnread(privateRoom))
	assert.Equal(t, "room_life", manager.ActiveRoomID())

	tabs := manager.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, "Bob", tabs[1].Name)
	assert.True(t, tabs[1].IsPrivate)
}

func TestGlobalScopeChecks(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	r := New(stream, &fakeHistory{}, manager, Options{})
	r.StartGlobal(context.Background())

	// Own messages never materialize a tab.
	stream.deliver(createEvent(types.PrivateRoomID("alice", "bob"), "m1", "alice"))
	// Public rooms are not the global listener's business.
	stream.deliver(createEvent("room_chaos", "m2", "bob"))
	// Private rooms between other people are invisible.
	stream.deliver(createEvent(types.PrivateRoomID("bob", "carol"), "m3", "bob"))

	assert.Len(t, manager.Tabs(), 1)
}

func TestListenerLifecycles(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	r := New(stream, &fakeHistory{}, manager, Options{})
	r.StartGlobal(context.Background())
	r.WatchRoom(context.Background(), "room_life")
	assert.Equal(t, 2, stream.listenerCount())

	// Switching rooms replaces the room-scoped listener.
	manager.OpenRoom(types.ChatRoom{ID: "room_chaos"})
	r.WatchRoom(context.Background(), "room_chaos")
	assert.Equal(t, 2, stream.listenerCount())

	r.UnwatchRoom()
	assert.Equal(t, 1, stream.listenerCount())
	r.StopGlobal()
	assert.Equal(t, 0, stream.listenerCount())
}

func TestConcurrentWatchAndUnwatch(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	r := New(stream, &fakeHistory{}, manager, Options{})

	// Room switches run on tea.Cmd goroutines while quit unwatches from the
	// program goroutine. Whatever the interleaving, no listener may leak.
	var wg sync.WaitGroup
	rooms := []string{"room_life", "room_chaos", "room_china"}
	for i := 0; i < 20; i++ {
		wg.Add(2)
		roomID := rooms[i%len(rooms)]
		go func() {
			defer wg.Done()
			r.WatchRoom(context.Background(), roomID)
		}()
		go func() {
			defer wg.Done()
			r.UnwatchRoom()
		}()
	}
	wg.Wait()

	r.UnwatchRoom()
	assert.Equal(t, 0, stream.listenerCount())
}

func TestWatchSameRoomIsNoOp(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	history := &fakeHistory{messages: map[string][]types.Message{
		"room_life": {{ID: "m1", SenderID: "bob"}},
	}}
	r := New(stream, history, manager, Options{})
	r.WatchRoom(context.Background(), "room_life")
	r.WatchRoom(context.Background(), "room_life")

	// The listener survives and history was not refetched into a new merge.
	assert.Equal(t, 1, stream.listenerCount())
	assert.Len(t, r.Messages("room_life"), 1)

	stream.deliver(createEvent("room_life", "m2", "bob"))
	assert.Len(t, r.Messages("room_life"), 2)
}

func TestUnreadWhenWatchedRoomNotActive(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	r := New(stream, &fakeHistory{}, manager, Options{})
	r.WatchRoom(context.Background(), "room_life")

	// User switches focus while the listener is still on room_life.
	manager.OpenRoom(types.ChatRoom{ID: "room_chaos"})
	stream.deliver(createEvent("room_life", "m1", "bob"))

	assert.True(t, manager.IsUnread("room_life"))
	assert.Len(t, r.Messages("room_life"), 1)
}

func TestArchiveWriteThrough(t *testing.T) {
	t.Parallel()
	stream := newFakeStream()
	manager := session.New(self)
	manager.OpenRoom(types.ChatRoom{ID: "room_life"})

	archive := &fakeArchive{}
	history := &fakeHistory{messages: map[string][]types.Message{
		"room_life": {{ID: "m0", SenderID: "bob"}},
	}}
	r := New(stream, history, manager, Options{Archive: archive})
	r.WatchRoom(context.Background(), "room_life")
	stream.deliver(createEvent("room_life", "m1", "bob"))
	stream.deliver(createEvent("room_life", "m1", "bob")) // redelivery is not re-archived

	archive.mu.Lock()
	defer archive.mu.Unlock()
	assert.Equal(t, []string{"m0", "m1"}, archive.saved)
}
