// Package reconciler turns the raw, at-least-once realtime event stream into
// consistent per-room message logs. It deduplicates redeliveries by message
// id, materializes private conversation tabs, and tracks unread state.
package reconciler

import (
	"context"
	"sync"

	"github.com/volkanakbulut73/sohbetchat3/internal/debug"
	"github.com/volkanakbulut73/sohbetchat3/internal/pocketbase"
	"github.com/volkanakbulut73/sohbetchat3/internal/session"
	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

var log = debug.GetLogger()

// MessagesTopic is the realtime topic carrying message creation events.
const MessagesTopic = "messages/*"

// Subscription is a live listener that can be torn down.
type Subscription interface {
	Unsubscribe()
}

// Stream is the subset of the realtime client the reconciler consumes.
type Stream interface {
	Subscribe(ctx context.Context, topic string, handler pocketbase.Handler) Subscription
}

// History fetches persisted messages.
type History interface {
	ListMessages(ctx context.Context, roomID string, page, pageSize int) ([]types.Message, error)
}

// Archive receives a best-effort copy of every appended message.
type Archive interface {
	SaveMessage(roomID string, message types.Message) error
}

// ClientStream adapts *pocketbase.Client to Stream.
type ClientStream struct {
	*pocketbase.Client
}

// Subscribe implements Stream.
func (s ClientStream) Subscribe(ctx context.Context, topic string, handler pocketbase.Handler) Subscription {
	return s.Client.Subscribe(ctx, topic, handler)
}

// Options configures a Reconciler.
type Options struct {
	// HistoryPageSize bounds the initial history window per room.
	HistoryPageSize int
	// Notify is called when a foreign message lands in the watched room.
	// Best effort; may be nil.
	Notify func()
	// OnChange is called with a room id after its log changed. May be nil.
	OnChange func(roomID string)
	// Archive receives appended messages. May be nil.
	Archive Archive
}

// Reconciler maintains two independent listener lifecycles: a global one for
// cross-room private-message detection and a room-scoped one feeding the
// rendered transcript. Messages append in arrival order; out-of-order
// delivery under network jitter is accepted and never re-sorted.
type Reconciler struct {
	stream  Stream
	history History
	session *session.Manager
	opts    Options

	mu   sync.Mutex
	logs map[string][]types.Message
	seen map[string]map[string]struct{}

	// subMu serializes listener lifecycle changes, which arrive from both the
	// program goroutine (quit, unwatch) and tea.Cmd goroutines (startup, room
	// switches).
	subMu       sync.Mutex
	global      Subscription
	room        Subscription
	watchedRoom string
}

// New instantiates a reconciler.
func New(stream Stream, history History, sessionManager *session.Manager, opts Options) *Reconciler {
	if opts.HistoryPageSize <= 0 {
		opts.HistoryPageSize = 50
	}
	return &Reconciler{
		stream:  stream,
		history: history,
		session: sessionManager,
		opts:    opts,
		logs:    map[string][]types.Message{},
		seen:    map[string]map[string]struct{}{},
	}
}

// StartGlobal opens the global listener. It watches every message event for
// private rooms addressed to the current user, auto-creating tabs without
// stealing focus and flagging them unread.
func (r *Reconciler) StartGlobal(ctx context.Context) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	if r.global != nil {
		return
	}
	r.global = r.stream.Subscribe(ctx, MessagesTopic, r.makeGlobalHandler(r.session.Self()))
}

// StopGlobal tears the global listener down.
func (r *Reconciler) StopGlobal() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	if r.global == nil {
		return
	}
	r.global.Unsubscribe()
	r.global = nil
}

// makeGlobalHandler builds the global event handler. The current user is an
// explicit parameter rather than captured mutable state.
func (r *Reconciler) makeGlobalHandler(self types.User) pocketbase.Handler {
	return func(event pocketbase.Event) {
		if event.Action != "create" {
			return
		}
		// Relevant only if the room is a private room containing the current
		// user, and someone else sent the message.
		if !types.IsPrivateRoomID(event.Room) || !types.PrivateRoomHasMember(event.Room, self.ID) {
			return
		}
		if event.Message.SenderID == self.ID {
			return
		}

		if !r.session.IsOpen(event.Room) {
			sender := types.User{
				ID:     event.Message.SenderID,
				Name:   event.Message.SenderName,
				Avatar: event.Message.SenderAvatar,
			}
			room := types.NewPrivateRoom(self.ID, sender)
			room.ID = event.Room
			r.session.OpenRoomBackground(room)
			log.Info("materialized private tab", "room", event.Room, "sender", sender.ID)
		}
		r.session.MarkUnread(event.Room)
		r.notifyChange(event.Room)
	}
}

// WatchRoom points the room-scoped listener at the given room: the previous
// listener is stopped, the most recent history window is loaded (creation
// order ascending), and live events append past it. The merge is idempotent
// by message id, so a redelivered or already-fetched event never shows twice.
// Watching the already-watched room is a no-op. Overlapping calls serialize
// on subMu, so exactly one listener survives a contended switch.
func (r *Reconciler) WatchRoom(ctx context.Context, roomID string) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	if r.room != nil && r.watchedRoom == roomID {
		return
	}
	r.unwatchLocked()

	history, err := r.history.ListMessages(ctx, roomID, 1, r.opts.HistoryPageSize)
	if err != nil {
		// An empty transcript beats a dead tab; live events still flow.
		log.Warn("history load failed", "room", roomID, "error", err)
	}
	for _, message := range history {
		r.append(roomID, message)
	}

	r.watchedRoom = roomID
	r.room = r.stream.Subscribe(ctx, MessagesTopic, r.makeRoomHandler(r.session.Self(), roomID))
	r.notifyChange(roomID)
}

// UnwatchRoom stops the room-scoped listener.
func (r *Reconciler) UnwatchRoom() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.unwatchLocked()
}

func (r *Reconciler) unwatchLocked() {
	if r.room == nil {
		return
	}
	r.room.Unsubscribe()
	r.room = nil
	r.watchedRoom = ""
}

// makeRoomHandler builds the room-scoped event handler for a fixed room and
// user, per the explicit-parameter listener construction rule.
func (r *Reconciler) makeRoomHandler(self types.User, roomID string) pocketbase.Handler {
	return func(event pocketbase.Event) {
		if event.Action != "create" || event.Room != roomID {
			return
		}
		if !r.append(roomID, event.Message) {
			// Redelivery or the sender's own echo of an already-known id.
			return
		}
		if event.Message.SenderID != self.ID && r.opts.Notify != nil {
			// Audible notification is best effort; failures are swallowed.
			r.opts.Notify()
		}
		if r.session.ActiveRoomID() != roomID {
			r.session.MarkUnread(roomID)
		}
		r.notifyChange(roomID)
	}
}

// Messages returns a copy of the room's message log in arrival order.
func (r *Reconciler) Messages(roomID string) []types.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := make([]types.Message, len(r.logs[roomID]))
	copy(messages, r.logs[roomID])
	return messages
}

// append inserts the message at the tail of the room's log unless its id is
// already present. Reports whether the message was appended.
func (r *Reconciler) append(roomID string, message types.Message) bool {
	r.mu.Lock()
	if _, ok := r.seen[roomID][message.ID]; ok {
		r.mu.Unlock()
		return false
	}
	if r.seen[roomID] == nil {
		r.seen[roomID] = map[string]struct{}{}
	}
	r.seen[roomID][message.ID] = struct{}{}
	r.logs[roomID] = append(r.logs[roomID], message)
	r.mu.Unlock()

	if r.opts.Archive != nil {
		if err := r.opts.Archive.SaveMessage(roomID, message); err != nil {
			log.Warn("archiving message failed", "room", roomID, "message", message.ID, "error", err)
		}
	}
	return true
}

func (r *Reconciler) notifyChange(roomID string) {
	if r.opts.OnChange != nil {
		r.opts.OnChange(roomID)
	}
}
