package pocketbase

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/volkanakbulut73/sohbetchat3/internal/debug"
	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

var log = debug.GetLogger()

// Event is one realtime delivery. Delivery is at-least-once and unordered
// across publishers; consumers must deduplicate by message id.
type Event struct {
	Action  string
	Room    string
	Message types.Message
}

// Handler consumes realtime events. It is invoked from the subscription's
// read goroutine.
type Handler func(Event)

// Subscription is a live realtime listener. Unsubscribe is the only
// cancellation primitive: it tears the connection down and waits for the
// read loop to exit.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Unsubscribe stops the subscription.
func (s *Subscription) Unsubscribe() {
	s.cancel()
	<-s.done
}

// Subscribe opens a realtime connection scoped to the given topic (e.g.
// "messages/*") and dispatches creation events to the handler. The
// connection is re-established with backoff until Unsubscribe is called.
func (c *Client) Subscribe(ctx context.Context, topic string, handler Handler) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	subscription := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(subscription.done)
		backoff := time.Second
		for {
			err := c.listen(ctx, topic, handler)
			if ctx.Err() != nil {
				return
			}
			log.Warn("realtime connection lost, reconnecting", "topic", topic, "error", err, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
		}
	}()
	return subscription
}

// listen runs a single SSE connection: handshake, subscription registration,
// then event dispatch until the connection drops or the context is canceled.
func (c *Client) listen(ctx context.Context, topic string, handler Handler) error {
	request, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/realtime", nil)
	if err != nil {
		return errors.Wrap(err, "creating realtime request")
	}
	request.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		request.Header.Set("Authorization", c.token)
	}

	// The streaming connection must not be bounded by the client's regular
	// request timeout.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	response, err := streamClient.Do(request)
	if err != nil {
		return errors.Wrap(err, "connecting realtime stream")
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return errors.Errorf("realtime endpoint returned %d", response.StatusCode)
	}

	scanner := bufio.NewScanner(response.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName string
	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case line == "":
			if err := c.dispatch(ctx, topic, eventName, data.Bytes(), handler); err != nil {
				return err
			}
			eventName = ""
			data.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading realtime stream")
	}
	return errors.New("realtime stream closed")
}

func (c *Client) dispatch(ctx context.Context, topic, eventName string, data []byte, handler Handler) error {
	switch eventName {
	case "PB_CONNECT":
		connect := &struct {
			ClientID string `json:"clientId"`
		}{}
		if err := json.Unmarshal(data, connect); err != nil {
			return errors.Wrap(err, "unmarshaling connect event")
		}
		payload := map[string]any{
			"clientId":      connect.ClientID,
			"subscriptions": []string{topic},
		}
		if err := c.do(ctx, "POST", "/api/realtime", payload, nil); err != nil {
			return errors.Wrap(err, "registering subscription")
		}

	case topic:
		delivery := &struct {
			Action string         `json:"action"`
			Record *messageRecord `json:"record"`
		}{}
		if err := json.Unmarshal(data, delivery); err != nil {
			// A malformed event is dropped, not fatal to the stream.
			log.Warn("dropping malformed realtime event", "error", err)
			return nil
		}
		if delivery.Record == nil {
			return nil
		}
		handler(Event{
			Action:  delivery.Action,
			Room:    delivery.Record.Room,
			Message: delivery.Record.toMessage(),
		})
	}
	return nil
}
