package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"ndt-portal-backend/internal/gateway"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Phoenix heartbeat period; the server drops the socket without one.
	heartbeatPeriod = 25 * time.Second

	// Read deadline; extended on every inbound frame.
	readWait = 60 * time.Second

	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

// phoenixMessage is the wire frame of the realtime channel protocol.
type phoenixMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the slice of a postgres_changes payload this client needs:
// which row changed. No diff is propagated; subscribers refetch.
type changePayload struct {
	Record    map[string]any `json:"record"`
	OldRecord map[string]any `json:"old_record"`
}

// RealtimeClient subscribes to the hosted backend's change feed over a
// websocket and fans events out to local subscribers. It implements
// gateway.Notifier.
type RealtimeClient struct {
	url string
	log *zap.SugaredLogger

	mu      sync.Mutex
	conn    *websocket.Conn
	subs    map[string]map[int]func(gateway.Event)
	nextSub int
	nextRef int
}

func NewRealtimeClient(supabaseURL, apikey string, log *zap.SugaredLogger) *RealtimeClient {
	wsURL := strings.Replace(supabaseURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL = strings.TrimSuffix(wsURL, "/")

	return &RealtimeClient{
		url:  fmt.Sprintf("%s/realtime/v1/websocket?apikey=%s&vsn=1.0.0", wsURL, apikey),
		log:  log,
		subs: make(map[string]map[int]func(gateway.Event)),
	}
}

// Subscribe registers fn for change events on an entity family. The returned
// handle unregisters it; when the last subscriber of a family leaves, the
// channel is left (best effort).
func (r *RealtimeClient) Subscribe(family string, fn func(gateway.Event)) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	first := len(r.subs[family]) == 0
	if r.subs[family] == nil {
		r.subs[family] = make(map[int]func(gateway.Event))
	}
	r.nextSub++
	id := r.nextSub
	r.subs[family][id] = fn

	if first && r.conn != nil {
		if err := r.joinLocked(family); err != nil {
			delete(r.subs[family], id)
			return nil, err
		}
	}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs[family], id)
		if len(r.subs[family]) == 0 && r.conn != nil {
			_ = r.sendLocked(phoenixMessage{
				Topic:   topicFor(family),
				Event:   "phx_leave",
				Payload: json.RawMessage("{}"),
			})
		}
	}, nil
}

// Run maintains the websocket until ctx is cancelled, reconnecting with
// capped backoff.
func (r *RealtimeClient) Run(ctx context.Context) {
	backoff := reconnectMin
	for ctx.Err() == nil {
		if err := r.session(ctx); err != nil {
			r.log.Warnw("realtime session ended", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reconnectMax {
			backoff = reconnectMax
		}
	}
}

func (r *RealtimeClient) session(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	r.mu.Lock()
	r.conn = conn
	for family, fns := range r.subs {
		if len(fns) > 0 {
			if err := r.joinLocked(family); err != nil {
				r.mu.Unlock()
				return err
			}
		}
	}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.conn = nil
		r.mu.Unlock()
	}()

	done := make(chan struct{})
	defer close(done)
	go r.heartbeat(ctx, done)

	for {
		conn.SetReadDeadline(time.Now().Add(readWait))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var msg phoenixMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			r.log.Debugw("unparseable realtime frame", "error", err)
			continue
		}
		r.dispatch(msg)
	}
}

func (r *RealtimeClient) heartbeat(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(heartbeatPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			r.mu.Lock()
			err := r.sendLocked(phoenixMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage("{}"),
			})
			r.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (r *RealtimeClient) dispatch(msg phoenixMessage) {
	switch msg.Event {
	case "INSERT", "UPDATE", "DELETE":
	default:
		return
	}

	family := familyFor(msg.Topic)
	if family == "" {
		return
	}

	var payload changePayload
	_ = json.Unmarshal(msg.Payload, &payload)
	recordID := extractID(payload.Record)
	if recordID == "" {
		recordID = extractID(payload.OldRecord)
	}

	event := gateway.Event{Family: family, Action: msg.Event, RecordID: recordID}

	r.mu.Lock()
	fns := make([]func(gateway.Event), 0, len(r.subs[family]))
	for _, fn := range r.subs[family] {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (r *RealtimeClient) joinLocked(family string) error {
	return r.sendLocked(phoenixMessage{
		Topic:   topicFor(family),
		Event:   "phx_join",
		Payload: json.RawMessage("{}"),
	})
}

func (r *RealtimeClient) sendLocked(msg phoenixMessage) error {
	if r.conn == nil {
		return nil
	}
	r.nextRef++
	msg.Ref = strconv.Itoa(r.nextRef)
	r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return r.conn.WriteJSON(msg)
}

func topicFor(family string) string {
	return "realtime:public:" + family
}

func familyFor(topic string) string {
	const prefix = "realtime:public:"
	if !strings.HasPrefix(topic, prefix) {
		return ""
	}
	return strings.TrimPrefix(topic, prefix)
}

func extractID(record map[string]any) string {
	if record == nil {
		return ""
	}
	if id, ok := record["id"].(string); ok {
		return id
	}
	return ""
}

var _ gateway.Notifier = (*RealtimeClient)(nil)
