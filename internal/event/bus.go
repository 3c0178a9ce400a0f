package event

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// busTopic is the single watermill topic every Notification travels
// over. Fan-out by Topic happens after decode, inside the pump
// goroutine, so the typed listener API below doesn't have to round-trip
// through watermill's string-keyed topics.
const busTopic = "coderagent.bus"

// Topic names an ambient notification kind published on the Bus.
// Unlike Stream (one per run), the Bus is long-lived and shared
// across every session in a process — permission grants and file
// edits from any run are visible to every subscriber.
type Topic string

const (
	TopicPermissionResolved Topic = "permission.resolved"
	TopicFileEdited         Topic = "file.edited"
	TopicSessionCompleted   Topic = "session.completed"
)

// Notification is a single ambient event published on the Bus.
type Notification struct {
	Topic Topic
	Data  any
}

// Listener receives Notifications.
type Listener func(Notification)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Bus is a process-wide pub/sub notifier built on watermill's
// in-memory gochannel transport. Publish marshals a Notification to
// JSON and hands it to the gochannel; a single pump goroutine
// subscribed to that channel decodes each message and fans it out to
// the registered listeners. The transport genuinely carries every
// notification — there is no parallel direct-call path that bypasses
// it.
type Bus struct {
	mu sync.RWMutex

	pubsub *gochannel.GoChannel
	ctx    context.Context
	cancel context.CancelFunc

	pending map[string]chan struct{}

	listeners map[Topic][]listenerEntry
	global    []listenerEntry

	nextID uint64
	closed bool
}

// NewBus creates a Bus instance. Callers typically construct one per
// process and share it across sessions.
func NewBus() *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 100},
		watermill.NopLogger{},
	)
	ctx, cancel := context.WithCancel(context.Background())

	b := &Bus{
		pubsub:    pubsub,
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[string]chan struct{}),
		listeners: make(map[Topic][]listenerEntry),
	}

	messages, err := pubsub.Subscribe(ctx, busTopic)
	if err != nil {
		// gochannel only ever fails here if the pubsub is already
		// closed, which cannot happen on a freshly constructed Bus.
		panic(err)
	}
	go b.pump(messages)

	return b
}

// pump decodes every message the gochannel transport delivers and
// fans it out to the subscribers registered for its topic, then wakes
// whatever Publish call is blocked waiting for that message's UUID.
func (b *Bus) pump(messages <-chan *message.Message) {
	for msg := range messages {
		var n Notification
		if err := json.Unmarshal(msg.Payload, &n); err == nil {
			b.deliver(n)
		}

		b.mu.Lock()
		if done, ok := b.pending[msg.UUID]; ok {
			delete(b.pending, msg.UUID)
			close(done)
		}
		b.mu.Unlock()

		msg.Ack()
	}
}

func (b *Bus) deliver(n Notification) {
	b.mu.RLock()
	fns := make([]Listener, 0, len(b.listeners[n.Topic])+len(b.global))
	for _, e := range b.listeners[n.Topic] {
		fns = append(fns, e.fn)
	}
	for _, e := range b.global {
		fns = append(fns, e.fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(n)
	}
}

func (b *Bus) newID() uint64 {
	return atomic.AddUint64(&b.nextID, 1)
}

// Subscribe registers fn for a single topic and returns an unsubscribe
// function.
func (b *Bus) Subscribe(topic Topic, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}
	id := b.newID()
	b.listeners[topic] = append(b.listeners[topic], listenerEntry{id: id, fn: fn})
	return func() { b.unsubscribe(topic, id) }
}

// SubscribeAll registers fn for every topic and returns an
// unsubscribe function.
func (b *Bus) SubscribeAll(fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}
	id := b.newID()
	b.global = append(b.global, listenerEntry{id: id, fn: fn})
	return func() { b.unsubscribeGlobal(id) }
}

func (b *Bus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.listeners[topic]
	for i, e := range entries {
		if e.id == id {
			b.listeners[topic] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

func (b *Bus) unsubscribeGlobal(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.global {
		if e.id == id {
			b.global = append(b.global[:i], b.global[i+1:]...)
			return
		}
	}
}

// Publish sends n through the watermill gochannel transport and
// blocks until the pump goroutine has decoded it and finished calling
// every matching listener (or until the Bus is closed, whichever
// happens first).
func (b *Bus) Publish(n Notification) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		b.mu.Unlock()
		return
	}
	id := watermill.NewUUID()
	done := make(chan struct{})
	b.pending[id] = done
	ctx := b.ctx
	b.mu.Unlock()

	msg := message.NewMessage(id, payload)
	if err := b.pubsub.Publish(busTopic, msg); err != nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Close shuts the bus down; further Publish/Subscribe calls are
// no-ops, and any Publish blocked on delivery is released.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.listeners = make(map[Topic][]listenerEntry)
	b.global = nil
	b.mu.Unlock()

	b.cancel()
	return b.pubsub.Close()
}
