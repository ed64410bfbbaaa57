// Package bus is a small in-process pub/sub used to carry keypad events,
// state and control requests between services.
//
// Topics are token sequences. Subscriptions may use "+" to match one token
// and a trailing "#" to match any remainder. Retained messages are replayed
// to new matching subscribers; publishing a retained message with a nil
// payload clears it.
package bus

import (
	"strings"
	"sync"
)

const (
	WildOne  = "+"
	WildRest = "#"
)

// Topic is a sequence of tokens.
type Topic []string

// T builds a Topic.
func T(parts ...string) Topic { return Topic(parts) }

// Append returns a new topic extended by parts.
func (t Topic) Append(parts ...string) Topic {
	out := make(Topic, 0, len(t)+len(parts))
	out = append(out, t...)
	return append(out, parts...)
}

func (t Topic) String() string { return strings.Join(t, "/") }

// Match reports whether the concrete topic t matches filter f.
func Match(f, t Topic) bool {
	for i, tok := range f {
		if tok == WildRest {
			return i == len(f)-1
		}
		if i >= len(t) {
			return false
		}
		if tok != WildOne && tok != t[i] {
			return false
		}
	}
	return len(f) == len(t)
}

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

type Subscription struct {
	filter Topic
	ch     chan *Message
	conn   *Connection
}

func (s *Subscription) Topic() Topic             { return s.filter }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// deliver never blocks: a full queue drops its oldest message.
func (s *Subscription) deliver(m *Message) {
	for {
		select {
		case s.ch <- m:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

type Bus struct {
	mu       sync.Mutex
	subs     []*Subscription
	retained map[string]*Message
	qLen     int
}

// NewBus creates a bus whose subscriptions queue up to queueLen messages.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{retained: map[string]*Message{}, qLen: queueLen}
}

// NewMessage builds a message without publishing it.
func (b *Bus) NewMessage(t Topic, payload any, retained bool) *Message {
	return &Message{Topic: t, Payload: payload, Retained: retained}
}

// Publish delivers m to every matching subscription.
func (b *Bus) Publish(m *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m.Retained {
		key := m.Topic.String()
		if m.Payload == nil {
			delete(b.retained, key)
		} else {
			b.retained[key] = m
		}
	}
	for _, s := range b.subs {
		if Match(s.filter, m.Topic) {
			s.deliver(m)
		}
	}
}

func (b *Bus) add(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
	for _, m := range b.retained {
		if Match(s.filter, m.Topic) {
			s.deliver(m)
		}
	}
}

func (b *Bus) remove(s *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, x := range b.subs {
		if x == s {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Connection owns a set of subscriptions on behalf of one service.
type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

// NewConnection creates a connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) NewMessage(t Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(t, payload, retained)
}

func (c *Connection) Publish(m *Message) { c.bus.Publish(m) }

// Subscribe registers filter; retained matches are queued immediately.
func (c *Connection) Subscribe(filter Topic) *Subscription {
	s := &Subscription{filter: filter, ch: make(chan *Message, c.bus.qLen), conn: c}
	c.mu.Lock()
	c.subs = append(c.subs, s)
	c.mu.Unlock()
	c.bus.add(s)
	return s
}

// Unsubscribe removes s and closes its channel. Safe to call twice.
func (c *Connection) Unsubscribe(s *Subscription) {
	if !c.bus.remove(s) {
		return
	}
	c.mu.Lock()
	for i, x := range c.subs {
		if x == s {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	close(s.ch)
}

// Disconnect closes every subscription owned by c.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, s := range subs {
		if c.bus.remove(s) {
			close(s.ch)
		}
	}
}
