package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, s *Subscription, want any) {
	t.Helper()
	select {
	case got := <-s.Channel():
		if got.Payload != want {
			t.Fatalf("payload %v, want %v", got.Payload, want)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v", want)
	}
}

func expectNoMessage(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case m := <-s.Channel():
		t.Fatalf("unexpected message on %v: %v", s.Topic(), m.Payload)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")
	sub := conn.Subscribe(T("keypad", "pad", "event"))
	conn.Publish(conn.NewMessage(T("keypad", "pad", "event"), "hello", false))
	expectPayload(t, sub, "hello")
}

func TestRetainedReplayAndClear(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	c.Publish(c.NewMessage(T("keypad", "pad", "value"), 7, true))

	s1 := c.Subscribe(T("keypad", "pad", "value"))
	expectPayload(t, s1, 7)

	c.Publish(c.NewMessage(T("keypad", "pad", "value"), nil, true))
	expectPayload(t, s1, nil)

	s2 := c.Subscribe(T("keypad", "pad", "value"))
	expectNoMessage(t, s2)
}

func TestWildcards(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")
	one := c.Subscribe(T("keypad", "+", "event"))
	rest := c.Subscribe(T("keypad", "#"))
	none := c.Subscribe(T("keypad", "+", "value"))

	c.Publish(c.NewMessage(T("keypad", "a", "event"), "m1", false))
	expectPayload(t, one, "m1")
	expectPayload(t, rest, "m1")
	expectNoMessage(t, none)

	c.Publish(c.NewMessage(T("keypad", "a", "ctl", "read"), "m2", false))
	expectPayload(t, rest, "m2")
	expectNoMessage(t, one)
}

func TestMatch(t *testing.T) {
	cases := []struct {
		f, t Topic
		ok   bool
	}{
		{T("a", "b"), T("a", "b"), true},
		{T("a", "b"), T("a"), false},
		{T("a"), T("a", "b"), false},
		{T("a", "+"), T("a", "b"), true},
		{T("#"), T("a", "b", "c"), true},
		{T("a", "#", "c"), T("a", "b", "c"), false},
	}
	for _, tc := range cases {
		if got := Match(tc.f, tc.t); got != tc.ok {
			t.Fatalf("Match(%v,%v)=%v", tc.f, tc.t, got)
		}
	}
}

func TestFullQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s := c.Subscribe(T("x"))
	for i := 1; i <= 3; i++ {
		c.Publish(c.NewMessage(T("x"), i, false))
	}
	expectPayload(t, s, 2)
	expectPayload(t, s, 3)
}

func TestUnsubscribeAndDisconnect(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s := c.Subscribe(T("x"))
	s.Unsubscribe()
	s.Unsubscribe()
	if _, ok := <-s.Channel(); ok {
		t.Fatal("channel should be closed")
	}
	c.Publish(c.NewMessage(T("x"), 1, false))

	s2 := c.Subscribe(T("y"))
	c.Disconnect()
	if _, ok := <-s2.Channel(); ok {
		t.Fatal("channel should be closed after Disconnect")
	}
}
