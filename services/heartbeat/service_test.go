package heartbeat

import (
	"context"
	"testing"
	"time"

	"matkey-go/bus"
	"matkey-go/types"
)

func TestHeartbeatCountsKeypadActivity(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("test")
	beats := conn.Subscribe(topicHeartbeat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &Service{Interval: time.Hour, Quiet: true}
	if err := s.Start(ctx, conn); err != nil {
		t.Fatal(err)
	}
	// Let the loop subscribe before publishing.
	time.Sleep(10 * time.Millisecond)

	pub := func(topic bus.Topic, payload any) {
		conn.Publish(conn.NewMessage(topic, payload, false))
	}
	pub(bus.T("keypad", "pad", "status"), types.Status{Link: types.LinkUp})
	pub(bus.T("keypad", "pad", "event"), types.KeyEvent{Key: 1, Pressed: true})
	pub(bus.T("keypad", "pad", "event"), types.KeyEvent{Key: 1})
	pub(bus.T("keypad", "pad", "event"), types.KeyEvent{Key: 4, Pressed: true})
	pub(bus.T("keypad", "pad", "status"), types.Status{Link: types.LinkDegraded})
	pub(bus.T("keypad", "pad", "status"), types.Status{Link: types.LinkDegraded})
	pub(bus.T("config", "heartbeat"), map[string]any{"interval": 0.01})

	deadline := time.After(time.Second)
	for {
		select {
		case m := <-beats.Channel():
			bt := m.Payload.(Beat)
			if bt.Presses == 2 && bt.Faults == 1 && bt.Link == types.LinkDegraded {
				return
			}
		case <-deadline:
			t.Fatal("no heartbeat with expected counters")
		}
	}
}
