// Package heartbeat prints a periodic liveness line with keypad activity
// counters gathered from the bus.
package heartbeat

import (
	"context"
	"time"

	"matkey-go/bus"
	"matkey-go/types"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicKeypadEvents    = bus.T("keypad", bus.WildOne, "event")
	topicKeypadStatus    = bus.T("keypad", bus.WildOne, "status")
	topicHeartbeat       = bus.T("heartbeat")
)

// Beat is published on "heartbeat" every interval.
type Beat struct {
	TS      int64
	Presses uint32
	Faults  uint32
	Link    types.Link
}

type Service struct {
	Interval time.Duration
	// Quiet suppresses the println line; the bus message is still sent.
	Quiet bool

	beat Beat
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	evSub := conn.Subscribe(topicKeypadEvents)
	defer conn.Unsubscribe(evSub)
	stSub := conn.Subscribe(topicKeypadStatus)
	defer conn.Unsubscribe(stSub)

	iv := s.Interval
	if iv <= 0 {
		iv = time.Second
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick, keypad and config changes
	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			s.beat.TS = t.UnixMilli()
			if !s.Quiet {
				println("Info:", t.Format("15:04:05"), "Heartbeat presses:", s.beat.Presses, "faults:", s.beat.Faults, "link:", string(s.beat.Link))
			}
			conn.Publish(conn.NewMessage(topicHeartbeat, s.beat, false))
		case msg := <-evSub.Channel():
			if ev, ok := msg.Payload.(types.KeyEvent); ok && ev.Pressed {
				s.beat.Presses++
			}
		case msg := <-stSub.Channel():
			if st, ok := msg.Payload.(types.Status); ok {
				if st.Link == types.LinkDegraded && s.beat.Link != types.LinkDegraded {
					s.beat.Faults++
				}
				s.beat.Link = st.Link
			}
		case msg := <-cfgSub.Channel():
			// Change tick interval if needed
			if m, ok := msg.Payload.(map[string]any); ok {
				if v, ok := m["interval"]; ok {
					if interval, ok := v.(float64); ok && interval > 0 {
						tick.Reset(time.Duration(interval * float64(time.Second)))
						println("Info:", "Heartbeat interval set to", interval, "seconds")
					}
				}
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
