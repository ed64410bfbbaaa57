// Package keypad polls a matrix keypad and publishes key presses, releases
// and the current state on the bus.
//
// Topics, under keypad/<name>:
//
//	info      KeypadInfo, retained
//	status    Status, retained
//	value     KeypadValue, retained
//	event     KeyEvent on every press and release
//	error     error code string when a scan fails
//	ctl/read  any payload: scan now and republish value
package keypad

import (
	"context"
	"time"

	"matkey-go/bus"
	"matkey-go/drivers/matkey"
	"matkey-go/errcode"
	"matkey-go/types"
	"matkey-go/x/timex"
)

const driverName = "matkey"

// Scanner is the device the service polls. *matkey.Device implements it.
type Scanner interface {
	Scan() (uint8, error)
	Descriptor() matkey.Descriptor
	Info() types.KeypadInfo
}

type Service struct {
	name string
	dev  Scanner
	poll time.Duration

	last uint8
	link types.Link
}

// New creates a service for a configured device. poll <= 0 selects 20 ms.
func New(name string, dev Scanner, poll time.Duration) *Service {
	if poll <= 0 {
		poll = 20 * time.Millisecond
	}
	return &Service{name: name, dev: dev, poll: poll, last: dev.Descriptor().NoKey()}
}

// Topic returns keypad/<name>/<parts...>.
func (s *Service) Topic(parts ...string) bus.Topic {
	return bus.T(string(types.KindKeypad), s.name).Append(parts...)
}

// Start runs the service in a goroutine until ctx is cancelled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.Run(ctx, conn)
}

// Run polls until ctx is cancelled.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	ctl := conn.Subscribe(s.Topic("ctl", "read"))
	defer conn.Unsubscribe(ctl)

	conn.Publish(conn.NewMessage(s.Topic("info"), types.Info{
		SchemaVersion: 1,
		Driver:        driverName,
		Detail:        s.dev.Info(),
	}, true))
	conn.Publish(conn.NewMessage(s.Topic("value"), s.value(), true))

	tick := time.NewTicker(s.poll)
	defer tick.Stop()

	s.step(conn, false)
	for {
		select {
		case <-ctx.Done():
			s.setLink(conn, types.LinkDown, "")
			return
		case <-tick.C:
			s.step(conn, false)
		case <-ctl.Channel():
			s.step(conn, true)
		}
	}
}

func (s *Service) step(conn *bus.Connection, force bool) {
	key, err := s.dev.Scan()
	if err != nil {
		code := string(errcode.Of(err))
		if s.link != types.LinkDegraded {
			println("Error: keypad", s.name, "scan:", err.Error())
		}
		s.setLink(conn, types.LinkDegraded, code)
		conn.Publish(conn.NewMessage(s.Topic("error"), code, false))
		return
	}
	s.setLink(conn, types.LinkUp, "")

	if key == s.last {
		if force {
			conn.Publish(conn.NewMessage(s.Topic("value"), s.value(), true))
		}
		return
	}

	noKey := s.dev.Descriptor().NoKey()
	if s.last < noKey {
		s.emit(conn, s.last, false)
	}
	if key < noKey {
		s.emit(conn, key, true)
	}
	s.last = key
	conn.Publish(conn.NewMessage(s.Topic("value"), s.value(), true))
}

func (s *Service) emit(conn *bus.Connection, key uint8, pressed bool) {
	row, col := s.dev.Descriptor().Split(key)
	conn.Publish(conn.NewMessage(s.Topic("event"), types.KeyEvent{
		Key:     key,
		Row:     row,
		Col:     col,
		Pressed: pressed,
		TS:      timex.NowMs(),
	}, false))
}

func (s *Service) value() types.KeypadValue {
	v := types.KeypadValue{TS: timex.NowMs()}
	if s.last < s.dev.Descriptor().NoKey() {
		v.Pressed = true
		v.Key = s.last
	}
	return v
}

func (s *Service) setLink(conn *bus.Connection, l types.Link, code string) {
	if s.link == l {
		return
	}
	s.link = l
	conn.Publish(conn.NewMessage(s.Topic("status"), types.Status{
		Link:  l,
		TS:    timex.NowMs(),
		Error: code,
	}, true))
}
