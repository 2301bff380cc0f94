package sao

import (
	"context"

	"socialbattery-go/bus"
	"socialbattery-go/errcode"
	"socialbattery-go/x/timex"
)

// Bus topics published by the service. Mode, level and status are retained
// so late subscribers see current state.
var (
	TopicMode   = bus.Topic{"sao", "mode"}
	TopicLevel  = bus.Topic{"sao", "level"}
	TopicButton = bus.Topic{"sao", "button"}
	TopicStatus = bus.Topic{"sao", "status"}
)

// Telemetry is the payload published on the mode/level/button topics.
type Telemetry struct {
	Value uint8
	TsMs  int64
}

// Service runs a Device and fans its telemetry out on the message bus.
type Service struct {
	dev  *Device
	conn *bus.Connection
}

func NewService(cfg Config, conn *bus.Connection) (*Service, error) {
	s := &Service{conn: conn}
	inner := cfg.Events
	cfg.Events = func(ev Event) {
		s.publish(ev)
		if inner != nil {
			inner(ev)
		}
	}
	dev, err := New(cfg)
	if err != nil {
		return nil, err
	}
	s.dev = dev
	return s, nil
}

// Device exposes the wrapped device.
func (s *Service) Device() *Device { return s.dev }

func (s *Service) publish(ev Event) {
	if s.conn == nil {
		return
	}
	t := Telemetry{Value: ev.Value, TsMs: timex.NowMs()}
	switch ev.Kind {
	case EventBoot:
		s.conn.Publish(s.conn.NewMessage(TopicStatus, "ready", true))
	case EventBusFallback:
		s.conn.Publish(s.conn.NewMessage(TopicStatus, "fallback", true))
	case EventMode:
		s.conn.Publish(s.conn.NewMessage(TopicMode, t, true))
	case EventLevel:
		s.conn.Publish(s.conn.NewMessage(TopicLevel, t, true))
	case EventButton:
		s.conn.Publish(s.conn.NewMessage(TopicButton, t, false))
	}
}

// Start boots the device and runs the control loop until ctx is cancelled.
// A bus-unusable boot is not fatal: the device keeps rendering standalone.
func (s *Service) Start(ctx context.Context) error {
	if err := s.dev.Boot(); err != nil && errcode.Of(err) != errcode.BusUnusable {
		return err
	}
	go func() {
		for ctx.Err() == nil {
			if !s.dev.Poll() {
				s.dev.board.SleepMs(1)
			}
		}
		println("Info: sao service stopping")
	}()
	return nil
}
