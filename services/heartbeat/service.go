package heartbeat

import (
	"context"
	"time"

	"socialbattery-go/bus"
	"socialbattery-go/services/sao"
)

var topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}

type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	statusSub := conn.Subscribe(sao.TopicStatus)
	defer conn.Unsubscribe(statusSub)
	modeSub := conn.Subscribe(sao.TopicMode)
	defer conn.Unsubscribe(modeSub)
	levelSub := conn.Subscribe(sao.TopicLevel)
	defer conn.Unsubscribe(levelSub)

	status := "starting"
	var mode, level uint8

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick and state changes
	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			println("Info:", t.Format("15:04:05"), "Heartbeat", "status:", status, "mode:", mode, "level:", level)
		case msg := <-statusSub.Channel():
			if v, ok := msg.Payload.(string); ok {
				status = v
			}
		case msg := <-modeSub.Channel():
			if v, ok := msg.Payload.(sao.Telemetry); ok {
				mode = v.Value
			}
		case msg := <-levelSub.Channel():
			if v, ok := msg.Payload.(sao.Telemetry); ok {
				level = v.Value
			}
		case msg := <-cfgSub.Channel():
			println("Info:", "Received config message:", msg.Payload)
			// Change tick interval if needed
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"]; ok {
					if interval, ok := iv.(float64); ok {
						tick.Reset(time.Duration(interval) * time.Second)
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
