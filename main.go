package main

import (
	"context"
	"time"

	"socialbattery-go/bus"
	"socialbattery-go/internal/platform"
	"socialbattery-go/services/heartbeat"
	"socialbattery-go/services/sao"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.Background()
	b := bus.NewBus(4)

	hb := &heartbeat.Service{}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("Error: heartbeat:", err.Error())
	}

	svc, err := sao.NewService(sao.Config{Board: platform.NewBoard()}, b.NewConnection("sao"))
	if err != nil {
		println("Error: sao:", err.Error())
		return
	}
	if err := svc.Start(ctx); err != nil {
		println("Error: sao:", err.Error())
		return
	}

	select {}
}
