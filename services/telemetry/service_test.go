package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/wtarreau/i2shell/bus"
	"github.com/wtarreau/i2shell/services/config"
	"github.com/wtarreau/i2shell/services/gateway"
	"github.com/wtarreau/i2shell/types"
)

// The loop's observable behaviour is console output, so these tests mostly
// check that it keeps consuming its subscriptions without blocking
// publishers.
func TestServiceConsumesStatsAndConfig(t *testing.T) {
	b := bus.NewBus(2)
	conn := b.NewConnection("telemetry")
	pub := b.NewConnection("test")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{}
	if err := svc.Start(ctx, conn); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Flood more messages than the queue holds; drop-oldest delivery plus a
	// draining loop means none of these publishes may block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			pub.PublishPayload(gateway.TopicStats, types.GatewayStats{Writes: uint32(i)}, false)
		}
		pub.PublishPayload(config.TopicTelemetry, types.TelemetryConfig{IntervalSec: 1}, false)
		pub.PublishPayload(config.TopicTelemetry, types.TelemetryConfig{IntervalSec: 0}, false)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publishing blocked; telemetry loop not draining")
	}
}
