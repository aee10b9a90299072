package config

import (
	"context"
	"testing"
	"time"

	"github.com/wtarreau/i2shell/bus"
	"github.com/wtarreau/i2shell/types"
)

func TestPublishEmbeddedRetained(t *testing.T) {
	old := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(board string) (boardConfig, bool) {
		if board != "testboard" {
			return boardConfig{}, false
		}
		return boardConfig{
			Gateway: types.GatewayConfig{
				I2C: types.I2CConfig{Bus: "i2c1", FrequencyHz: 2_000_000},
			},
			Telemetry: types.TelemetryConfig{IntervalSec: 7},
		}, true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = old })

	b := bus.NewBus(8)
	conn := b.NewConnection("test-config")
	svc := NewService()

	ctx := context.WithValue(context.Background(), CtxBoardKey, "testboard")
	svc.Start(ctx, conn)

	// Retained messages arrive even if we subscribe after the publish.
	time.Sleep(50 * time.Millisecond)
	gwSub := conn.Subscribe(TopicGateway)
	tmSub := conn.Subscribe(TopicTelemetry)

	select {
	case m := <-gwSub.Channel():
		gw, ok := m.Payload.(types.GatewayConfig)
		if !ok {
			t.Fatalf("gateway payload type %T", m.Payload)
		}
		if gw.I2C.Bus != "i2c1" {
			t.Fatalf("bus = %q", gw.I2C.Bus)
		}
		// Normalize clamps the out-of-range frequency.
		if gw.I2C.FrequencyHz != 1_000_000 {
			t.Fatalf("frequency = %d, want clamped 1MHz", gw.I2C.FrequencyHz)
		}
		if gw.Serial.Port != "usb" {
			t.Fatalf("port = %q, want usb default", gw.Serial.Port)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("no retained gateway config")
	}

	select {
	case m := <-tmSub.Channel():
		tm := m.Payload.(types.TelemetryConfig)
		if tm.IntervalSec != 7 {
			t.Fatalf("interval = %d", tm.IntervalSec)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("no retained telemetry config")
	}
}

func TestUnknownBoard(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("test-config")
	svc := NewService()

	ctx := context.WithValue(context.Background(), CtxBoardKey, "no-such-board")
	if err := svc.publish(ctx, conn); err == nil {
		t.Fatal("publish should fail for an unknown board")
	}
	if err := svc.publish(context.Background(), conn); err == nil {
		t.Fatal("publish should fail without a board ID")
	}
}

func TestDefaultBoardsPresent(t *testing.T) {
	for _, board := range []string{"pico", "pico-uart"} {
		if _, ok := EmbeddedConfigLookup(board); !ok {
			t.Fatalf("missing embedded config for %q", board)
		}
	}
}
