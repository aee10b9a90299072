// Package config publishes the embedded per-board configuration as retained
// bus messages at boot, so services observe their settings regardless of
// start order.
package config

import (
	"context"
	"errors"

	"github.com/wtarreau/i2shell/bus"
	"github.com/wtarreau/i2shell/types"
)

const (
	serviceName = "config"

	TopicGateway   bus.Topic = "config/gateway"
	TopicTelemetry bus.Topic = "config/telemetry"

	// CtxBoardKey is the context key carrying the board ID.
	CtxBoardKey = "board"
)

// boardConfig bundles everything one board publishes.
type boardConfig struct {
	Gateway   types.GatewayConfig
	Telemetry types.TelemetryConfig
}

// EmbeddedConfigLookup resolves a board ID to its configuration. Overridable
// in tests.
var EmbeddedConfigLookup = func(board string) (boardConfig, bool) {
	c, ok := embeddedConfigs[board]
	return c, ok
}

type Service struct {
	Name string
}

func NewService() *Service {
	return &Service{Name: serviceName}
}

// publish resolves the board config and publishes each section retained.
func (s *Service) publish(ctx context.Context, conn *bus.Connection) error {
	board, _ := ctx.Value(CtxBoardKey).(string)
	if board == "" {
		return errors.New("missing board ID in context")
	}
	cfg, ok := EmbeddedConfigLookup(board)
	if !ok {
		return errors.New("no embedded config for board: " + board)
	}

	cfg.Gateway.Normalize()
	conn.PublishPayload(TopicGateway, cfg.Gateway, true)
	conn.PublishPayload(TopicTelemetry, cfg.Telemetry, true)
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publish(ctx, conn); err != nil {
			println("Error: config:", err.Error())
		}
	}()
}
