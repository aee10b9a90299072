package gateway

import (
	"context"
	"time"

	"github.com/wtarreau/i2shell/bus"
	"github.com/wtarreau/i2shell/transport"
	"github.com/wtarreau/i2shell/types"
)

// TopicStats carries retained GatewayStats snapshots.
const TopicStats bus.Topic = "gateway/stats"

const idleSleep = 500 * time.Microsecond

// Service owns the parser, the keep-alive echo and the serial port. All
// protocol state is confined to the goroutine running Run (or to whoever
// calls Poll); the step is never reentered.
type Service struct {
	// StatsInterval is the period of retained counter snapshots on
	// TopicStats. Zero selects one second.
	StatsInterval time.Duration

	port transport.Port
	p    *Parser
	echo *Echo
}

func New(port transport.Port, i2c Bus) *Service {
	e := &Echo{}
	return &Service{
		port: port,
		echo: e,
		p:    NewParser(i2c, port, e),
	}
}

// Poll advances the gateway by one cooperative step: consume at most one
// input byte, or flush the keep-alive filler when the line is idle.
func (s *Service) Poll() {
	if s.port.Buffered() > 0 {
		c, err := s.port.ReadByte()
		if err != nil {
			return
		}
		s.p.Step(c)
		return
	}
	s.echo.Flush(s.port)
}

// Stats returns the parser's traffic counters.
func (s *Service) Stats() types.GatewayStats { return s.p.Stats() }

// Run polls the port until ctx is cancelled, publishing retained counter
// snapshots for the telemetry service.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	interval := s.StatsInterval
	if interval <= 0 {
		interval = time.Second
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: gateway service stopping")
			return
		case <-tick.C:
			conn.PublishPayload(TopicStats, s.p.Stats(), true)
		default:
		}
		idle := s.port.Buffered() == 0
		s.Poll()
		if idle {
			time.Sleep(idleSleep)
		}
	}
}

// Start launches Run on its own goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.Run(ctx, conn)
	return nil
}
