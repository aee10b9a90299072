// Package telemetry prints a periodic one-line report of the gateway's
// traffic counters on the debug console. The report interval comes from the
// retained telemetry config and can be changed at runtime.
package telemetry

import (
	"context"
	"time"

	"github.com/wtarreau/i2shell/bus"
	"github.com/wtarreau/i2shell/services/config"
	"github.com/wtarreau/i2shell/services/gateway"
	"github.com/wtarreau/i2shell/types"
	"github.com/wtarreau/i2shell/x/strconvx"
	"github.com/wtarreau/i2shell/x/timex"
)

type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(config.TopicTelemetry)
	statsSub := conn.Subscribe(gateway.TopicStats)
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(statsSub)

	var last types.GatewayStats
	boot := timex.NowMs()

	tick := time.NewTicker(5 * time.Second)
	defer tick.Stop()
	enabled := true

	for {
		select {
		case <-ctx.Done():
			println("Info: telemetry service stopping")
			return
		case msg := <-statsSub.Channel():
			if st, ok := msg.Payload.(types.GatewayStats); ok {
				last = st
			}
		case <-tick.C:
			if enabled {
				report(timex.NowMs()-boot, last)
			}
		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(types.TelemetryConfig)
			if !ok {
				continue
			}
			if cfg.IntervalSec == 0 {
				enabled = false
				continue
			}
			enabled = true
			tick.Reset(time.Duration(cfg.IntervalSec) * time.Second)
			println("Info: telemetry interval set to", cfg.IntervalSec, "seconds")
		}
	}
}

// report prints the counters as one line so concurrent console output
// cannot interleave inside it.
func report(upMs int64, st types.GatewayStats) {
	line := "Info: gateway up=" + strconvx.FormatInt(upMs/1000, 10) + "s" +
		" in=" + strconvx.FormatUint(uint64(st.BytesIn), 10) +
		" out=" + strconvx.FormatUint(uint64(st.BytesOut), 10) +
		" writes=" + strconvx.FormatUint(uint64(st.Writes), 10) +
		" reads=" + strconvx.FormatUint(uint64(st.Reads), 10) +
		" faults=" + strconvx.FormatUint(uint64(st.BusFaults), 10)
	println(line)
}

// Start launches the telemetry service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
