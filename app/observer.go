package app

import (
	"context"

	"github.com/railops/inductd/core/events"
	"github.com/railops/inductd/infra/logger"
	"github.com/railops/inductd/internal/eventbus"
)

// StartEventObserver subscribes to the event bus and logs engine events.
// It stops when the context is canceled or the bus closes.
func StartEventObserver(ctx context.Context, bus eventbus.EventBus, log logger.Logger) {
	if bus == nil || log == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.RunCompletedEvent:
					log.Infof("run %s: %d revenue, %d standby, %d ibl of %d trainsets",
						e.Run.ID, e.Run.Counts.Revenue, e.Run.Counts.Standby, e.Run.Counts.IBL, len(e.Run.Results))
				case events.SimulationCompletedEvent:
					log.Infof("simulation under %s evaluated %d trainsets", e.RuleSet, e.Outcomes)
				case events.RunRecordFailedEvent:
					log.Errorf("run %s not persisted: %v", e.RunID, e.Err)
				}
			}
		}
	}()
}
