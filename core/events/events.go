// Package events defines the payloads published on the internal event bus.
package events

import "github.com/railops/inductd/core/model"

// RunCompletedEvent is published once per persisted induction run.
type RunCompletedEvent struct {
	Run *model.InductionRun
}

// SimulationCompletedEvent is published after a what-if run. Outcomes are
// not carried: simulations are ephemeral by contract.
type SimulationCompletedEvent struct {
	RuleSet  string
	Outcomes int
}

// RunRecordFailedEvent signals that a run could not be appended to the
// audit store. The run itself was still returned to the caller.
type RunRecordFailedEvent struct {
	RunID string
	Err   error
}
