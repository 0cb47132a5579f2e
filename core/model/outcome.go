package model

// Decision is the induction outcome category for one trainset.
type Decision string

const (
	DecisionRevenue Decision = "REVENUE"
	DecisionStandby Decision = "STANDBY"
	DecisionIBL     Decision = "IBL"
)

// DecisionOutcome is the decision for one trainset together with the
// explanation that justifies it. Blockers is non-empty exactly when the
// trainset was routed to IBL by a hard constraint; in that case Blockers and
// Reasons carry the same entries so a reader never has to consult two fields.
type DecisionOutcome struct {
	TrainsetID string   `json:"trainset_id"`
	Decision   Decision `json:"decision"`
	Score      float64  `json:"score"`
	Reasons    []string `json:"reasons"`
	Blockers   []string `json:"blockers,omitempty"`
}

// Blocked reports whether the outcome was forced by a hard constraint.
func (o DecisionOutcome) Blocked() bool { return len(o.Blockers) > 0 }
