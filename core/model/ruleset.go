package model

// SimulationRuleSet is a transient bag of policy toggles consumed by the
// what-if simulator. It is not persisted unless the boundary promotes it to
// a named scenario.
type SimulationRuleSet struct {
	Name string `json:"name,omitempty"`
	// IgnoreJobCards skips the open-job-card override.
	IgnoreJobCards bool `json:"ignore_job_cards"`
	// IgnoreCleaning skips the cleaning-overdue downgrade.
	IgnoreCleaning bool `json:"ignore_cleaning"`
	// ForceHighBranding promotes safe standby trainsets with HIGH branding
	// priority back into revenue service.
	ForceHighBranding bool `json:"force_high_branding"`
	// PrioritizeLowMileage promotes safe standby trainsets under the
	// low-mileage threshold into revenue service.
	PrioritizeLowMileage bool `json:"prioritize_low_mileage"`
	// LowMileageThresholdKm overrides the default 20000 km promotion
	// threshold when positive.
	LowMileageThresholdKm float64 `json:"low_mileage_threshold_km,omitempty"`
}
