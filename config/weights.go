package config

import (
	"fmt"

	"github.com/railops/inductd/core/induction"
)

// WeightsConfig is the externally supplied scoring weights table. Absent
// fields keep their documented defaults, so a deployment only overrides
// what it changes.
type WeightsConfig struct {
	Version string `json:"version"`

	BrandingHigh       *float64 `json:"branding_high"`
	BrandingMedium     *float64 `json:"branding_medium"`
	BrandingHoursLow   *float64 `json:"branding_hours_low"`
	BrandingHoursFloor *float64 `json:"branding_hours_floor"`

	MileageHigh       *float64 `json:"mileage_high"`
	MileageModerate   *float64 `json:"mileage_moderate"`
	MileageHighKm     *float64 `json:"mileage_high_km"`
	MileageModerateKm *float64 `json:"mileage_moderate_km"`

	CleaningCompleted *float64 `json:"cleaning_completed"`

	ShuntingPenalty *float64 `json:"shunting_penalty"`
	BlockedPenalty  *float64 `json:"blocked_penalty"`

	DistanceBase     *float64 `json:"distance_base"`
	DistancePerM     *float64 `json:"distance_per_m"`
	TurnaroundBase   *float64 `json:"turnaround_base"`
	TurnaroundPerMin *float64 `json:"turnaround_per_min"`
}

// SetDefaults fills the version tag.
func (c *WeightsConfig) SetDefaults() {
	if c.Version == "" {
		c.Version = induction.DefaultWeights().Version
	}
}

// Validate rejects negative threshold overrides.
func (c WeightsConfig) Validate() error {
	for name, v := range map[string]*float64{
		"branding_hours_floor": c.BrandingHoursFloor,
		"mileage_high_km":      c.MileageHighKm,
		"mileage_moderate_km":  c.MileageModerateKm,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("weights: %s must not be negative", name)
		}
	}
	for name, v := range map[string]*float64{
		"distance_per_m":     c.DistancePerM,
		"turnaround_per_min": c.TurnaroundPerMin,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("weights: %s must be positive", name)
		}
	}
	return nil
}

// Weights materialises the table, starting from the defaults and applying
// every override present.
func (c WeightsConfig) Weights() induction.Weights {
	w := induction.DefaultWeights()
	w.Version = c.Version
	apply := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&w.BrandingHigh, c.BrandingHigh)
	apply(&w.BrandingMedium, c.BrandingMedium)
	apply(&w.BrandingHoursLow, c.BrandingHoursLow)
	apply(&w.BrandingHoursFloor, c.BrandingHoursFloor)
	apply(&w.MileageHigh, c.MileageHigh)
	apply(&w.MileageModerate, c.MileageModerate)
	apply(&w.MileageHighKm, c.MileageHighKm)
	apply(&w.MileageModerateKm, c.MileageModerateKm)
	apply(&w.CleaningCompleted, c.CleaningCompleted)
	apply(&w.ShuntingPenalty, c.ShuntingPenalty)
	apply(&w.BlockedPenalty, c.BlockedPenalty)
	apply(&w.DistanceBase, c.DistanceBase)
	apply(&w.DistancePerM, c.DistancePerM)
	apply(&w.TurnaroundBase, c.TurnaroundBase)
	apply(&w.TurnaroundPerMin, c.TurnaroundPerMin)
	return w
}
