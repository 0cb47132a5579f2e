package induction

// Weights is the scoring configuration for the soft scorer. All scoring
// constants live here as tagged data so a deployment can re-parameterize the
// scorer without a code change; the zero value is not usable, construct with
// DefaultWeights and override fields.
type Weights struct {
	// Version identifies the weights revision recorded with each run.
	Version string `json:"version"`

	BrandingHigh   float64 `json:"branding_high"`
	BrandingMedium float64 `json:"branding_medium"`
	// BrandingHoursLow is added when the contract's remaining hours fall
	// below BrandingHoursfloor.
	BrandingHoursLow   float64 `json:"branding_hours_low"`
	BrandingHoursFloor float64 `json:"branding_hours_floor"`

	MileageHigh       float64 `json:"mileage_high"`
	MileageModerate   float64 `json:"mileage_moderate"`
	MileageHighKm     float64 `json:"mileage_high_km"`
	MileageModerateKm float64 `json:"mileage_moderate_km"`

	CleaningCompleted float64 `json:"cleaning_completed"`

	ShuntingPenalty  float64 `json:"shunting_penalty"`
	BlockedPenalty   float64 `json:"blocked_penalty"`
	DistanceBase     float64 `json:"distance_base"`
	DistancePerM     float64 `json:"distance_per_m"`
	TurnaroundBase   float64 `json:"turnaround_base"`
	TurnaroundPerMin float64 `json:"turnaround_per_min"`
}

// DefaultWeights returns the documented default scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		Version:            "v1",
		BrandingHigh:       30,
		BrandingMedium:     15,
		BrandingHoursLow:   10,
		BrandingHoursFloor: 100,
		MileageHigh:        20,
		MileageModerate:    10,
		MileageHighKm:      10000,
		MileageModerateKm:  5000,
		CleaningCompleted:  10,
		ShuntingPenalty:    5,
		BlockedPenalty:     5,
		DistanceBase:       10,
		DistancePerM:       50,
		TurnaroundBase:     10,
		TurnaroundPerMin:   10,
	}
}
