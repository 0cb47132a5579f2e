package induction

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/railops/inductd/core/model"
)

// FleetMileageKPI summarises mileage balance over the trainsets that passed
// the hard constraints. Trainsets without mileage data are skipped; with
// fewer than two data points the standard deviation is reported as zero.
func FleetMileageKPI(facts []model.TrainsetFact) model.FleetKPI {
	var variances []float64
	var maxAbs float64
	for _, f := range facts {
		if f.Mileage == nil {
			continue
		}
		v := f.Mileage.VarianceKm
		variances = append(variances, v)
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if len(variances) == 0 {
		return model.FleetKPI{}
	}
	kpi := model.FleetKPI{
		MileageMeanKm:   stat.Mean(variances, nil),
		MileageMaxAbsKm: maxAbs,
	}
	if len(variances) > 1 {
		kpi.MileageStddevKm = stat.StdDev(variances, nil)
	}
	return kpi
}
