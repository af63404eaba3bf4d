package detection

import (
	"math"

	"anomaly-platform/internal/models"
)

// ScoreSeries slides fixed-length windows over one station series and
// z-score tests the most recent non-null reading of each window for the
// given variable.
//
// Windows start at indices 0, stride, 2*stride, ... while a full window
// fits in the series. Per window, the non-null values of the variable
// form the statistical sample; windows with fewer than two such values
// are skipped silently. The tested point is the last observation in the
// window holding a non-null value. Windows whose sample shows no spread
// beyond rounding noise are skipped: a constant window carries no
// statistical signal and must never flag.
//
// A raw value that is the most recent point of several overlapping
// windows may be flagged once per window. Each window is an independent
// statistical test; callers must not deduplicate.
func ScoreSeries(series *StationSeries, variable models.Variable, cfg models.DetectionConfig) []*models.Anomaly {
	var anomalies []*models.Anomaly
	obs := series.Observations

	for start := 0; start+cfg.WindowLen <= len(obs); start += cfg.Stride {
		window := obs[start : start+cfg.WindowLen]

		values := make([]float64, 0, len(window))
		lastIdx := -1
		for i, o := range window {
			if v := o.Value(variable); v != nil {
				values = append(values, *v)
				lastIdx = i
			}
		}

		// too sparse for a standard deviation
		if len(values) < 2 {
			continue
		}

		mean, stddev := summarize(values)
		if degenerate(mean, stddev) {
			continue
		}

		last := window[lastIdx]
		x := *last.Value(variable)

		z := (x - mean) / stddev
		if math.Abs(z) <= cfg.Threshold {
			continue
		}

		anomalies = append(anomalies, &models.Anomaly{
			TimeStart:        models.FormatTimestamp(window[0].Timestamp),
			TimeEnd:          models.FormatTimestamp(window[len(window)-1].Timestamp),
			StationID:        series.StationID,
			Variable:         variable,
			AnomalyTimestamp: models.FormatTimestamp(last.Timestamp),
			AnomalyValue:     round2(x),
			ZScore:           round2(z),
		})
	}

	return anomalies
}

// Detect runs the full grouping-and-scoring pass over one batch of
// observations. The result is ordered by station (first appearance in
// the input), then variable declaration order, then window start, so
// identical input and configuration always produce an identical list.
// Pure and stateless: nothing survives the call.
func Detect(observations []*models.Observation, cfg models.DetectionConfig) ([]*models.Anomaly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	anomalies := make([]*models.Anomaly, 0)
	for _, series := range GroupByStation(observations) {
		for _, variable := range models.Variables {
			anomalies = append(anomalies, ScoreSeries(series, variable, cfg)...)
		}
	}

	return anomalies, nil
}
