package detection

import (
	"sort"

	"anomaly-platform/internal/models"
)

// StationSeries is one station's observations in ascending timestamp
// order. Built fresh per request; never persisted.
type StationSeries struct {
	StationID    string
	Observations []*models.Observation
}

// GroupByStation partitions an arbitrarily ordered, possibly
// station-interleaved batch of observations into per-station series.
// Station order in the result follows first appearance in the input;
// within a series, observations are sorted ascending by timestamp and
// duplicates keep their input order (stable sort). Pure transformation,
// no error conditions: stations too short to fill a window are carried
// through and simply yield zero windows at scoring time.
func GroupByStation(observations []*models.Observation) []*StationSeries {
	byStation := make(map[string]*StationSeries)
	order := make([]*StationSeries, 0)

	for _, obs := range observations {
		series, ok := byStation[obs.StationID]
		if !ok {
			series = &StationSeries{StationID: obs.StationID}
			byStation[obs.StationID] = series
			order = append(order, series)
		}
		series.Observations = append(series.Observations, obs)
	}

	for _, series := range order {
		obs := series.Observations
		sort.SliceStable(obs, func(i, j int) bool {
			return obs[i].Timestamp < obs[j].Timestamp
		})
	}

	return order
}
