package services

import (
	"context"
	"fmt"

	"anomaly-platform/internal/models"
	"anomaly-platform/internal/repository"
	"anomaly-platform/pkg/logging"
	"anomaly-platform/pkg/metrics"
)

// TimeRange bounds a dataset in formatted timestamps.
type TimeRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// TestDataResponse wraps the sample dataset for API consumption.
type TestDataResponse struct {
	Message           string                `json:"message"`
	TotalObservations int                   `json:"total_observations"`
	Stations          []string              `json:"stations"`
	TimeRange         TimeRange             `json:"time_range"`
	Observations      []*models.Observation `json:"observations"`
}

// SampleDataService supplies the synthetic observation set used for API
// testing. It is an ordinary data supplier: the detection core treats
// its output like any other observation batch.
type SampleDataService struct {
	repo    repository.SampleRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewSampleDataService creates a new sample data service.
func NewSampleDataService(repo repository.SampleRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *SampleDataService {
	return &SampleDataService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetTestData returns the sample dataset with its station list and
// time range.
func (s *SampleDataService) GetTestData(ctx context.Context) (*TestDataResponse, error) {
	dataset, err := s.repo.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.SampleDataRequestsTotal.Inc()
	s.metrics.SampleDatasetSize.Set(float64(len(dataset)))

	stations := make([]string, 0)
	seen := make(map[string]bool)
	var minTS, maxTS int64
	for i, obs := range dataset {
		if !seen[obs.StationID] {
			seen[obs.StationID] = true
			stations = append(stations, obs.StationID)
		}
		if i == 0 || obs.Timestamp < minTS {
			minTS = obs.Timestamp
		}
		if i == 0 || obs.Timestamp > maxTS {
			maxTS = obs.Timestamp
		}
	}

	resp := &TestDataResponse{
		Message:           fmt.Sprintf("Sample test data for %d stations", len(stations)),
		TotalObservations: len(dataset),
		Stations:          stations,
		Observations:      dataset,
	}
	if len(dataset) > 0 {
		resp.TimeRange = TimeRange{
			Start: models.FormatTimestamp(minTS),
			End:   models.FormatTimestamp(maxTS),
		}
	}

	s.logger.Debug(ctx, "[SAMPLE_SERVE] Sample dataset served", logging.Fields{
		"observations": len(dataset),
		"stations":     len(stations),
	})

	return resp, nil
}
