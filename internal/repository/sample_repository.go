package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"

	"anomaly-platform/internal/models"
	"anomaly-platform/pkg/logging"
)

// SampleRepository provides the synthetic multi-station observation set
// served by the test-data endpoint. The dataset is an explicit,
// startup-loaded immutable resource: implementations load or generate
// it once and return the same slice on every call. The detection core
// treats this data identically to any other observation batch.
type SampleRepository interface {
	LoadDataset(ctx context.Context) ([]*models.Observation, error)
}

// fileSampleRepository serves a dataset from a JSON file, loaded once.
type fileSampleRepository struct {
	path   string
	logger *logging.StructuredLogger

	once    sync.Once
	dataset []*models.Observation
	loadErr error
}

// NewFileSampleRepository creates a repository backed by a JSON
// observation file, typically written by the generator command.
func NewFileSampleRepository(path string, logger *logging.StructuredLogger) SampleRepository {
	return &fileSampleRepository{
		path:   path,
		logger: logger,
	}
}

// LoadDataset reads and caches the observation file. The first error is
// cached too: a missing or corrupt file stays missing for the process
// lifetime.
func (r *fileSampleRepository) LoadDataset(ctx context.Context) ([]*models.Observation, error) {
	r.once.Do(func() {
		content, err := os.ReadFile(r.path)
		if err != nil {
			if os.IsNotExist(err) {
				r.loadErr = &NotFoundError{Resource: "sample_dataset", ID: r.path}
				return
			}
			r.loadErr = fmt.Errorf("failed to read sample dataset: %w", err)
			return
		}

		var dataset []*models.Observation
		if err := json.Unmarshal(content, &dataset); err != nil {
			r.loadErr = fmt.Errorf("failed to parse sample dataset: %w", err)
			return
		}

		r.dataset = dataset
		r.logger.Info(ctx, "[SAMPLE_LOAD] Sample dataset loaded", logging.Fields{
			"path":         r.path,
			"observations": len(dataset),
		})
	})

	return r.dataset, r.loadErr
}

// GeneratorSpec controls synthetic dataset generation. Identical specs
// produce identical datasets.
type GeneratorSpec struct {
	Stations         int
	PointsPerStation int
	IntervalSeconds  int64
	StartTimestamp   int64
	Seed             int64
	AnomalyRate      float64
}

// generatedSampleRepository synthesizes a dataset from a seeded RNG.
type generatedSampleRepository struct {
	spec   GeneratorSpec
	logger *logging.StructuredLogger

	once    sync.Once
	dataset []*models.Observation
}

// NewGeneratedSampleRepository creates a repository that synthesizes
// its dataset deterministically from the spec's seed. Used by the
// generator command and as the server fallback when no dataset file is
// configured.
func NewGeneratedSampleRepository(spec GeneratorSpec, logger *logging.StructuredLogger) SampleRepository {
	return &generatedSampleRepository{
		spec:   spec,
		logger: logger,
	}
}

// LoadDataset generates and caches the synthetic observation set.
func (r *generatedSampleRepository) LoadDataset(ctx context.Context) ([]*models.Observation, error) {
	r.once.Do(func() {
		r.dataset = generate(r.spec)
		r.logger.Info(ctx, "[SAMPLE_GENERATE] Sample dataset generated", logging.Fields{
			"stations":           r.spec.Stations,
			"points_per_station": r.spec.PointsPerStation,
			"seed":               r.spec.Seed,
			"observations":       len(r.dataset),
		})
	})

	return r.dataset, nil
}

// pointsPerDay for the diurnal cycle at a 600s cadence.
const pointsPerDay = 144

// generate builds the dataset: per station, a daily temperature cycle
// plus gaussian noise on each variable, occasional missing readings,
// and injected spikes at the configured rate.
func generate(spec GeneratorSpec) []*models.Observation {
	rng := rand.New(rand.NewSource(spec.Seed))
	dataset := make([]*models.Observation, 0, spec.Stations*spec.PointsPerStation)

	for s := 0; s < spec.Stations; s++ {
		stationID := fmt.Sprintf("station_%03d", s+1)

		baseTemp := 10.0 + rng.Float64()*10.0
		baseHum := 55.0 + rng.Float64()*25.0
		baseWind := 2.0 + rng.Float64()*5.0
		baseBar := 1008.0 + rng.Float64()*10.0

		for p := 0; p < spec.PointsPerStation; p++ {
			phase := 2 * math.Pi * float64(p%pointsPerDay) / pointsPerDay

			temp := baseTemp + 5.0*math.Sin(phase) + rng.NormFloat64()*0.8
			hum := baseHum - 8.0*math.Sin(phase) + rng.NormFloat64()*2.0
			wind := baseWind + rng.NormFloat64()*0.6
			if wind < 0 {
				wind = 0
			}
			bar := baseBar + rng.NormFloat64()*0.5
			rain := 0.0
			if rng.Float64() < 0.1 {
				rain = rng.Float64() * 2.0
			}

			if rng.Float64() < spec.AnomalyRate {
				switch rng.Intn(4) {
				case 0:
					temp += 40.0 + rng.Float64()*20.0
				case 1:
					hum = 0
				case 2:
					wind += 25.0 + rng.Float64()*10.0
				case 3:
					bar -= 60.0 + rng.Float64()*20.0
				}
			}

			obs := &models.Observation{
				StationID: stationID,
				Timestamp: spec.StartTimestamp + int64(p)*spec.IntervalSeconds,
				TempOut:   ptr(round1(temp)),
				OutHum:    ptr(round1(hum)),
				WindSpeed: ptr(round1(wind)),
				Bar:       ptr(round1(bar)),
				Rain:      ptr(round1(rain)),
			}

			// simulate a dropped sensor reading now and then
			if rng.Float64() < 0.01 {
				obs.WindSpeed = nil
			}

			dataset = append(dataset, obs)
		}
	}

	return dataset
}

func ptr(v float64) *float64 {
	return &v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
