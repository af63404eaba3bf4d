package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"anomaly-platform/pkg/logging"
)

func testLogger() *logging.StructuredLogger {
	return logging.NewStructuredLogger("repository-test", "test", logging.FatalLevel)
}

func TestFileSampleRepository_LoadDataset(t *testing.T) {
	content := `[
		{"station_id": "station_001", "timestamp": 1729580400, "temp_out": 15.2, "out_hum": 80.0, "wind_speed": 5.5, "bar": 1013.2, "rain": 0.0},
		{"station_id": "station_001", "timestamp": 1729581000, "temp_out": 15.8, "out_hum": 79.5, "bar": 1013.1, "rain": 0.0},
		{"station_id": "station_002", "timestamp": 1729580400, "temp_out": 12.1, "out_hum": 85.0, "wind_speed": 3.2, "bar": 1011.8, "rain": 0.4}
	]`

	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test dataset: %v", err)
	}

	repo := NewFileSampleRepository(path, testLogger())

	dataset, err := repo.LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	if len(dataset) != 3 {
		t.Fatalf("dataset length = %d, want 3", len(dataset))
	}

	first := dataset[0]
	if first.StationID != "station_001" {
		t.Errorf("StationID = %q, want %q", first.StationID, "station_001")
	}
	if first.Timestamp != 1729580400 {
		t.Errorf("Timestamp = %d, want 1729580400", first.Timestamp)
	}
	if first.TempOut == nil || *first.TempOut != 15.2 {
		t.Errorf("TempOut = %v, want 15.2", first.TempOut)
	}

	// second observation has no wind reading
	if dataset[1].WindSpeed != nil {
		t.Errorf("WindSpeed = %v, want nil", dataset[1].WindSpeed)
	}
}

func TestFileSampleRepository_CachesAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte(`[{"station_id": "station_001", "timestamp": 100}]`), 0o644); err != nil {
		t.Fatalf("failed to write test dataset: %v", err)
	}

	repo := NewFileSampleRepository(path, testLogger())

	first, err := repo.LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	// removing the file after the first load must not matter
	os.Remove(path)

	second, err := repo.LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset() second call error = %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("second load length = %d, want %d", len(second), len(first))
	}
}

func TestFileSampleRepository_MissingFile(t *testing.T) {
	repo := NewFileSampleRepository(filepath.Join(t.TempDir(), "absent.json"), testLogger())

	_, err := repo.LoadDataset(context.Background())
	if err == nil {
		t.Fatal("LoadDataset() error = nil, want NotFoundError")
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
	if notFound.Resource != "sample_dataset" {
		t.Errorf("Resource = %q, want %q", notFound.Resource, "sample_dataset")
	}
}

func TestFileSampleRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write test dataset: %v", err)
	}

	repo := NewFileSampleRepository(path, testLogger())

	_, err := repo.LoadDataset(context.Background())
	if err == nil {
		t.Fatal("LoadDataset() error = nil, want parse error")
	}
}

func TestGeneratedSampleRepository_ShapeAndSpacing(t *testing.T) {
	spec := GeneratorSpec{
		Stations:         3,
		PointsPerStation: 20,
		IntervalSeconds:  600,
		StartTimestamp:   1729580400,
		Seed:             42,
		AnomalyRate:      0.02,
	}

	repo := NewGeneratedSampleRepository(spec, testLogger())

	dataset, err := repo.LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	if len(dataset) != spec.Stations*spec.PointsPerStation {
		t.Fatalf("dataset length = %d, want %d", len(dataset), spec.Stations*spec.PointsPerStation)
	}

	// first station's observations come first and are evenly spaced
	for p := 0; p < spec.PointsPerStation; p++ {
		obs := dataset[p]
		if obs.StationID != "station_001" {
			t.Fatalf("dataset[%d].StationID = %q, want %q", p, obs.StationID, "station_001")
		}
		want := spec.StartTimestamp + int64(p)*spec.IntervalSeconds
		if obs.Timestamp != want {
			t.Errorf("dataset[%d].Timestamp = %d, want %d", p, obs.Timestamp, want)
		}
	}

	// temperature is always present; only wind readings can drop out
	for i, obs := range dataset {
		if obs.TempOut == nil {
			t.Errorf("dataset[%d].TempOut is nil", i)
		}
		if obs.Bar == nil {
			t.Errorf("dataset[%d].Bar is nil", i)
		}
	}
}

func TestGeneratedSampleRepository_Deterministic(t *testing.T) {
	spec := GeneratorSpec{
		Stations:         2,
		PointsPerStation: 30,
		IntervalSeconds:  600,
		StartTimestamp:   1729580400,
		Seed:             7,
		AnomalyRate:      0.05,
	}

	first, err := NewGeneratedSampleRepository(spec, testLogger()).LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	second, err := NewGeneratedSampleRepository(spec, testLogger()).LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical specs produced different datasets")
	}
}

func TestGeneratedSampleRepository_SeedChangesData(t *testing.T) {
	spec := GeneratorSpec{
		Stations:         1,
		PointsPerStation: 30,
		IntervalSeconds:  600,
		StartTimestamp:   1729580400,
		Seed:             1,
	}
	other := spec
	other.Seed = 2

	first, _ := NewGeneratedSampleRepository(spec, testLogger()).LoadDataset(context.Background())
	second, _ := NewGeneratedSampleRepository(other, testLogger()).LoadDataset(context.Background())

	if reflect.DeepEqual(first, second) {
		t.Error("different seeds produced identical datasets")
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Resource: "sample_dataset", ID: "/data/missing.json"}

	if err.Error() != "sample_dataset not found: /data/missing.json" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.IsTransient() {
		t.Error("NotFoundError should not be transient")
	}
}
