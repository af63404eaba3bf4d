package main

import (
	"context"
	"fmt"
	"os"

	"anomaly-platform/internal/detection"
	"anomaly-platform/internal/models"
	"anomaly-platform/internal/repository"
	"anomaly-platform/pkg/logging"
)

// DemoDetection demonstrates the detection engine without the HTTP layer
func main() {
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("ANOMALY PLATFORM - DETECTION DEMONSTRATION")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()

	// Initialize logger
	logger := logging.NewStructuredLogger("demo", "1.0.0", logging.WarnLevel)
	ctx := context.Background()

	// Generate a small multi-station dataset with injected spikes
	repo := repository.NewGeneratedSampleRepository(repository.GeneratorSpec{
		Stations:         3,
		PointsPerStation: 60,
		IntervalSeconds:  600,
		StartTimestamp:   1729580400,
		Seed:             7,
		AnomalyRate:      0.03,
	}, logger)

	observations, err := repo.LoadDataset(ctx)
	if err != nil {
		fmt.Printf("Error generating dataset: %v\n", err)
		os.Exit(1)
	}

	cfg := models.DetectionConfig{
		WindowLen: 10,
		Stride:    1,
		Threshold: 2.5,
	}

	fmt.Printf("Generated %d observations across 3 stations\n", len(observations))
	fmt.Printf("Detection parameters: window_len=%d stride=%d threshold=%.1f\n\n",
		cfg.WindowLen, cfg.Stride, cfg.Threshold)

	// Group and inspect the series
	for _, series := range detection.GroupByStation(observations) {
		fmt.Printf("─────────────────────────────────────────────────────────────\n")
		fmt.Printf("Station: %s (%d observations)\n", series.StationID, len(series.Observations))

		first := series.Observations[0]
		last := series.Observations[len(series.Observations)-1]
		fmt.Printf("  Range: %s .. %s\n",
			models.FormatTimestamp(first.Timestamp),
			models.FormatTimestamp(last.Timestamp))
	}

	// Run the full detection pass
	anomalies, err := detection.Detect(observations, cfg)
	if err != nil {
		fmt.Printf("Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n─────────────────────────────────────────────────────────────\n")
	fmt.Printf("Detected %d anomalies\n", len(anomalies))
	fmt.Printf("─────────────────────────────────────────────────────────────\n")

	for i, a := range anomalies {
		fmt.Printf("  [%d] %s %s = %.2f (z=%.2f) at %s, window %s .. %s\n",
			i+1, a.StationID, a.Variable, a.AnomalyValue, a.ZScore,
			a.AnomalyTimestamp, a.TimeStart, a.TimeEnd)
	}

	if len(anomalies) == 0 {
		fmt.Println("  (no anomalies — all values within normal range)")
	}

	fmt.Println()
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("DEMONSTRATION COMPLETE")
	fmt.Println("════════════════════════════════════════════════════════════════")
}
