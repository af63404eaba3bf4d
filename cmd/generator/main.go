package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"anomaly-platform/internal/repository"
	"anomaly-platform/pkg/logging"
)

func main() {
	// Parse command-line flags
	output := flag.String("output", "./api_test_data.json", "Output path for the generated dataset")
	stations := flag.Int("stations", 10, "Number of stations to generate")
	points := flag.Int("points", 60, "Number of observations per station")
	interval := flag.Int64("interval", 600, "Seconds between consecutive observations")
	start := flag.Int64("start", 1729580400, "Unix timestamp of the first observation")
	seed := flag.Int64("seed", 42, "RNG seed (identical seeds produce identical datasets)")
	anomalyRate := flag.Float64("anomaly-rate", 0.02, "Fraction of observations receiving an injected spike")
	flag.Parse()

	logger := logging.NewStructuredLogger("anomaly-generator", "1.0.0", logging.InfoLevel)
	ctx := context.Background()

	logger.Info(ctx, "[GENERATOR_START] Generating sample dataset", logging.Fields{
		"output":       *output,
		"stations":     *stations,
		"points":       *points,
		"seed":         *seed,
		"anomaly_rate": *anomalyRate,
	})

	repo := repository.NewGeneratedSampleRepository(repository.GeneratorSpec{
		Stations:         *stations,
		PointsPerStation: *points,
		IntervalSeconds:  *interval,
		StartTimestamp:   *start,
		Seed:             *seed,
		AnomalyRate:      *anomalyRate,
	}, logger)

	dataset, err := repo.LoadDataset(ctx)
	if err != nil {
		logger.Fatal(ctx, "[GENERATOR_ERROR] Dataset generation failed", logging.Fields{}, err)
	}

	content, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		logger.Fatal(ctx, "[GENERATOR_ERROR] Failed to encode dataset", logging.Fields{}, err)
	}

	if err := os.WriteFile(*output, content, 0o644); err != nil {
		logger.Fatal(ctx, "[GENERATOR_ERROR] Failed to write dataset file", logging.Fields{
			"output": *output,
		}, err)
	}

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("DATASET GENERATION COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Output File:        %s\n", *output)
	fmt.Printf("Stations:           %d\n", *stations)
	fmt.Printf("Points Per Station: %d\n", *points)
	fmt.Printf("Total Observations: %d\n", len(dataset))
	fmt.Printf("Seed:               %d\n", *seed)
	fmt.Printf("Anomaly Rate:       %.2f%%\n", *anomalyRate*100)

	logger.Info(ctx, "[GENERATOR_COMPLETE] Dataset written", logging.Fields{
		"output":       *output,
		"observations": len(dataset),
	})
}
