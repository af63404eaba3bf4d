package services

import (
	"context"
	"fmt"
	"time"

	"anomaly-platform/internal/detection"
	"anomaly-platform/internal/models"
	"anomaly-platform/pkg/logging"
	"anomaly-platform/pkg/metrics"
)

// Detection status values surfaced in the response.
const (
	StatusAnomaliesFound = "anomalies_found"
	StatusNoAnomalies    = "no_anomalies"
)

// MinObservations is the smallest batch accepted for detection.
const MinObservations = 3

// DetectionRequest is one detection call. Zero-valued parameters take
// the configured defaults.
type DetectionRequest struct {
	Observations []*models.Observation `json:"observations"`
	WindowLen    int                   `json:"window_len"`
	Stride       int                   `json:"stride"`
	Threshold    float64               `json:"threshold"`
}

// DetectionParameters echoes the effective detection configuration.
type DetectionParameters struct {
	WindowLen int               `json:"window_len"`
	Stride    int               `json:"stride"`
	Threshold float64           `json:"threshold"`
	Variables []models.Variable `json:"variables"`
}

// DetectionResponse is the full detection result.
type DetectionResponse struct {
	Status            string              `json:"status"`
	Message           string              `json:"message"`
	DetectionTime     string              `json:"detection_time"`
	TotalObservations int                 `json:"total_observations"`
	TotalAnomalies    int                 `json:"total_anomalies"`
	Parameters        DetectionParameters `json:"parameters"`
	Anomalies         []*models.Anomaly   `json:"anomalies"`
}

// DetectionService runs the grouping-and-scoring engine for API
// requests. Stateless: every request is an independent computation and
// nothing is shared across calls.
type DetectionService struct {
	defaults models.DetectionConfig
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewDetectionService creates a new detection service. The defaults
// fill in request parameters the caller omits.
func NewDetectionService(defaults models.DetectionConfig, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *DetectionService {
	return &DetectionService{
		defaults: defaults,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// Detect validates the request, runs the detection pass, and assembles
// the response. Validation failures reject the whole request; there is
// no partial-result mode.
func (s *DetectionService) Detect(ctx context.Context, req *DetectionRequest) (*DetectionResponse, error) {
	startTime := time.Now()

	if len(req.Observations) == 0 {
		return nil, &models.ValidationError{
			Field:   "observations",
			Message: "no observations provided",
		}
	}

	if len(req.Observations) < MinObservations {
		return nil, &models.ValidationError{
			Field: "observations",
			Value: fmt.Sprintf("%d", len(req.Observations)),
			Message: fmt.Sprintf("insufficient data: %d observations provided, minimum %d required for statistical analysis",
				len(req.Observations), MinObservations),
		}
	}

	cfg := s.effectiveConfig(req)

	s.logger.Debug(ctx, "[DETECT_START] Running anomaly detection", logging.Fields{
		"observations": len(req.Observations),
		"window_len":   cfg.WindowLen,
		"stride":       cfg.Stride,
		"threshold":    cfg.Threshold,
	})

	anomalies, err := detection.Detect(req.Observations, cfg)
	if err != nil {
		return nil, err
	}

	duration := time.Since(startTime)

	status := StatusNoAnomalies
	message := fmt.Sprintf("Detection completed. No anomalies detected in %d observations. All values are within normal range.",
		len(req.Observations))
	if len(anomalies) > 0 {
		status = StatusAnomaliesFound
		message = fmt.Sprintf("Detection completed. Found %d anomalies in %d observations.",
			len(anomalies), len(req.Observations))
	}

	s.recordMetrics(req.Observations, anomalies, cfg, status, duration)

	s.logger.Info(ctx, "[DETECT_COMPLETE] Anomaly detection completed", logging.Fields{
		"observations": len(req.Observations),
		"anomalies":    len(anomalies),
		"status":       status,
		"duration_ms":  duration.Milliseconds(),
	})

	return &DetectionResponse{
		Status:            status,
		Message:           message,
		DetectionTime:     time.Now().UTC().Format(models.TimestampLayout),
		TotalObservations: len(req.Observations),
		TotalAnomalies:    len(anomalies),
		Parameters: DetectionParameters{
			WindowLen: cfg.WindowLen,
			Stride:    cfg.Stride,
			Threshold: cfg.Threshold,
			Variables: models.Variables,
		},
		Anomalies: anomalies,
	}, nil
}

// effectiveConfig overlays request parameters on the configured
// defaults. Zero means "not provided"; invalid non-zero values are left
// for Validate to reject.
func (s *DetectionService) effectiveConfig(req *DetectionRequest) models.DetectionConfig {
	cfg := s.defaults
	if req.WindowLen != 0 {
		cfg.WindowLen = req.WindowLen
	}
	if req.Stride != 0 {
		cfg.Stride = req.Stride
	}
	if req.Threshold != 0 {
		cfg.Threshold = req.Threshold
	}
	return cfg
}

// recordMetrics updates the detection metric families for one pass.
func (s *DetectionService) recordMetrics(observations []*models.Observation, anomalies []*models.Anomaly, cfg models.DetectionConfig, status string, duration time.Duration) {
	s.metrics.DetectionRequestsTotal.WithLabelValues(status).Inc()
	s.metrics.DetectionDuration.Observe(duration.Seconds())
	s.metrics.ObservationsProcessedTotal.Add(float64(len(observations)))

	for _, a := range anomalies {
		s.metrics.AnomaliesDetectedTotal.WithLabelValues(string(a.Variable)).Inc()
	}

	windows := 0
	for _, series := range detection.GroupByStation(observations) {
		if n := len(series.Observations); n >= cfg.WindowLen {
			windows += (n-cfg.WindowLen)/cfg.Stride + 1
		}
	}
	s.metrics.WindowsEvaluatedTotal.Add(float64(windows * len(models.Variables)))
}
