package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"anomaly-platform/internal/models"
	"anomaly-platform/internal/repository"
	"anomaly-platform/internal/services"
	"anomaly-platform/pkg/logging"
	"anomaly-platform/pkg/metrics"
)

// APIVersion reported by the info and docs endpoints.
const APIVersion = "1.0.0"

// DetectionHandler handles anomaly detection API endpoints
type DetectionHandler struct {
	detectionService *services.DetectionService
	sampleService    *services.SampleDataService
	logger           *logging.StructuredLogger
	metrics          *metrics.Collector
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(
	detectionService *services.DetectionService,
	sampleService *services.SampleDataService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: detectionService,
		sampleService:    sampleService,
		logger:           logger,
		metrics:          metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Detect handles POST /detect
func (h *DetectionHandler) Detect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/detect").Observe(duration.Seconds())
	}()

	var req services.DetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordAPIError("decode_error", "/detect")
		h.sendError(w, r, "invalid request body: expected a JSON detection request", http.StatusBadRequest)
		return
	}

	response, err := h.detectionService.Detect(ctx, &req)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			h.metrics.RecordAPIError("validation_error", "/detect")
			h.sendError(w, r, validationErr.Message, http.StatusBadRequest)
			return
		}

		h.logger.Error(ctx, "[API_DETECT_ERROR] Detection failed", logging.Fields{
			"observations": len(req.Observations),
		}, err)
		h.metrics.RecordAPIError("internal_error", "/detect")
		h.sendError(w, r, "detection failed", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/detect", "POST", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// TestData handles GET /test-data
func (h *DetectionHandler) TestData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/test-data").Observe(duration.Seconds())
	}()

	response, err := h.sampleService.GetTestData(ctx)
	if err != nil {
		var notFoundErr *repository.NotFoundError
		if errors.As(err, &notFoundErr) {
			h.metrics.RecordAPIError("not_found", "/test-data")
			h.sendError(w, r, "sample dataset not available", http.StatusNotFound)
			return
		}

		h.logger.Error(ctx, "[API_TEST_DATA_ERROR] Failed to load sample dataset", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/test-data")
		h.sendError(w, r, "failed to load sample dataset", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/test-data", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// APIInfo handles GET /
func (h *DetectionHandler) APIInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Weather Time Series Anomaly Detection API",
		"version":     APIVersion,
		"status":      "operational",
		"description": "Sliding-window z-score anomaly detection for multi-station weather observations",
		"endpoints": map[string]string{
			"POST /detect":   "Detect anomalies in observation data",
			"GET /test-data": "Get sample test data",
			"GET /health":    "Health check",
			"GET /metrics":   "Prometheus metrics",
			"GET /docs":      "API documentation",
		},
	}

	h.metrics.RecordAPIRequest("/", "GET", "200")
	h.sendJSON(w, info, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *DetectionHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// sendJSON sends a JSON response
func (h *DetectionHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *DetectionHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all detection API routes
func (h *DetectionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.APIInfo).Methods("GET")
	router.HandleFunc("/detect", h.Detect).Methods("POST")
	router.HandleFunc("/test-data", h.TestData).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.HandleFunc("/docs", SwaggerUI).Methods("GET")
}
