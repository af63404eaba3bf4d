package handlers

import (
	"encoding/json"
	"net/http"
)

// observationSchema describes one weather observation on the wire.
func observationSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []string{"station_id", "timestamp"},
		"properties": map[string]interface{}{
			"station_id": map[string]string{"type": "string"},
			"timestamp":  map[string]interface{}{"type": "integer", "description": "Unix timestamp (seconds)"},
			"temp_out":   map[string]interface{}{"type": "number", "nullable": true, "description": "Outdoor temperature (°C)"},
			"out_hum":    map[string]interface{}{"type": "number", "nullable": true, "description": "Outdoor humidity (%)"},
			"wind_speed": map[string]interface{}{"type": "number", "nullable": true, "description": "Wind speed (m/s)"},
			"bar":        map[string]interface{}{"type": "number", "nullable": true, "description": "Barometric pressure (hPa)"},
			"rain":       map[string]interface{}{"type": "number", "nullable": true, "description": "Rainfall (mm)"},
		},
	}
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the Anomaly Detection API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Weather Time Series Anomaly Detection API",
			"description": "Sliding-window z-score anomaly detection service for multi-station weather observations",
			"version":     APIVersion,
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8000", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/detect": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Detect anomalies",
					"description": "Run sliding-window z-score detection over a batch of observations. Omitted parameters take server defaults (window_len 10, stride 1, threshold 2.5); the documented station-cadence preset is window_len 36, stride 18.",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type":     "object",
									"required": []string{"observations"},
									"properties": map[string]interface{}{
										"observations": map[string]interface{}{
											"type":  "array",
											"items": observationSchema(),
										},
										"window_len": map[string]interface{}{"type": "integer", "minimum": 3, "default": 10},
										"stride":     map[string]interface{}{"type": "integer", "minimum": 1, "default": 1},
										"threshold":  map[string]interface{}{"type": "number", "exclusiveMinimum": 0, "default": 2.5},
									},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Detection result",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status":             map[string]interface{}{"type": "string", "enum": []string{"anomalies_found", "no_anomalies"}},
											"message":            map[string]string{"type": "string"},
											"detection_time":     map[string]string{"type": "string"},
											"total_observations": map[string]string{"type": "integer"},
											"total_anomalies":    map[string]string{"type": "integer"},
											"parameters": map[string]interface{}{
												"type": "object",
												"properties": map[string]interface{}{
													"window_len": map[string]string{"type": "integer"},
													"stride":     map[string]string{"type": "integer"},
													"threshold":  map[string]string{"type": "number"},
													"variables": map[string]interface{}{
														"type":  "array",
														"items": map[string]string{"type": "string"},
													},
												},
											},
											"anomalies": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "object",
													"properties": map[string]interface{}{
														"time_start":        map[string]string{"type": "string"},
														"time_end":          map[string]string{"type": "string"},
														"station_id":        map[string]string{"type": "string"},
														"variable":          map[string]string{"type": "string"},
														"anomaly_timestamp": map[string]string{"type": "string"},
														"anomaly_value":     map[string]string{"type": "number"},
														"z_score":           map[string]string{"type": "number"},
													},
												},
											},
										},
									},
								},
							},
						},
						"400": map[string]interface{}{
							"description": "Request validation failure (bad detection parameters or insufficient observations)",
						},
					},
				},
			},
			"/test-data": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get sample test data",
					"description": "Synthetic multi-station observation set for API testing",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Sample dataset",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"message":            map[string]string{"type": "string"},
											"total_observations": map[string]string{"type": "integer"},
											"stations": map[string]interface{}{
												"type":  "array",
												"items": map[string]string{"type": "string"},
											},
											"time_range": map[string]interface{}{
												"type": "object",
												"properties": map[string]interface{}{
													"start": map[string]string{"type": "string"},
													"end":   map[string]string{"type": "string"},
												},
											},
											"observations": map[string]interface{}{
												"type":  "array",
												"items": observationSchema(),
											},
										},
									},
								},
							},
						},
						"404": map[string]interface{}{
							"description": "Sample dataset not available",
						},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API is running",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
