package models

import (
	"fmt"
	"time"
)

// Variable identifies one monitored weather variable.
type Variable string

const (
	VarTemperature Variable = "temp_out"
	VarHumidity    Variable = "out_hum"
	VarWindSpeed   Variable = "wind_speed"
	VarPressure    Variable = "bar"
	VarRainfall    Variable = "rain"
)

// Variables lists the monitored variables in scoring order. Detection
// output follows this order, so it must stay stable.
var Variables = []Variable{
	VarTemperature,
	VarHumidity,
	VarWindSpeed,
	VarPressure,
	VarRainfall,
}

// TimestampLayout is the date-time format used for anomaly output.
const TimestampLayout = "2006-01-02 15:04:05"

// Observation represents a single weather reading from one station.
// Missing readings are represented as nil pointers. Immutable once
// received.
type Observation struct {
	StationID string   `json:"station_id"`
	Timestamp int64    `json:"timestamp"`
	TempOut   *float64 `json:"temp_out,omitempty"`
	OutHum    *float64 `json:"out_hum,omitempty"`
	WindSpeed *float64 `json:"wind_speed,omitempty"`
	Bar       *float64 `json:"bar,omitempty"`
	Rain      *float64 `json:"rain,omitempty"`
}

// Value returns the reading for the given variable, or nil when the
// reading is absent.
func (o *Observation) Value(v Variable) *float64 {
	switch v {
	case VarTemperature:
		return o.TempOut
	case VarHumidity:
		return o.OutHum
	case VarWindSpeed:
		return o.WindSpeed
	case VarPressure:
		return o.Bar
	case VarRainfall:
		return o.Rain
	default:
		return nil
	}
}

// Time returns the observation timestamp as UTC time.
func (o *Observation) Time() time.Time {
	return time.Unix(o.Timestamp, 0).UTC()
}

// FormatTimestamp renders a Unix timestamp in the output date-time
// format. Always UTC so that responses are deterministic across
// deployments.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(TimestampLayout)
}

// Detection parameter bounds enforced before any scoring begins.
const (
	MinWindowLen = 3
	MinStride    = 1
)

// DetectionConfig holds the sliding-window parameters for one
// detection pass.
type DetectionConfig struct {
	WindowLen int     `json:"window_len"`
	Stride    int     `json:"stride"`
	Threshold float64 `json:"threshold"`
}

// Validate rejects configurations that cannot produce a meaningful
// statistical test. Called before scoring; a failure rejects the whole
// request.
func (c DetectionConfig) Validate() error {
	if c.WindowLen < MinWindowLen {
		return &ValidationError{
			Field:   "window_len",
			Value:   fmt.Sprintf("%d", c.WindowLen),
			Message: fmt.Sprintf("window_len must be at least %d", MinWindowLen),
		}
	}
	if c.Stride < MinStride {
		return &ValidationError{
			Field:   "stride",
			Value:   fmt.Sprintf("%d", c.Stride),
			Message: fmt.Sprintf("stride must be at least %d", MinStride),
		}
	}
	if c.Threshold <= 0 {
		return &ValidationError{
			Field:   "threshold",
			Value:   fmt.Sprintf("%g", c.Threshold),
			Message: "threshold must be greater than zero",
		}
	}
	return nil
}

// Anomaly represents one flagged reading. Created by the window scorer,
// never mutated afterward. Timestamps are formatted with
// TimestampLayout; the window [time_start, time_end] always contains
// anomaly_timestamp.
type Anomaly struct {
	TimeStart        string   `json:"time_start"`
	TimeEnd          string   `json:"time_end"`
	StationID        string   `json:"station_id"`
	Variable         Variable `json:"variable"`
	AnomalyTimestamp string   `json:"anomaly_timestamp"`
	AnomalyValue     float64  `json:"anomaly_value"`
	ZScore           float64  `json:"z_score"`
}

// ValidationError represents a request validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}
