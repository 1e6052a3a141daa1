package models

// AutoConfig is the automatic-control configuration. The client only acts on
// MonitorEnabled; the remaining fields are displayed as-is.
type AutoConfig struct {
	MonitorEnabled  bool    `json:"monitor_enabled"`
	TargetTempC     float64 `json:"target_temp_c,omitempty"`
	IntervalSeconds int     `json:"interval_seconds,omitempty"`
}
