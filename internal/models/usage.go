package models

// UsageDeviceShare is one device's contribution to a day's usage.
type UsageDeviceShare struct {
	DeviceName string  `json:"device_name"`
	KWh        float64 `json:"kwh"`
	Cost       float64 `json:"cost"`
}

// UsageDay aggregates one day's consumption. Days are keyed by ISO date
// strings, so lexicographic order is chronological order.
type UsageDay struct {
	KWh     float64            `json:"kwh"`
	CostSum float64            `json:"cost_sum"`
	Devices []UsageDeviceShare `json:"devices,omitempty"`
}
