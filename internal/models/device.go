package models

// Known device types. Only the air conditioner is subject to automatic
// control; everything else is always manually switchable.
const (
	TypeAirConditioner = "air_conditioner"
	TypeLight          = "light"
)

// DeviceStatus is the nested on/off state as the server reports it.
type DeviceStatus struct {
	IsOn bool `json:"is_on"`
}

// Device is a single controllable appliance. DeviceID is the only reliable
// action key; names may collide or carry characters that are unsafe in URLs.
type Device struct {
	DeviceID     int          `json:"device_id"`
	DeviceName   string       `json:"device_name"`
	DeviceType   string       `json:"device_type"`
	Location     string       `json:"location,omitempty"`
	RatedPowerKW float64      `json:"rated_power,omitempty"` // kW
	Status       DeviceStatus `json:"status"`
}

// DeviceListResponse is the /device/list envelope.
type DeviceListResponse struct {
	OK      bool     `json:"ok"`
	Msg     string   `json:"msg,omitempty"`
	Devices []Device `json:"devices"`
}

// ToggleRequest is the /device/toggle payload. DeviceID is preferred; Name is
// the fallback key when no id is known.
type ToggleRequest struct {
	DeviceID int    `json:"device_id,omitempty"`
	Name     string `json:"name,omitempty"`
	On       bool   `json:"on"`
}

// ToggledState is the confirmed post-toggle state, when the server returns it.
type ToggledState struct {
	IsOn bool `json:"is_on"`
}

// OKResponse is the minimal {ok, msg} envelope used by mutating endpoints.
type OKResponse struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg,omitempty"`
}
