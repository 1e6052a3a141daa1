// Package view holds pure view descriptions: plain data computed from server
// state and policy, with no knowledge of how they are drawn. Renderers apply
// these descriptions to whatever surface is in use.
package view

import (
	"net/url"
	"sort"

	"smartenergy/internal/models"
)

// Localized on/off vocabulary.
const (
	StatusOn  = "on"
	StatusOff = "off"

	ActionTurnOn  = "turn on"
	ActionTurnOff = "turn off"
)

// DeviceRow is one rendered device with its computed control state. ID is the
// primary action key; EncodedName is the transport-encoded fallback label and
// must never be used as a lookup key on its own.
type DeviceRow struct {
	ID          int
	Name        string
	EncodedName string
	Type        string
	Location    string
	IsOn        bool
	NextOn      bool // desired state the toggle control would request

	// ToggleEnabled is false when the policy gate locked this row; a gated
	// control has no action binding at all, not just a muted look.
	ToggleEnabled bool

	// InFlight marks a row whose own request is outstanding; its toggle is
	// temporarily inert as a double-submit guard.
	InFlight bool
}

// StatusLabel returns the localized on/off text for the status cell.
func (r *DeviceRow) StatusLabel() string {
	if r.IsOn {
		return StatusOn
	}
	return StatusOff
}

// ToggleLabel returns the control caption for the action it would perform.
func (r *DeviceRow) ToggleLabel() string {
	if r.IsOn {
		return ActionTurnOff
	}
	return ActionTurnOn
}

// CanToggle reports whether the control is currently live.
func (r *DeviceRow) CanToggle() bool {
	return r.ToggleEnabled && !r.InFlight
}

// DeviceTable is the full device-list view description.
type DeviceTable struct {
	Rows        []DeviceRow
	AutoEnabled bool
}

// BuildDeviceTable computes the view for a device list under the given policy
// flag. When automatic control is on, air-conditioner toggles are locked;
// every other device keeps a live toggle. Deletion is never gated.
func BuildDeviceTable(devices []models.Device, autoEnabled bool) DeviceTable {
	t := DeviceTable{
		Rows:        make([]DeviceRow, 0, len(devices)),
		AutoEnabled: autoEnabled,
	}
	for _, d := range devices {
		gated := autoEnabled && d.DeviceType == models.TypeAirConditioner
		t.Rows = append(t.Rows, DeviceRow{
			ID:            d.DeviceID,
			Name:          d.DeviceName,
			EncodedName:   url.QueryEscape(d.DeviceName),
			Type:          d.DeviceType,
			Location:      d.Location,
			IsOn:          d.Status.IsOn,
			NextOn:        !d.Status.IsOn,
			ToggleEnabled: !gated,
		})
	}
	return t
}

// Empty reports whether there is nothing to render.
func (t *DeviceTable) Empty() bool { return len(t.Rows) == 0 }

// Row returns the row for a device id, or nil when it is not in the table.
func (t *DeviceTable) Row(id int) *DeviceRow {
	for i := range t.Rows {
		if t.Rows[i].ID == id {
			return &t.Rows[i]
		}
	}
	return nil
}

// Remove drops the row for id and reports whether it was present.
func (t *DeviceTable) Remove(id int) bool {
	for i := range t.Rows {
		if t.Rows[i].ID == id {
			t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
			return true
		}
	}
	return false
}

// UsageDayView is one rendered day.
type UsageDayView struct {
	Date    string
	KWh     float64
	CostSum float64
	Devices []models.UsageDeviceShare
}

// UsageReport is the usage view description, days ascending by date.
type UsageReport struct {
	Days []UsageDayView
}

// Empty reports whether there is nothing to render.
func (r *UsageReport) Empty() bool { return len(r.Days) == 0 }

// BuildUsageReport orders the server mapping by its ISO date keys, which is
// chronological order.
func BuildUsageReport(daily map[string]models.UsageDay) UsageReport {
	keys := make([]string, 0, len(daily))
	for k := range daily {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rep := UsageReport{Days: make([]UsageDayView, 0, len(keys))}
	for _, day := range keys {
		d := daily[day]
		rep.Days = append(rep.Days, UsageDayView{
			Date:    day,
			KWh:     d.KWh,
			CostSum: d.CostSum,
			Devices: d.Devices,
		})
	}
	return rep
}
