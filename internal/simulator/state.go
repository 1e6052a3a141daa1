// Package simulator is an in-memory stand-in for the smart-energy backend.
// It implements the same HTTP contract the client consumes, generates
// plausible usage data, and runs the automatic-control monitor loop. It is a
// development and test double, not a product backend: nothing persists.
package simulator

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartenergy/internal/models"
)

// Default electricity rate per kWh, matching the billing constant the usage
// endpoints assume.
const defaultRate = 2.625

const layoutDate = "2006-01-02"

// PowerLog is one raw usage record.
type PowerLog struct {
	LogID      string  `json:"log_id"`
	DeviceID   int     `json:"device_id"`
	DeviceName string  `json:"device_name"`
	Date       string  `json:"date"` // YYYY-MM-DD
	PowerWatts float64 `json:"power_watts"`
	Hours      float64 `json:"hours"`
	KWh        float64 `json:"kwh"`
}

type monitorState struct {
	running   bool
	interval  time.Duration
	startedAt time.Time
	checks    int
	lastTemp  float64
	lastAct   string
	stop      func()
}

// Store holds all simulated state behind one mutex.
type Store struct {
	mu      sync.Mutex
	nextID  int
	devices []models.Device
	logs    []PowerLog
	auto    models.AutoConfig
	rate    float64
	monitor monitorState
	now     func() time.Time
}

// NewStore seeds a store with a small default household.
func NewStore() *Store {
	s := &Store{
		nextID: 1,
		rate:   defaultRate,
		auto: models.AutoConfig{
			MonitorEnabled:  false,
			TargetTempC:     26.0,
			IntervalSeconds: 60,
		},
		now: time.Now,
	}
	s.addLocked(models.Device{DeviceName: "Living room AC", DeviceType: models.TypeAirConditioner, Location: "living room", RatedPowerKW: 2.8})
	s.addLocked(models.Device{DeviceName: "Bedroom AC", DeviceType: models.TypeAirConditioner, Location: "bedroom", RatedPowerKW: 2.2})
	s.addLocked(models.Device{DeviceName: "Kitchen light", DeviceType: models.TypeLight, Location: "kitchen", RatedPowerKW: 0.06})
	s.addLocked(models.Device{DeviceName: "Desk lamp", DeviceType: models.TypeLight, Location: "study", RatedPowerKW: 0.04})
	return s
}

func (s *Store) addLocked(d models.Device) models.Device {
	d.DeviceID = s.nextID
	s.nextID++
	s.devices = append(s.devices, d)
	return d
}

// Devices returns a copy of the current device list.
func (s *Store) Devices() []models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Device, len(s.devices))
	copy(out, s.devices)
	return out
}

// Add registers a device and assigns its id.
func (s *Store) Add(d models.Device) models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(d)
}

// Remove drops a device by id.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.devices {
		if s.devices[i].DeviceID == id {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle sets a device's on/off state, resolving by id first and name second.
// Returns the updated device, or false when no device matches.
func (s *Store) Toggle(id int, name string, on bool) (models.Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.devices {
		if (id != 0 && s.devices[i].DeviceID == id) || (id == 0 && s.devices[i].DeviceName == name) {
			s.devices[i].Status.IsOn = on
			return s.devices[i], true
		}
	}
	return models.Device{}, false
}

// Auto returns the current automatic-control configuration.
func (s *Store) Auto() models.AutoConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auto
}

// SetAuto replaces the automatic-control configuration.
func (s *Store) SetAuto(cfg models.AutoConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auto = cfg
}

// Decide applies the temperature rule to all air conditioners: above target
// they switch on, otherwise off. Returns the action taken and the resulting
// per-device state.
func (s *Store) Decide(temp float64) (string, map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := temp > s.auto.TargetTempC
	action := "turn_off"
	if on {
		action = "turn_on"
	}
	state := make(map[string]bool)
	for i := range s.devices {
		if s.devices[i].DeviceType == models.TypeAirConditioner {
			s.devices[i].Status.IsOn = on
			state[s.devices[i].DeviceName] = on
		}
	}
	return action, state
}

// AppendLog stores a raw usage record, replacing any existing record for the
// same device and date so repeated simulations stay idempotent per day.
func (s *Store) AppendLog(l PowerLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.LogID == "" {
		l.LogID = uuid.NewString()
	}
	for i := range s.logs {
		if s.logs[i].DeviceID == l.DeviceID && s.logs[i].Date == l.Date {
			l.LogID = s.logs[i].LogID
			s.logs[i] = l
			return
		}
	}
	s.logs = append(s.logs, l)
}

// LogsInRange returns raw records within the inclusive date range, ordered by
// date then device.
func (s *Store) LogsInRange(startDate, endDate string) []PowerLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []PowerLog
	for _, l := range s.logs {
		if l.Date >= startDate && l.Date <= endDate {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].DeviceID < out[j].DeviceID
	})
	return out
}

// DailyUsage aggregates logs into the /usage/daily response shape.
func (s *Store) DailyUsage(startDate, endDate string) map[string]models.UsageDay {
	logs := s.LogsInRange(startDate, endDate)
	out := make(map[string]models.UsageDay)
	for _, l := range logs {
		day := out[l.Date]
		cost := round2(l.KWh * s.rate)
		day.KWh = round2(day.KWh + l.KWh)
		day.CostSum = round2(day.CostSum + cost)
		day.Devices = append(day.Devices, models.UsageDeviceShare{
			DeviceName: l.DeviceName,
			KWh:        round2(l.KWh),
			Cost:       cost,
		})
		out[l.Date] = day
	}
	return out
}

// Stats summarizes stored records for /simulate/stats.
func (s *Store) Stats() (total int, minDate, maxDate string, perDevice map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	perDevice = make(map[string]float64)
	for _, l := range s.logs {
		if minDate == "" || l.Date < minDate {
			minDate = l.Date
		}
		if l.Date > maxDate {
			maxDate = l.Date
		}
		perDevice[l.DeviceName] += l.KWh
	}
	return len(s.logs), minDate, maxDate, perDevice
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(layoutDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}
