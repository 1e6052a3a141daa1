package simulator

import (
	"math"
	"math/rand"
	"time"

	"smartenergy/internal/models"
)

// Behavior profile for a device type: how often and how long it runs, and how
// its draw varies around the rated power.
type deviceProfile struct {
	BaseHoursMin      float64            `json:"base_hours_min"`
	BaseHoursMax      float64            `json:"base_hours_max"`
	ActiveProbability float64            `json:"active_probability"`
	PowerFactorMin    float64            `json:"power_factor_min"`
	PowerFactorMax    float64            `json:"power_factor_max"`
	TempDependent     bool               `json:"temperature_dependent"`
	Seasonal          map[string]float64 `json:"seasonal_factor"`
}

var deviceProfiles = map[string]deviceProfile{
	models.TypeAirConditioner: {
		BaseHoursMin:      4,
		BaseHoursMax:      10,
		ActiveProbability: 0.7,
		PowerFactorMin:    0.6,
		PowerFactorMax:    0.95,
		TempDependent:     true,
		Seasonal:          map[string]float64{"spring": 0.3, "summer": 1.2, "autumn": 0.4, "winter": 0.8},
	},
	models.TypeLight: {
		BaseHoursMin:      3,
		BaseHoursMax:      8,
		ActiveProbability: 0.95,
		PowerFactorMin:    0.9,
		PowerFactorMax:    1.0,
		TempDependent:     false,
		Seasonal:          map[string]float64{"spring": 1.0, "summer": 0.8, "autumn": 1.0, "winter": 1.3},
	},
}

// Temperature model: monthly base plus a sine over the day plus noise. The
// sine crosses zero rising at 04:00, so mid-morning is warmest and late
// evening coldest.
var monthlyBaseTemp = map[time.Month]float64{
	time.January: 16, time.February: 17, time.March: 20, time.April: 24,
	time.May: 27, time.June: 29, time.July: 31, time.August: 31,
	time.September: 29, time.October: 26, time.November: 22, time.December: 18,
}

const (
	dailyAmplitude = 6.0
	randomNoise    = 2.0
	indoorLag      = 0.7
	coolingEffect  = 3.0
)

func season(m time.Month) string {
	switch {
	case m >= time.March && m <= time.May:
		return "spring"
	case m >= time.June && m <= time.September:
		return "summer"
	case m == time.October || m == time.November:
		return "autumn"
	default:
		return "winter"
	}
}

// outdoorTemperature simulates the outdoor temperature for a date and hour.
func outdoorTemperature(rng *rand.Rand, date time.Time, hour int) float64 {
	base := monthlyBaseTemp[date.Month()]
	variation := dailyAmplitude * math.Sin(float64(hour-4)*math.Pi/12)
	noise := (rng.Float64()*2 - 1) * randomNoise
	return math.Round((base+variation+noise)*10) / 10
}

// indoorTemperature derives the lagged indoor temperature, cooler when the
// air conditioner runs.
func indoorTemperature(outdoor float64, acRunning bool) float64 {
	indoor := outdoor*indoorLag + 26*(1-indoorLag)
	if acRunning {
		indoor -= coolingEffect
	}
	return math.Round(indoor*10) / 10
}

// simulatedUsage is one device-day of generated consumption.
type simulatedUsage struct {
	DeviceID   int     `json:"device_id"`
	DeviceName string  `json:"device_name"`
	PowerWatts float64 `json:"power_watts"`
	Hours      float64 `json:"hours"`
	KWh        float64 `json:"kwh"`
	Simulated  bool    `json:"simulated"`
}

// simulateDeviceUsage generates one device's consumption for a date, or nil
// when the device sits idle that day.
func simulateDeviceUsage(rng *rand.Rand, d models.Device, date time.Time, outdoor float64) *simulatedUsage {
	profile, ok := deviceProfiles[d.DeviceType]
	if !ok {
		return nil
	}
	if rng.Float64() > profile.ActiveProbability {
		return nil
	}

	seasonalMult := profile.Seasonal[season(date.Month())]
	hours := (profile.BaseHoursMin + rng.Float64()*(profile.BaseHoursMax-profile.BaseHoursMin)) * seasonalMult

	if profile.TempDependent && d.DeviceType == models.TypeAirConditioner {
		switch {
		case outdoor > 28:
			hours *= 1.5
		case outdoor > 25:
			hours *= 1.2
		case outdoor < 20:
			hours *= 0.5
		}
	}
	hours = math.Min(hours, 24)

	powerFactor := profile.PowerFactorMin + rng.Float64()*(profile.PowerFactorMax-profile.PowerFactorMin)
	ratedKW := d.RatedPowerKW
	if ratedKW == 0 {
		ratedKW = 1.0
	}
	actualKW := ratedKW * powerFactor

	return &simulatedUsage{
		DeviceID:   d.DeviceID,
		DeviceName: d.DeviceName,
		PowerWatts: math.Round(actualKW*1000*100) / 100,
		Hours:      math.Round(hours*100) / 100,
		KWh:        math.Round(actualKW*hours*10000) / 10000,
		Simulated:  true,
	}
}

// SimulateDay generates usage for every device on a date, optionally saving
// the records. A non-nil seed makes the run reproducible.
func (s *Store) SimulateDay(date time.Time, seed *int64, save bool) (outdoor float64, results []simulatedUsage, totalKWh float64) {
	return s.simulateDayWith(s.newRNG(seed), date, save)
}

// SimulateRange simulates every day in the inclusive range with a single
// random stream, so a seeded range run is reproducible as a whole.
func (s *Store) SimulateRange(start, end time.Time, seed *int64, save bool) (days, records int, totalKWh float64) {
	rng := s.newRNG(seed)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		_, results, kwh := s.simulateDayWith(rng, d, save)
		days++
		records += len(results)
		totalKWh += kwh
	}
	totalKWh = math.Round(totalKWh*10000) / 10000
	return days, records, totalKWh
}

// newRNG returns a fresh random stream, seeded for reproducibility when seed
// is non-nil. Each simulation run owns its stream, so concurrent runs do not
// contend.
func (s *Store) newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(s.now().UnixNano()))
}

func (s *Store) simulateDayWith(rng *rand.Rand, date time.Time, save bool) (outdoor float64, results []simulatedUsage, totalKWh float64) {
	outdoor = outdoorTemperature(rng, date, 12)
	for _, d := range s.Devices() {
		u := simulateDeviceUsage(rng, d, date, outdoor)
		if u == nil {
			continue
		}
		results = append(results, *u)
		totalKWh += u.KWh
		if save {
			s.AppendLog(PowerLog{
				DeviceID:   u.DeviceID,
				DeviceName: u.DeviceName,
				Date:       date.Format(layoutDate),
				PowerWatts: u.PowerWatts,
				Hours:      u.Hours,
				KWh:        u.KWh,
			})
		}
	}
	totalKWh = math.Round(totalKWh*10000) / 10000
	return outdoor, results, totalKWh
}
