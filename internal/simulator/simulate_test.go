package simulator

import (
	"math/rand"
	"testing"
	"time"

	"smartenergy/internal/models"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := parseDate(s)
	if err != nil {
		t.Fatalf("parseDate(%q): %v", s, err)
	}
	return d
}

func TestSeason(t *testing.T) {
	cases := map[time.Month]string{
		time.January:   "winter",
		time.March:     "spring",
		time.May:       "spring",
		time.June:      "summer",
		time.September: "summer",
		time.October:   "autumn",
		time.November:  "autumn",
		time.December:  "winter",
	}
	for m, want := range cases {
		if got := season(m); got != want {
			t.Errorf("season(%v) = %q, want %q", m, got, want)
		}
	}
}

func TestOutdoorTemperatureBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := date(t, "2026-07-15")
	for hour := 0; hour < 24; hour++ {
		got := outdoorTemperature(rng, d, hour)
		// July base 31, amplitude 6, noise 2.
		if got < 31-6-2 || got > 31+6+2 {
			t.Errorf("hour %d: temperature %v outside model bounds", hour, got)
		}
	}
}

func TestOutdoorTemperatureDailyShape(t *testing.T) {
	d := date(t, "2026-07-15")
	// Average out the noise over many samples; the sine peak at 10:00 must
	// beat the trough at 22:00 by roughly twice the amplitude.
	var hot, cold float64
	const samples = 200
	for i := 0; i < samples; i++ {
		rng := rand.New(rand.NewSource(int64(i)))
		hot += outdoorTemperature(rng, d, 10)
		rng = rand.New(rand.NewSource(int64(i)))
		cold += outdoorTemperature(rng, d, 22)
	}
	hot /= samples
	cold /= samples
	if hot-cold < 8 {
		t.Errorf("avg(10:00)=%v avg(22:00)=%v; want the peak clearly hotter", hot, cold)
	}
}

func TestIndoorTemperature(t *testing.T) {
	off := indoorTemperature(30, false)
	on := indoorTemperature(30, true)
	if off != 28.8 {
		t.Errorf("indoor without AC = %v, want 28.8", off)
	}
	if on != off-coolingEffect {
		t.Errorf("indoor with AC = %v, want %v", on, off-coolingEffect)
	}
}

func TestSimulateDayReproducibleWithSeed(t *testing.T) {
	store := NewStore()
	d := date(t, "2026-07-15")
	seed := int64(7)

	out1, res1, total1 := store.SimulateDay(d, &seed, false)
	out2, res2, total2 := store.SimulateDay(d, &seed, false)

	if out1 != out2 || total1 != total2 || len(res1) != len(res2) {
		t.Fatalf("seeded runs diverged: (%v,%v,%d) vs (%v,%v,%d)", out1, total1, len(res1), out2, total2, len(res2))
	}
	for i := range res1 {
		if res1[i] != res2[i] {
			t.Errorf("record %d diverged: %+v vs %+v", i, res1[i], res2[i])
		}
	}
}

func TestSimulateDayBounds(t *testing.T) {
	store := NewStore()
	d := date(t, "2026-01-15")
	for s := int64(0); s < 50; s++ {
		seed := s
		_, results, _ := store.SimulateDay(d, &seed, false)
		for _, r := range results {
			if r.Hours < 0 || r.Hours > 24 {
				t.Errorf("seed %d: hours = %v", s, r.Hours)
			}
			if r.KWh < 0 {
				t.Errorf("seed %d: kwh = %v", s, r.KWh)
			}
			if !r.Simulated {
				t.Errorf("seed %d: record not marked simulated", s)
			}
		}
	}
}

func TestSimulateRangeSavesIdempotently(t *testing.T) {
	store := NewStore()
	start, end := date(t, "2026-07-01"), date(t, "2026-07-03")
	seed := int64(42)

	days, records, total := store.SimulateRange(start, end, &seed, true)
	if days != 3 {
		t.Fatalf("days = %d, want 3", days)
	}
	if records == 0 || total <= 0 {
		t.Fatalf("records = %d, total = %v", records, total)
	}
	countAfterFirst := len(store.LogsInRange("2026-07-01", "2026-07-03"))

	// A rerun over the same dates replaces records instead of stacking them.
	store.SimulateRange(start, end, &seed, true)
	if got := len(store.LogsInRange("2026-07-01", "2026-07-03")); got != countAfterFirst {
		t.Errorf("log count after rerun = %d, want %d", got, countAfterFirst)
	}
}

func TestSimulateSkipsUnknownDeviceType(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := models.Device{DeviceID: 9, DeviceName: "Mystery box", DeviceType: "toaster"}
	if u := simulateDeviceUsage(rng, d, date(t, "2026-07-01"), 30); u != nil {
		t.Errorf("usage generated for unknown type: %+v", u)
	}
}

func TestAppendLogReplacesSameDeviceAndDate(t *testing.T) {
	store := NewStore()
	store.AppendLog(PowerLog{DeviceID: 1, DeviceName: "Living room AC", Date: "2026-08-01", KWh: 5})
	store.AppendLog(PowerLog{DeviceID: 1, DeviceName: "Living room AC", Date: "2026-08-01", KWh: 7})
	store.AppendLog(PowerLog{DeviceID: 1, DeviceName: "Living room AC", Date: "2026-08-02", KWh: 4})

	logs := store.LogsInRange("2026-08-01", "2026-08-02")
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}
	if logs[0].KWh != 7 {
		t.Errorf("replacement kwh = %v, want 7", logs[0].KWh)
	}
	if logs[0].LogID == "" || logs[1].LogID == "" {
		t.Error("log ids not assigned")
	}
}

func TestDailyUsageAggregation(t *testing.T) {
	store := NewStore()
	store.AppendLog(PowerLog{DeviceID: 1, DeviceName: "Living room AC", Date: "2026-08-01", KWh: 4})
	store.AppendLog(PowerLog{DeviceID: 3, DeviceName: "Kitchen light", Date: "2026-08-01", KWh: 0.4})

	daily := store.DailyUsage("2026-08-01", "2026-08-01")
	day, ok := daily["2026-08-01"]
	if !ok {
		t.Fatal("missing day")
	}
	if day.KWh != 4.4 {
		t.Errorf("kwh = %v, want 4.4", day.KWh)
	}
	// 4*2.625 + 0.4*2.625 = 11.55
	if day.CostSum != 11.55 {
		t.Errorf("cost_sum = %v, want 11.55", day.CostSum)
	}
	if len(day.Devices) != 2 {
		t.Errorf("devices = %+v", day.Devices)
	}
}

func TestStats(t *testing.T) {
	store := NewStore()
	store.AppendLog(PowerLog{DeviceID: 1, DeviceName: "Living room AC", Date: "2026-08-02", KWh: 4})
	store.AppendLog(PowerLog{DeviceID: 1, DeviceName: "Living room AC", Date: "2026-08-01", KWh: 3})

	total, minDate, maxDate, perDevice := store.Stats()
	if total != 2 || minDate != "2026-08-01" || maxDate != "2026-08-02" {
		t.Errorf("total=%d min=%s max=%s", total, minDate, maxDate)
	}
	if perDevice["Living room AC"] != 7 {
		t.Errorf("perDevice = %v", perDevice)
	}
}
