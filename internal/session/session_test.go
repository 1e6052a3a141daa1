package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"smartenergy/internal/logger"
	"smartenergy/internal/models"
	"smartenergy/internal/service"
	"smartenergy/internal/view"
)

// fakeDevices scripts the device service and records every call.
type fakeDevices struct {
	devices   []models.Device
	listErr   error
	listCalls int

	toggleRes  models.ActionResult
	toggleErr  error
	toggleReqs []models.ToggleRequest

	removeStatus int
	removeBody   *models.OKResponse
	removeErr    error
	removeIDs    []int
}

func (f *fakeDevices) List(ctx context.Context) ([]models.Device, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.devices, nil
}

func (f *fakeDevices) Toggle(ctx context.Context, req models.ToggleRequest) (models.ActionResult, error) {
	f.toggleReqs = append(f.toggleReqs, req)
	return f.toggleRes, f.toggleErr
}

func (f *fakeDevices) Remove(ctx context.Context, id int) (int, *models.OKResponse, error) {
	f.removeIDs = append(f.removeIDs, id)
	return f.removeStatus, f.removeBody, f.removeErr
}

func (f *fakeDevices) Add(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	return nil, nil
}

// fakePolicy answers the enabled flag and stubs the rest.
type fakePolicy struct {
	enabled bool
}

func (f *fakePolicy) AutoConfig(ctx context.Context) (models.AutoConfig, error) {
	return models.AutoConfig{MonitorEnabled: f.enabled}, nil
}
func (f *fakePolicy) AutoEnabled(ctx context.Context) bool { return f.enabled }
func (f *fakePolicy) UpdateAutoConfig(ctx context.Context, cfg map[string]any) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakePolicy) Decide(ctx context.Context, temp float64) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakePolicy) Check(ctx context.Context) (json.RawMessage, error) { return nil, nil }
func (f *fakePolicy) StartMonitor(ctx context.Context, intervalSeconds int) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakePolicy) StopMonitor(ctx context.Context) (json.RawMessage, error)   { return nil, nil }
func (f *fakePolicy) MonitorStatus(ctx context.Context) (json.RawMessage, error) { return nil, nil }

type fakeUsage struct {
	daily     map[string]models.UsageDay
	dailyErr  error
	logsErr   error
	logsCalls int
}

func (f *fakeUsage) Daily(ctx context.Context, startDate, endDate string) (map[string]models.UsageDay, error) {
	return f.daily, f.dailyErr
}

func (f *fakeUsage) Logs(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	f.logsCalls++
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return json.RawMessage(`[]`), nil
}

func (f *fakeUsage) Add(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	return nil, nil
}

// recordRenderer captures everything the session draws. Toggle liveness is
// snapshotted per render, since the rows may change after the call.
type recordRenderer struct {
	tables   []view.DeviceTable
	live     []map[int]bool
	reports  []view.UsageReport
	statuses []string
	errors   []string
}

func (r *recordRenderer) RenderDevices(t view.DeviceTable) {
	r.tables = append(r.tables, t)
	snap := make(map[int]bool, len(t.Rows))
	for i := range t.Rows {
		snap[t.Rows[i].ID] = t.Rows[i].CanToggle()
	}
	r.live = append(r.live, snap)
}
func (r *recordRenderer) RenderUsage(u view.UsageReport)   { r.reports = append(r.reports, u) }
func (r *recordRenderer) Status(msg string)                { r.statuses = append(r.statuses, msg) }
func (r *recordRenderer) Error(msg string)                 { r.errors = append(r.errors, msg) }

// scriptedConfirm answers every Resolve with a fixed verdict.
type scriptedConfirm struct {
	answer bool
	opens  []string
	closes int
}

func (c *scriptedConfirm) Open(deviceName string) { c.opens = append(c.opens, deviceName) }
func (c *scriptedConfirm) Resolve() bool          { return c.answer }
func (c *scriptedConfirm) Close()                 { c.closes++ }

type harness struct {
	sess     *Session
	devices  *fakeDevices
	policy   *fakePolicy
	usage    *fakeUsage
	renderer *recordRenderer
	confirm  *scriptedConfirm
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		devices: &fakeDevices{
			devices: []models.Device{
				{DeviceID: 1, DeviceName: "Living room AC", DeviceType: models.TypeAirConditioner, Status: models.DeviceStatus{IsOn: false}},
				{DeviceID: 2, DeviceName: "Desk lamp", DeviceType: models.TypeLight, Status: models.DeviceStatus{IsOn: true}},
			},
			removeStatus: http.StatusOK,
			removeBody:   &models.OKResponse{OK: true},
		},
		policy:   &fakePolicy{},
		usage:    &fakeUsage{},
		renderer: &recordRenderer{},
		confirm:  &scriptedConfirm{answer: true},
	}
	svc := &service.Service{Devices: h.devices, Policy: h.policy, Usage: h.usage}
	h.sess = New(svc, h.renderer, h.confirm, logger.Get(logger.InfoLevel))
	return h
}

func (h *harness) render(t *testing.T) {
	t.Helper()
	h.sess.RenderDeviceList(context.Background())
	if len(h.renderer.errors) != 0 {
		t.Fatalf("initial render failed: %v", h.renderer.errors)
	}
}

func (h *harness) row(id int) *view.DeviceRow {
	table := h.sess.Devices()
	return table.Row(id)
}

func TestRenderDeviceListBuildsSnapshot(t *testing.T) {
	h := newHarness(t)
	h.policy.enabled = true
	h.render(t)

	table := h.sess.Devices()
	if len(table.Rows) != 2 || !table.AutoEnabled {
		t.Fatalf("table = %+v", table)
	}
	if table.Row(1).ToggleEnabled {
		t.Error("air conditioner toggle live while automatic control is on")
	}
	if !table.Row(2).ToggleEnabled {
		t.Error("light toggle gated")
	}
}

func TestRenderDeviceListFetchFailure(t *testing.T) {
	h := newHarness(t)
	h.devices.listErr = errors.New("connection refused")

	h.sess.RenderDeviceList(context.Background())

	if len(h.renderer.tables) != 0 {
		t.Error("device table rendered despite fetch failure")
	}
	if len(h.renderer.errors) != 1 || !strings.Contains(h.renderer.errors[0], "connection refused") {
		t.Errorf("errors = %v", h.renderer.errors)
	}
}

func TestToggleConfirmedStatePatchesRowInPlace(t *testing.T) {
	h := newHarness(t)
	h.render(t)
	h.devices.toggleRes = models.ActionResult{
		Status: http.StatusOK,
		OK:     true,
		Body:   &models.ActionBody{OK: true, Toggled: &models.ToggledState{IsOn: true}},
	}

	h.sess.ToggleDevice(context.Background(), 1)

	if got := len(h.devices.toggleReqs); got != 1 {
		t.Fatalf("toggle calls = %d, want 1", got)
	}
	req := h.devices.toggleReqs[0]
	if req.DeviceID != 1 || !req.On || req.Name != "" {
		t.Errorf("toggle request = %+v, want id-keyed request for on", req)
	}
	row := h.row(1)
	if !row.IsOn || row.NextOn {
		t.Errorf("row after patch = %+v", row)
	}
	if h.devices.listCalls != 1 {
		t.Errorf("list calls = %d; confirmed payload must not trigger a refetch", h.devices.listCalls)
	}
	last := h.renderer.live[len(h.renderer.live)-1]
	if !last[1] {
		t.Error("patched row rendered with an inert toggle; the request is over")
	}
}

func TestToggleWithoutConfirmedStateRefetches(t *testing.T) {
	h := newHarness(t)
	h.render(t)
	h.devices.toggleRes = models.ActionResult{
		Status: http.StatusOK,
		OK:     true,
		Body:   &models.ActionBody{OK: true},
	}

	h.sess.ToggleDevice(context.Background(), 2)

	if h.devices.listCalls != 2 {
		t.Errorf("list calls = %d, want a full refresh after an unconfirmed toggle", h.devices.listCalls)
	}
}

func TestToggleFailureLeavesSnapshotUntouched(t *testing.T) {
	h := newHarness(t)
	h.render(t)
	h.devices.toggleRes = models.ActionResult{
		Status: http.StatusConflict,
		Body:   &models.ActionBody{Msg: "air conditioner is under automatic control"},
	}

	h.sess.ToggleDevice(context.Background(), 2)

	row := h.row(2)
	if !row.IsOn {
		t.Error("row state changed on a failed toggle")
	}
	if len(h.renderer.errors) != 1 ||
		!strings.Contains(h.renderer.errors[0], "HTTP 409") ||
		!strings.Contains(h.renderer.errors[0], "under automatic control") {
		t.Errorf("errors = %v", h.renderer.errors)
	}
}

func TestToggleGatedRowMakesNoRequest(t *testing.T) {
	h := newHarness(t)
	h.policy.enabled = true
	h.render(t)

	h.sess.ToggleDevice(context.Background(), 1)

	if len(h.devices.toggleReqs) != 0 {
		t.Error("gated row still produced a toggle request")
	}
	if len(h.renderer.statuses) != 1 || !strings.Contains(h.renderer.statuses[0], "automatic control") {
		t.Errorf("statuses = %v", h.renderer.statuses)
	}
}

func TestToggleUnknownDevice(t *testing.T) {
	h := newHarness(t)
	h.render(t)

	h.sess.ToggleDevice(context.Background(), 99)

	if len(h.devices.toggleReqs) != 0 {
		t.Error("unknown id produced a toggle request")
	}
	if len(h.renderer.errors) != 1 {
		t.Errorf("errors = %v", h.renderer.errors)
	}
}

func TestDeleteConfirmedRemovesRowWithoutRefetch(t *testing.T) {
	h := newHarness(t)
	h.render(t)

	h.sess.DeleteDevice(2)
	h.sess.ResolveDelete(context.Background())

	if got := h.devices.removeIDs; len(got) != 1 || got[0] != 2 {
		t.Fatalf("remove calls = %v, want [2]", got)
	}
	if h.row(2) != nil {
		t.Error("row still present after confirmed delete")
	}
	if h.devices.listCalls != 1 {
		t.Errorf("list calls = %d; delete must not refetch", h.devices.listCalls)
	}
	if h.confirm.closes != 1 {
		t.Errorf("confirmation closes = %d, want 1", h.confirm.closes)
	}
	if len(h.renderer.statuses) != 1 || !strings.Contains(h.renderer.statuses[0], "Desk lamp") {
		t.Errorf("statuses = %v", h.renderer.statuses)
	}
}

func TestDeleteCancelledMakesNoRequest(t *testing.T) {
	h := newHarness(t)
	h.render(t)
	h.confirm.answer = false

	h.sess.DeleteDevice(2)
	h.sess.ResolveDelete(context.Background())

	if len(h.devices.removeIDs) != 0 {
		t.Error("cancel still issued a delete request")
	}
	if h.row(2) == nil {
		t.Error("row removed on cancel")
	}
	if h.confirm.closes != 1 {
		t.Errorf("confirmation closes = %d, want 1", h.confirm.closes)
	}
}

func TestDeleteSecondRequestOverwritesPending(t *testing.T) {
	h := newHarness(t)
	h.render(t)

	h.sess.DeleteDevice(1)
	h.sess.DeleteDevice(2)
	h.sess.ResolveDelete(context.Background())

	if got := h.devices.removeIDs; len(got) != 1 || got[0] != 2 {
		t.Fatalf("remove calls = %v, want only the latest pending target", got)
	}
	if h.row(1) == nil {
		t.Error("overwritten pending target was deleted")
	}
	if want := []string{"Living room AC", "Desk lamp"}; len(h.confirm.opens) != 2 ||
		h.confirm.opens[0] != want[0] || h.confirm.opens[1] != want[1] {
		t.Errorf("confirm opens = %v", h.confirm.opens)
	}
}

func TestDeleteFailureKeepsRowAndClearsSlot(t *testing.T) {
	h := newHarness(t)
	h.render(t)
	h.devices.removeStatus = http.StatusNotFound
	h.devices.removeBody = &models.OKResponse{OK: false, Msg: "device not found"}

	h.sess.DeleteDevice(2)
	h.sess.ResolveDelete(context.Background())

	if h.row(2) == nil {
		t.Error("row removed on failed delete")
	}
	if len(h.renderer.errors) != 1 || !strings.Contains(h.renderer.errors[0], "device not found") {
		t.Errorf("errors = %v", h.renderer.errors)
	}
	if h.confirm.closes != 1 {
		t.Errorf("confirmation closes = %d, want 1: failed delete must still dismiss", h.confirm.closes)
	}

	// The slot was consumed: confirming again is a no-op.
	h.sess.ConfirmDelete(context.Background())
	if len(h.devices.removeIDs) != 1 {
		t.Errorf("remove calls = %v, want no retry without a new confirmation", h.devices.removeIDs)
	}
}

func TestDeleteFailureWithoutBodySurfacesStatus(t *testing.T) {
	h := newHarness(t)
	h.render(t)
	h.devices.removeStatus = http.StatusNotFound
	h.devices.removeBody = nil

	h.sess.DeleteDevice(2)
	h.sess.ResolveDelete(context.Background())

	if h.row(2) == nil {
		t.Error("row removed on failed delete")
	}
	if len(h.renderer.errors) != 1 || !strings.Contains(h.renderer.errors[0], "404") {
		t.Errorf("errors = %v, want the HTTP status surfaced", h.renderer.errors)
	}
	if h.confirm.closes != 1 {
		t.Errorf("confirmation closes = %d, want 1", h.confirm.closes)
	}

	h.sess.ConfirmDelete(context.Background())
	if len(h.devices.removeIDs) != 1 {
		t.Errorf("remove calls = %v, want no retry without a new confirmation", h.devices.removeIDs)
	}
}

func TestDeleteNetworkErrorKeepsRow(t *testing.T) {
	h := newHarness(t)
	h.render(t)
	h.devices.removeErr = errors.New("connection reset")

	h.sess.DeleteDevice(2)
	h.sess.ResolveDelete(context.Background())

	if h.row(2) == nil {
		t.Error("row removed on network error")
	}
	if h.confirm.closes != 1 {
		t.Errorf("confirmation closes = %d", h.confirm.closes)
	}
}

func TestRenderUsageDaily(t *testing.T) {
	h := newHarness(t)
	h.usage.daily = map[string]models.UsageDay{
		"2026-08-29": {KWh: 4.2, CostSum: 11.03},
		"2026-08-28": {KWh: 3.0, CostSum: 7.88},
	}

	h.sess.RenderUsageDaily(context.Background(), "2026-08-28", "2026-08-29")

	if len(h.renderer.reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(h.renderer.reports))
	}
	days := h.renderer.reports[0].Days
	if len(days) != 2 || days[0].Date != "2026-08-28" || days[1].Date != "2026-08-29" {
		t.Errorf("days = %+v, want ascending dates", days)
	}
	if h.usage.logsCalls != 1 {
		t.Errorf("logs calls = %d, want the parity fetch", h.usage.logsCalls)
	}
}

func TestRenderUsageDailyLogsFailureIsSilent(t *testing.T) {
	h := newHarness(t)
	h.usage.daily = map[string]models.UsageDay{"2026-08-28": {KWh: 1}}
	h.usage.logsErr = errors.New("boom")

	h.sess.RenderUsageDaily(context.Background(), "2026-08-28", "2026-08-28")

	if len(h.renderer.errors) != 0 {
		t.Errorf("errors = %v; the raw-log fetch must not surface", h.renderer.errors)
	}
	if len(h.renderer.reports) != 1 {
		t.Errorf("reports = %d", len(h.renderer.reports))
	}
}
