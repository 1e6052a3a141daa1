// Package session holds the client-side reconciliation logic: it fetches
// authoritative server state, keeps the rendered snapshot consistent with it,
// and drives the toggle and delete workflows. UI mutations happen strictly
// after server confirmation, never before.
package session

import (
	"context"
	"errors"
	"fmt"

	"smartenergy/internal/logger"
	"smartenergy/internal/models"
	"smartenergy/internal/service"
	"smartenergy/internal/view"
)

// Renderer applies view descriptions to whatever surface is in use. Workflow
// failures are written through Error; they never propagate past the session.
type Renderer interface {
	RenderDevices(t view.DeviceTable)
	RenderUsage(r view.UsageReport)
	Status(msg string)
	Error(msg string)
}

// ConfirmationSurface is the capability the delete workflow confirms through.
// Open presents the prompt for a device name, Resolve blocks for the user's
// answer, Close dismisses the surface. A degraded implementation may make
// Open a no-op and do all the work in Resolve.
type ConfirmationSurface interface {
	Open(deviceName string)
	Resolve() bool
	Close()
}

// pendingDeletion is the single-slot record of a delete awaiting
// confirmation. Starting a new delete overwrites it; there is no queue.
type pendingDeletion struct {
	id   int
	name string
}

var errNoDeviceID = errors.New("device has no id; cannot delete")

// Session owns the rendered snapshot and the workflow state around it.
type Session struct {
	svc      *service.Service
	renderer Renderer
	confirm  ConfirmationSurface
	log      *logger.Logger

	table   view.DeviceTable
	pending *pendingDeletion
}

func New(svc *service.Service, r Renderer, c ConfirmationSurface, log *logger.Logger) *Session {
	return &Session{svc: svc, renderer: r, confirm: c, log: log}
}

// Devices returns the current snapshot for inspection.
func (s *Session) Devices() view.DeviceTable { return s.table }

// RenderDeviceList fetches policy and device state and rebuilds the snapshot.
// The policy fetch degrades to disabled on failure; a device-list failure
// renders the error and leaves nothing partially drawn.
func (s *Session) RenderDeviceList(ctx context.Context) {
	autoEnabled := s.svc.Policy.AutoEnabled(ctx)

	devices, err := s.svc.Devices.List(ctx)
	if err != nil {
		s.renderer.Error(fmt.Sprintf("failed to fetch devices: %v", err))
		return
	}

	s.table = view.BuildDeviceTable(devices, autoEnabled)
	s.renderer.RenderDevices(s.table)
}

// ToggleDevice requests the complement of the row's displayed state and, on
// confirmation, patches that row in place. Without a confirmed payload it
// falls back to a full refresh. Failures surface with the HTTP status and the
// best available diagnostic; the snapshot is not touched before the server
// confirms.
func (s *Session) ToggleDevice(ctx context.Context, id int) {
	row := s.table.Row(id)
	if row == nil {
		s.renderer.Error(fmt.Sprintf("unknown device %d", id))
		return
	}
	if !row.ToggleEnabled {
		s.renderer.Status(fmt.Sprintf("%s is under automatic control", row.Name))
		return
	}
	if row.InFlight {
		return
	}

	desired := row.NextOn
	row.InFlight = true
	defer func() {
		// The row may have been removed by a concurrent delete; re-resolve.
		if r := s.table.Row(id); r != nil {
			r.InFlight = false
		}
	}()

	req := models.ToggleRequest{DeviceID: id, On: desired}
	if id == 0 {
		req = models.ToggleRequest{Name: row.Name, On: desired}
	}

	res, err := s.svc.Devices.Toggle(ctx, req)
	if err != nil {
		s.renderer.Error(fmt.Sprintf("network error: %v", err))
		return
	}
	if !res.OK {
		s.renderer.Error("toggle failed: " + res.Diagnostic())
		return
	}

	if res.Body != nil && res.Body.Toggled != nil {
		s.applyToggled(id, res.Body.Toggled.IsOn)
		s.renderer.RenderDevices(s.table)
		return
	}
	// No confirmed payload: conservative full refresh.
	s.RenderDeviceList(ctx)
}

// applyToggled patches a single row with the confirmed state and releases its
// toggle, since the request is over. When the row was removed by a concurrent
// delete the patch is deliberately a no-op.
func (s *Session) applyToggled(id int, isOn bool) {
	row := s.table.Row(id)
	if row == nil {
		s.log.Debugw("toggle confirmed for a removed row; ignoring", "device_id", id)
		return
	}
	row.IsOn = isOn
	row.NextOn = !isOn
	row.InFlight = false
}

// DeleteDevice starts the confirmation-gated delete workflow. A device
// without a resolvable id fails fast before any network call. Any previously
// pending deletion is overwritten.
func (s *Session) DeleteDevice(id int) {
	row := s.table.Row(id)
	if row == nil {
		s.renderer.Error(fmt.Sprintf("unknown device %d", id))
		return
	}
	if row.ID == 0 {
		s.renderer.Error(errNoDeviceID.Error())
		return
	}
	s.pending = &pendingDeletion{id: row.ID, name: row.Name}
	s.confirm.Open(row.Name)
}

// ResolveDelete blocks on the confirmation surface and dispatches to
// ConfirmDelete or CancelDelete. Callers that drive the surface themselves
// can call those two directly.
func (s *Session) ResolveDelete(ctx context.Context) {
	if s.confirm.Resolve() {
		s.ConfirmDelete(ctx)
		return
	}
	s.CancelDelete()
}

// ConfirmDelete performs the pending deletion. Success means HTTP ok and a
// body declaring ok; only then is the row removed, and without a re-fetch.
// Whatever the outcome, the surface closes and the slot clears: deletion is a
// single-attempt action per confirmation.
func (s *Session) ConfirmDelete(ctx context.Context) {
	if s.pending == nil {
		s.confirm.Close()
		return
	}
	p := s.pending
	defer func() {
		s.pending = nil
		s.confirm.Close()
	}()

	status, body, err := s.svc.Devices.Remove(ctx, p.id)
	if err != nil {
		s.renderer.Error(fmt.Sprintf("network error: %v", err))
		return
	}
	if status >= 200 && status < 300 && body != nil && body.OK {
		s.table.Remove(p.id)
		s.renderer.RenderDevices(s.table)
		s.renderer.Status(fmt.Sprintf("deleted device %s", p.name))
		return
	}

	detail := fmt.Sprintf("HTTP %d", status)
	if body != nil && body.Msg != "" {
		detail = body.Msg
	}
	s.renderer.Error("delete failed: " + detail)
}

// CancelDelete clears the pending slot and closes the surface. No network.
func (s *Session) CancelDelete() {
	s.pending = nil
	s.confirm.Close()
}

// RenderUsageDaily fetches and renders aggregated usage for an inclusive date
// range, then fires the raw-logs parity fetch, which renders nothing.
func (s *Session) RenderUsageDaily(ctx context.Context, startDate, endDate string) {
	daily, err := s.svc.Usage.Daily(ctx, startDate, endDate)
	if err != nil {
		s.renderer.Error(fmt.Sprintf("failed to fetch usage: %v", err))
		return
	}
	s.renderer.RenderUsage(view.BuildUsageReport(daily))

	// Raw logs are fetched for interface parity with the server but are
	// intentionally not rendered.
	raw, err := s.svc.Usage.Logs(ctx, startDate, endDate)
	if err != nil {
		s.log.Debugw("raw usage log fetch failed", "err", err)
		return
	}
	s.log.Debugw("raw usage logs fetched", "bytes", len(raw))
}
