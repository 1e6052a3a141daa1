package ui

import (
	"fmt"
	"io"
	"strings"

	"smartenergy/internal/view"
)

// TermRenderer draws view descriptions to a writer, one region at a time.
type TermRenderer struct {
	out io.Writer
}

func NewTermRenderer(out io.Writer) *TermRenderer {
	return &TermRenderer{out: out}
}

// RenderDevices draws the device table, or an explicit empty-state notice
// when there are no devices.
func (r *TermRenderer) RenderDevices(t view.DeviceTable) {
	if t.Empty() {
		fmt.Fprintln(r.out, Styles.Muted.Render("No devices yet."))
		return
	}

	var b strings.Builder
	if t.AutoEnabled {
		b.WriteString(warnStyle.Render("automatic control is ON; air conditioner toggles are locked"))
		b.WriteString("\n")
	}
	b.WriteString(Styles.Header.Render(fmt.Sprintf("%-4s %-20s %-16s %-12s %-6s %s",
		"ID", "NAME", "TYPE", "LOCATION", "STATE", "ACTIONS")))
	b.WriteString("\n")
	for i := range t.Rows {
		row := &t.Rows[i]
		state := Styles.Off.Render(row.StatusLabel())
		if row.IsOn {
			state = Styles.On.Render(row.StatusLabel())
		}
		toggle := "[" + row.ToggleLabel() + "]"
		if !row.CanToggle() {
			toggle = Styles.Disabled.Render("[" + row.ToggleLabel() + "]")
		}
		b.WriteString(fmt.Sprintf("%-4d %-20s %-16s %-12s %-6s %s %s\n",
			row.ID, row.Name, row.Type, row.Location, state, toggle, "[delete]"))
	}
	fmt.Fprint(r.out, b.String())
}

// RenderUsage draws the per-day usage report, ascending by date.
func (r *TermRenderer) RenderUsage(rep view.UsageReport) {
	if rep.Empty() {
		fmt.Fprintln(r.out, Styles.Muted.Render("No usage data for this range."))
		return
	}
	for _, day := range rep.Days {
		fmt.Fprintln(r.out, Styles.Title.Render(day.Date)+
			fmt.Sprintf("  %.2f kWh, cost %.2f", day.KWh, day.CostSum))
		for _, d := range day.Devices {
			fmt.Fprintf(r.out, "  %s %s: %.2f kWh / %.2f\n",
				Styles.Muted.Render("-"), d.DeviceName, d.KWh, d.Cost)
		}
	}
}

// Status writes a non-error message to the status area.
func (r *TermRenderer) Status(msg string) {
	fmt.Fprintln(r.out, Styles.Status.Render(msg))
}

// Error writes a failure message to the status area. Nothing is fatal; prior
// rendered state stays as it is.
func (r *TermRenderer) Error(msg string) {
	fmt.Fprintln(r.out, Styles.Error.Render(msg))
}
