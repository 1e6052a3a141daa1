package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

// loopRecorder records the calls the interactive loop dispatches.
type loopRecorder struct {
	calls []string
}

func (r *loopRecorder) RenderDeviceList(ctx context.Context) { r.calls = append(r.calls, "list") }
func (r *loopRecorder) RenderUsageDaily(ctx context.Context, startDate, endDate string) {
	r.calls = append(r.calls, "usage "+startDate+".."+endDate)
}
func (r *loopRecorder) ToggleDevice(ctx context.Context, id int) {
	r.calls = append(r.calls, "toggle")
}
func (r *loopRecorder) DeleteDevice(id int)              { r.calls = append(r.calls, "delete") }
func (r *loopRecorder) ResolveDelete(ctx context.Context) { r.calls = append(r.calls, "resolve") }

func runLoop(t *testing.T, input string) (*loopRecorder, string) {
	t.Helper()
	rec := &loopRecorder{}
	var out bytes.Buffer
	if err := deviceLoop(context.Background(), rec, strings.NewReader(input), &out); err != nil {
		t.Fatalf("deviceLoop: %v", err)
	}
	return rec, out.String()
}

func TestDeviceLoopDispatch(t *testing.T) {
	rec, _ := runLoop(t, "toggle 2\nrefresh\ndelete 1\nquit\n")

	want := []string{"toggle", "list", "delete", "resolve"}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, rec.calls[i], want[i])
		}
	}
}

func TestDeviceLoopDeleteResolvesImmediately(t *testing.T) {
	rec, _ := runLoop(t, "d 3\nq\n")

	if len(rec.calls) != 2 || rec.calls[0] != "delete" || rec.calls[1] != "resolve" {
		t.Fatalf("calls = %v", rec.calls)
	}
}

func TestDeviceLoopRejectsBadID(t *testing.T) {
	rec, out := runLoop(t, "toggle x\ntoggle\nquit\n")

	if len(rec.calls) != 0 {
		t.Errorf("calls = %v, want none for malformed commands", rec.calls)
	}
	if !strings.Contains(out, "not a device id") || !strings.Contains(out, "usage: toggle <id>") {
		t.Errorf("output = %q", out)
	}
}

func TestDeviceLoopUnknownCommand(t *testing.T) {
	_, out := runLoop(t, "frobnicate\nquit\n")

	if !strings.Contains(out, `unknown command "frobnicate"`) {
		t.Errorf("output = %q", out)
	}
}

func TestDeviceLoopEOFExits(t *testing.T) {
	rec, _ := runLoop(t, "")

	if len(rec.calls) != 0 {
		t.Errorf("calls = %v", rec.calls)
	}
}
