package service

import (
	"context"
	"encoding/json"

	"smartenergy/internal/client"
	"smartenergy/internal/logger"
	"smartenergy/internal/models"
)

// Devices exposes device state and control operations.
type Devices interface {
	List(ctx context.Context) ([]models.Device, error)
	Toggle(ctx context.Context, req models.ToggleRequest) (models.ActionResult, error)
	Remove(ctx context.Context, id int) (int, *models.OKResponse, error)
	Add(ctx context.Context, payload map[string]any) (json.RawMessage, error)
}

// Policy exposes the automatic-control configuration and the server-side
// monitor lifecycle. The client keeps no monitor state of its own.
type Policy interface {
	AutoConfig(ctx context.Context) (models.AutoConfig, error)
	AutoEnabled(ctx context.Context) bool
	UpdateAutoConfig(ctx context.Context, cfg map[string]any) (json.RawMessage, error)
	Decide(ctx context.Context, temp float64) (json.RawMessage, error)
	Check(ctx context.Context) (json.RawMessage, error)
	StartMonitor(ctx context.Context, intervalSeconds int) (json.RawMessage, error)
	StopMonitor(ctx context.Context) (json.RawMessage, error)
	MonitorStatus(ctx context.Context) (json.RawMessage, error)
}

// Usage exposes read-only usage aggregates plus record submission.
type Usage interface {
	Daily(ctx context.Context, startDate, endDate string) (map[string]models.UsageDay, error)
	Logs(ctx context.Context, startDate, endDate string) (json.RawMessage, error)
	Add(ctx context.Context, payload map[string]any) (json.RawMessage, error)
}

// Service aggregates all sub-services.
type Service struct {
	Devices
	Policy
	Usage
}

// NewService wires the transport into concrete services.
func NewService(c *client.Client, log *logger.Logger) *Service {
	return &Service{
		Devices: NewDeviceService(c, log),
		Policy:  NewPolicyService(c, log),
		Usage:   NewUsageService(c, log),
	}
}
