package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smartenergy/internal/client"
	"smartenergy/internal/logger"
	"smartenergy/internal/models"
)

var errListFailed = errors.New("failed to fetch device list")

type DeviceService struct {
	client *client.Client
	log    *logger.Logger
}

func NewDeviceService(c *client.Client, log *logger.Logger) *DeviceService {
	return &DeviceService{client: c, log: log}
}

// List fetches the authoritative device state. A response with ok != true is
// an error carrying the server-provided message when there is one.
func (s *DeviceService) List(ctx context.Context) ([]models.Device, error) {
	var resp models.DeviceListResponse
	if err := s.client.GetJSON(ctx, "/device/list", &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		if resp.Msg != "" {
			return nil, fmt.Errorf("%w: %s", errListFailed, resp.Msg)
		}
		return nil, errListFailed
	}
	return resp.Devices, nil
}

// Toggle flips a device via PATCH and returns the full ActionResult envelope;
// the caller decides success from the envelope, never from an error value.
func (s *DeviceService) Toggle(ctx context.Context, req models.ToggleRequest) (models.ActionResult, error) {
	res, err := s.client.PatchJSON(ctx, "/device/toggle", req)
	if err != nil {
		return models.ActionResult{}, err
	}
	s.log.Debugw("toggle response", "status", res.Status, "ok", res.OK)
	return res, nil
}

// Remove deletes a device by id.
func (s *DeviceService) Remove(ctx context.Context, id int) (int, *models.OKResponse, error) {
	return s.client.Delete(ctx, fmt.Sprintf("/device/remove/%d", id))
}

// Add registers a new device; the payload passes through unmodified.
func (s *DeviceService) Add(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.PostJSON(ctx, "/device/add", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}
