package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"smartenergy/internal/client"
	"smartenergy/internal/logger"
	"smartenergy/internal/models"
)

type PolicyService struct {
	client *client.Client
	log    *logger.Logger
}

func NewPolicyService(c *client.Client, log *logger.Logger) *PolicyService {
	return &PolicyService{client: c, log: log}
}

// AutoConfig fetches the current automatic-control configuration.
func (s *PolicyService) AutoConfig(ctx context.Context) (models.AutoConfig, error) {
	var cfg models.AutoConfig
	if err := s.client.GetJSON(ctx, "/auto/config", &cfg); err != nil {
		return models.AutoConfig{}, err
	}
	return cfg, nil
}

// AutoEnabled derives the policy flag. A transient failure of the policy
// fetch must not block device rendering, so any error degrades to false and
// manual controls stay enabled.
func (s *PolicyService) AutoEnabled(ctx context.Context) bool {
	cfg, err := s.AutoConfig(ctx)
	if err != nil {
		s.log.Warnw("auto config fetch failed; treating auto control as disabled", "err", err)
		return false
	}
	return cfg.MonitorEnabled
}

// UpdateAutoConfig posts an arbitrary configuration object.
func (s *PolicyService) UpdateAutoConfig(ctx context.Context, cfg map[string]any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.PostJSON(ctx, "/auto/config", cfg, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decide asks the server what it would do at the given temperature.
func (s *PolicyService) Decide(ctx context.Context, temp float64) (json.RawMessage, error) {
	path := fmt.Sprintf("/auto/decide?temp=%s", url.QueryEscape(fmt.Sprintf("%g", temp)))
	var out json.RawMessage
	if err := s.client.GetJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Check runs one immediate policy evaluation against the live temperature.
func (s *PolicyService) Check(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.GetJSON(ctx, "/auto/check", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartMonitor starts the server-side polling loop. intervalSeconds <= 0
// leaves the interval to the server default.
func (s *PolicyService) StartMonitor(ctx context.Context, intervalSeconds int) (json.RawMessage, error) {
	body := map[string]any{}
	if intervalSeconds > 0 {
		body["interval"] = intervalSeconds
	}
	var out json.RawMessage
	if err := s.client.PostJSON(ctx, "/auto/monitor/start", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StopMonitor stops the server-side polling loop.
func (s *PolicyService) StopMonitor(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.PostJSON(ctx, "/auto/monitor/stop", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MonitorStatus reports the server-side monitor state as-is.
func (s *PolicyService) MonitorStatus(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.GetJSON(ctx, "/auto/monitor/status", &out); err != nil {
		return nil, err
	}
	return out, nil
}
