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

type UsageService struct {
	client *client.Client
	log    *logger.Logger
}

func NewUsageService(c *client.Client, log *logger.Logger) *UsageService {
	return &UsageService{client: c, log: log}
}

func rangeQuery(path, startDate, endDate string) string {
	return fmt.Sprintf("%s?start_date=%s&end_date=%s",
		path, url.QueryEscape(startDate), url.QueryEscape(endDate))
}

// Daily fetches aggregated usage for an inclusive date range, keyed by ISO
// date string.
func (s *UsageService) Daily(ctx context.Context, startDate, endDate string) (map[string]models.UsageDay, error) {
	var out map[string]models.UsageDay
	if err := s.client.GetJSON(ctx, rangeQuery("/usage/daily", startDate, endDate), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logs fetches the raw power logs for the range. Nothing renders this; the
// call exists for interface parity with the server.
func (s *UsageService) Logs(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.GetJSON(ctx, rangeQuery("/usage/logs", startDate, endDate), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Add submits a usage record; the payload passes through unmodified.
func (s *UsageService) Add(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.PostJSON(ctx, "/usage/add", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}
