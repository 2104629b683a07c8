package backend

import (
	"context"
	"net/http"

	"github.com/javajoker/energy-eservice/internal/models"
)

const dashboardPath = "/api/v1/admin-portal/dashboard"

func (c *Client) DashboardStats(ctx context.Context, token string) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.getInto(ctx, "dashboard.stats", dashboardPath+"/stats", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardSummary(ctx context.Context, token string) (*models.DashboardSummary, error) {
	var out models.DashboardSummary
	if err := c.getInto(ctx, "dashboard.summary", dashboardPath+"/stats/summary", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardTimeline(ctx context.Context, token string) (*models.DashboardTimeline, error) {
	payload, err := c.do(ctx, call{
		operation: "dashboard.timeline",
		method:    http.MethodGet,
		path:      dashboardPath + "/stats/timeline",
		token:     token,
	})
	if err != nil {
		return nil, err
	}

	var out models.DashboardTimeline
	if payload.IsArray() {
		err = decode("dashboard.timeline", payload, &out.Points)
	} else {
		err = decode("dashboard.timeline", payload, &out)
	}
	if err != nil {
		return nil, err
	}
	if out.Points == nil {
		out.Points = []models.TimelinePoint{}
	}
	return &out, nil
}

func (c *Client) DashboardPerformance(ctx context.Context, token string) (*models.DashboardPerformance, error) {
	var out models.DashboardPerformance
	if err := c.getInto(ctx, "dashboard.performance", dashboardPath+"/stats/performance", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getInto(ctx context.Context, operation, path, token string, out interface{}) error {
	payload, err := c.do(ctx, call{
		operation: operation,
		method:    http.MethodGet,
		path:      path,
		token:     token,
	})
	if err != nil {
		return err
	}
	if !payload.IsObject() {
		return malformed("%s: expected an object", operation)
	}
	return decode(operation, payload, out)
}
