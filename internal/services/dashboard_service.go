package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/energy-eservice/internal/cache"
	"github.com/javajoker/energy-eservice/internal/metrics"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/session"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

type PanelState string

const (
	PanelSuccess PanelState = "success"
	PanelError   PanelState = "error"
)

const (
	panelStats       = "stats"
	panelSummary     = "summary"
	panelTimeline    = "timeline"
	panelPerformance = "performance"
)

// Panel is one independently loaded dashboard section.
type Panel struct {
	State PanelState  `json:"state"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type StatsView struct {
	models.DashboardStats
	StatusLabels map[string]string `json:"statusLabels"`
}

// TimelineBar is a timeline point with its bar height in percent of the
// series maximum.
type TimelineBar struct {
	Date   string  `json:"date"`
	Count  int64   `json:"count"`
	Height float64 `json:"height"`
}

type Dashboard struct {
	Stats       Panel `json:"stats"`
	Summary     Panel `json:"summary"`
	Timeline    Panel `json:"timeline"`
	Performance Panel `json:"performance"`
}

type DashboardService struct {
	backend DashboardBackend
	cache   cache.Cache
	ttl     time.Duration
}

func NewDashboardService(b DashboardBackend, c cache.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{backend: b, cache: c, ttl: ttl}
}

// Load fetches the four panels concurrently. A failing panel is reported in
// its own slot and never cancels or blocks the others.
func (s *DashboardService) Load(ctx context.Context, p *session.Portal, lang string) *Dashboard {
	var d Dashboard
	var g errgroup.Group

	g.Go(func() error {
		d.Stats = s.panel(p, panelStats, func() (interface{}, error) {
			stats, err := loadPanel(ctx, s, p, panelStats, s.backend.DashboardStats)
			if err != nil {
				return nil, err
			}
			return statsView(lang, stats), nil
		})
		return nil
	})
	g.Go(func() error {
		d.Summary = s.panel(p, panelSummary, func() (interface{}, error) {
			return loadPanel(ctx, s, p, panelSummary, s.backend.DashboardSummary)
		})
		return nil
	})
	g.Go(func() error {
		d.Timeline = s.panel(p, panelTimeline, func() (interface{}, error) {
			timeline, err := loadPanel(ctx, s, p, panelTimeline, s.backend.DashboardTimeline)
			if err != nil {
				return nil, err
			}
			return NormalizeTimeline(timeline.Points), nil
		})
		return nil
	})
	g.Go(func() error {
		d.Performance = s.panel(p, panelPerformance, func() (interface{}, error) {
			return loadPanel(ctx, s, p, panelPerformance, s.backend.DashboardPerformance)
		})
		return nil
	})

	// panels record their own failures; Wait only joins the fetches
	g.Wait()
	return &d
}

func (s *DashboardService) panel(p *session.Portal, name string, load func() (interface{}, error)) Panel {
	data, err := load()
	if err != nil {
		metrics.RecordPanelFailure(name)
		logrus.WithError(err).WithFields(logrus.Fields{
			"panel": name,
			"actor": p.UserID,
		}).Warn("Dashboard panel failed")
		return Panel{State: PanelError, Error: err.Error()}
	}
	return Panel{State: PanelSuccess, Data: data}
}

// loadPanel reads the panel from the session cache or fetches and stores
// it. Failed fetches are never cached.
func loadPanel[T any](ctx context.Context, s *DashboardService, p *session.Portal, name string, fetch func(context.Context, string) (*T, error)) (T, error) {
	key := cache.Key(string(p.Scope), p.UserID, "dashboard", name)

	var value T
	if cacheGet(ctx, s.cache, key, &value) {
		return value, nil
	}

	fetched, err := fetch(ctx, p.Token)
	if err != nil {
		return value, err
	}
	value = *fetched
	cachePut(ctx, s.cache, key, value, s.ttl)
	return value, nil
}

func statsView(lang string, stats models.DashboardStats) StatsView {
	labels := make(map[string]string, len(stats.ByStatus))
	for code := range stats.ByStatus {
		labels[code] = workflow.DisplayLabel(lang, code)
	}
	return StatsView{DashboardStats: stats, StatusLabels: labels}
}

// NormalizeTimeline scales every count against the series maximum
// (height = value / max * 100). All heights are zero when the maximum is.
func NormalizeTimeline(points []models.TimelinePoint) []TimelineBar {
	var max int64
	for _, p := range points {
		if p.Count > max {
			max = p.Count
		}
	}

	bars := make([]TimelineBar, 0, len(points))
	for _, p := range points {
		bar := TimelineBar{Date: p.Date, Count: p.Count}
		if max > 0 {
			bar.Height = float64(p.Count) / float64(max) * 100
		}
		bars = append(bars, bar)
	}
	return bars
}
