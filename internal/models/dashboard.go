// internal/models/dashboard.go
package models

// Read models computed by the backend and displayed as-is.

type DashboardStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
	ByType   map[string]int64 `json:"byType"`
}

type DashboardSummary struct {
	Pending      int64 `json:"pending"`
	InProgress   int64 `json:"inProgress"`
	Approved     int64 `json:"approved"`
	Rejected     int64 `json:"rejected"`
	Returned     int64 `json:"returned"`
	ThisMonth    int64 `json:"thisMonth"`
	LastMonth    int64 `json:"lastMonth"`
	AssignedToMe int64 `json:"assignedToMe"`
}

type TimelinePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardTimeline struct {
	Points []TimelinePoint `json:"points"`
}

type DashboardPerformance struct {
	AverageDays float64 `json:"averageDays"`
	FastestDays float64 `json:"fastestDays"`
	SlowestDays float64 `json:"slowestDays"`
	Completed   int64   `json:"completed"`
}
