package services

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/javajoker/energy-eservice/internal/backend"
	"github.com/javajoker/energy-eservice/internal/models"
)

// RequestBackend is the admin-portal half of the licensing backend.
type RequestBackend interface {
	ListRequests(ctx context.Context, token string, filter backend.RequestFilter) (*models.RequestList, error)
	GetRequest(ctx context.Context, token, id string, licenseType models.LicenseType) (*models.LicenseRequest, error)
	UpdateStatus(ctx context.Context, token, id string, licenseType models.LicenseType, update models.StatusUpdate) (*models.LicenseRequest, error)
	Assign(ctx context.Context, token, id string, licenseType models.LicenseType, input models.AssignInput) (*models.LicenseRequest, error)
	Return(ctx context.Context, token, id string, licenseType models.LicenseType, input models.ReturnInput) (*models.LicenseRequest, error)
	Forward(ctx context.Context, token, id string, licenseType models.LicenseType, input models.ForwardInput) (*models.LicenseRequest, error)
	ListCollection(ctx context.Context, token string, collection backend.Collection, query url.Values) (*models.CollectionList, error)
	CreateCollectionItem(ctx context.Context, token string, collection backend.Collection, body json.RawMessage) (*models.CollectionItem, error)
}

type DashboardBackend interface {
	DashboardStats(ctx context.Context, token string) (*models.DashboardStats, error)
	DashboardSummary(ctx context.Context, token string) (*models.DashboardSummary, error)
	DashboardTimeline(ctx context.Context, token string) (*models.DashboardTimeline, error)
	DashboardPerformance(ctx context.Context, token string) (*models.DashboardPerformance, error)
}

type CitizenBackend interface {
	CreateNewLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error)
	CreateRenewalLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error)
	CreateExtensionLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error)
	CreateReductionLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error)
	MyRequests(ctx context.Context, token string, query url.Values) (*models.RequestList, error)
	GetMyRequest(ctx context.Context, token, id string, licenseType models.LicenseType) (*models.LicenseRequest, error)
	ResubmitRequest(ctx context.Context, token, id string, licenseType models.LicenseType, body models.CreateRequestBody) (*models.LicenseRequest, error)
}

var (
	_ RequestBackend   = (*backend.Client)(nil)
	_ DashboardBackend = (*backend.Client)(nil)
	_ CitizenBackend   = (*backend.Client)(nil)
)
