package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/javajoker/energy-eservice/internal/models"
)

const citizenRequestsPath = "/api/v1/license-requests"

func (c *Client) CreateNewLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	return c.createLicenseRequest(ctx, token, models.LicenseTypeNew, body)
}

func (c *Client) CreateRenewalLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	return c.createLicenseRequest(ctx, token, models.LicenseTypeRenewal, body)
}

func (c *Client) CreateExtensionLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	return c.createLicenseRequest(ctx, token, models.LicenseTypeExtension, body)
}

func (c *Client) CreateReductionLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	return c.createLicenseRequest(ctx, token, models.LicenseTypeReduction, body)
}

func (c *Client) createLicenseRequest(ctx context.Context, token string, licenseType models.LicenseType, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	body.LicenseType = licenseType
	operation := "license_requests.create." + string(licenseType)
	payload, err := c.do(ctx, call{
		operation: operation,
		method:    http.MethodPost,
		path:      citizenRequestsPath + "/" + string(licenseType),
		token:     token,
		body:      body,
	})
	if err != nil {
		return nil, err
	}
	created, err := decodeRequest(operation, payload)
	if err != nil {
		return nil, err
	}
	if created.RequestNumber == "" {
		return nil, malformed("%s: %v", operation, fieldError("requestNumber"))
	}
	return created, nil
}

func (c *Client) MyRequests(ctx context.Context, token string, query url.Values) (*models.RequestList, error) {
	payload, err := c.do(ctx, call{
		operation: "license_requests.mine",
		method:    http.MethodGet,
		path:      citizenRequestsPath + "/my",
		query:     query,
		token:     token,
	})
	if err != nil {
		return nil, err
	}
	return decodeRequestList("license_requests.mine", payload)
}

func (c *Client) GetMyRequest(ctx context.Context, token, id string, licenseType models.LicenseType) (*models.LicenseRequest, error) {
	payload, err := c.do(ctx, call{
		operation: "license_requests.detail",
		method:    http.MethodGet,
		path:      citizenRequestsPath + "/" + url.PathEscape(id),
		query:     typeQuery(licenseType),
		token:     token,
	})
	if err != nil {
		return nil, err
	}
	return decodeRequest("license_requests.detail", payload)
}

func (c *Client) ResubmitRequest(ctx context.Context, token, id string, licenseType models.LicenseType, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	body.LicenseType = licenseType
	return c.transition(ctx, call{
		operation: "license_requests.resubmit",
		method:    http.MethodPut,
		path:      citizenRequestsPath + "/" + url.PathEscape(id) + "/resubmit",
		query:     typeQuery(licenseType),
		token:     token,
		body:      body,
	})
}
