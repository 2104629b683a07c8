package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/backend"
	"github.com/javajoker/energy-eservice/internal/cache"
	"github.com/javajoker/energy-eservice/internal/config"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/session"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

// SubmissionService handles the citizen side: forms, own requests and
// resubmission of returned requests.
type SubmissionService struct {
	backend CitizenBackend
	cache   cache.Cache
	ttl     config.CacheConfig
}

func NewSubmissionService(b CitizenBackend, c cache.Cache, ttl config.CacheConfig) *SubmissionService {
	return &SubmissionService{backend: b, cache: c, ttl: ttl}
}

// ValidateForm checks the common fields and the section matching the
// license type. It never touches the network.
func ValidateForm(form *models.SubmitRequestForm) error {
	if err := validate(form); err != nil {
		return err
	}

	switch form.LicenseType {
	case models.LicenseTypeNew:
		if form.New == nil {
			return fieldError("new", "required", "new license details are required")
		}
	case models.LicenseTypeRenewal:
		if form.Renewal == nil {
			return fieldError("renewal", "required", "renewal details are required")
		}
	case models.LicenseTypeExtension:
		if form.Extension == nil {
			return fieldError("extension", "required", "extension details are required")
		}
		if form.Extension.RequestedCapacity.KW() <= form.Extension.CurrentCapacity.KW() {
			return fieldError("extension.requested_capacity", "gtcapacity", "Requested capacity must exceed the current capacity")
		}
	case models.LicenseTypeReduction:
		if form.Reduction == nil {
			return fieldError("reduction", "required", "reduction details are required")
		}
		if form.Reduction.RequestedCapacity.KW() >= form.Reduction.CurrentCapacity.KW() {
			return fieldError("reduction.requested_capacity", "ltcapacity", "Requested capacity must be below the current capacity")
		}
	}
	return nil
}

func requestBody(form *models.SubmitRequestForm) models.CreateRequestBody {
	body := models.CreateRequestBody{
		LicenseType: form.LicenseType,
		Applicant:   form.Applicant,
		Attachments: form.Attachments,
	}
	switch form.LicenseType {
	case models.LicenseTypeNew:
		body.Payload = form.New
	case models.LicenseTypeRenewal:
		body.Payload = form.Renewal
	case models.LicenseTypeExtension:
		body.Payload = form.Extension
	case models.LicenseTypeReduction:
		body.Payload = form.Reduction
	}
	return body
}

// Create submits a new request. The backend assigns the request number and
// the initial new_request status.
func (s *SubmissionService) Create(ctx context.Context, c *session.Citizen, form *models.SubmitRequestForm) (*models.LicenseRequest, error) {
	if err := ValidateForm(form); err != nil {
		return nil, err
	}

	body := requestBody(form)
	var created *models.LicenseRequest
	var err error
	switch form.LicenseType {
	case models.LicenseTypeNew:
		created, err = s.backend.CreateNewLicenseRequest(ctx, c.Token, body)
	case models.LicenseTypeRenewal:
		created, err = s.backend.CreateRenewalLicenseRequest(ctx, c.Token, body)
	case models.LicenseTypeExtension:
		created, err = s.backend.CreateExtensionLicenseRequest(ctx, c.Token, body)
	case models.LicenseTypeReduction:
		created, err = s.backend.CreateReductionLicenseRequest(ctx, c.Token, body)
	}
	if err != nil {
		return nil, err
	}

	s.evictLists(ctx, c.Session)
	logrus.WithFields(logrus.Fields{
		"request_number": created.RequestNumber,
		"license_type":   created.LicenseType,
		"submitter":      c.UserID,
	}).Info("License request submitted")
	return created, nil
}

func (s *SubmissionService) Mine(ctx context.Context, c *session.Citizen, query url.Values) (*models.RequestList, error) {
	key := listPrefix(c.Session) + query.Encode()

	var list models.RequestList
	if cacheGet(ctx, s.cache, key, &list) {
		return &list, nil
	}

	fetched, err := s.backend.MyRequests(ctx, c.Token, query)
	if err != nil {
		return nil, err
	}
	cachePut(ctx, s.cache, key, fetched, s.ttl.ListTTL)
	return fetched, nil
}

func (s *SubmissionService) Get(ctx context.Context, c *session.Citizen, id string, licenseType models.LicenseType) (*models.LicenseRequest, error) {
	if !licenseType.IsValid() {
		return nil, fieldError("type", "license_type", "License type must be one of new, renewal, extension, reduction")
	}

	key := detailKey(c.Session, id, licenseType)
	var req models.LicenseRequest
	if cacheGet(ctx, s.cache, key, &req) {
		return &req, nil
	}

	fetched, err := s.backend.GetMyRequest(ctx, c.Token, id, licenseType)
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, fmt.Errorf("request %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if fetched.Submitter.ID != "" && fetched.Submitter.ID != c.UserID {
		return nil, ErrNotOwner
	}
	cachePut(ctx, s.cache, key, fetched, s.ttl.DetailTTL)
	return fetched, nil
}

// Resubmit sends an edited returned request back for review. Only its
// submitter may do so.
func (s *SubmissionService) Resubmit(ctx context.Context, c *session.Citizen, id string, licenseType models.LicenseType, form *models.SubmitRequestForm) (*models.LicenseRequest, error) {
	if form.LicenseType != licenseType {
		return nil, fieldError("license_type", "eqfield", "License type cannot change after creation")
	}
	if err := ValidateForm(form); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, c, id, licenseType)
	if err != nil {
		return nil, err
	}
	if current.Submitter.ID != c.UserID {
		return nil, ErrNotOwner
	}
	if !workflow.ActionsFor(*current, c.Actor()).Has(workflow.ActionEditAndResubmit) {
		return nil, fmt.Errorf("%s is %s: %w", id, current.Status, ErrInvalidTransition)
	}

	updated, err := s.backend.ResubmitRequest(ctx, c.Token, id, licenseType, requestBody(form))
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, detailKey(c.Session, id, licenseType)); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate request detail")
	}
	s.evictLists(ctx, c.Session)
	return updated, nil
}

func (s *SubmissionService) evictLists(ctx context.Context, sess *session.Session) {
	if err := s.cache.DeletePrefix(ctx, listPrefix(sess)); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate request lists")
	}
}
