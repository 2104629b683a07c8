package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/backend"
	"github.com/javajoker/energy-eservice/internal/cache"
	"github.com/javajoker/energy-eservice/internal/config"
	"github.com/javajoker/energy-eservice/internal/metrics"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/session"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

type TransitionRecorder interface {
	RecordTransition(ctx context.Context, record *models.TransitionRecord) error
}

type TransitionNotifier interface {
	NotifyTransition(ctx context.Context, req models.LicenseRequest, action workflow.Action) error
}

// TransitionInput is the union of what the staff actions may carry.
type TransitionInput struct {
	Reason     string      `json:"reason"`
	AssigneeID string      `json:"assigneeId"`
	Role       models.Role `json:"role"`
}

type TransitionResult struct {
	RequestID    string          `json:"requestId"`
	Action       workflow.Action `json:"action"`
	StatusBefore string          `json:"statusBefore,omitempty"`
	// Request is nil when the backend only acknowledged the call; callers
	// refetch to observe the new state.
	Request *models.LicenseRequest `json:"request,omitempty"`
}

// RequestService is the officer side of the workflow: reads through the
// session's query cache and status transitions against the backend.
type RequestService struct {
	backend  RequestBackend
	cache    cache.Cache
	recorder TransitionRecorder
	notifier TransitionNotifier
	ttl      config.CacheConfig
}

func NewRequestService(b RequestBackend, c cache.Cache, recorder TransitionRecorder, notifier TransitionNotifier, ttl config.CacheConfig) *RequestService {
	return &RequestService{
		backend:  b,
		cache:    c,
		recorder: recorder,
		notifier: notifier,
		ttl:      ttl,
	}
}

func detailKey(s *session.Session, id string, licenseType models.LicenseType) string {
	return cache.Key(string(s.Scope), s.UserID, "request", id, string(licenseType))
}

func listPrefix(s *session.Session) string {
	return cache.Key(string(s.Scope), s.UserID, "requests") + ":"
}

func collectionPrefix(s *session.Session, c backend.Collection) string {
	return cache.Key(string(s.Scope), s.UserID, "collection", string(c)) + ":"
}

func (s *RequestService) List(ctx context.Context, p *session.Portal, filter backend.RequestFilter) (*models.RequestList, error) {
	q := url.Values{}
	for k, v := range filter.Query {
		q[k] = v
	}
	q.Set("type", string(filter.LicenseType))
	q.Set("status", filter.Status)
	key := listPrefix(p.Session) + q.Encode()

	var list models.RequestList
	if cacheGet(ctx, s.cache, key, &list) {
		return &list, nil
	}

	fetched, err := s.backend.ListRequests(ctx, p.Token, filter)
	if err != nil {
		return nil, err
	}
	cachePut(ctx, s.cache, key, fetched, s.ttl.ListTTL)
	return fetched, nil
}

func (s *RequestService) Get(ctx context.Context, p *session.Portal, id string, licenseType models.LicenseType) (*models.LicenseRequest, error) {
	if !licenseType.IsValid() {
		return nil, fieldError("type", "license_type", "License type must be one of new, renewal, extension, reduction")
	}

	key := detailKey(p.Session, id, licenseType)
	var req models.LicenseRequest
	if cacheGet(ctx, s.cache, key, &req) {
		return &req, nil
	}

	fetched, err := s.backend.GetRequest(ctx, p.Token, id, licenseType)
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, fmt.Errorf("request %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	cachePut(ctx, s.cache, key, fetched, s.ttl.DetailTTL)
	return fetched, nil
}

// Transition performs one staff action. Nothing local changes when the
// backend refuses; on success the detail query is invalidated exactly once
// together with the session's list queries.
func (s *RequestService) Transition(ctx context.Context, p *session.Portal, id string, licenseType models.LicenseType, action workflow.Action, input TransitionInput) (*TransitionResult, error) {
	if err := checkTransitionInput(licenseType, action, input); err != nil {
		return nil, err
	}

	key := detailKey(p.Session, id, licenseType)
	var current *models.LicenseRequest
	var cached models.LicenseRequest
	if cacheGet(ctx, s.cache, key, &cached) {
		current = &cached
	}

	// rejecting a rejected request is the final rejection
	if action == workflow.ActionReject && current == nil {
		fetched, err := s.Get(ctx, p, id, licenseType)
		if err != nil {
			return nil, err
		}
		current = fetched
	}

	record := &models.TransitionRecord{
		RequestID:   id,
		LicenseType: licenseType,
		Action:      string(action),
		ActorID:     p.UserID,
		ActorRole:   p.Role,
		Reason:      strings.TrimSpace(input.Reason),
	}
	if current != nil {
		record.StatusBefore = current.Status
	}

	updated, target, err := s.call(ctx, p, id, licenseType, action, record.StatusBefore, input)
	if err != nil {
		record.Outcome = models.TransitionOutcomeFailed
		record.BackendError = err.Error()
		if apiErr, ok := backend.AsAPIError(err); ok {
			record.BackendStatus = apiErr.StatusCode
			record.BackendError = apiErr.Message
		}
		s.record(ctx, record)
		metrics.RecordTransition(string(action), string(record.Outcome))
		return nil, err
	}

	s.invalidate(ctx, p.Session, key)

	record.Outcome = models.TransitionOutcomeSucceeded
	record.StatusAfter = target
	if updated != nil {
		record.StatusAfter = updated.Status
	}
	s.record(ctx, record)
	metrics.RecordTransition(string(action), string(record.Outcome))

	s.notify(ctx, action, updated, current, record.StatusAfter)

	return &TransitionResult{
		RequestID:    id,
		Action:       action,
		StatusBefore: record.StatusBefore,
		Request:      updated,
	}, nil
}

func checkTransitionInput(licenseType models.LicenseType, action workflow.Action, input TransitionInput) error {
	if !licenseType.IsValid() {
		return fieldError("type", "license_type", "License type must be one of new, renewal, extension, reduction")
	}

	switch action {
	case workflow.ActionAccept, workflow.ActionApprove, workflow.ActionReject,
		workflow.ActionAssign, workflow.ActionReturn, workflow.ActionForward:
	case workflow.ActionEditAndResubmit:
		return fmt.Errorf("%s: %w", action, ErrInvalidTransition)
	default:
		return fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}

	if action.RequiresReason() && strings.TrimSpace(input.Reason) == "" {
		return fieldError("reason", "required", "reason is required")
	}

	switch action {
	case workflow.ActionAssign:
		return validate(models.AssignInput{AssigneeID: input.AssigneeID, Reason: input.Reason})
	case workflow.ActionForward:
		if err := validate(models.ForwardInput{Role: input.Role, Reason: input.Reason}); err != nil {
			return err
		}
		if !input.Role.IsStaff() {
			return fieldError("role", "oneof", "role must be a staff role")
		}
	}
	return nil
}

// call sends the action to its endpoint and returns the backend's view of
// the request (nil on bare acknowledgement) plus the status aimed for.
func (s *RequestService) call(ctx context.Context, p *session.Portal, id string, licenseType models.LicenseType, action workflow.Action, before string, input TransitionInput) (*models.LicenseRequest, string, error) {
	reason := strings.TrimSpace(input.Reason)

	switch action {
	case workflow.ActionAssign:
		updated, err := s.backend.Assign(ctx, p.Token, id, licenseType, models.AssignInput{AssigneeID: input.AssigneeID, Reason: reason})
		return updated, workflow.StatusAssigned.String(), err
	case workflow.ActionReturn:
		updated, err := s.backend.Return(ctx, p.Token, id, licenseType, models.ReturnInput{Reason: reason})
		return updated, workflow.StatusReturned.String(), err
	case workflow.ActionForward:
		updated, err := s.backend.Forward(ctx, p.Token, id, licenseType, models.ForwardInput{Role: input.Role, Reason: reason})
		return updated, workflow.StatusForwarded.String(), err
	}

	target, _ := workflow.TargetStatus(action, before)
	updated, err := s.backend.UpdateStatus(ctx, p.Token, id, licenseType, models.StatusUpdate{Status: target, Reason: reason})
	return updated, target, err
}

func (s *RequestService) invalidate(ctx context.Context, sess *session.Session, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to invalidate request detail")
	}
	if err := s.cache.DeletePrefix(ctx, listPrefix(sess)); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate request lists")
	}
}

func (s *RequestService) record(ctx context.Context, record *models.TransitionRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordTransition(ctx, record); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": record.RequestID,
			"action":     record.Action,
		}).Error("Failed to record transition")
	}
}

func (s *RequestService) notify(ctx context.Context, action workflow.Action, updated, before *models.LicenseRequest, statusAfter string) {
	if s.notifier == nil {
		return
	}

	var req models.LicenseRequest
	switch {
	case updated != nil:
		req = *updated
	case before != nil:
		req = *before
		req.Status = statusAfter
	default:
		logrus.WithField("action", action).Debug("No request snapshot to notify about")
		return
	}

	if err := s.notifier.NotifyTransition(ctx, req, action); err != nil {
		logrus.WithError(err).WithField("request_id", req.ID).Warn("Failed to notify submitter")
	}
}

func (s *RequestService) Collection(ctx context.Context, p *session.Portal, collection backend.Collection, query url.Values) (*models.CollectionList, error) {
	key := collectionPrefix(p.Session, collection) + query.Encode()

	var list models.CollectionList
	if cacheGet(ctx, s.cache, key, &list) {
		return &list, nil
	}

	fetched, err := s.backend.ListCollection(ctx, p.Token, collection, query)
	if err != nil {
		return nil, err
	}
	cachePut(ctx, s.cache, key, fetched, s.ttl.ListTTL)
	return fetched, nil
}

func (s *RequestService) CreateCollectionItem(ctx context.Context, p *session.Portal, collection backend.Collection, body json.RawMessage) (*models.CollectionItem, error) {
	if len(body) == 0 || !json.Valid(body) {
		return nil, fieldError("body", "json", "body must be a JSON object")
	}

	item, err := s.backend.CreateCollectionItem(ctx, p.Token, collection, body)
	if err != nil {
		return nil, err
	}
	if err := s.cache.DeletePrefix(ctx, collectionPrefix(p.Session, collection)); err != nil {
		logrus.WithError(err).WithField("collection", collection).Warn("Failed to invalidate collection")
	}
	return item, nil
}
