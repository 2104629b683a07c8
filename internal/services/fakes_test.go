package services

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/javajoker/energy-eservice/internal/backend"
	"github.com/javajoker/energy-eservice/internal/cache"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/session"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

// fakeBackend answers from canned values and counts every call.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	request      *models.LicenseRequest
	transitioned *models.LicenseRequest
	err          error
	getErr       error

	lastUpdate  models.StatusUpdate
	lastForward models.ForwardInput
	lastBody    models.CreateRequestBody

	stats       *models.DashboardStats
	summary     *models.DashboardSummary
	timeline    *models.DashboardTimeline
	performance *models.DashboardPerformance
	panelErrs   map[string]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}, panelErrs: map[string]error{}}
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) ListRequests(ctx context.Context, token string, filter backend.RequestFilter) (*models.RequestList, error) {
	f.hit("list")
	if f.err != nil {
		return nil, f.err
	}
	return &models.RequestList{Items: []models.LicenseRequest{*f.request}, Total: 1}, nil
}

func (f *fakeBackend) GetRequest(ctx context.Context, token, id string, licenseType models.LicenseType) (*models.LicenseRequest, error) {
	f.hit("get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	r := *f.request
	return &r, nil
}

func (f *fakeBackend) UpdateStatus(ctx context.Context, token, id string, licenseType models.LicenseType, update models.StatusUpdate) (*models.LicenseRequest, error) {
	f.hit("status")
	f.lastUpdate = update
	return f.transitioned, f.err
}

func (f *fakeBackend) Assign(ctx context.Context, token, id string, licenseType models.LicenseType, input models.AssignInput) (*models.LicenseRequest, error) {
	f.hit("assign")
	return f.transitioned, f.err
}

func (f *fakeBackend) Return(ctx context.Context, token, id string, licenseType models.LicenseType, input models.ReturnInput) (*models.LicenseRequest, error) {
	f.hit("return")
	return f.transitioned, f.err
}

func (f *fakeBackend) Forward(ctx context.Context, token, id string, licenseType models.LicenseType, input models.ForwardInput) (*models.LicenseRequest, error) {
	f.hit("forward")
	f.lastForward = input
	return f.transitioned, f.err
}

func (f *fakeBackend) ListCollection(ctx context.Context, token string, collection backend.Collection, query url.Values) (*models.CollectionList, error) {
	f.hit("collection." + string(collection))
	return &models.CollectionList{Items: []models.CollectionItem{{ID: "c1"}}, Total: 1}, f.err
}

func (f *fakeBackend) CreateCollectionItem(ctx context.Context, token string, collection backend.Collection, body json.RawMessage) (*models.CollectionItem, error) {
	f.hit("collection.create")
	return &models.CollectionItem{ID: "c2"}, f.err
}

func (f *fakeBackend) DashboardStats(ctx context.Context, token string) (*models.DashboardStats, error) {
	f.hit("stats")
	return f.stats, f.panelErrs["stats"]
}

func (f *fakeBackend) DashboardSummary(ctx context.Context, token string) (*models.DashboardSummary, error) {
	f.hit("summary")
	return f.summary, f.panelErrs["summary"]
}

func (f *fakeBackend) DashboardTimeline(ctx context.Context, token string) (*models.DashboardTimeline, error) {
	f.hit("timeline")
	return f.timeline, f.panelErrs["timeline"]
}

func (f *fakeBackend) DashboardPerformance(ctx context.Context, token string) (*models.DashboardPerformance, error) {
	f.hit("performance")
	return f.performance, f.panelErrs["performance"]
}

func (f *fakeBackend) create(body models.CreateRequestBody) (*models.LicenseRequest, error) {
	f.lastBody = body
	if f.err != nil {
		return nil, f.err
	}
	return &models.LicenseRequest{ID: "new-1", RequestNumber: "REQ-2024-0001", LicenseType: body.LicenseType, Status: "new_request"}, nil
}

func (f *fakeBackend) CreateNewLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	f.hit("create.new")
	return f.create(body)
}

func (f *fakeBackend) CreateRenewalLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	f.hit("create.renewal")
	return f.create(body)
}

func (f *fakeBackend) CreateExtensionLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	f.hit("create.extension")
	return f.create(body)
}

func (f *fakeBackend) CreateReductionLicenseRequest(ctx context.Context, token string, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	f.hit("create.reduction")
	return f.create(body)
}

func (f *fakeBackend) MyRequests(ctx context.Context, token string, query url.Values) (*models.RequestList, error) {
	f.hit("mine")
	return &models.RequestList{Items: []models.LicenseRequest{*f.request}, Total: 1}, f.err
}

func (f *fakeBackend) GetMyRequest(ctx context.Context, token, id string, licenseType models.LicenseType) (*models.LicenseRequest, error) {
	return f.GetRequest(ctx, token, id, licenseType)
}

func (f *fakeBackend) ResubmitRequest(ctx context.Context, token, id string, licenseType models.LicenseType, body models.CreateRequestBody) (*models.LicenseRequest, error) {
	f.hit("resubmit")
	f.lastBody = body
	return f.transitioned, f.err
}

// countingCache records mutations on top of a memory cache.
type countingCache struct {
	*cache.MemoryCache
	mu       sync.Mutex
	deletes  map[string]int
	prefixes map[string]int
}

func newCountingCache() *countingCache {
	return &countingCache{
		MemoryCache: cache.NewMemoryCache(),
		deletes:     map[string]int{},
		prefixes:    map[string]int{},
	}
}

func (c *countingCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		c.deletes[k]++
	}
	c.mu.Unlock()
	return c.MemoryCache.Delete(ctx, keys...)
}

func (c *countingCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	c.prefixes[prefix]++
	c.mu.Unlock()
	return c.MemoryCache.DeletePrefix(ctx, prefix)
}

func (c *countingCache) mutations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.deletes {
		n += v
	}
	for _, v := range c.prefixes {
		n += v
	}
	return n
}

type fakeRecorder struct {
	records []models.TransitionRecord
}

func (r *fakeRecorder) RecordTransition(ctx context.Context, record *models.TransitionRecord) error {
	r.records = append(r.records, *record)
	return nil
}

type fakeNotifier struct {
	sent []models.LicenseRequest
}

func (n *fakeNotifier) NotifyTransition(ctx context.Context, req models.LicenseRequest, action workflow.Action) error {
	n.sent = append(n.sent, req)
	return nil
}

func portalSession(id string, role models.Role) *session.Portal {
	return &session.Portal{Session: &session.Session{
		Scope:     session.ScopePortal,
		UserID:    id,
		Role:      role,
		Token:     "portal-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
}

func citizenSession(id string) *session.Citizen {
	return &session.Citizen{Session: &session.Session{
		Scope:     session.ScopeCitizen,
		UserID:    id,
		Role:      models.RoleCitizen,
		Token:     "citizen-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
}
