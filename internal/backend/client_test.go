package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/energy-eservice/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

const requestJSON = `{"id":"r-1","requestNumber":"REQ-2026-0001","licenseType":"new","status":"new_request",
"requestDate":"2026-03-01T10:00:00Z","submitter":{"id":"u-1","name":"Sara"}}`

func TestGetRequestSendsTokenAndType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/admin-portal/services/requests/r-1", r.URL.Path)
		assert.Equal(t, "new", r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"data":` + requestJSON + `}`))
	})

	req, err := client.GetRequest(context.Background(), "tok", "r-1", models.LicenseTypeNew)
	require.NoError(t, err)
	assert.Equal(t, "REQ-2026-0001", req.RequestNumber)
	assert.Equal(t, "new_request", req.Status)
	assert.Equal(t, "u-1", req.Submitter.ID)
}

func TestUnknownStatusSurvivesDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"r-2","licenseType":"renewal","status":"foo_bar","submitter":{"id":"u-1"}}`))
	})

	req, err := client.GetRequest(context.Background(), "tok", "r-2", models.LicenseTypeRenewal)
	require.NoError(t, err)
	assert.Equal(t, "foo_bar", req.Status)
}

func TestErrorMessageIsVerbatim(t *testing.T) {
	cases := []struct {
		name string
		code int
		body string
		want string
	}{
		{"message", 400, `{"message":"Reason is too short"}`, "Reason is too short"},
		{"nested", 409, `{"error":{"code":"X","message":"Request already approved"}}`, "Request already approved"},
		{"string error", 422, `{"error":"Invalid transition"}`, "Invalid transition"},
		{"detail", 403, `{"detail":"Not allowed"}`, "Not allowed"},
		{"errors array", 400, `{"errors":[{"message":"status is invalid"}]}`, "status is invalid"},
		{"plain text", 500, `database is down`, "database is down"},
		{"empty", 503, ``, "Service Unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			})

			_, err := client.UpdateStatus(context.Background(), "tok", "r-1", models.LicenseTypeNew, models.StatusUpdate{Status: "accepted"})
			apiErr, ok := AsAPIError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tc.code, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":       `<html>oops</html>`,
		"missing id":     `{"status":"new_request","licenseType":"new"}`,
		"wrong type":     `{"id":7,"status":"new_request","licenseType":"new"}`,
		"string payload": `"ok"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := client.GetRequest(context.Background(), "tok", "r-1", models.LicenseTypeNew)
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestTransitionBodiesAndAcknowledgement(t *testing.T) {
	var gotPath, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Write([]byte(`{"success":true,"message":"forwarded"}`))
	})

	updated, err := client.Forward(context.Background(), "tok", "r-1", models.LicenseTypeExtension,
		models.ForwardInput{Role: models.RoleDepartmentHead, Reason: "capacity above 5MW"})
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, "/api/v1/admin-portal/services/requests/r-1/forward", gotPath)
	assert.JSONEq(t, `{"role":"department_head","reason":"capacity above 5MW"}`, gotBody)
}

func TestTransitionEchoShapes(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus string
	}{
		{"full echo", `{"data":` + requestJSON + `}`, "new_request"},
		{"wrapped echo", `{"data":{"request":` + requestJSON + `}}`, "new_request"},
		{"partial echo", `{"data":{"id":"r-1","status":"accepted"}}`, ""},
		{"partial wrapped echo", `{"request":{"id":"r-1","status":"accepted"}}`, ""},
		{"empty body", ``, ""},
		{"message only", `{"success":true,"message":"updated"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})

			updated, err := client.UpdateStatus(context.Background(), "tok", "r-1", models.LicenseTypeNew, models.StatusUpdate{Status: "accepted"})
			require.NoError(t, err)
			if tc.wantStatus == "" {
				assert.Nil(t, updated)
				return
			}
			require.NotNil(t, updated)
			assert.Equal(t, tc.wantStatus, updated.Status)
		})
	}
}

func TestListRequestsAcceptsArrayOrObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") == "returned" {
			w.Write([]byte(`[` + requestJSON + `]`))
			return
		}
		w.Write([]byte(`{"data":{"items":[` + requestJSON + `],"total":41,"page":3,"limit":1}}`))
	})

	list, err := client.ListRequests(context.Background(), "tok", RequestFilter{Status: "returned"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.EqualValues(t, 1, list.Total)

	list, err = client.ListRequests(context.Background(), "tok", RequestFilter{LicenseType: models.LicenseTypeNew})
	require.NoError(t, err)
	assert.EqualValues(t, 41, list.Total)
	assert.Equal(t, 3, list.Page)
}

func TestCreateLicenseRequestPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/license-requests/renewal", r.URL.Path)
		var body models.CreateRequestBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, models.LicenseTypeRenewal, body.LicenseType)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"r-9","requestNumber":"REN-77","licenseType":"renewal","status":"new_request","submitter":{"id":"u-1"}}`))
	})

	created, err := client.CreateRenewalLicenseRequest(context.Background(), "tok", models.CreateRequestBody{})
	require.NoError(t, err)
	assert.Equal(t, "REN-77", created.RequestNumber)
}

func TestObserverIsCalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pending":3}`))
	}))
	defer srv.Close()

	var ops []string
	client := NewClient(Options{BaseURL: srv.URL, Observer: func(op string, code int, _ time.Duration) {
		ops = append(ops, op)
		assert.Equal(t, http.StatusOK, code)
	}})

	summary, err := client.DashboardSummary(context.Background(), "tok")
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.Pending)
	assert.Equal(t, []string{"dashboard.summary"}, ops)
}

func TestParseCollection(t *testing.T) {
	c, ok := ParseCollection("inspections")
	assert.True(t, ok)
	assert.Equal(t, CollectionInspections, c)

	_, ok = ParseCollection("payments")
	assert.False(t, ok)
}
