package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBackendCall(t *testing.T) {
	ObserveBackendCall("get_request", 200, 20*time.Millisecond)
	ObserveBackendCall("get_request", 0, time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(backendCalls.WithLabelValues("get_request", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(backendCalls.WithLabelValues("get_request", "transport_error")))
}

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(transitions.WithLabelValues("accept", "failed"))
	RecordTransition("accept", "failed")
	assert.Equal(t, before+1, testutil.ToFloat64(transitions.WithLabelValues("accept", "failed")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RequestStarted()
	RequestFinished("GET", "", 404, time.Millisecond)
	RecordPanelFailure("timeline")

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `energy_eservice_http_requests_total{method="GET",route="unmatched",status="404"}`)
	assert.Contains(t, string(body), `energy_eservice_dashboard_panel_failures_total{panel="timeline"}`)
}
