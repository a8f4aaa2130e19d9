package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tequmsa/ankhaten/internal/improve"
	"github.com/tequmsa/ankhaten/internal/journal"
	"github.com/tequmsa/ankhaten/internal/metrics"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// stubLoader materializes components with canned data or a canned error.
type stubLoader struct {
	kind string
	err  error
}

func (l *stubLoader) Kind() string { return l.kind }

func (l *stubLoader) Build(_ context.Context, c registry.Component) (*registry.Result, error) {
	if l.err != nil {
		return nil, l.err
	}
	return &registry.Result{UID: c.UID, Kind: l.kind, Data: "materialized"}, nil
}

type nullRecorder struct{}

func (nullRecorder) Append(journal.Event) error { return nil }

func newTestServer(t *testing.T) (*Server, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	reg.Use(&stubLoader{kind: "yaml"})
	reg.Use(&stubLoader{kind: "http", err: fmt.Errorf("endpoint unreachable")})
	reg.Add(registry.Component{UID: "ATEN_CORE_001", Kind: "yaml", Config: map[string]any{}})
	reg.Add(registry.Component{UID: "ATEN_HTTP_001", Kind: "http", Config: map[string]any{}})
	reg.Add(registry.Component{UID: "ATEN_LOST_001", Kind: "unbound", Config: map[string]any{}})

	loop := improve.NewLoop(reg, nullRecorder{}, improve.Policy{},
		improve.WithSeed(1),
		improve.WithSnapshotFunc(func(now time.Time) metrics.Snapshot {
			return metrics.Snapshot{Timestamp: now, DaysToOmega: 10, Awareness: 90.4, RDoD: 0.95}
		}),
	)
	return NewServer(reg, loop), reg
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK\n", rec.Body.String())
}

func TestStatus(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/v1/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ankh-aten", resp.Service)
	require.Equal(t, 3, resp.Components)
	require.Equal(t, []string{"http", "yaml"}, resp.Loaders)
	require.Contains(t, []string{"OPEN", "CLOSED"}, resp.Gate)
}

func TestComponents(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/v1/components", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp componentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Count)
	require.Equal(t, "ATEN_CORE_001", resp.Components[0].ID)
	require.Equal(t, "yaml", resp.Components[0].Kind)
}

func TestMaterialize(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodPost, "/v1/components/ATEN_CORE_001/materialize", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res registry.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "ATEN_CORE_001", res.UID)
	require.Equal(t, "materialized", res.Data)

	// Unknown component.
	rec = doRequest(t, h, http.MethodPost, "/v1/components/ATEN_MISSING_001/materialize", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Known component, no loader bound for its kind.
	rec = doRequest(t, h, http.MethodPost, "/v1/components/ATEN_LOST_001/materialize", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Loader failure maps to bad gateway.
	rec = doRequest(t, h, http.MethodPost, "/v1/components/ATEN_HTTP_001/materialize", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	var errResp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Contains(t, errResp["error"], "endpoint unreachable")

	// GET on a POST route.
	rec = doRequest(t, h, http.MethodGet, "/v1/components/ATEN_CORE_001/materialize", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestImprove(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodPost, "/v1/improve", `{"cycles": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary improve.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 2, summary.Cycles)
	require.Equal(t, 6, summary.TotalExperiments)
}

func TestImprove_DefaultsToOneCycle(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Handler(), http.MethodPost, "/v1/improve", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary improve.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.Cycles)
}

func TestImprove_Errors(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodPost, "/v1/improve", `{"cycles": 101}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/v1/improve", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	noLoop := NewServer(registry.New(), nil)
	rec = doRequest(t, noLoop.Handler(), http.MethodPost, "/v1/improve", `{"cycles": 1}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
