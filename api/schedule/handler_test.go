package schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/hallsched/app"
	"github.com/kilianp07/hallsched/core/generator"
	"github.com/kilianp07/hallsched/core/model"
	"github.com/kilianp07/hallsched/core/scheduler"
	"github.com/kilianp07/hallsched/infra/logger"
	"github.com/kilianp07/hallsched/infra/metrics"
)

const scenarioB = `[
	{"id":"A","start":1,"end":3},
	{"id":"B","start":2,"end":5},
	{"id":"C","start":4,"end":7},
	{"id":"D","start":6,"end":9},
	{"id":"E","start":8,"end":10}
]`

func newTestRouter(t *testing.T, opts ...Option) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	svc := app.New(scheduler.Config{DefaultHalls: 2, BudgetMS: scheduler.Millis(200)},
		app.WithLogger(logger.NopLogger{}), app.WithSink(sink))
	h := NewHandler(svc, generator.Config{Seed: 3, MaxCount: 50}, reg, opts...)
	return NewRouter(h), reg
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := do(t, r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestValidate(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := do(t, r, http.MethodPost, "/v1/validate", `{"events":`+scenarioB+`,"halls":2}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, r, http.MethodPost, "/v1/validate", `{"events":[{"id":"A","start":3,"end":3}],"halls":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"error":"event A has end <= start"}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/v1/validate", `{"events":[],"halls":0}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"error":"halls must be a positive integer"}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/v1/validate", `{"events":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNormalize(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := do(t, r, http.MethodPost, "/v1/normalize",
		`{"events":[{"id":"B","start":5.9,"end":8.2},{"id":"A","start":1.5,"end":3.7},{"id":"","start":1,"end":2}]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		Events []model.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, []model.Event{{ID: "A", Start: 1, End: 3}, {ID: "B", Start: 5, End: 8}}, out.Events)
}

func TestScheduleGreedy(t *testing.T) {
	r, reg := newTestRouter(t)
	rr := do(t, r, http.MethodPost, "/v1/schedule", `{"events":`+scenarioB+`,"halls":2,"algorithm":"greedy"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out runResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, model.AlgorithmGreedy, out.Result.Algorithm)
	assert.Equal(t, 5, out.Result.ScheduledCount)
	assert.Equal(t, 0, out.Result.HallOf("A"))
	assert.Equal(t, 1, out.Result.HallOf("B"))
	require.NotNil(t, out.Complexity)
	assert.Contains(t, out.Complexity.Time, "n log n")
	assert.InDelta(t, (700.0/9+600.0/9)/2, out.Summary.Mean, 1e-9)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["schedule_runs_total"])
}

func TestScheduleDefaultsToBoth(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := do(t, r, http.MethodPost, "/v1/schedule", `{"events":`+scenarioB+`}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out compareResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Greedy.Result.Halls)
	assert.Equal(t, 5, out.Greedy.Result.ScheduledCount)
	assert.Equal(t, 5, out.Backtracking.Result.ScheduledCount)
	assert.Equal(t, 0, out.Gain)
}

func TestScheduleBacktrackingBudget(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := do(t, r, http.MethodPost, "/v1/schedule", `{"events":`+scenarioB+`,"halls":1,"algorithm":"bt","budget_ms":1000}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var out runResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, model.AlgorithmBacktracking, out.Result.Algorithm)
	assert.Equal(t, 3, out.Result.ScheduledCount)
	assert.False(t, out.Result.TimedOut)

	rr = do(t, r, http.MethodPost, "/v1/schedule", `{"events":`+scenarioB+`,"budget_ms":-5,"algorithm":"bt"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestScheduleErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := do(t, r, http.MethodPost, "/v1/schedule", `{"events":`+scenarioB+`,"algorithm":"annealing"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, http.MethodPost, "/v1/schedule", `{"events":[{"id":"X","start":-1,"end":2}],"algorithm":"greedy"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"error":"event X has negative start"}`, rr.Body.String())

	rr = do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "schedule_validation_failures_total 1")
}

func TestGenerate(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := do(t, r, http.MethodPost, "/v1/generate", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		Events []model.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out.Events, 10)

	var again struct {
		Events []model.Event `json:"events"`
	}
	rr = do(t, r, http.MethodPost, "/v1/generate", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &again))
	assert.Equal(t, out.Events, again.Events)

	rr = do(t, r, http.MethodPost, "/v1/generate", `{"count":3,"from":0,"to":5,"min_len":1,"max_len":2,"seed":9}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out.Events, 3)

	rr = do(t, r, http.MethodPost, "/v1/generate", `{"count":3,"from":9,"to":5,"min_len":1,"max_len":2}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHallCap(t *testing.T) {
	r, _ := newTestRouter(t)
	body := `{"events":[{"id":"A","start":1,"end":3}],"halls":1099511627776,"algorithm":"greedy"}`
	rr := do(t, r, http.MethodPost, "/v1/schedule", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"halls must not exceed 1024"}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/v1/validate", `{"events":[],"halls":1099511627776}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	r, _ = newTestRouter(t, WithMaxHalls(3))
	rr = do(t, r, http.MethodPost, "/v1/schedule", `{"events":`+scenarioB+`,"halls":4,"algorithm":"greedy"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"halls must not exceed 3"}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/v1/schedule", `{"events":`+scenarioB+`,"halls":3,"algorithm":"greedy"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGenerateLimits(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := do(t, r, http.MethodPost, "/v1/generate", `{"count":1099511627776}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "count must not exceed 50")

	// the cap comes from the server config, not the request
	rr = do(t, r, http.MethodPost, "/v1/generate", `{"count":60,"max_count":100}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, http.MethodPost, "/v1/generate", `{"count":1,"from":0,"to":9223372036854775807}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "overflows")

	rr = do(t, r, http.MethodPost, "/v1/generate", `{"count":50}`)
	assert.Equal(t, http.StatusOK, rr.Code)
}
