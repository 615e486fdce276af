package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/remap"
	"github.com/aretw0/remap/pkg/adapters/almanac"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleAlmanac = `seeds: 79 14 55 13

seed-to-soil map:
50 98 2
52 50 48

soil-to-fertilizer map:
0 15 37
37 52 2
39 0 15

fertilizer-to-water map:
49 53 8
0 11 42
42 0 7
57 7 4

water-to-light map:
88 18 7
18 25 70

light-to-temperature map:
45 77 23
81 45 19
68 64 13

temperature-to-humidity map:
0 69 1
1 0 69

humidity-to-location map:
60 56 37
56 93 4
`

func newEngine(t *testing.T, opts ...remap.Option) *remap.Engine {
	t.Helper()
	a, err := almanac.ParseString(exampleAlmanac)
	require.NoError(t, err)
	loader, err := a.Loader()
	require.NoError(t, err)

	eng, err := remap.New("example", append([]remap.Option{remap.WithLoader(loader)}, opts...)...)
	require.NoError(t, err)
	return eng
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSpecIsValid(t *testing.T) {
	spec, err := loadSpec()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", spec.Info.Version)
}

func TestMinimum(t *testing.T) {
	h := NewHandler(newEngine(t))

	tests := []struct {
		name string
		body string
		want int64
	}{
		{"Pairs By Default", `{"seeds": [79, 14, 55, 13]}`, 46},
		{"Points", `{"seeds": [79, 14, 55, 13], "mode": "points"}`, 35},
		{"Explicit Ranges", `{"ranges": [{"start": 79, "length": 14}, {"start": 55, "length": 13}]}`, 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/minimum", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp map[string]int64
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp["minimum"])
		})
	}
}

func TestEvaluate(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, http.MethodPost, "/evaluate", `{"seeds": [79], "mode": "points"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Ranges []domain.Range `json:"ranges"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []domain.Range{domain.Point(82)}, resp.Ranges)
}

func TestEvaluate_NoSeeds(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, http.MethodPost, "/evaluate", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ranges": []}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/minimum", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestQuery_RejectsInvalidBodies(t *testing.T) {
	h := NewHandler(newEngine(t))

	bodies := map[string]string{
		"Not JSON":        `seeds`,
		"Unknown Field":   `{"seed": [1]}`,
		"Bad Mode":        `{"seeds": [1], "mode": "triples"}`,
		"Non Integer":     `{"seeds": [1.5, 2]}`,
		"Odd Pair Count":  `{"seeds": [1, 2, 3]}`,
		"Range Missing":   `{"ranges": [{"start": 1}]}`,
		"Seeds Not Array": `{"seeds": 5}`,
		"Pair Overflows":  `{"seeds": [9223372036854775797, 20]}`,
		"Range Overflows": `{"ranges": [{"start": 9223372036854775797, "length": 20}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/minimum", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestLocate(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, http.MethodGet, "/locate/13", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"point": 13, "location": 35}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/locate/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissingStage(t *testing.T) {
	a, err := almanac.ParseString("seeds: 1\n\nseed-to-soil map:\n")
	require.NoError(t, err)
	loader, err := a.Loader()
	require.NoError(t, err)
	eng, err := remap.New("", remap.WithLoader(loader))
	require.NoError(t, err)

	h := NewHandler(eng)
	w := do(t, h, http.MethodPost, "/minimum", `{"seeds": [1], "mode": "points"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "soil")
}

func TestGetStages(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, http.MethodGet, "/stages", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stages []StageView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stages))
	require.Len(t, stages, 7)

	byID := map[string]StageView{}
	for _, s := range stages {
		byID[s.ID] = s
	}
	assert.Equal(t, "soil", byID["seed"].Next)
	assert.Equal(t, []domain.Range{
		{Start: 50, Length: 48, Offset: 2},
		{Start: 98, Length: 2, Offset: -48},
	}, byID["seed"].Rules)
}

func TestInfoHealthAndSpec(t *testing.T) {
	h := NewHandler(newEngine(t))

	w := do(t, h, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "remap-http", info["app"])
	assert.Equal(t, strings.TrimSpace(remap.Version), info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = do(t, h, http.MethodGet, "/openapi.yaml", "")
	assert.Contains(t, w.Body.String(), "QueryRequest")

	w = do(t, h, http.MethodOptions, "/minimum", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.NewMetrics("remap")
	eng := newEngine(t, remap.WithLifecycleHooks(metrics.Hooks()))
	h := NewHandler(eng, WithMetrics(metrics))

	w := do(t, h, http.MethodPost, "/minimum", `{"seeds": [79, 14]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `remap_queries_total{kind="minimum",outcome="ok"} 1`)
	assert.Contains(t, w.Body.String(), `remap_stage_visits_total{stage="seed"} 1`)
}

func TestCancelledRequest(t *testing.T) {
	h := NewHandler(newEngine(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/minimum", strings.NewReader(`{"seeds": [1, 2]}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
