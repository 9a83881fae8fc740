package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/portfolio-cli/internal/model"
	"github.com/sells-group/portfolio-cli/internal/portfolio"
	"github.com/sells-group/portfolio-cli/internal/store"
)

// staticReader serves a fixed catalog.
type staticReader struct {
	props []model.Property
	occs  []model.Occupant
	err   error
}

func (s *staticReader) ListProperties(_ context.Context, f store.PropertyFilter) ([]model.Property, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(f.IDs) == 0 {
		return s.props, nil
	}
	want := map[int64]bool{}
	for _, id := range f.IDs {
		want[id] = true
	}
	var out []model.Property
	for _, p := range s.props {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *staticReader) ListOccupants(_ context.Context, ids []int64) ([]model.Occupant, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Occupant
	for _, o := range s.occs {
		if want[o.PropertyID] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *staticReader) ListCategories(context.Context) ([]model.Category, error) {
	return nil, nil
}

func located(id int64, name, city string, lat, lon float64) model.Property {
	p := model.Property{ID: id, Name: name, PropertyType: model.TypeShoppingCentre, City: model.Ptr(city)}
	if lat != 0 || lon != 0 {
		p.Latitude, p.Longitude = model.Ptr(lat), model.Ptr(lon)
	}
	return p
}

func newTestServer(t *testing.T, reader store.Reader) *httptest.Server {
	t.Helper()
	svc := portfolio.New(reader)
	srv := httptest.NewServer(NewRouter(svc, []string{"https://app.example.com"}, Defaults{RadiusKM: 25, Competitors: 5, SearchLimit: 10}))
	t.Cleanup(srv.Close)
	return srv
}

func catalogReader() *staticReader {
	return &staticReader{
		props: []model.Property{
			located(1, "Trafford Centre", "Manchester", 53.4668, -2.3476),
			located(2, "Arndale", "Manchester", 53.4831, -2.2411),
			located(3, "Merseyway", "Stockport", 53.4106, -2.1575),
			located(4, "Central Mall", "Leeds", 0, 0),
			located(5, "Central Mall", "York", 0, 0),
		},
		occs: []model.Occupant{
			{ID: 1, PropertyID: 1, Name: "Zara", Category: "Clothing"},
			{ID: 2, PropertyID: 1, Name: "Greggs", Category: "Food"},
			{ID: 3, PropertyID: 2, Name: "Zara", Category: "Clothing"},
			{ID: 4, PropertyID: 2, Name: "Boots", Category: "Health"},
			{ID: 5, PropertyID: 3, Name: "Boots", Category: "Health"},
		},
	}
}

func get(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func post(t *testing.T, url, payload string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	_, err := uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRequestID_PropagatesValidHeader(t *testing.T) {
	srv := newTestServer(t, catalogReader())
	id := uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/completeness", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCompleteness(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, body := get(t, srv.URL+"/api/completeness")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["fields"])
	overview := body["overview"].(map[string]any)
	assert.Equal(t, 5.0, overview["total_properties"])
}

func TestCompleteness_StoreError(t *testing.T) {
	srv := newTestServer(t, &staticReader{err: errors.New("db down")})

	resp, body := get(t, srv.URL+"/api/completeness")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", body["error"])
	assert.NotEmpty(t, body["request_id"])
}

func TestResolveLocation_Statuses(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"matched", "?q=arndale", http.StatusOK},
		{"ambiguous", "?q=Central+Mall", http.StatusConflict},
		{"not found", "?q=Bluewater", http.StatusNotFound},
		{"empty", "?q=+", http.StatusBadRequest},
		{"bad suggestions", "?q=arndale&suggestions=x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, srv.URL+"/api/locations/resolve"+tt.query)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestResolveLocation_AmbiguousListsCandidates(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	_, body := get(t, srv.URL+"/api/locations/resolve?q=Central+Mall")
	cands := body["candidates"].([]any)
	require.Len(t, cands, 2)
	assert.Contains(t, body["error"], "Central Mall (Leeds)")

	resp, body := get(t, srv.URL+"/api/locations/resolve?q=Central+Mall&city=York")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	match := body["match"].(map[string]any)
	assert.Equal(t, 5.0, match["id"])
}

func TestSearchLocations(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, body := get(t, srv.URL+"/api/locations/search?q=central&limit=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["results"], 1)

	resp, body = get(t, srv.URL+"/api/locations/search")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["results"])
}

func TestResolveBatch(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, body := post(t, srv.URL+"/api/locations/resolve-batch", `{"names":["Arndale","Central Mall"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["matches"], 1)
	failures := body["failures"].([]any)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].(map[string]any)["error"], "ambiguous")

	resp, _ = post(t, srv.URL+"/api/locations/resolve-batch", `{"names":["Bluewater"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = post(t, srv.URL+"/api/locations/resolve-batch", `{"names":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGapAnalysis(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, body := post(t, srv.URL+"/api/gap-analysis", `{"target_id":1,"competitor_ids":[2,3],"include_brands":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	priorities := body["priorities"].([]any)
	require.NotEmpty(t, priorities)
	assert.Equal(t, "Health", priorities[0].(map[string]any)["category"])
	assert.Len(t, body["missing_brands"], 1)
}

func TestGapAnalysis_SuggestsCompetitors(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, body := post(t, srv.URL+"/api/gap-analysis", `{"target_id":1}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cmp := body["comparison"].(map[string]any)
	assert.Len(t, cmp["competitors"], 2)
	assert.Empty(t, body["missing_brands"])
}

func TestGapAnalysis_NoNearbyCompetitors(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, body := post(t, srv.URL+"/api/gap-analysis", `{"target_id":1,"radius_km":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "no competitors within 1 km of property 1; pass competitor_ids", body["error"])
	assert.NotContains(t, body, "comparison")
}

func TestGapAnalysis_Errors(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, _ := post(t, srv.URL+"/api/gap-analysis", `{"competitor_ids":[2]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv.URL+"/api/gap-analysis", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := post(t, srv.URL+"/api/gap-analysis", `{"target_id":99,"competitor_ids":[2]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "property not found")
}

func TestCompetitors(t *testing.T) {
	srv := newTestServer(t, catalogReader())

	resp, body := get(t, srv.URL+"/api/properties/1/competitors?radius=10")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["competitors"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "local", first["band"])

	resp, _ = get(t, srv.URL+"/api/properties/abc/competitors")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/api/properties/1/competitors?radius=far")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/api/properties/42/competitors")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
