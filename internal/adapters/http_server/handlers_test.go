package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	httpserver "landlord_rep/internal/adapters/http_server"
	"landlord_rep/internal/app"
	"landlord_rep/internal/domain"
	"landlord_rep/internal/storage/memory"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Repo) {
	t.Helper()
	repo := memory.New()
	clock := domain.ClockFunc(func() time.Time { return now })
	srv := httpserver.New(zerolog.Nop())
	srv.MountHandlers(&httpserver.Handlers{
		Q: app.NewQueryService(repo, nil, 0, clock),
		C: app.NewCommandService(repo, nil, clock),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, repo
}

func addLandlord(t *testing.T, repo *memory.Repo, id, name string, stars ...int) {
	t.Helper()
	ctx := context.Background()
	if err := repo.AppendLandlord(ctx, domain.Landlord{
		ID:      id,
		Name:    name,
		Address: domain.Address{Street: "1 Main St", City: "Brooklyn", State: "NY"},
		Coords:  &domain.Coords{Lat: 40.68, Lon: -73.94},
	}); err != nil {
		t.Fatal(err)
	}
	for i, s := range stars {
		if err := repo.AppendReview(ctx, domain.Review{
			ID: fmt.Sprintf("%s-%d", id, i), LandlordID: id, Stars: s, Body: "b", CreatedAt: now.AddDate(0, 0, -i),
		}); err != nil {
			t.Fatal(err)
		}
	}
}

// noRedirect stops the client at the first 3xx.
var noRedirect = &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

func get(t *testing.T, url string, hdr ...string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	if resp := get(t, ts.URL+"/healthz"); resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestGetLandlord_ProfileAndETag(t *testing.T) {
	ts, repo := newTestServer(t)
	addLandlord(t, repo, "l1", "Acme Properties", 5, 4, 4)

	resp := get(t, ts.URL+"/v1/landlords/l1")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Landlord   domain.Landlord `json:"landlord"`
		Reputation struct {
			Count          int      `json:"count"`
			RoundedAverage *float64 `json:"rounded_average"`
			Tier           string   `json:"tier"`
			Credential     string   `json:"credential"`
		} `json:"reputation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Landlord.ID != "l1" || body.Reputation.Count != 3 || body.Reputation.Tier != "green" {
		t.Fatalf("body = %+v", body)
	}
	if body.Reputation.Credential != "NotYetRated" || body.Reputation.RoundedAverage == nil {
		t.Fatalf("reputation = %+v", body.Reputation)
	}

	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("etag = %q", etag)
	}
	if resp2 := get(t, ts.URL+"/v1/landlords/l1", "If-None-Match", etag); resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("conditional GET status = %d", resp2.StatusCode)
	}
}

func TestGetLandlord_NotFoundProblem(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := get(t, ts.URL+"/v1/landlords/missing")
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestSearch_SingleRedirectAndList(t *testing.T) {
	ts, repo := newTestServer(t)
	addLandlord(t, repo, "a", "Acme Properties")
	addLandlord(t, repo, "b", "Acme Holdings")

	resp := get(t, ts.URL+"/v1/search?q=acme+properties&redirect=1")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/landlords/a" {
		t.Fatalf("location = %q", loc)
	}

	resp = get(t, ts.URL+"/v1/search?q=acme+properties")
	var single struct {
		Mode      string `json:"mode"`
		Landlords []any  `json:"landlords"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&single)
	if single.Mode != "single" || len(single.Landlords) != 1 {
		t.Fatalf("single = %+v", single)
	}

	resp = get(t, ts.URL+"/v1/search?q=acme&redirect=1")
	if resp.StatusCode != 200 {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list struct {
		Mode      string `json:"mode"`
		Landlords []any  `json:"landlords"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&list)
	if list.Mode != "list" || len(list.Landlords) != 2 {
		t.Fatalf("list = %+v", list)
	}
}

func TestCreateLandlordAndReview(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/landlords", "application/json", strings.NewReader(
		`{"name":"Acme","address":{"street":"1 Main St","city":"Brooklyn","state":"NY"},"region":"Brooklyn"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create landlord status = %d", resp.StatusCode)
	}
	var l domain.Landlord
	_ = json.NewDecoder(resp.Body).Decode(&l)
	if l.ID == "" || resp.Header.Get("Location") != "/v1/landlords/"+l.ID {
		t.Fatalf("landlord = %+v location = %q", l, resp.Header.Get("Location"))
	}

	rv, err := http.Post(ts.URL+"/v1/landlords/"+l.ID+"/reviews", "application/json", strings.NewReader(`{"stars":4,"body":"fine"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer rv.Body.Close()
	if rv.StatusCode != http.StatusCreated {
		t.Fatalf("create review status = %d", rv.StatusCode)
	}

	list := get(t, ts.URL+"/v1/landlords/"+l.ID+"/reviews?limit=10")
	var reviews []domain.Review
	_ = json.NewDecoder(list.Body).Decode(&reviews)
	if len(reviews) != 1 || reviews[0].Stars != 4 {
		t.Fatalf("reviews = %+v", reviews)
	}
}

func TestCreate_BadRequests(t *testing.T) {
	ts, repo := newTestServer(t)
	addLandlord(t, repo, "l1", "Acme")

	cases := []struct {
		name, path, body string
		want             int
	}{
		{"malformed json", "/v1/landlords", `{`, 400},
		{"unknown field", "/v1/landlords", `{"name":"x","bogus":1}`, 400},
		{"missing street", "/v1/landlords", `{"name":"x","address":{"city":"NYC"}}`, 400},
		{"stars out of range", "/v1/landlords/l1/reviews", `{"stars":9,"body":"x"}`, 400},
		{"unknown landlord", "/v1/landlords/nope/reviews", `{"stars":3,"body":"x"}`, 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tc.path, "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestListReviews_BadLimit(t *testing.T) {
	ts, repo := newTestServer(t)
	addLandlord(t, repo, "l1", "Acme", 3)
	for _, l := range []string{"0", "201", "abc"} {
		if resp := get(t, ts.URL+"/v1/landlords/l1/reviews?limit="+l); resp.StatusCode != 400 {
			t.Fatalf("limit=%s: status = %d", l, resp.StatusCode)
		}
	}
}

func TestBadges(t *testing.T) {
	ts, repo := newTestServer(t)
	addLandlord(t, repo, "l1", "Acme", 3, 4)

	svg := get(t, ts.URL+"/v1/landlords/l1/badge.svg")
	if svg.StatusCode != 200 || svg.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("svg: %d %q", svg.StatusCode, svg.Header.Get("Content-Type"))
	}

	pngResp := get(t, ts.URL+"/v1/landlords/l1/badge.png")
	if pngResp.StatusCode != 200 {
		t.Fatalf("png status = %d", pngResp.StatusCode)
	}
	if _, err := png.Decode(pngResp.Body); err != nil {
		t.Fatalf("png decode: %v", err)
	}

	if resp := get(t, ts.URL+"/v1/landlords/nope/badge.svg"); resp.StatusCode != 404 {
		t.Fatalf("missing landlord badge status = %d", resp.StatusCode)
	}
}

func TestMap(t *testing.T) {
	ts, repo := newTestServer(t)
	addLandlord(t, repo, "l1", "Acme", 5)

	resp := get(t, ts.URL+"/v1/map?lat_min=40.5&lat_max=41&lon_min=-74.3&lon_max=-73.7")
	var pins []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&pins)
	if len(pins) != 1 || pins[0]["landlord_id"] != "l1" {
		t.Fatalf("pins = %+v", pins)
	}

	for _, q := range []string{
		"lat_min=41&lat_max=40&lon_min=-74&lon_max=-73",
		"lat_min=40&lat_max=41&lon_min=-74",
		"lat_min=x&lat_max=41&lon_min=-74&lon_max=-73",
	} {
		if r := get(t, ts.URL+"/v1/map?"+q); r.StatusCode != 400 {
			t.Fatalf("%s: status = %d", q, r.StatusCode)
		}
	}
}
