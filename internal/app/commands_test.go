package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"landlord_rep/internal/app"
	"landlord_rep/internal/domain"
	"landlord_rep/internal/reputation"
	"landlord_rep/internal/storage/memory"
)

func TestAddLandlord_Validation(t *testing.T) {
	svc := app.NewCommandService(memory.New(), nil, fixedClock)
	ctx := context.Background()
	addr := domain.Address{Street: "1 Main St", City: "Brooklyn", State: "NY"}

	cases := []struct {
		name string
		in   app.NewLandlord
	}{
		{"blank name", app.NewLandlord{Name: "   ", Address: addr}},
		{"no street", app.NewLandlord{Name: "Acme", Address: domain.Address{City: "Brooklyn"}}},
		{"bad lat", app.NewLandlord{Name: "Acme", Address: addr, Coords: &domain.Coords{Lat: 91}}},
		{"bad lon", app.NewLandlord{Name: "Acme", Address: addr, Coords: &domain.Coords{Lon: -181}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddLandlord(ctx, tc.in); !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("want ErrInvalid, got %v", err)
			}
		})
	}
}

func TestAddLandlord_TrimsAndInvalidatesDirectory(t *testing.T) {
	repo := memory.New()
	cache := newFakeCache()
	q := app.NewQueryService(repo, cache, time.Minute, fixedClock)
	c := app.NewCommandService(repo, cache, fixedClock)
	ctx := context.Background()

	// prime the directory snapshot
	if res, _ := q.Search(ctx, "acme", ""); len(res.Results) != 0 {
		t.Fatalf("expected empty directory, got %+v", res.Results)
	}
	if !cache.has("directory") {
		t.Fatal("directory snapshot should be cached")
	}

	l, err := c.AddLandlord(ctx, app.NewLandlord{
		Name:    "  Acme Properties ",
		Entity:  ptr("   "),
		Region:  ptr(" Brooklyn "),
		Address: domain.Address{Street: "1 Main St", City: "Brooklyn", State: "NY"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if l.ID == "" || l.Name != "Acme Properties" || l.Entity != nil || *l.Region != "Brooklyn" {
		t.Fatalf("landlord = %+v", l)
	}
	if !l.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v, want %v", l.CreatedAt, now)
	}
	if cache.has("directory") {
		t.Fatal("directory snapshot should be invalidated")
	}

	res, _ := q.Search(ctx, "acme properties", "")
	if res.Mode != reputation.ModeSingle || res.Results[0].Landlord.ID != l.ID {
		t.Fatalf("new landlord not searchable: %+v", res)
	}
}

func TestSubmitReview(t *testing.T) {
	repo := memory.New()
	cache := newFakeCache()
	seed(repo, domain.Landlord{ID: "l1", Name: "Acme"}, 4)
	q := app.NewQueryService(repo, cache, time.Minute, fixedClock)
	c := app.NewCommandService(repo, cache, fixedClock)
	ctx := context.Background()

	before, _ := q.GetProfile(ctx, "l1")
	if before.Reputation.Count != 1 {
		t.Fatalf("count before = %d", before.Reputation.Count)
	}

	rv, err := c.SubmitReview(ctx, "l1", app.NewReview{Stars: 2, Body: "  leaky roof  "})
	if err != nil {
		t.Fatal(err)
	}
	if rv.Body != "leaky roof" || rv.LandlordID != "l1" || !rv.CreatedAt.Equal(now) {
		t.Fatalf("review = %+v", rv)
	}

	after, _ := q.GetProfile(ctx, "l1")
	if after.Reputation.Count != 2 {
		t.Fatalf("count after = %d, want 2 (cache not invalidated?)", after.Reputation.Count)
	}
	if after.Reputation.Distribution != [5]int{0, 1, 0, 1, 0} {
		t.Fatalf("distribution = %v", after.Reputation.Distribution)
	}
}

func TestSubmitReview_Rejects(t *testing.T) {
	repo := memory.New()
	seed(repo, domain.Landlord{ID: "l1", Name: "Acme"})
	c := app.NewCommandService(repo, nil, fixedClock)
	ctx := context.Background()

	cases := []struct {
		name string
		id   string
		in   app.NewReview
		want error
	}{
		{"zero stars", "l1", app.NewReview{Stars: 0, Body: "x"}, domain.ErrInvalid},
		{"six stars", "l1", app.NewReview{Stars: 6, Body: "x"}, domain.ErrInvalid},
		{"blank body", "l1", app.NewReview{Stars: 3, Body: "  "}, domain.ErrInvalid},
		{"long body", "l1", app.NewReview{Stars: 3, Body: strings.Repeat("é", 5001)}, domain.ErrInvalid},
		{"unknown landlord", "nope", app.NewReview{Stars: 3, Body: "x"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.SubmitReview(ctx, tc.id, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
	if rs, _ := repo.ListReviewsForLandlord(ctx, "l1"); len(rs) != 0 {
		t.Fatalf("rejected reviews were stored: %+v", rs)
	}
}

type fakeReports struct {
	payload map[string]any
	err     error
}

func (f fakeReports) GetReport(ctx context.Context, id string) (map[string]any, error) {
	return f.payload, f.err
}

func TestSyncReport(t *testing.T) {
	ctx := context.Background()

	t.Run("stores mapped report", func(t *testing.T) {
		repo := memory.New()
		cache := newFakeCache()
		_ = cache.Set(ctx, "report:l1", domain.Report{LandlordID: "l1"}, 60)
		svc := app.NewReportSyncService(fakeReports{payload: map[string]any{
			"violation_count": "1,204",
			"metrics":         map[string]any{"open_violations": float64(12)},
			"summary":         "heat complaints",
		}}, repo, cache, fixedClock)

		if err := svc.SyncReport(ctx, "l1"); err != nil {
			t.Fatal(err)
		}
		rp, err := repo.GetReport(ctx, "l1")
		if err != nil {
			t.Fatal(err)
		}
		if rp.Violations != 1204 || rp.OpenViolations != 12 || rp.Notes == nil || *rp.Notes != "heat complaints" {
			t.Fatalf("report = %+v", rp)
		}
		if !rp.UpdatedAt.Equal(now) {
			t.Fatalf("updated_at should default to the clock, got %v", rp.UpdatedAt)
		}
		if cache.has("report:l1") {
			t.Fatal("cached report should be invalidated")
		}
	})

	t.Run("not found and forbidden are misses", func(t *testing.T) {
		repo := memory.New()
		for _, e := range []error{domain.ErrNotFound, domain.ErrForbidden} {
			svc := app.NewReportSyncService(fakeReports{err: e}, repo, nil, fixedClock)
			if err := svc.SyncReport(ctx, "l1"); err != nil {
				t.Fatalf("%v: want nil, got %v", e, err)
			}
		}
		m := repo.Misses()
		if len(m) != 2 || m[0].Status != 404 || m[1].Status != 403 {
			t.Fatalf("misses = %+v", m)
		}
	})

	t.Run("other errors surface", func(t *testing.T) {
		boom := errors.New("boom")
		svc := app.NewReportSyncService(fakeReports{err: boom}, memory.New(), nil, fixedClock)
		if err := svc.SyncReport(ctx, "l1"); !errors.Is(err, boom) {
			t.Fatalf("want boom, got %v", err)
		}
	})
}
