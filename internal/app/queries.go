package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"landlord_rep/internal/adapters/observability"
	"landlord_rep/internal/domain"
	"landlord_rep/internal/reputation"
)

// QueryService serves read paths. Only raw snapshots (landlords, reviews,
// reports) are cached; reputation is recomputed on every read against
// the injected clock.
type QueryService struct {
	repo     domain.DirectoryRepository
	cache    domain.Cache
	cacheTTL time.Duration
	clock    domain.Clock
}

// appendTTL caps how long snapshots that grow on every write (the
// directory and review lists) live in cache. A read racing an append can
// re-set the pre-append snapshot after the writer's delete; the cap bounds
// how long that stale copy is served.
const appendTTL = 30 * time.Second

func NewQueryService(r domain.DirectoryRepository, c domain.Cache, ttl time.Duration, clock domain.Clock) *QueryService {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, clock: clock}
}

// Entry is a landlord with its reputation as of the read.
type Entry struct {
	Landlord   domain.Landlord       `json:"landlord"`
	Reputation reputation.Reputation `json:"reputation"`
}

type Profile struct {
	Entry
	Report *domain.Report `json:"report,omitempty"`
}

type SearchResult struct {
	Mode    reputation.Mode `json:"mode"`
	Results []Entry         `json:"landlords"`
}

// Viewport is a lat/lon box as sent by the map widget.
type Viewport struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

type Pin struct {
	LandlordID string                `json:"landlord_id"`
	Name       string                `json:"name"`
	Lat        float64               `json:"lat"`
	Lon        float64               `json:"lon"`
	Rating     *float64              `json:"rating"`
	Tier       reputation.Tier       `json:"tier"`
	Verified   bool                  `json:"verified"`
	Credential reputation.Credential `json:"credential"`
}

func (s *QueryService) GetLandlord(ctx context.Context, id string) (domain.Landlord, error) {
	key := landlordKey(id)
	var l domain.Landlord
	if s.cacheGet(ctx, key, &l) {
		return l, nil
	}
	l, err := s.repo.GetLandlord(ctx, id)
	if err != nil {
		return domain.Landlord{}, err
	}
	s.cacheSet(ctx, key, l)
	return l, nil
}

// Reviews returns a copy of the landlord's full review snapshot, newest first.
func (s *QueryService) Reviews(ctx context.Context, id string) ([]domain.Review, error) {
	key := reviewsKey(id)
	var rs []domain.Review
	if s.cacheGet(ctx, key, &rs) {
		return rs, nil
	}
	rs, err := s.repo.ListReviewsForLandlord(ctx, id)
	if err != nil {
		return nil, err
	}
	// copy to avoid aliasing the repo's backing array
	out := make([]domain.Review, len(rs))
	copy(out, rs)
	s.cacheSetTTL(ctx, key, out, appendTTL)
	return out, nil
}

func (s *QueryService) ListReviews(ctx context.Context, id string, pg domain.PageQuery) ([]domain.Review, error) {
	if _, err := s.GetLandlord(ctx, id); err != nil {
		return nil, err
	}
	rs, err := s.Reviews(ctx, id)
	if err != nil {
		return nil, err
	}
	if pg.Limit > 0 && len(rs) > pg.Limit {
		rs = rs[:pg.Limit]
	}
	return rs, nil
}

func (s *QueryService) GetProfile(ctx context.Context, id string) (Profile, error) {
	l, err := s.GetLandlord(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	e, err := s.entry(ctx, l, s.clock.Now())
	if err != nil {
		return Profile{}, err
	}
	p := Profile{Entry: e}

	rp, err := s.report(ctx, id)
	switch {
	case err == nil:
		p.Report = &rp
	case errors.Is(err, domain.ErrNotFound):
	default:
		return Profile{}, err
	}
	return p, nil
}

func (s *QueryService) ListLandlords(ctx context.Context, region string) ([]Entry, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]Entry, 0, len(dir))
	for _, l := range dir {
		if region != "" && (l.Region == nil || *l.Region != region) {
			continue
		}
		e, err := s.entry(ctx, l, now)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Search resolves query against the directory. Single-mode results hold
// exactly one entry.
func (s *QueryService) Search(ctx context.Context, query, region string) (SearchResult, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	res := reputation.Resolve(query, region, dir)
	observability.ObserveSearch(string(res.Mode))

	now := s.clock.Now()
	out := SearchResult{Mode: res.Mode, Results: make([]Entry, 0, len(res.Landlords))}
	for _, l := range res.Landlords {
		e, err := s.entry(ctx, l, now)
		if err != nil {
			return SearchResult{}, err
		}
		out.Results = append(out.Results, e)
	}
	return out, nil
}

// MapPins returns landlords with coordinates inside vp.
func (s *QueryService) MapPins(ctx context.Context, vp Viewport) ([]Pin, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}
	minLL := s2.LatLngFromDegrees(vp.LatMin, vp.LonMin)
	maxLL := s2.LatLngFromDegrees(vp.LatMax, vp.LonMax)
	rect := s2.Rect{
		Lat: r1.Interval{Lo: minLL.Lat.Radians(), Hi: maxLL.Lat.Radians()},
		Lng: s1.IntervalFromEndpoints(minLL.Lng.Radians(), maxLL.Lng.Radians()),
	}

	now := s.clock.Now()
	pins := make([]Pin, 0)
	for _, l := range dir {
		if l.Coords == nil {
			continue
		}
		if !rect.ContainsLatLng(s2.LatLngFromDegrees(l.Coords.Lat, l.Coords.Lon)) {
			continue
		}
		e, err := s.entry(ctx, l, now)
		if err != nil {
			return nil, err
		}
		pins = append(pins, Pin{
			LandlordID: l.ID,
			Name:       l.Name,
			Lat:        l.Coords.Lat,
			Lon:        l.Coords.Lon,
			Rating:     e.Reputation.RoundedAverage,
			Tier:       e.Reputation.Tier,
			Verified:   l.Verified,
			Credential: e.Reputation.Credential,
		})
	}
	return pins, nil
}

func (s *QueryService) entry(ctx context.Context, l domain.Landlord, now time.Time) (Entry, error) {
	rs, err := s.Reviews(ctx, l.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("reviews for %s: %w", l.ID, err)
	}
	return Entry{Landlord: l, Reputation: reputation.Evaluate(rs, now)}, nil
}

func (s *QueryService) directory(ctx context.Context) ([]domain.Landlord, error) {
	var dir []domain.Landlord
	if s.cacheGet(ctx, directoryKey, &dir) {
		return dir, nil
	}
	dir, err := s.repo.ListLandlords(ctx, domain.LandlordsQuery{})
	if err != nil {
		return nil, err
	}
	s.cacheSetTTL(ctx, directoryKey, dir, appendTTL)
	return dir, nil
}

func (s *QueryService) report(ctx context.Context, id string) (domain.Report, error) {
	key := reportKey(id)
	var rp domain.Report
	if s.cacheGet(ctx, key, &rp) {
		return rp, nil
	}
	rp, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	s.cacheSet(ctx, key, rp)
	return rp, nil
}

func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, _ := s.cache.Get(ctx, key, dst)
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	s.cacheSetTTL(ctx, key, v, s.cacheTTL)
}

// cacheSetTTL stores v for the shorter of limit and the configured TTL.
func (s *QueryService) cacheSetTTL(ctx context.Context, key string, v any, limit time.Duration) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, v, int(min(s.cacheTTL, limit).Seconds()))
}
