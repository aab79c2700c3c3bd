package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"landlord_rep/internal/adapters/observability"
	"landlord_rep/internal/domain"
	"landlord_rep/internal/reputation"
)

const maxReviewBody = 5000

type CommandService struct {
	repo  domain.DirectoryRepository
	cache domain.Cache
	clock domain.Clock
	newID func() string
}

func NewCommandService(r domain.DirectoryRepository, cache domain.Cache, clock domain.Clock) *CommandService {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &CommandService{repo: r, cache: cache, clock: clock, newID: uuid.NewString}
}

type NewLandlord struct {
	Name     string
	Entity   *string
	Address  domain.Address
	Region   *string
	Coords   *domain.Coords
	Verified bool
	Top      bool
}

type NewReview struct {
	Stars int
	Body  string
}

func (s *CommandService) AddLandlord(ctx context.Context, in NewLandlord) (domain.Landlord, error) {
	l := domain.Landlord{
		ID:     s.newID(),
		Name:   strings.TrimSpace(in.Name),
		Entity: trimmedPtr(in.Entity),
		Address: domain.Address{
			Street: strings.TrimSpace(in.Address.Street),
			Unit:   trimmedPtr(in.Address.Unit),
			City:   strings.TrimSpace(in.Address.City),
			State:  strings.TrimSpace(in.Address.State),
		},
		Region:    trimmedPtr(in.Region),
		Coords:    in.Coords,
		Verified:  in.Verified,
		Top:       in.Top,
		CreatedAt: s.clock.Now(),
	}
	switch {
	case l.Name == "":
		return domain.Landlord{}, fmt.Errorf("name is required: %w", domain.ErrInvalid)
	case l.Address.Street == "" || l.Address.City == "":
		return domain.Landlord{}, fmt.Errorf("street and city are required: %w", domain.ErrInvalid)
	case l.Coords != nil && (l.Coords.Lat < -90 || l.Coords.Lat > 90 || l.Coords.Lon < -180 || l.Coords.Lon > 180):
		return domain.Landlord{}, fmt.Errorf("coordinates out of range: %w", domain.ErrInvalid)
	}

	if err := s.repo.AppendLandlord(ctx, l); err != nil {
		return domain.Landlord{}, fmt.Errorf("append landlord: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, directoryKey)
	}
	return l, nil
}

// SubmitReview appends a review. Star values outside [1,5] are rejected
// here so they never reach storage.
func (s *CommandService) SubmitReview(ctx context.Context, landlordID string, in NewReview) (domain.Review, error) {
	body := strings.TrimSpace(in.Body)
	switch {
	case in.Stars < reputation.MinStars || in.Stars > reputation.MaxStars:
		return domain.Review{}, fmt.Errorf("stars must be between %d and %d: %w", reputation.MinStars, reputation.MaxStars, domain.ErrInvalid)
	case body == "":
		return domain.Review{}, fmt.Errorf("review body is required: %w", domain.ErrInvalid)
	case utf8.RuneCountInString(body) > maxReviewBody:
		return domain.Review{}, fmt.Errorf("review body exceeds %d characters: %w", maxReviewBody, domain.ErrInvalid)
	}

	if _, err := s.repo.GetLandlord(ctx, landlordID); err != nil {
		return domain.Review{}, err
	}

	r := domain.Review{
		ID:         s.newID(),
		LandlordID: landlordID,
		Stars:      in.Stars,
		Body:       body,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.AppendReview(ctx, r); err != nil {
		return domain.Review{}, fmt.Errorf("append review for %s: %w", landlordID, err)
	}
	// the next read must see this review
	if s.cache != nil {
		_ = s.cache.Del(ctx, reviewsKey(landlordID))
	}
	observability.ObserveReview(in.Stars)
	return r, nil
}

// ReportSyncService pulls public-record reports into the directory.
type ReportSyncService struct {
	reports domain.ReportsClient
	repo    domain.DirectoryRepository
	cache   domain.Cache
	clock   domain.Clock
}

func NewReportSyncService(c domain.ReportsClient, r domain.DirectoryRepository, cache domain.Cache, clock domain.Clock) *ReportSyncService {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &ReportSyncService{reports: c, repo: r, cache: cache, clock: clock}
}

// SyncReport fetches and stores the report for one landlord. Missing and
// forbidden reports are logged as misses, not returned as errors.
func (s *ReportSyncService) SyncReport(ctx context.Context, landlordID string) error {
	payload, err := s.reports.GetReport(ctx, landlordID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogMiss(ctx, landlordID, 404, "report not found")
			s.invalidateReport(ctx, landlordID)
			return nil
		case errors.Is(err, domain.ErrForbidden):
			_ = s.repo.LogMiss(ctx, landlordID, 403, "report forbidden")
			s.invalidateReport(ctx, landlordID)
			return nil
		}
		// network/5xx/JSON: surface it
		return err
	}

	rp := mapReport(landlordID, payload)
	if rp.UpdatedAt.IsZero() {
		rp.UpdatedAt = s.clock.Now()
	}
	if err := s.repo.UpsertReport(ctx, rp); err != nil {
		return fmt.Errorf("upsert report for %s: %w", landlordID, err)
	}
	s.invalidateReport(ctx, landlordID)
	return nil
}

func (s *ReportSyncService) invalidateReport(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, reportKey(id))
	}
}

func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return ptrStr(strings.TrimSpace(*p))
}
