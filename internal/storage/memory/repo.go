// Package memory is a process-local DirectoryRepository. repctl uses it
// for offline scoring; handler and service tests use it as a fake.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"landlord_rep/internal/domain"
)

type Miss struct {
	LandlordID string
	Status     int
	Reason     string
}

type Repo struct {
	mu        sync.RWMutex
	landlords map[string]domain.Landlord
	reviews   map[string][]domain.Review
	reports   map[string]domain.Report
	misses    []Miss
}

func New() *Repo {
	return &Repo{
		landlords: map[string]domain.Landlord{},
		reviews:   map[string][]domain.Review{},
		reports:   map[string]domain.Report{},
	}
}

func (r *Repo) AppendLandlord(_ context.Context, l domain.Landlord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.landlords[l.ID]; ok {
		return fmt.Errorf("landlord %s already exists: %w", l.ID, domain.ErrInvalid)
	}
	r.landlords[l.ID] = l
	return nil
}

func (r *Repo) AppendReview(_ context.Context, rv domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.landlords[rv.LandlordID]; !ok {
		return fmt.Errorf("landlord %s: %w", rv.LandlordID, domain.ErrNotFound)
	}
	r.reviews[rv.LandlordID] = append(r.reviews[rv.LandlordID], rv)
	return nil
}

func (r *Repo) UpsertReport(_ context.Context, rp domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[rp.LandlordID] = rp
	return nil
}

func (r *Repo) LogMiss(_ context.Context, landlordID string, status int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses = append(r.misses, Miss{LandlordID: landlordID, Status: status, Reason: reason})
	return nil
}

// Misses returns a copy of the recorded ingestion misses.
func (r *Repo) Misses() []Miss {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Miss(nil), r.misses...)
}

// ListLandlords orders by name then id, like the MySQL repository.
func (r *Repo) ListLandlords(_ context.Context, q domain.LandlordsQuery) ([]domain.Landlord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Landlord, 0, len(r.landlords))
	for _, l := range r.landlords {
		if q.Region != nil && (l.Region == nil || *l.Region != *q.Region) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *Repo) GetLandlord(_ context.Context, id string) (domain.Landlord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.landlords[id]
	if !ok {
		return domain.Landlord{}, fmt.Errorf("landlord %s: %w", id, domain.ErrNotFound)
	}
	return l, nil
}

// ListReviewsForLandlord returns newest first, ties broken by id
// descending.
func (r *Repo) ListReviewsForLandlord(_ context.Context, id string) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]domain.Review(nil), r.reviews[id]...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

func (r *Repo) GetReport(_ context.Context, id string) (domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rp, ok := r.reports[id]
	if !ok {
		return domain.Report{}, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	return rp, nil
}
