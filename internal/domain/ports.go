package domain

import (
	"context"
	"time"
)

type DirectoryRepository interface {
	// Write paths
	AppendLandlord(ctx context.Context, l Landlord) error
	AppendReview(ctx context.Context, r Review) error
	UpsertReport(ctx context.Context, rp Report) error
	LogMiss(ctx context.Context, landlordID string, status int, reason string) error

	// Read paths
	ListLandlords(ctx context.Context, q LandlordsQuery) ([]Landlord, error)
	GetLandlord(ctx context.Context, id string) (Landlord, error)
	ListReviewsForLandlord(ctx context.Context, id string) ([]Review, error)
	GetReport(ctx context.Context, id string) (Report, error)
}

type ReportsClient interface {
	GetReport(ctx context.Context, landlordID string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Queries
type LandlordsQuery struct {
	Region *string
	Limit  int
}

type PageQuery struct {
	Limit int
}
