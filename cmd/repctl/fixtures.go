package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"landlord_rep/internal/domain"
)

type fixtureFile struct {
	Landlords []fixtureLandlord `yaml:"landlords"`
}

type fixtureLandlord struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Entity   *string         `yaml:"entity"`
	Address  fixtureAddress  `yaml:"address"`
	Region   *string         `yaml:"region"`
	Coords   *domain.Coords  `yaml:"coords"`
	Verified bool            `yaml:"verified"`
	Top      bool            `yaml:"top"`
	Reviews  []fixtureReview `yaml:"reviews"`
}

type fixtureAddress struct {
	Street string  `yaml:"street"`
	Unit   *string `yaml:"unit"`
	City   string  `yaml:"city"`
	State  string  `yaml:"state"`
}

// fixtureReview dates a review either absolutely (created_at) or
// relative to the evaluation time (days_ago).
type fixtureReview struct {
	ID        string    `yaml:"id"`
	Stars     int       `yaml:"stars"`
	Body      string    `yaml:"body"`
	CreatedAt time.Time `yaml:"created_at"`
	DaysAgo   *int      `yaml:"days_ago"`
}

// findFixtures expands doublestar patterns relative to root. Results are
// de-duplicated and sorted.
func findFixtures(root string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range patterns {
		matches, err := doublestar.Glob(os.DirFS(root), p)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", p, err)
		}
		for _, m := range matches {
			full := filepath.Join(root, m)
			if !seen[full] {
				seen[full] = true
				out = append(out, full)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func readFixtures(paths []string) ([]fixtureLandlord, error) {
	var all []fixtureLandlord
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var f fixtureFile
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		all = append(all, f.Landlords...)
	}
	return all, nil
}

// loadFixtures appends landlords and their reviews to repo. Reviews are
// stored as given; star values are not validated so malformed data shows
// up as excluded in the summary.
func loadFixtures(ctx context.Context, repo domain.DirectoryRepository, fx []fixtureLandlord, now time.Time) (landlords, reviews int, err error) {
	for _, fl := range fx {
		l := domain.Landlord{
			ID:     fl.ID,
			Name:   fl.Name,
			Entity: fl.Entity,
			Address: domain.Address{
				Street: fl.Address.Street,
				Unit:   fl.Address.Unit,
				City:   fl.Address.City,
				State:  fl.Address.State,
			},
			Region:    fl.Region,
			Coords:    fl.Coords,
			Verified:  fl.Verified,
			Top:       fl.Top,
			CreatedAt: now,
		}
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		if err := repo.AppendLandlord(ctx, l); err != nil {
			return landlords, reviews, fmt.Errorf("landlord %q: %w", fl.Name, err)
		}
		landlords++

		for _, fr := range fl.Reviews {
			r := domain.Review{
				ID:         fr.ID,
				LandlordID: l.ID,
				Stars:      fr.Stars,
				Body:       fr.Body,
				CreatedAt:  fr.CreatedAt,
			}
			if fr.DaysAgo != nil {
				r.CreatedAt = now.AddDate(0, 0, -*fr.DaysAgo)
			}
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
			if err := repo.AppendReview(ctx, r); err != nil {
				return landlords, reviews, fmt.Errorf("review for %q: %w", fl.Name, err)
			}
			reviews++
		}
	}
	return landlords, reviews, nil
}
