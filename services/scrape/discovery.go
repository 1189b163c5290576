package scrape

import (
	"context"
	"fmt"
	"time"

	"persian-pages/httpServices/places"
	"persian-pages/logger"

	"golang.org/x/time/rate"
)

var (
	SearchPrefixes = []string{"Iranian", "Persian"}
	SearchTerms    = []string{
		"restaurant", "grocery", "market", "doctor", "dentist", "lawyer",
		"realtor", "beauty salon", "mechanic", "bakery", "accounting", "insurance",
	}
)

// PlaceSearcher runs one text search against the places provider.
type PlaceSearcher interface {
	SearchText(ctx context.Context, query string) ([]places.Place, error)
}

// Discoverer fans the search terms out over a city one query at a time.
type Discoverer struct {
	Searcher PlaceSearcher
	limiter  *rate.Limiter
}

func NewDiscoverer(searcher PlaceSearcher, delay time.Duration) *Discoverer {
	return &Discoverer{Searcher: searcher, limiter: newPacer(delay)}
}

// Queries returns every search query for city.
func Queries(city string) []string {
	queries := make([]string, 0, len(SearchTerms)*len(SearchPrefixes))
	for _, term := range SearchTerms {
		for _, prefix := range SearchPrefixes {
			queries = append(queries, fmt.Sprintf("%s %s in %s", prefix, term, city))
		}
	}
	return queries
}

// Discover returns the unique places found for city in first-seen order. A
// failed query is logged and contributes nothing.
func (d *Discoverer) Discover(ctx context.Context, city string) ([]places.Place, error) {
	seen := make(map[string]struct{})
	var found []places.Place

	for _, query := range Queries(city) {
		if err := d.limiter.Wait(ctx); err != nil {
			return found, err
		}

		results, err := d.Searcher.SearchText(ctx, query)
		if err != nil {
			logger.Error(fmt.Sprintf("Place search failed for %q", query), err)
			continue
		}
		for _, p := range results {
			if p.ID == "" {
				continue
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			found = append(found, p)
		}
	}
	return found, nil
}

// newPacer allows one call per delay. A non-positive delay disables pacing.
func newPacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
