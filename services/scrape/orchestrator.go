package scrape

import (
	"context"
	"fmt"
	"time"

	"persian-pages/config"
	"persian-pages/constants"
	"persian-pages/httpServices/llm"
	"persian-pages/httpServices/places"
	"persian-pages/logger"
	"persian-pages/metrics"
	"persian-pages/models/scrape"

	"gorm.io/gorm"
)

type Options struct {
	City    string `json:"city"`
	Country string `json:"country"`
	DryRun  bool   `json:"dryRun"`
	Limit   int    `json:"limit"`
}

type Result struct {
	City           string   `json:"city"`
	GoogleResults  int      `json:"googleResults"`
	AlreadyInDB    int      `json:"alreadyInDb"`
	Classified     int      `json:"classified"`
	Persian        int      `json:"persian"`
	HighConfidence int      `json:"highConfidence"`
	Imported       int      `json:"imported"`
	Filtered       int      `json:"filtered"`
	Listings       []string `json:"listings"`
}

// Pipeline runs discovery, dedup, classification and import for one city.
// A nil Discoverer or Classifier means the matching credential is missing.
type Pipeline struct {
	DB         *gorm.DB
	Discoverer *Discoverer
	Classifier *Classifier
	Importer   *Importer
}

func NewPipeline(db *gorm.DB, searcher PlaceSearcher, completer llm.Completer, cfg config.Config) *Pipeline {
	p := &Pipeline{
		DB:       db,
		Importer: &Importer{DB: db},
	}
	if searcher != nil {
		p.Discoverer = NewDiscoverer(searcher, cfg.PlacesDelay)
	}
	if completer != nil {
		p.Classifier = NewClassifier(completer, cfg.LLMBatchDelay)
	}
	return p
}

// NewPipelineFromConfig wires the Places and Gemini clients for whichever
// API keys are present.
func NewPipelineFromConfig(ctx context.Context, db *gorm.DB, cfg config.Config) (*Pipeline, error) {
	var searcher PlaceSearcher
	if cfg.PlacesAPIKey != "" {
		searcher = places.NewClient("", cfg.PlacesAPIKey)
	}

	var completer llm.Completer
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		completer = gemini
	}
	return NewPipeline(db, searcher, completer, cfg), nil
}

// Run scrapes one city. In dry-run mode nothing is written and Imported and
// Filtered stay zero.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	result, err := p.run(ctx, opts)
	switch {
	case err != nil:
		metrics.ScrapeRunsTotal.WithLabelValues(constants.JobFailed).Inc()
	case opts.DryRun:
		metrics.ScrapeRunsTotal.WithLabelValues("dry_run").Inc()
	default:
		metrics.ScrapeRunsTotal.WithLabelValues(constants.JobCompleted).Inc()
	}
	return result, err
}

func (p *Pipeline) run(ctx context.Context, opts Options) (*Result, error) {
	if p.Discoverer == nil {
		return nil, ErrMissingPlacesKey
	}
	if p.Classifier == nil {
		return nil, ErrMissingLLMKey
	}

	city, err := p.ResolveCity(ctx, opts)
	if err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = constants.DefaultAPIScrapeLimit
	}

	mode := "LIVE"
	if opts.DryRun {
		mode = "DRY RUN"
	}
	logger.Info(fmt.Sprintf("=== Scraping: %s (%s), %s | mode: %s, limit: %d ===", city.NameEn, city.Name, city.Country, mode, limit))

	result := &Result{City: city.NameEn, Listings: []string{}}

	found, err := p.Discoverer.Discover(ctx, city.NameEn)
	if err != nil {
		return nil, fmt.Errorf("discovery for %s: %w", city.NameEn, err)
	}
	result.GoogleResults = len(found)
	logger.Info(fmt.Sprintf("Found %d unique places", len(found)))
	if len(found) == 0 {
		return result, nil
	}

	fresh, already, err := Dedup(ctx, p.DB, found)
	if err != nil {
		return nil, err
	}
	result.AlreadyInDB = already
	logger.Info(fmt.Sprintf("Dedup: %d total, %d already in DB, %d new", len(found), already, len(fresh)))
	if len(fresh) == 0 {
		return result, nil
	}

	classifications, err := p.Classifier.Classify(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("classification for %s: %w", city.NameEn, err)
	}
	result.Classified = len(classifications)
	for _, cls := range classifications {
		if cls.IsPersian {
			result.Persian++
		}
		if cls.Accepted() {
			result.HighConfidence++
		}
	}
	logger.Info(fmt.Sprintf("Classified %d businesses, %d Persian, %d high confidence", result.Classified, result.Persian, result.HighConfidence))

	if opts.DryRun {
		logger.Info("=== DRY RUN, no imports ===")
		return result, nil
	}

	imported, err := p.Importer.Import(ctx, fresh, classifications, city, limit)
	if err != nil {
		return nil, err
	}
	result.Imported = imported.Imported
	result.Filtered = imported.Filtered
	if imported.Listings != nil {
		result.Listings = imported.Listings
	}

	if err := p.DB.WithContext(ctx).Create(&scrape.Run{City: city.NameEn, Imported: result.Imported}).Error; err != nil {
		logger.Error("Failed to record scrape run", err)
	}

	logger.Success(fmt.Sprintf("=== Summary: %s | google: %d, already in DB: %d, classified: %d, persian: %d, high confidence: %d, imported: %d, filtered: %d ===",
		result.City, result.GoogleResults, result.AlreadyInDB, result.Classified, result.Persian,
		result.HighConfidence, result.Imported, result.Filtered))
	return result, nil
}

// ResolveCity returns the named city, or picks one: cities are taken in
// priority order, never-scraped first, then least recently scraped.
func (p *Pipeline) ResolveCity(ctx context.Context, opts Options) (City, error) {
	if opts.City != "" {
		city, ok := FindCity(opts.City)
		if !ok {
			return City{}, fmt.Errorf("%w: %q", ErrUnknownCity, opts.City)
		}
		return city, nil
	}

	candidates := CandidateCities(opts.Country)
	if len(candidates) == 0 {
		return City{}, ErrNoCities
	}

	var runs []scrape.Run
	if err := p.DB.WithContext(ctx).Order("created_at ASC").Find(&runs).Error; err != nil {
		return City{}, fmt.Errorf("failed to load scrape runs: %w", err)
	}
	lastRun := make(map[string]time.Time, len(runs))
	for _, r := range runs {
		lastRun[r.City] = r.CreatedAt
	}

	best := candidates[0]
	bestAt, bestSeen := lastRun[best.NameEn]
	for _, c := range candidates {
		at, seen := lastRun[c.NameEn]
		if !seen {
			return c, nil
		}
		if bestSeen && at.Before(bestAt) {
			best, bestAt = c, at
		}
	}
	return best, nil
}
