package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"persian-pages/constants"
	"persian-pages/httpServices/llm"
	"persian-pages/httpServices/places"
	"persian-pages/logger"
	"persian-pages/models/category"

	"golang.org/x/time/rate"
)

// Classification is the model's judgment of one place after validation.
type Classification struct {
	PlaceID      string `json:"placeId"`
	IsPersian    bool   `json:"isPersian"`
	Confidence   int    `json:"confidence"`
	CategorySlug string `json:"categorySlug"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Reason       string `json:"reason"`
}

// Accepted reports whether the place should be imported.
func (c Classification) Accepted() bool {
	return c.IsPersian && c.Confidence >= constants.MinImportConfidence
}

type rawClassification struct {
	PlaceID      string  `json:"placeId"`
	IsPersian    bool    `json:"isPersian"`
	Confidence   float64 `json:"confidence"`
	CategorySlug string  `json:"categorySlug"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Reason       string  `json:"reason"`
}

type promptBusiness struct {
	Index   int    `json:"index"`
	PlaceID string `json:"placeId"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

// Classifier asks an LLM which places are Persian businesses.
type Classifier struct {
	LLM       llm.Completer
	BatchSize int
	limiter   *rate.Limiter
}

func NewClassifier(completer llm.Completer, batchDelay time.Duration) *Classifier {
	return &Classifier{
		LLM:       completer,
		BatchSize: constants.ClassifyBatchSize,
		limiter:   newPacer(batchDelay),
	}
}

// Classify returns validated classifications keyed by place id. Batches that
// fail or return unparsable text are logged and skipped.
func (c *Classifier) Classify(ctx context.Context, candidates []places.Place) (map[string]Classification, error) {
	results := make(map[string]Classification)
	size := c.BatchSize
	if size <= 0 {
		size = constants.ClassifyBatchSize
	}

	for start := 0; start < len(candidates); start += size {
		end := start + size
		if end > len(candidates) {
			end = len(candidates)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return results, err
		}

		batch := candidates[start:end]
		prompt, err := BuildPrompt(batch)
		if err != nil {
			logger.Error("Failed to build classification prompt", err)
			continue
		}

		logger.Debug(fmt.Sprintf("Classifying batch %d-%d of %d", start, end, len(candidates)))
		text, err := c.LLM.Complete(ctx, prompt)
		if err != nil {
			logger.Error(fmt.Sprintf("Classification batch %d-%d failed", start, end), err)
			continue
		}

		parsed, err := ParseClassifications(text)
		if err != nil {
			logger.Error(fmt.Sprintf("Classification batch %d-%d returned unusable output", start, end), err)
			continue
		}
		inBatch := make(map[string]bool, len(batch))
		for _, p := range batch {
			inBatch[p.ID] = true
		}
		for _, cls := range parsed {
			if !inBatch[cls.PlaceID] {
				logger.Warning(fmt.Sprintf("Ignoring classification for unknown place %q", cls.PlaceID))
				continue
			}
			results[cls.PlaceID] = cls
		}
	}
	return results, nil
}

// BuildPrompt renders the classification request for one batch.
func BuildPrompt(batch []places.Place) (string, error) {
	businesses := make([]promptBusiness, 0, len(batch))
	for i, p := range batch {
		name := p.Name()
		if name == "" {
			name = "Unknown"
		}
		businesses = append(businesses, promptBusiness{
			Index:   i,
			PlaceID: p.ID,
			Name:    name,
			Address: p.FormattedAddress,
			Phone:   p.NationalPhoneNumber,
			Website: p.WebsiteURI,
		})
	}

	list, err := json.MarshalIndent(businesses, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are an expert at identifying Iranian/Persian businesses in diaspora communities.\n\n")
	b.WriteString("Analyze each business below and determine:\n")
	b.WriteString("1. Is this an Iranian/Persian-owned business? (isPersian: true/false)\n")
	b.WriteString("2. How confident are you? (confidence: 1-5, where 5 = definitely Persian)\n")
	fmt.Fprintf(&b, "3. What category does it belong to? (categorySlug: one of %s)\n", strings.Join(category.Slugs, ", "))
	b.WriteString("4. Write a Persian title for the business (title: in Farsi script)\n")
	b.WriteString("5. Write a 1-2 sentence Persian description (description: in Farsi script, describing what the business offers)\n")
	b.WriteString("6. Brief English reason for your classification (reason: string)\n\n")
	b.WriteString("Businesses:\n")
	b.Write(list)
	b.WriteString("\n\nRespond with ONLY a JSON array of objects, one per business, in the same order. Each object must have these exact fields:\n")
	b.WriteString(`{ "placeId": string, "isPersian": boolean, "confidence": number, "categorySlug": string, "title": string, "description": string, "reason": string }`)
	return b.String(), nil
}

// ParseClassifications extracts the first JSON array from text and validates
// each entry: rows without a place id are dropped, confidence is clamped to
// 1..5 and unknown categories fall back to services.
func ParseClassifications(text string) ([]Classification, error) {
	array, ok := llm.ExtractJSONArray(text)
	if !ok {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var raw []rawClassification
	if err := json.Unmarshal([]byte(array), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode classifications: %w", err)
	}

	out := make([]Classification, 0, len(raw))
	for _, r := range raw {
		placeID := strings.TrimSpace(r.PlaceID)
		if placeID == "" {
			continue
		}
		slug := strings.TrimSpace(r.CategorySlug)
		if !category.IsKnownSlug(slug) {
			slug = category.FallbackSlug
		}
		out = append(out, Classification{
			PlaceID:      placeID,
			IsPersian:    r.IsPersian,
			Confidence:   clampConfidence(r.Confidence),
			CategorySlug: slug,
			Title:        strings.TrimSpace(r.Title),
			Description:  strings.TrimSpace(r.Description),
			Reason:       r.Reason,
		})
	}
	return out, nil
}

func clampConfidence(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}
