package scrape

// StartScrapeRequest starts a background scrape. An empty city lets the
// server pick one.
type StartScrapeRequest struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Limit   int    `json:"limit"`
	DryRun  bool   `json:"dryRun"`
}

type StartScrapeResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
	City   string `json:"city"`
}

type FixPhonesRequest struct {
	DryRun bool `json:"dryRun"`
}
