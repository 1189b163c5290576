package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OTPSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_sends_total",
			Help: "Verification codes issued, by channel and result.",
		},
		[]string{"channel", "result"},
	)

	OTPConfirmsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_confirms_total",
			Help: "Verification code confirmations, by result.",
		},
		[]string{"result"},
	)

	ClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_claims_total",
			Help: "Listing ownership claims, by result.",
		},
		[]string{"result"},
	)

	ScrapeRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_runs_total",
			Help: "Scrape pipeline runs, by final status.",
		},
		[]string{"status"},
	)

	ScrapeImportedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scrape_imported_listings_total",
			Help: "Listings created by the scrape pipeline.",
		},
	)
)

// MustRegister registers every collector on the default registry. Call once.
func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		OTPSendsTotal,
		OTPConfirmsTotal,
		ClaimsTotal,
		ScrapeRunsTotal,
		ScrapeImportedTotal,
	)
}
