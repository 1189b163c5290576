package constants

import "time"

// Verification policy
const (
	OTPTTL              = 5 * time.Minute
	OTPMaxAttempts      = 5
	OTPSendWindow       = 10 * time.Minute
	OTPMaxSendsInWindow = 3
	ClaimTokenTTL       = 15 * time.Minute
	ClaimTokenIssuer    = "persian-pages/verification"
)

// Scrape policy
const (
	MinImportConfidence   = 4
	ClassifyBatchSize     = 8
	DefaultAPIScrapeLimit = 10
	DefaultCLIScrapeLimit = 30
	SlugMaxLength         = 80
	MaxSlugProbes         = 1000
	MaxInsertRetries      = 5
)

// Listing sources
const (
	SourceUser    = "user"
	SourceScraped = "scraped"
)

// Delivery channels
const (
	ChannelSMS  = "sms"
	ChannelCall = "call"
)

// Scrape job states
const (
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

const ScrapeKeyHeader = "X-Scrape-Key"
