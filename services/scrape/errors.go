package scrape

import "errors"

var (
	ErrMissingPlacesKey = errors.New("missing GOOGLE_PLACES_API_KEY")
	ErrMissingLLMKey    = errors.New("missing GEMINI_API_KEY")
	ErrUnknownCity      = errors.New("city not found")
	ErrNoCities         = errors.New("no cities available")
	ErrJobNotFound      = errors.New("job not found")
)
