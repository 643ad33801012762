package fx

import "time"

// Rate sources reported on resolved rates and in metrics.
const (
	SourceIdentity = "identity"
	SourceCache    = "cache"
	SourceStore    = "store"

	ProviderExchangeRateAPI = "exchangerate-api"
)

// Provider attempt results.
const (
	AttemptSuccess = "success"
	AttemptFailure = "failure"
)

const (
	DefaultRateValidity = 5 * time.Minute
	DefaultMaxAttempts  = 3
	DefaultBaseDelay    = 500 * time.Millisecond
	DefaultHTTPTimeout  = 10 * time.Second
	DefaultLoadTimeout  = 35 * time.Second

	// RateScale is the number of fractional digits kept on rates and converted amounts.
	RateScale = 8
)
