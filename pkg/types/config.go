package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to the E-utilities API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent" validate:"required"`

	// RateLimit is the sustained request rate in requests per second.
	// NCBI allows 3 req/s without an API key and 10 req/s with one.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit" validate:"gt=0"`

	// RateBurst is the token bucket size for RateLimit.
	RateBurst int `json:"rate_burst" yaml:"rate_burst" mapstructure:"rate_burst" validate:"min=1"`
}

// FetchConfig holds settings for the search and detail-fetch stages.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities base URL, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// APIKey is an optional NCBI API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Email and Tool identify the caller to NCBI. Both are optional.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email" validate:"omitempty,email"`
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`

	// MaxResults caps the number of identifiers returned by the search (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"min=1,max=10000"`

	// BatchSize is the number of identifiers fetched per efetch request (default 50).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size" validate:"min=1"`

	// BatchDelay is the pause between consecutive efetch requests (default 500ms).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay" mapstructure:"batch_delay" validate:"gte=0"`
}

// Defaults for FetchConfig.
const (
	DefaultBaseURL    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultUserAgent  = "pubmed-fetcher/0.1 (research paper fetcher)"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 3.0
	DefaultRateBurst  = 3
	DefaultMaxResults = 100
	DefaultBatchSize  = 50
	DefaultBatchDelay = 500 * time.Millisecond
)

// DefaultFetchConfig returns a FetchConfig populated with the defaults above.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
			RateLimit: DefaultRateLimit,
			RateBurst: DefaultRateBurst,
		},
		BaseURL:    DefaultBaseURL,
		MaxResults: DefaultMaxResults,
		BatchSize:  DefaultBatchSize,
		BatchDelay: DefaultBatchDelay,
	}
}
