package tutor

import "time"

// Config tunes the tutor's requests.
type Config struct {
	ExplainMaxTokens int
	HintMaxTokens    int
	Temperature      float64

	// Timeout bounds a single explanation or hint.
	Timeout time.Duration

	// CacheSize is how many explanations are kept per Service.
	CacheSize int
}

func DefaultConfig() Config {
	return Config{
		ExplainMaxTokens: 512,
		HintMaxTokens:    128,
		Temperature:      0.2,
		Timeout:          30 * time.Second,
		CacheSize:        32,
	}
}
