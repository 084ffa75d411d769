// internal/workers/matching/rank-candidates/config.go
package rankcandidates

import "time"

type Config struct {
	// DefaultTopN applies when the job does not set topN. 0 returns every candidate.
	DefaultTopN int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultTopN: 20,
		Timeout:     30 * time.Second,
	}
}
