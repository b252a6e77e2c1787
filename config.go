package procdoc

import (
	"fmt"

	"github.com/procdoc/procdoc/policy"
)

// Config holds the toolkit settings.
type Config struct {
	// MetaBaseURL is the base location relative document URLs resolve
	// against
	MetaBaseURL string `json:"metaBaseURL,omitempty" yaml:"metaBaseURL,omitempty"`

	// Concurrency is the audit worker count
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// Policy optionally filters validation rules for every run
	Policy *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// DefaultConfig returns the default toolkit settings.
func DefaultConfig() *Config {
	return &Config{Concurrency: 4}
}

// Validate checks config invariants.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative: %d", c.Concurrency)
	}
	if c.Policy != nil {
		switch c.Policy.Mode {
		case "", policy.ModeEnforce, policy.ModeAdvisory, policy.ModeOff:
		default:
			return fmt.Errorf("unsupported policy mode: %q", c.Policy.Mode)
		}
	}
	return nil
}

// Init fills defaults for zero-value settings.
func (c *Config) Init() {
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConfig().Concurrency
	}
}
