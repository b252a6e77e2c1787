// Package policy provides a simple, optional per-rule filtering layer that
// can be attached to a validation run via context.  It is deliberately
// decoupled from the validator so that using it is entirely opt-in – callers
// that do not embed a Policy in their context keep the default "enforce
// everything" behaviour.
package policy

import (
	"context"
	"strings"
)

// Validation modes recognised by the validator.
const (
	ModeEnforce  = "enforce"  // report violations at their declared severity (default)
	ModeAdvisory = "advisory" // demote every violation to a warning
	ModeOff      = "off"      // skip all rules
)

// Policy represents the rule-filtering settings for the current validation
// run.
//
//   - Mode controls the high-level behaviour (enforce / advisory / off).
//   - AllowList, BlockList filter rules by name regardless of Mode.
//
// A nil *Policy means "enforce every rule" and is therefore the zero-cost
// default.
type Policy struct {
	Mode      string   // enforce / advisory / off   (default = enforce)
	AllowList []string // whitelist (empty => all rules)
	BlockList []string // blacklist
}

// Config is the serialisable representation of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsEnabled evaluates AllowList / BlockList for the given rule name.  Both
// lists match by exact, case-insensitive comparison.
func (p *Policy) IsEnabled(rule string) bool {
	if p == nil {
		return true
	}
	if p.Mode == ModeOff {
		return false
	}

	normalized := strings.ToLower(rule)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}

	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// IsAdvisory reports whether violations should be demoted to warnings.
func (p *Policy) IsAdvisory() bool {
	return p != nil && p.Mode == ModeAdvisory
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds the policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
