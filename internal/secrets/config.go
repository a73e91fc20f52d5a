package secrets

import (
	"fmt"
	"regexp"
	"strings"
)

// Config configures the scrubber.
type Config struct {
	// Enabled controls whether scrubbing is active.
	Enabled bool `koanf:"enabled"`

	// Rules are matched against every string value.
	Rules []Rule `koanf:"rules"`

	// SensitiveFields are case-insensitive substrings of field names whose
	// string values are redacted whole.
	SensitiveFields []string `koanf:"sensitive_fields"`

	// RedactionString replaces detected secrets (default: "[REDACTED]").
	RedactionString string `koanf:"redaction_string"`

	// AllowList contains patterns for matches that are left alone.
	AllowList []string `koanf:"allow_list"`

	// Gitleaks additionally scans string values with the gitleaks default
	// rule set. Findings are reported as "gitleaks:<rule-id>".
	Gitleaks bool `koanf:"gitleaks"`

	compiledRules     []*compiledRule
	compiledAllowList []*regexp.Regexp
	sensitiveFields   []string
}

// Rule defines a secret detection rule.
type Rule struct {
	ID          string `koanf:"id"`
	Description string `koanf:"description"`
	Pattern     string `koanf:"pattern"`
	// Severity is high, medium or low.
	Severity string `koanf:"severity"`
}

type compiledRule struct {
	Rule
	pattern *regexp.Regexp
}

// DefaultConfig returns an enabled configuration with the default rules and
// sensitive field names.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Rules:           DefaultRules(),
		SensitiveFields: DefaultSensitiveFields(),
		RedactionString: "[REDACTED]",
		AllowList:       []string{},
	}
}

// Validate checks and compiles the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.RedactionString == "" {
		c.RedactionString = "[REDACTED]"
	}

	c.compiledRules = make([]*compiledRule, 0, len(c.Rules))
	for i, rule := range c.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule %d: ID is required", i)
		}
		if rule.Pattern == "" {
			return fmt.Errorf("rule %s: pattern is required", rule.ID)
		}
		pattern, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("rule %s: invalid pattern: %w", rule.ID, err)
		}
		c.compiledRules = append(c.compiledRules, &compiledRule{Rule: rule, pattern: pattern})
	}

	c.compiledAllowList = make([]*regexp.Regexp, 0, len(c.AllowList))
	for i, pattern := range c.AllowList {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("allow_list %d: invalid pattern: %w", i, err)
		}
		c.compiledAllowList = append(c.compiledAllowList, compiled)
	}

	c.sensitiveFields = make([]string, 0, len(c.SensitiveFields))
	for _, name := range c.SensitiveFields {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return fmt.Errorf("sensitive_fields: empty field name")
		}
		c.sensitiveFields = append(c.sensitiveFields, name)
	}

	return nil
}
