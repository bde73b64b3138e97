package lint

import "fmt"

// Config controls which rules are enabled and their severity. The core
// queries it; loading from files is the host's concern.
type Config struct {
	// DisabledRules contains rule IDs to skip.
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules.
	SeverityOverrides map[string]Severity
}

// ConfigError reports a configuration entry naming an unknown rule. The
// entry is ignored; analysis proceeds with the remaining configuration.
type ConfigError struct {
	RuleID string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config references unknown rule %q", e.RuleID)
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// Validate returns one ConfigError per referenced rule ID the catalog
// does not know. Callers report these once and proceed.
func (c *Config) Validate(catalog Catalog) []error {
	if c == nil {
		return nil
	}
	var errs []error
	seen := make(map[string]bool)
	check := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if _, ok := catalog.Get(id); !ok {
			errs = append(errs, &ConfigError{RuleID: id})
		}
	}
	for id := range c.DisabledRules {
		check(id)
	}
	for id := range c.SeverityOverrides {
		check(id)
	}
	return errs
}
