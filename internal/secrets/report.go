package secrets

import (
	"sort"
	"time"
)

// Report describes what a scrub found. It never contains matched text.
type Report struct {
	Findings      []Finding      `json:"findings,omitempty"`
	TotalFindings int            `json:"total_findings"`
	ByRule        map[string]int `json:"by_rule,omitempty"`
	Duration      time.Duration  `json:"duration"`
	// Errors lists detector failures. Rule-based scrubbing still ran.
	Errors []string `json:"errors,omitempty"`
}

// Finding is one redacted secret.
type Finding struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	// Path locates the string, e.g. $.users[0].token.
	Path string `json:"path"`
}

func newReport() *Report {
	return &Report{
		Findings: make([]Finding, 0),
		ByRule:   make(map[string]int),
	}
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
	r.ByRule[f.RuleID]++
	r.TotalFindings++
}

// HasFindings returns true if any secrets were found.
func (r *Report) HasFindings() bool {
	return r.TotalFindings > 0
}

// RuleIDs returns the matched rule IDs in sorted order.
func (r *Report) RuleIDs() []string {
	ids := make([]string, 0, len(r.ByRule))
	for id := range r.ByRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Summary returns a brief description of the findings.
func (r *Report) Summary() string {
	if !r.HasFindings() {
		return "no secrets detected"
	}
	for _, severity := range []string{"high", "medium", "low"} {
		for _, f := range r.Findings {
			if f.Severity == severity {
				return "secrets redacted (" + severity + " severity)"
			}
		}
	}
	return "secrets redacted"
}
