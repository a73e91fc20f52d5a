package secrets

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
)

// Scrubber redacts secrets from JSON values.
type Scrubber interface {
	// ScrubValue returns a copy of v with secrets in string values
	// redacted. Field names and non-string values are never changed.
	ScrubValue(v jsontree.Value) (jsontree.Value, *Report)

	// ScrubString redacts rule matches in a single string.
	ScrubString(s string) (string, []string)

	// IsEnabled returns whether scrubbing is enabled.
	IsEnabled() bool
}

type scrubber struct {
	config *Config
}

// redaction is a byte range to replace.
type redaction struct {
	start, end int
}

// New creates a Scrubber. A nil config uses DefaultConfig.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &scrubber{config: cfg}, nil
}

// MustNew is New that panics on an invalid configuration.
func MustNew(cfg *Config) Scrubber {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *scrubber) IsEnabled() bool {
	return s.config.Enabled
}

func (s *scrubber) ScrubValue(v jsontree.Value) (jsontree.Value, *Report) {
	start := time.Now()
	report := newReport()
	if !s.config.Enabled {
		report.Duration = time.Since(start)
		return v, report
	}
	det, err := s.detector()
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	out := s.walk(v, "$", false, det, report)
	report.Duration = time.Since(start)
	return out, report
}

// detector returns a fresh gitleaks detector when gitleaks scanning is on.
// A detector accumulates findings, so one is used per document.
func (s *scrubber) detector() (*detect.Detector, error) {
	if !s.config.Gitleaks {
		return nil, nil
	}
	det, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("creating gitleaks detector: %w", err)
	}
	return det, nil
}

func (s *scrubber) walk(v jsontree.Value, path string, sensitive bool, det *detect.Detector, report *Report) jsontree.Value {
	switch v.Kind() {
	case jsontree.KindString:
		if sensitive {
			if v.Str() == "" || s.isAllowed(v.Str()) {
				return v
			}
			report.add(Finding{
				RuleID:      SensitiveFieldRuleID,
				Description: "Value of sensitive field",
				Severity:    "high",
				Path:        path,
			})
			return jsontree.String(s.config.RedactionString)
		}
		scrubbed, rules := s.scrub(v.Str(), det)
		for _, id := range rules {
			rule := s.rule(id)
			report.add(Finding{RuleID: id, Description: rule.Description, Severity: rule.Severity, Path: path})
		}
		if len(rules) == 0 {
			return v
		}
		return jsontree.String(scrubbed)

	case jsontree.KindArray:
		items := make([]jsontree.Value, v.Len())
		for i, item := range v.Items() {
			items[i] = s.walk(item, path+"["+strconv.Itoa(i)+"]", sensitive, det, report)
		}
		return jsontree.Array(items...)

	case jsontree.KindObject:
		fields := make([]jsontree.Field, v.Len())
		for i, f := range v.Fields() {
			fields[i] = jsontree.Field{
				Name:  f.Name,
				Value: s.walk(f.Value, childPath(path, f.Name), sensitive || s.isSensitiveField(f.Name), det, report),
			}
		}
		return jsontree.Object(fields...)

	default:
		return v
	}
}

// ScrubString replaces every rule match in content and returns the IDs of
// the rules that matched, once per match.
func (s *scrubber) ScrubString(content string) (string, []string) {
	if !s.config.Enabled {
		return content, nil
	}
	det, _ := s.detector()
	return s.scrub(content, det)
}

func (s *scrubber) scrub(content string, det *detect.Detector) (string, []string) {
	var (
		redactions []redaction
		matched    []string
	)
	for _, rule := range s.config.compiledRules {
		for _, m := range rule.pattern.FindAllStringIndex(content, -1) {
			if s.isAllowed(content[m[0]:m[1]]) {
				continue
			}
			redactions = append(redactions, redaction{start: m[0], end: m[1]})
			matched = append(matched, rule.ID)
		}
	}
	if det != nil {
		for _, f := range det.DetectString(content) {
			if f.Secret == "" || s.isAllowed(f.Secret) {
				continue
			}
			for _, start := range indexAll(content, f.Secret) {
				redactions = append(redactions, redaction{start: start, end: start + len(f.Secret)})
				matched = append(matched, GitleaksRulePrefix+f.RuleID)
			}
		}
	}
	if len(redactions) == 0 {
		return content, nil
	}

	merged := mergeRedactions(redactions)
	var b strings.Builder
	last := 0
	for _, r := range merged {
		b.WriteString(content[last:r.start])
		b.WriteString(s.config.RedactionString)
		last = r.end
	}
	b.WriteString(content[last:])
	return b.String(), matched
}

func (s *scrubber) rule(id string) Rule {
	for _, r := range s.config.compiledRules {
		if r.ID == id {
			return r.Rule
		}
	}
	if strings.HasPrefix(id, GitleaksRulePrefix) {
		return Rule{ID: id, Description: "Detected by gitleaks", Severity: "high"}
	}
	return Rule{ID: id}
}

// indexAll returns the start offset of every non-overlapping occurrence of
// sub in s.
func indexAll(s, sub string) []int {
	var starts []int
	for off := 0; ; {
		i := strings.Index(s[off:], sub)
		if i < 0 {
			return starts
		}
		starts = append(starts, off+i)
		off += i + len(sub)
	}
}

func (s *scrubber) isSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, frag := range s.config.sensitiveFields {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

func (s *scrubber) isAllowed(match string) bool {
	for _, pattern := range s.config.compiledAllowList {
		if pattern.MatchString(match) {
			return true
		}
	}
	return false
}

// mergeRedactions sorts redactions by start and merges overlapping or
// adjacent ranges.
func mergeRedactions(redactions []redaction) []redaction {
	sort.Slice(redactions, func(i, j int) bool {
		return redactions[i].start < redactions[j].start
	})

	merged := []redaction{redactions[0]}
	for _, curr := range redactions[1:] {
		last := &merged[len(merged)-1]
		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
			continue
		}
		merged = append(merged, curr)
	}
	return merged
}

// childPath appends an object member to a JSON path, quoting names that
// are not plain identifiers.
func childPath(parent, name string) string {
	if isIdentifier(name) {
		return parent + "." + name
	}
	return parent + "[" + strconv.Quote(name) + "]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// NoopScrubber leaves values unchanged.
type NoopScrubber struct{}

// ScrubValue returns v unchanged with an empty report.
func (NoopScrubber) ScrubValue(v jsontree.Value) (jsontree.Value, *Report) {
	return v, newReport()
}

// ScrubString returns s unchanged.
func (NoopScrubber) ScrubString(s string) (string, []string) {
	return s, nil
}

// IsEnabled returns false.
func (NoopScrubber) IsEnabled() bool {
	return false
}

var (
	_ Scrubber = (*scrubber)(nil)
	_ Scrubber = NoopScrubber{}
)
