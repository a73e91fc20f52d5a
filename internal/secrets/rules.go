package secrets

// SensitiveFieldRuleID is reported for values under sensitive field names.
const SensitiveFieldRuleID = "sensitive-field"

// GitleaksRulePrefix prefixes rule IDs of findings from the gitleaks
// detector.
const GitleaksRulePrefix = "gitleaks:"

// DefaultSensitiveFields returns field name fragments whose values are
// always redacted.
func DefaultSensitiveFields() []string {
	return []string{
		"password",
		"passwd",
		"secret",
		"token",
		"api_key",
		"apikey",
		"authorization",
		"private_key",
		"credential",
	}
}

// DefaultRules returns rules for secrets that identify themselves by
// prefix or structure and can appear in any string.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "aws-access-key-id",
			Description: "AWS Access Key ID",
			Pattern:     `\b(?:A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}\b`,
			Severity:    "high",
		},
		{
			ID:          "private-key",
			Description: "Private Key",
			Pattern:     `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY(?:[- ]BLOCK)?-----`,
			Severity:    "high",
		},
		{
			ID:          "github-token",
			Description: "GitHub Token",
			Pattern:     `\b(?:ghp|gho|ghu|ghs)_[A-Za-z0-9]{36}\b`,
			Severity:    "high",
		},
		{
			ID:          "github-fine-grained",
			Description: "GitHub Fine-grained Personal Access Token",
			Pattern:     `github_pat_[A-Za-z0-9_]{22,}`,
			Severity:    "high",
		},
		{
			ID:          "gitlab-token",
			Description: "GitLab Personal Access Token",
			Pattern:     `glpat-[A-Za-z0-9\-]{20,}`,
			Severity:    "high",
		},
		{
			ID:          "slack-token",
			Description: "Slack Token",
			Pattern:     `xox[baprs]-[A-Za-z0-9\-]{10,}`,
			Severity:    "high",
		},
		{
			ID:          "stripe-key",
			Description: "Stripe API Key",
			Pattern:     `(?:sk|pk|rk)_(?:live|test)_[A-Za-z0-9]{24,}`,
			Severity:    "high",
		},
		{
			ID:          "google-api-key",
			Description: "Google API Key",
			Pattern:     `AIza[A-Za-z0-9_\-]{35}`,
			Severity:    "high",
		},
		{
			ID:          "anthropic-api-key",
			Description: "Anthropic API Key",
			Pattern:     `sk-ant-[A-Za-z0-9_\-]{90,}`,
			Severity:    "high",
		},
		{
			ID:          "openai-api-key",
			Description: "OpenAI API Key",
			Pattern:     `sk-(?:proj-)?[A-Za-z0-9]{48,}`,
			Severity:    "high",
		},
		{
			ID:          "sendgrid-api-key",
			Description: "SendGrid API Key",
			Pattern:     `SG\.[A-Za-z0-9_\-]{22,}\.[A-Za-z0-9_\-]{43,}`,
			Severity:    "high",
		},
		{
			ID:          "npm-token",
			Description: "npm Access Token",
			Pattern:     `npm_[A-Za-z0-9]{36}`,
			Severity:    "high",
		},
		{
			ID:          "database-url",
			Description: "Connection URL with credentials",
			Pattern:     `(?i)\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^:/\s]+:[^@\s]+@[^\s"]+`,
			Severity:    "high",
		},
		{
			ID:          "jwt",
			Description: "JSON Web Token",
			Pattern:     `eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`,
			Severity:    "medium",
		},
		{
			ID:          "bearer-token",
			Description: "Bearer Token",
			Pattern:     `(?i)\bbearer\s+[A-Za-z0-9_\-\.=]{20,}`,
			Severity:    "medium",
		},
	}
}
