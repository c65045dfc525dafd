// Package safety screens user input before it reaches the model and scrubs
// model output before it leaves the service.
package safety

import "strings"

// RefusalMessage is returned verbatim for any blocked request.
const RefusalMessage = "I cannot assist with this request. " +
	"I'm designed to provide product information only and cannot help with " +
	"unauthorized access, hacking, or requests involving sensitive credentials."

// Verdict is the outcome of an input check. Reason is only set when
// Malicious is true.
type Verdict struct {
	Malicious bool
	Reason    string
}

// Classifier decides whether a user message should be refused outright.
type Classifier interface {
	Check(text string) Verdict
}

// Pattern pairs a lowercase substring with the reason reported when it
// matches.
type Pattern struct {
	Keyword string `yaml:"keyword"`
	Reason  string `yaml:"reason"`
}

// DefaultPatterns is the built-in blocklist. First match wins, so broader
// keywords sit before their specialisations.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{"hack", "unauthorized access attempts"},
		{"password", "attempting to access credentials"},
		{"credit card", "requesting sensitive financial data"},
		{"bank", "banking credential requests"},
		{"login", "login credential requests"},
		{"bypass", "security bypass attempts"},
		{"exploit", "exploitation attempts"},
		{"ddos", "denial of service attempts"},
		{"steal", "data theft attempts"},
		{"token", "authentication token requests"},
		{"api key", "API key theft attempts"},
		{"credentials", "credential theft attempts"},
		{"drop table", "SQL injection attempts"},
		{"' or '1'='1", "SQL injection attempts"},
		{"rm -rf", "destructive system commands"},
		{"delete *", "destructive operations"},
	}
}

// KeywordClassifier matches case-insensitive substrings against a pattern
// list.
type KeywordClassifier struct {
	patterns []Pattern
}

// NewKeywordClassifier builds a classifier; nil or empty patterns fall back
// to DefaultPatterns.
func NewKeywordClassifier(patterns []Pattern) *KeywordClassifier {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &KeywordClassifier{patterns: patterns}
}

// Check implements Classifier.
func (c *KeywordClassifier) Check(text string) Verdict {
	if text == "" {
		return Verdict{}
	}
	lower := strings.ToLower(text)
	for _, p := range c.patterns {
		if strings.Contains(lower, p.Keyword) {
			return Verdict{Malicious: true, Reason: p.Reason}
		}
	}
	return Verdict{}
}
