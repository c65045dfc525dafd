package safety

import (
	"regexp"
	"strings"
)

// FilterResult is the outcome of an output scrub. Filtered always holds a
// sendable answer, redacted where needed.
type FilterResult struct {
	Safe     bool
	Issues   []string
	Filtered string
}

type redaction struct {
	re          *regexp.Regexp
	replacement string
	issue       string
}

var piiRedactions = []redaction{
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN-REDACTED]", "PII detected: [SSN-REDACTED]"},
	{regexp.MustCompile(`\b\d{16}\b`), "[CARD-REDACTED]", "PII detected: [CARD-REDACTED]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL-REDACTED]", "PII detected: [EMAIL-REDACTED]"},
	{regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`), "[PHONE-REDACTED]", "PII detected: [PHONE-REDACTED]"},
}

var codeExecRe = []*regexp.Regexp{
	regexp.MustCompile(`(?i)exec\s*\(`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)os\.system\s*\(`),
	regexp.MustCompile(`(?i)subprocess\.`),
	regexp.MustCompile(`(?i)__import__\s*\(`),
}

var sqlRe = []*regexp.Regexp{
	regexp.MustCompile(`(?i)DROP\s+TABLE`),
	regexp.MustCompile(`(?i)DELETE\s+FROM`),
	regexp.MustCompile(`(?i)UPDATE\s+\w+\s+SET`),
	regexp.MustCompile(`(?i)INSERT\s+INTO`),
}

// sensitiveTerms are flagged (not redacted) when they appear in the answer
// without the user having asked about them.
var sensitiveTerms = []string{
	"password", "api_key", "secret", "token", "private_key", "access_key", "credentials",
}

var internalURLs = []string{
	"http://localhost", "127.0.0.1", "192.168.", "file://",
}

// FilterOutput scrubs answer before it is returned to the caller. query is
// the user's original message; terms the user themselves mentioned are not
// treated as leaks.
func FilterOutput(answer, query string) FilterResult {
	var issues []string
	filtered := answer

	for _, r := range piiRedactions {
		if r.re.MatchString(filtered) {
			issues = append(issues, r.issue)
			filtered = r.re.ReplaceAllString(filtered, r.replacement)
		}
	}

	lowerAnswer := strings.ToLower(answer)
	lowerQuery := strings.ToLower(query)
	for _, term := range sensitiveTerms {
		if strings.Contains(lowerAnswer, term) && !strings.Contains(lowerQuery, term) {
			issues = append(issues, "Exposed sensitive term: "+term)
		}
	}

	for _, re := range codeExecRe {
		if re.MatchString(answer) {
			issues = append(issues, "Code execution pattern detected")
			filtered = re.ReplaceAllString(filtered, "[CODE-REMOVED]")
		}
	}
	for _, re := range sqlRe {
		if re.MatchString(answer) {
			issues = append(issues, "SQL command detected")
			filtered = re.ReplaceAllString(filtered, "[SQL-REMOVED]")
		}
	}

	for _, url := range internalURLs {
		if strings.Contains(lowerAnswer, url) {
			issues = append(issues, "Internal URL exposed: "+url)
			filtered = strings.ReplaceAll(filtered, url, "[URL-REDACTED]")
		}
	}

	return FilterResult{Safe: len(issues) == 0, Issues: issues, Filtered: filtered}
}
