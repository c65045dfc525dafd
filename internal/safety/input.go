package safety

import (
	"regexp"
	"strings"
)

// InputReport grades a user message. Severity "none" and "low" pass; higher
// tiers block.
type InputReport struct {
	Safe       bool
	Violations []string
	Severity   string
	Reason     string
}

type tieredPattern struct {
	keyword string
	desc    string
}

var criticalPatterns = []tieredPattern{
	{"hack", "Hacking attempt"},
	{"exploit", "Exploitation attempt"},
	{"bypass", "Security bypass"},
	{"sql injection", "SQL injection"},
	{"drop table", "Database manipulation"},
	{"rm -rf", "Destructive command"},
	{"exec(", "Code execution"},
	{"eval(", "Code evaluation"},
	{"<script", "XSS attempt"},
}

var highRiskPatterns = []tieredPattern{
	{"password", "Credential request"},
	{"credit card", "Financial data request"},
	{"bank account", "Banking info request"},
	{"social security", "PII request"},
	{"api key", "API key request"},
	{"access token", "Token request"},
	{"private key", "Cryptographic key request"},
}

var mediumRiskPatterns = []tieredPattern{
	{"login", "Authentication query"},
	{"admin", "Privilege escalation"},
	{"root", "Root access"},
	{"sudo", "Elevated privileges"},
}

var inputPIIPatterns = []struct {
	re   *regexp.Regexp
	desc string
}{
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "SSN pattern"},
	{regexp.MustCompile(`\b\d{16}\b`), "Credit card pattern"},
	{regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}\.\d{3}\b`), "IP address"},
}

var jailbreakPhrases = []string{
	"ignore previous instructions",
	"disregard all",
	"you are now",
	"new role",
	"forget everything",
	"act as if",
	"pretend you are",
	"bypass restrictions",
}

const maxInputLength = 5000

// CheckInputSafety grades text against tiered keyword lists, PII patterns,
// jailbreak phrases, and flooding heuristics.
func CheckInputSafety(text string) InputReport {
	if strings.TrimSpace(text) == "" {
		return InputReport{Safe: true, Severity: "none"}
	}

	var violations []string
	severity := "none"
	lower := strings.ToLower(text)

	for _, p := range criticalPatterns {
		if strings.Contains(lower, p.keyword) {
			violations = append(violations, p.desc)
			severity = "critical"
		}
	}
	if severity != "critical" {
		for _, p := range highRiskPatterns {
			if strings.Contains(lower, p.keyword) {
				violations = append(violations, p.desc)
				severity = "high"
			}
		}
	}
	if severity != "critical" && severity != "high" {
		for _, p := range mediumRiskPatterns {
			if strings.Contains(lower, p.keyword) {
				violations = append(violations, p.desc)
				severity = "medium"
			}
		}
	}

	for _, p := range inputPIIPatterns {
		if p.re.MatchString(text) {
			violations = append(violations, p.desc)
			if severity == "none" {
				severity = "medium"
			}
		}
	}

	for _, phrase := range jailbreakPhrases {
		if strings.Contains(lower, phrase) {
			violations = append(violations, "Jailbreak attempt")
			severity = "critical"
			break
		}
	}

	if len(text) > maxInputLength {
		violations = append(violations, "Excessive input length")
		if severity == "none" {
			severity = "low"
		}
	}
	if floodedRun(text) {
		violations = append(violations, "Pattern flooding")
		if severity == "none" {
			severity = "low"
		}
	}

	return InputReport{
		Safe:       severity == "none" || severity == "low",
		Violations: violations,
		Severity:   severity,
		Reason:     strings.Join(violations, "; "),
	}
}

// floodedRun reports a run of more than fifty repeated runes.
func floodedRun(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run > 50 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// SeverityClassifier adapts CheckInputSafety to the Classifier seam.
type SeverityClassifier struct{}

func (SeverityClassifier) Check(text string) Verdict {
	r := CheckInputSafety(text)
	if r.Safe {
		return Verdict{}
	}
	return Verdict{Malicious: true, Reason: r.Reason}
}

// Chain runs classifiers in order and returns the first blocking verdict.
func Chain(classifiers ...Classifier) Classifier {
	return chain(classifiers)
}

type chain []Classifier

func (c chain) Check(text string) Verdict {
	for _, cl := range c {
		if v := cl.Check(text); v.Malicious {
			return v
		}
	}
	return Verdict{}
}
