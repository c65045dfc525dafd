package verify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jslattery/product-agent/internal/chat"
)

// Metadata is the post-answer quality assessment: how confident the
// verifier was, whether the answer is grounded in tool evidence, and which
// tools produced that evidence.
type Metadata struct {
	Confidence    string
	Grounded      bool
	Hallucination bool
	ToolsUsed     []string
	EvidenceIDs   []string
}

var (
	confidenceRe = regexp.MustCompile(`(?i)Confidence:\s*([0-9.]+|High|Medium|Low)`)
	evidenceRe   = regexp.MustCompile(`(?i)Evidence:\s*([E0-9,\s]+)`)
)

// noEvidencePhrases mark answers that admit missing data; any of them
// flags the answer as a hallucination regardless of grounding.
var noEvidencePhrases = []string{
	"don't have enough evidence",
	"not found in evidence",
	"no evidence",
	"cannot find",
	"not available in the data",
	"lack evidence",
}

// Extract parses the verifier footer out of answer and cross-checks it
// against the conversation history.
func Extract(answer string, history []chat.Message) Metadata {
	confidence := "Unknown"
	if m := confidenceRe.FindStringSubmatch(answer); m != nil {
		confidence = m[1]
	}
	if v, err := strconv.ParseFloat(confidence, 64); err == nil {
		switch {
		case v >= 0.8:
			confidence = "High"
		case v >= 0.5:
			confidence = "Medium"
		default:
			confidence = "Low"
		}
	}

	var evidenceIDs []string
	if m := evidenceRe.FindStringSubmatch(answer); m != nil {
		for _, e := range strings.Split(m[1], ",") {
			if e = strings.TrimSpace(e); e != "" {
				evidenceIDs = append(evidenceIDs, e)
			}
		}
	}

	// The newest assistant tool-call turn names the tools used; any tool
	// result seen on the way back also counts as evidence.
	hasToolEvidence := false
	var toolsUsed []string
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.HasToolCalls() {
			for _, tc := range m.ToolCalls {
				if tc.Name != "" {
					toolsUsed = append(toolsUsed, tc.Name)
				}
			}
			hasToolEvidence = hasToolEvidence || len(toolsUsed) > 0
			break
		}
		if m.Role == chat.RoleTool {
			hasToolEvidence = true
		}
	}

	grounded := hasToolEvidence && len(evidenceIDs) > 0

	lower := strings.ToLower(answer)
	noEvidence := false
	for _, phrase := range noEvidencePhrases {
		if strings.Contains(lower, phrase) {
			noEvidence = true
			break
		}
	}

	return Metadata{
		Confidence:    confidence,
		Grounded:      grounded,
		Hallucination: !grounded || noEvidence,
		ToolsUsed:     toolsUsed,
		EvidenceIDs:   evidenceIDs,
	}
}
