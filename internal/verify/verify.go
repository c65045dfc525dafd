// Package verify runs the second-pass answer check: the draft answer is
// replayed to the model at temperature zero together with recent tool
// evidence, and the verified text (with its confidence footer) replaces the
// draft. Verification never fails a request: any backend error falls back to
// the unverified draft.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/jslattery/product-agent/internal/chat"
	"github.com/jslattery/product-agent/internal/evidence"
	"github.com/jslattery/product-agent/internal/provider"
	"github.com/jslattery/product-agent/internal/telemetry"
)

const systemPrompt = `You are a meticulous verifier. Your job:
1) Compare the DRAFT answer with the EVIDENCE.
2) The evidence contains flattened key-value pairs from JSON. For example:
   {"path":"dimensions[2].value","value":15} with {"path":"dimensions[2].unit","value":"mm"}
   means the value is 15 mm.
3) If the draft correctly interprets these KV pairs, KEEP IT AS-IS.
4) Only replace claims that are truly NOT supported by the evidence.
5) For product dimensions/specs, if the KV pairs contain the data (even in array format),
   the draft is grounded - don't reject it.
6) Return ONLY the final verified answer first, then on new lines:
   'Confidence: <0.00-1.00>' and 'Evidence: E1, E2, ...'.
`

// Verifier checks draft answers against tool evidence using the same
// inference backend as the agent loop.
type Verifier struct {
	Client    provider.ChatClient
	MaxTokens int
}

// Verify returns the verified answer for draft, or draft unchanged when the
// backend errors or returns nothing.
func (v *Verifier) Verify(ctx context.Context, draft string, blocks []evidence.Block) string {
	resp, err := v.Client.Chat(ctx, provider.Request{
		Messages: []chat.Message{
			chat.System(systemPrompt),
			chat.User(userMessage(draft, blocks)),
		},
		Temperature: 0,
		MaxTokens:   v.MaxTokens,
	})
	if err != nil {
		telemetry.Emit("verify_fallback", map[string]any{"reason": "backend error"})
		return draft
	}
	verified := strings.TrimSpace(resp.Content)
	if verified == "" {
		telemetry.Emit("verify_fallback", map[string]any{"reason": "empty response"})
		return draft
	}
	return verified
}

// userMessage lays out the draft and numbered evidence blocks. Block ids
// (E1, E2, ...) are what the verifier cites in its Evidence footer.
func userMessage(draft string, blocks []evidence.Block) string {
	ev := "(no evidence available)"
	if len(blocks) > 0 {
		parts := make([]string, 0, len(blocks))
		for i, b := range blocks {
			parts = append(parts, fmt.Sprintf("[E%d • %s]\n%s", i+1, b.Label, b.Text))
		}
		ev = strings.Join(parts, "\n\n")
	}
	return fmt.Sprintf("DRAFT:\n%s\n\nEVIDENCE:\n%s", draft, ev)
}
