// Package prompt recovers conversational context from prior tool calls and
// composes the system instructions for the primary model call. The composed
// prompt is request-scoped: it is injected into each model call and never
// appended to the session history.
package prompt

import (
	"strings"

	"github.com/jslattery/product-agent/internal/chat"
)

// maxRecentDesignations caps how many recently-discussed products are fed
// back into the prompt.
const maxRecentDesignations = 3

// Context is what follow-up questions lean on when the user doesn't repeat
// the product or field.
type Context struct {
	Designations []string // encounter order, newest turn first, max 3
	LastField    string   // empty when no field argument was seen
}

// Extract scans the history newest-to-oldest. The first assistant turn
// (walking backward) whose product/kv tool calls carry a non-empty
// designation ends the scan; the field argument is tracked across every tool
// call visited up to that point. Finding nothing is a normal outcome.
func Extract(history []chat.Message) Context {
	var out Context
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if !m.HasToolCalls() {
			continue
		}
		for _, tc := range m.ToolCalls {
			name := strings.ToLower(tc.Name)
			if strings.Contains(name, "product") || strings.Contains(name, "kv") {
				if d, ok := tc.StringArg("designation"); ok {
					out.Designations = append(out.Designations, d)
				}
			}
			if f, ok := tc.StringArg("field"); ok {
				out.LastField = f
			}
		}
		if len(out.Designations) > 0 {
			break
		}
	}
	if len(out.Designations) > maxRecentDesignations {
		out.Designations = out.Designations[:maxRecentDesignations]
	}
	return out
}
