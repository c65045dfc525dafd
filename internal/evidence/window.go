// Package evidence reconstructs the bounded window of recent tool output
// used by the verification pass. Blocks are ephemeral: rebuilt from the
// conversation history on every invocation, never persisted.
package evidence

import (
	"strings"
	"unicode/utf8"

	"github.com/jslattery/product-agent/internal/chat"
)

// DefaultBlocks is how many recent tool rounds are retained for verification.
const DefaultBlocks = 3

// snippetRunes caps each block's text; over-long output is clamped with an
// ellipsis so the verification prompt stays small.
const snippetRunes = 600

// Block is a labelled snippet of tool output. Label names the tools of the
// round that produced it.
type Block struct {
	Label string
	Text  string
}

// Recent walks the history newest-to-oldest collecting up to max blocks, one
// per tool round (an assistant tool-call turn plus its adjacent tool
// results). Blocks are returned oldest-first so evidence ids stay stable
// while the window slides.
func Recent(history []chat.Message, max int) []Block {
	if max <= 0 {
		max = DefaultBlocks
	}

	var blocks []Block
	for i := len(history) - 1; i >= 0 && len(blocks) < max; i-- {
		m := history[i]
		if !m.HasToolCalls() {
			continue
		}

		var collected []string
		for j := i + 1; j < len(history) && history[j].Role == chat.RoleTool; j++ {
			collected = append(collected, history[j].Content)
		}
		text := strings.TrimSpace(strings.Join(collected, " "))
		if text == "" {
			continue
		}

		names := make([]string, 0, len(m.ToolCalls))
		for _, tc := range m.ToolCalls {
			if tc.Name != "" {
				names = append(names, tc.Name)
			}
		}
		label := strings.Join(names, ", ")
		if label == "" {
			label = "tool_call"
		}

		blocks = append(blocks, Block{Label: label, Text: clamp(text, snippetRunes)})
	}

	// Reverse into chronological order.
	for l, r := 0, len(blocks)-1; l < r; l, r = l+1, r-1 {
		blocks[l], blocks[r] = blocks[r], blocks[l]
	}
	return blocks
}

func clamp(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
