package evidence_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jslattery/product-agent/internal/chat"
	"github.com/jslattery/product-agent/internal/evidence"
)

func round(id, name, result string) []chat.Message {
	return []chat.Message{
		chat.AssistantToolCalls("", []chat.ToolCall{{ID: id, Name: name, Arguments: "{}"}}),
		chat.ToolResult(id, result),
	}
}

func TestRecent_CollectsNewestRoundsOldestFirst(t *testing.T) {
	var history []chat.Message
	history = append(history, chat.User("q"))
	history = append(history, round("1", "time_tool", "r1")...)
	history = append(history, round("2", "api_info_tool", "r2")...)
	history = append(history, round("3", "get_product_kv_pairs_tool", "r3")...)
	history = append(history, round("4", "get_all_products_data_tool", "r4")...)

	blocks := evidence.Recent(history, 3)
	if len(blocks) != 3 {
		t.Fatalf("blocks: got %d want 3", len(blocks))
	}
	// Oldest of the retained window first; the oldest round overall dropped.
	if blocks[0].Text != "r2" || blocks[2].Text != "r4" {
		t.Errorf("unexpected order: %+v", blocks)
	}
	if blocks[2].Label != "get_all_products_data_tool" {
		t.Errorf("label: got %q", blocks[2].Label)
	}
}

func TestRecent_JoinsParallelResults(t *testing.T) {
	history := []chat.Message{
		chat.AssistantToolCalls("", []chat.ToolCall{
			{ID: "a", Name: "time_tool", Arguments: "{}"},
			{ID: "b", Name: "api_info_tool", Arguments: "{}"},
		}),
		chat.ToolResult("a", "first"),
		chat.ToolResult("b", "second"),
	}
	blocks := evidence.Recent(history, 3)
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d want 1", len(blocks))
	}
	if blocks[0].Text != "first second" {
		t.Errorf("text: got %q", blocks[0].Text)
	}
	if blocks[0].Label != "time_tool, api_info_tool" {
		t.Errorf("label: got %q", blocks[0].Label)
	}
}

func TestRecent_ClampsLongOutput(t *testing.T) {
	long := strings.Repeat("x", 700)
	blocks := evidence.Recent(round("1", "t", long), 1)
	if len(blocks) != 1 {
		t.Fatal("expected one block")
	}
	if got := utf8.RuneCountInString(blocks[0].Text); got != 601 { // 600 + ellipsis
		t.Errorf("clamped length: got %d want 601", got)
	}
	if !strings.HasSuffix(blocks[0].Text, "…") {
		t.Error("expected ellipsis suffix")
	}
}

func TestRecent_SkipsEmptyRoundsAndNoTools(t *testing.T) {
	history := []chat.Message{
		chat.User("hello"),
		chat.Assistant("hi"),
		chat.AssistantToolCalls("", []chat.ToolCall{{ID: "1", Name: "t", Arguments: "{}"}}),
		chat.ToolResult("1", "   "),
	}
	if blocks := evidence.Recent(history, 3); len(blocks) != 0 {
		t.Errorf("expected no blocks, got %+v", blocks)
	}
}
