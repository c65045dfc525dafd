// Package chat defines the conversation message model shared by the agent
// loop, the session store, and the model providers.
//
// Invariant:
//   - every tool message's ToolCallID corresponds to a ToolCalls entry on the
//     most recent preceding assistant message that carried tool calls.
package chat

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Role tags a message with its origin. The set is closed; code switching on
// Role should handle all four values.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a model-issued request to invoke a named tool. Arguments is the
// raw JSON object string as emitted by the model; it is never rewritten.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Args parses the call arguments. A malformed or empty argument string yields
// a result whose lookups all report missing; absence of a field is a normal
// outcome, not an error.
func (tc ToolCall) Args() gjson.Result {
	if !gjson.Valid(tc.Arguments) {
		return gjson.Result{}
	}
	return gjson.Parse(tc.Arguments)
}

// StringArg returns the named argument trimmed, with ok=false when the field
// is absent, empty, or not a string.
func (tc ToolCall) StringArg(name string) (string, bool) {
	v := tc.Args().Get(name)
	if v.Type != gjson.String {
		return "", false
	}
	s := strings.TrimSpace(v.String())
	return s, s != ""
}

// Message is one turn in a conversation. ToolCalls is present only on
// assistant turns that request tools; ToolCallID only on tool-result turns.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// HasToolCalls reports whether the message is an assistant turn requesting
// at least one tool invocation.
func (m Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}

func System(text string) Message    { return Message{Role: RoleSystem, Content: text} }
func User(text string) Message      { return Message{Role: RoleUser, Content: text} }
func Assistant(text string) Message { return Message{Role: RoleAssistant, Content: text} }

// AssistantToolCalls builds an assistant turn carrying tool-call requests.
func AssistantToolCalls(content string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// ToolResult builds the tool turn answering the call with the given id.
func ToolResult(callID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID}
}

// Clone returns a deep copy so callers can hand out histories without
// aliasing the store's backing slices.
func Clone(msgs []Message) []Message {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		cm := m
		if len(m.ToolCalls) > 0 {
			cm.ToolCalls = make([]ToolCall, len(m.ToolCalls))
			copy(cm.ToolCalls, m.ToolCalls)
		}
		out[i] = cm
	}
	return out
}
