// Package provider defines the model-inference boundary and its backends.
// The agent loop only sees ChatClient: a message history and tool catalogue
// go in, either a tool invocation request or final text comes out.
//
// Thread Safety: implementations must be safe for concurrent use.
package provider

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/jslattery/product-agent/internal/chat"
)

// ToolSpec is the provider-neutral description of one callable tool.
type ToolSpec struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}

// Request carries one model call. Temperature below zero means "use the
// provider default"; zero is an explicit most-deterministic setting.
type Request struct {
	Messages    []chat.Message
	Tools       []ToolSpec
	Temperature float64
	MaxTokens   int
}

// Response is the model's reply. When ToolCalls is non-empty it takes
// precedence over Content.
type Response struct {
	Content   string
	ToolCalls []chat.ToolCall
}

// ChatClient sends one chat request to an inference backend.
type ChatClient interface {
	Chat(ctx context.Context, req Request) (*Response, error)
}
