package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jslattery/product-agent/internal/chat"
)

// AnthropicClient adapts the Messages API to ChatClient. The internal
// history is OpenAI-shaped (role "tool", tool_call_id), so translation has
// to fold tool results back into user turns and lift system messages into
// the dedicated system field.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient builds a client. An empty apiKey defers to the
// ANTHROPIC_API_KEY environment variable picked up by the SDK.
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = string(anthropic.ModelClaude3_7SonnetLatest)
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...), model: anthropic.Model(model)}
}

// Chat implements ChatClient.
func (c *AnthropicClient) Chat(ctx context.Context, req Request) (*Response, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
	}
	if req.Temperature >= 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	for _, t := range req.Tools {
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{Properties: t.Schema.Properties},
			},
		})
	}

	var err error
	params.System, params.Messages, err = anthropicMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("calling messages api: %w", err)
	}

	out := &Response{}
	var text []string
	for _, block := range message.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			text = append(text, v.Text)
		case anthropic.ToolUseBlock:
			out.ToolCalls = append(out.ToolCalls, chat.ToolCall{
				ID:        v.ID,
				Name:      v.Name,
				Arguments: v.JSON.Input.Raw(),
			})
		}
	}
	out.Content = strings.Join(text, "\n")
	return out, nil
}

// anthropicMessages converts the internal history. System turns become the
// system prompt; runs of consecutive tool results collapse into a single
// user message of tool_result blocks, which the Messages API requires.
func anthropicMessages(history []chat.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam, error) {
	var system []anthropic.TextBlockParam
	var out []anthropic.MessageParam

	for i := 0; i < len(history); i++ {
		m := history[i]
		switch m.Role {
		case chat.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})

		case chat.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))

		case chat.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, json.RawMessage(tc.Arguments), tc.Name))
			}
			if len(blocks) == 0 {
				blocks = append(blocks, anthropic.NewTextBlock(""))
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))

		case chat.RoleTool:
			var results []anthropic.ContentBlockParamUnion
			for ; i < len(history) && history[i].Role == chat.RoleTool; i++ {
				r := history[i]
				results = append(results, anthropic.NewToolResultBlock(r.ToolCallID, r.Content, false))
			}
			i--
			out = append(out, anthropic.NewUserMessage(results...))

		default:
			return nil, nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return system, out, nil
}
