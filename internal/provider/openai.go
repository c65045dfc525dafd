package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jslattery/product-agent/internal/chat"
)

// OpenAIClient speaks the OpenAI-compatible chat completions wire format,
// which also covers local backends such as Ollama and LM Studio.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

// NewOpenAIClient builds a client for baseURL (scheme and host, no path).
// An empty apiKey is allowed for local backends that ignore authentication.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Chat implements ChatClient.
func (c *OpenAIClient) Chat(ctx context.Context, req Request) (*Response, error) {
	body := map[string]any{
		"model":    c.model,
		"messages": wireMessages(req.Messages),
		"stream":   false,
	}
	if req.Temperature >= 0 {
		body["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if len(req.Tools) > 0 {
		tools := make([]map[string]any, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, map[string]any{
				"type": "function",
				"function": map[string]any{
					"name":        t.Name,
					"description": t.Description,
					"parameters":  t.Schema,
				},
			})
		}
		body["tools"] = tools
		body["tool_choice"] = "auto"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling chat backend: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("reading chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat backend returned %d: %s", resp.StatusCode, snippet(raw))
	}

	msg := gjson.GetBytes(raw, "choices.0.message")
	if !msg.Exists() {
		return nil, fmt.Errorf("chat backend response has no choices: %s", snippet(raw))
	}

	out := &Response{Content: msg.Get("content").String()}
	msg.Get("tool_calls").ForEach(func(_, tc gjson.Result) bool {
		out.ToolCalls = append(out.ToolCalls, chat.ToolCall{
			ID:        tc.Get("id").String(),
			Name:      tc.Get("function.name").String(),
			Arguments: tc.Get("function.arguments").String(),
		})
		return true
	})
	return out, nil
}

// wireMessages maps the internal history onto the OpenAI message shape.
func wireMessages(history []chat.Message) []map[string]any {
	out := make([]map[string]any, 0, len(history))
	for _, m := range history {
		w := map[string]any{"role": string(m.Role), "content": m.Content}
		if m.HasToolCalls() {
			calls := make([]map[string]any, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				calls = append(calls, map[string]any{
					"id":   tc.ID,
					"type": "function",
					"function": map[string]any{
						"name":      tc.Name,
						"arguments": tc.Arguments,
					},
				})
			}
			w["tool_calls"] = calls
		}
		if m.Role == chat.RoleTool {
			w["tool_call_id"] = m.ToolCallID
		}
		out = append(out, w)
	}
	return out
}

func snippet(raw []byte) string {
	const max = 300
	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
