// Package runner drives the agent control loop: model call, tool dispatch,
// repeat, then hand the draft answer to verification. The system prompt is
// recomposed from conversation context on every round and never stored in
// the history.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jslattery/product-agent/internal/chat"
	"github.com/jslattery/product-agent/internal/evidence"
	"github.com/jslattery/product-agent/internal/prompt"
	"github.com/jslattery/product-agent/internal/provider"
	"github.com/jslattery/product-agent/internal/telemetry"
	"github.com/jslattery/product-agent/internal/verify"
	"github.com/jslattery/product-agent/tools"
)

// DefaultMaxRounds bounds how many model calls one request may make.
const DefaultMaxRounds = 10

// insufficientEvidence replaces an empty draft; verification is skipped
// because there is nothing to check.
const insufficientEvidence = "I don't have enough evidence from the loaded data."

// ErrLoopExceeded reports a conversation that hit the round cap while the
// model was still requesting tools.
var ErrLoopExceeded = errors.New("agent loop exceeded round limit")

type Runner struct {
	Client         provider.ChatClient
	Tools          []tools.Definition
	Verifier       *verify.Verifier
	MaxRounds      int
	EvidenceBlocks int
	MaxTokens      int
}

// New builds a Runner over the full tool registry. PA_MAX_ROUNDS overrides
// the round cap.
func New(client provider.ChatClient, toolDefs []tools.Definition) *Runner {
	rounds := DefaultMaxRounds
	if v := os.Getenv("PA_MAX_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rounds = n
		}
	}
	return &Runner{
		Client:         client,
		Tools:          toolDefs,
		MaxRounds:      rounds,
		EvidenceBlocks: evidence.DefaultBlocks,
	}
}

func (r *Runner) toolSpecs() []provider.ToolSpec {
	out := make([]provider.ToolSpec, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, provider.ToolSpec{Name: t.Name, Description: t.Description, Schema: t.InputSchema})
	}
	return out
}

// Run executes the loop for one user turn. history must already end with
// the new user message; the returned slice is history plus every assistant
// and tool turn the loop produced, ending with the final verified answer.
func (r *Runner) Run(ctx context.Context, history []chat.Message) ([]chat.Message, error) {
	maxRounds := r.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
		ctx = telemetry.WithTurnID(ctx, turnID)
	}

	for round := 1; round <= maxRounds; round++ {
		system := prompt.Compose(prompt.Extract(history))
		msgs := make([]chat.Message, 0, len(history)+1)
		msgs = append(msgs, chat.System(system))
		msgs = append(msgs, history...)

		start := time.Now()
		resp, err := r.Client.Chat(ctx, provider.Request{
			Messages:    msgs,
			Tools:       r.toolSpecs(),
			Temperature: -1,
			MaxTokens:   r.MaxTokens,
		})
		if err != nil {
			return history, fmt.Errorf("model call (round %d): %w", round, err)
		}
		telemetry.Emit("model_call", map[string]any{
			"turn_id":     turnID,
			"round":       round,
			"duration_ms": time.Since(start).Milliseconds(),
			"tool_calls":  len(resp.ToolCalls),
		})

		if len(resp.ToolCalls) == 0 {
			final := r.finalize(ctx, resp.Content, history)
			history = append(history, chat.Assistant(final))
			telemetry.Emit("loop_done", map[string]any{"turn_id": turnID, "rounds": round})
			return history, nil
		}

		history = append(history, chat.AssistantToolCalls(resp.Content, resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			history = append(history, chat.ToolResult(tc.ID, r.execTool(ctx, tc)))
		}
	}

	return history, fmt.Errorf("%w after %d rounds", ErrLoopExceeded, maxRounds)
}

// execTool dispatches one call. Failures become error payloads in the tool
// result so the model can see and recover from them.
func (r *Runner) execTool(ctx context.Context, tc chat.ToolCall) string {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	start := time.Now()

	result, err := tools.Execute(ctx, r.Tools, tc.Name, json.RawMessage(tc.Arguments))
	fields := map[string]any{
		"turn_id":     turnID,
		"tool_name":   tc.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"input_size":  len(tc.Arguments),
		"output_size": len(result),
	}
	if err != nil {
		fields["error"] = "tool not found"
		result = tools.ErrorPayload(fmt.Sprintf("unknown tool: %s", tc.Name))
		fields["output_size"] = len(result)
	} else {
		fields["error"] = nil
	}
	telemetry.Emit("tool_exec", fields)
	return result
}

// finalize verifies the draft and appends the tools-used footer.
func (r *Runner) finalize(ctx context.Context, draft string, history []chat.Message) string {
	var final string
	if strings.TrimSpace(draft) == "" {
		final = insufficientEvidence
	} else if r.Verifier != nil {
		final = r.Verifier.Verify(ctx, draft, evidence.Recent(history, r.EvidenceBlocks))
	} else {
		final = draft
	}

	used := "none"
	if names := lastToolNames(history); len(names) > 0 {
		used = strings.Join(names, ", ")
	}
	return strings.TrimRight(final, " \t\r\n") + "\n\nTools used: " + used
}

// lastToolNames returns the tool names of the newest tool-call turn.
func lastToolNames(history []chat.Message) []string {
	for i := len(history) - 1; i >= 0; i-- {
		if m := history[i]; m.HasToolCalls() {
			names := make([]string, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				if tc.Name != "" {
					names = append(names, tc.Name)
				}
			}
			return names
		}
	}
	return nil
}
