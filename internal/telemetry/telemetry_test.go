package telemetry_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jslattery/product-agent/internal/telemetry"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func readEventLines(t *testing.T) []string {
	t.Helper()
	f, err := os.Open(filepath.Join(".agent", "events.jsonl"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestEmit_DisabledByDefault(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PA_OBSERVE_JSON", "0")
	telemetry.Emit("model_call", map[string]any{"round": 1})
	if lines := readEventLines(t); len(lines) != 0 {
		t.Fatalf("expected no events, got %d", len(lines))
	}
}

func TestEmit_WritesAugmentedEvent(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PA_OBSERVE_JSON", "1")
	telemetry.Emit("tool_exec", map[string]any{"tool_name": "time_tool"})

	lines := readEventLines(t)
	if len(lines) != 1 {
		t.Fatalf("events: got %d want 1", len(lines))
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["event"] != "tool_exec" || m["tool_name"] != "time_tool" {
		t.Errorf("unexpected event: %v", m)
	}
	if m["time"] == "" {
		t.Error("missing time field")
	}
}

func TestTurnID_RoundTrip(t *testing.T) {
	ctx := telemetry.WithTurnID(context.Background(), "turn-42")
	id, ok := telemetry.TurnIDFromContext(ctx)
	if !ok || id != "turn-42" {
		t.Fatalf("got %q %t", id, ok)
	}
	if _, ok := telemetry.TurnIDFromContext(context.Background()); ok {
		t.Error("unexpected turn id on empty context")
	}
}
