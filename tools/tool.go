package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ErrUnknownTool is returned by Execute when the requested name is not in
// the catalogue. Callers surface it to the model as an error-bearing tool
// result; it never crashes the loop.
var ErrUnknownTool = errors.New("unknown tool")

// Definition describes one callable tool.
type Definition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(ctx context.Context, input json.RawMessage) (string, error)
}

// GenerateSchema derives the input schema for a tool's argument struct.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// ErrorPayload encodes a handler failure as the structured JSON body the
// model receives in place of a result.
func ErrorPayload(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

// Execute runs the named tool against the given arguments. Handler errors
// degrade to an {"error": ...} payload; only an unknown name is an error to
// the caller.
func Execute(ctx context.Context, defs []Definition, name string, input json.RawMessage) (string, error) {
	var def *Definition
	for i := range defs {
		if defs[i].Name == name {
			def = &defs[i]
			break
		}
	}
	if def == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	out, err := def.Function(ctx, input)
	if err != nil {
		return ErrorPayload(err.Error()), nil
	}
	return out, nil
}
