// Package tools defines the tool catalogue exposed to the model and executes
// tool-call requests against the product data source.
//
// Includes:
//   - Definition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Execute: dispatch by name; unknown tools fail with ErrUnknownTool,
//     handler failures come back as {"error": ...} payloads so the loop can
//     surface them to the model instead of crashing.
package tools
