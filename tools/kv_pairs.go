package tools

import (
	"context"
	"encoding/json"

	"github.com/jslattery/product-agent/internal/flatten"
	"github.com/jslattery/product-agent/internal/products"
)

// Per-product pair caps: callers may raise the limit but never lower it
// below the floor, keeping evidence windows usable.
const (
	defaultKVLimit = 200
	minKVLimit     = 50
)

type GetProductKVPairsInput struct {
	Designation   string `json:"designation,omitempty" jsonschema_description:"Product designation to query (optional, omit for all products)."`
	DirectoryPath string `json:"directory_path,omitempty" jsonschema_description:"Directory path (optional)."`
	Limit         int    `json:"limit,omitempty" jsonschema_description:"Max KV pairs per product (default 200)."`
}

var GetProductKVPairsDefinition = Definition{
	Name:        "get_product_kv_pairs_tool",
	Description: "Flatten product JSON into key-value paths for a given designation or all products. Use to discover available attributes.",
	InputSchema: GenerateSchema[GetProductKVPairsInput](),
	Function:    GetProductKVPairs,
}

type kvItem struct {
	Designation string         `json:"designation"`
	KV          []flatten.Pair `json:"kv"`
	Truncated   bool           `json:"truncated"`
}

type kvResult struct {
	Items     []kvItem `json:"items"`
	Truncated bool     `json:"truncated"`
}

// GetProductKVPairs flattens each product document into path/value pairs,
// optionally filtered to one designation (case-insensitive, trimmed).
func GetProductKVPairs(_ context.Context, input json.RawMessage) (string, error) {
	var in GetProductKVPairsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}

	docs, _, err := products.LoadAll(in.DirectoryPath, "")
	if err != nil {
		return ErrorPayload(err.Error()), nil
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultKVLimit
	}
	if limit < minKVLimit {
		limit = minKVLimit
	}

	res := kvResult{Items: []kvItem{}}
	for _, d := range docs {
		if d.Err != nil || !d.Doc.IsObject() {
			continue
		}
		designation := products.Designation(d.Doc)
		if in.Designation != "" && designation != "" &&
			!products.MatchesDesignation(d.Doc, in.Designation) {
			continue
		}

		pairs, truncated := flatten.FlattenLimit(d.Doc, limit)
		if truncated {
			res.Truncated = true
		}
		if designation == "" {
			designation = "unknown"
		}
		res.Items = append(res.Items, kvItem{Designation: designation, KV: pairs, Truncated: truncated})
	}

	b, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
