package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jslattery/product-agent/internal/products"
)

type GetProductDataInput struct {
	FilePath    string `json:"file_path,omitempty" jsonschema_description:"Path to JSON file (optional, defaults to the configured dataset file)."`
	Designation string `json:"designation,omitempty" jsonschema_description:"Product designation to look up (optional, takes precedence over file_path)."`
}

type GetAllProductsDataInput struct {
	DirectoryPath string `json:"directory_path,omitempty" jsonschema_description:"Directory path (optional)."`
	Pattern       string `json:"pattern,omitempty" jsonschema_description:"File pattern (default '*.json')."`
}

var GetProductDataDefinition = Definition{
	Name:        "get_product_data_tool",
	Description: "Return RAW product JSON for one product, by designation or from a single file.",
	InputSchema: GenerateSchema[GetProductDataInput](),
	Function:    GetProductData,
}

// productIndex backs designation lookups; rebuilt lazily on a miss so
// freshly uploaded files become visible without a restart.
var productIndex = products.NewIndex()

func lookupByDesignation(designation string) (gjson.Result, bool) {
	if doc, ok := productIndex.Get(designation); ok {
		return doc, true
	}
	productIndex.Load(products.FallbackDirs("")...)
	return productIndex.Get(designation)
}

var GetAllProductsDataDefinition = Definition{
	Name:        "get_all_products_data_tool",
	Description: "Return a JSON ARRAY of ALL product JSONs from directory. Automatically searches common locations if no directory specified.",
	InputSchema: GenerateSchema[GetAllProductsDataInput](),
	Function:    GetAllProductsData,
}

// GetProductData reads one product file. Data-source failures come back as
// an {"error": ...} payload so the model can react to the message.
func GetProductData(_ context.Context, input json.RawMessage) (string, error) {
	var in GetProductDataInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if d := strings.TrimSpace(in.Designation); d != "" {
		doc, ok := lookupByDesignation(d)
		if !ok {
			return ErrorPayload("no product found for designation: " + d), nil
		}
		return doc.Raw, nil
	}
	path := in.FilePath
	if path == "" {
		path = products.DefaultPath()
	}
	doc, err := products.LoadFile(path)
	if err != nil {
		return ErrorPayload(err.Error()), nil
	}
	return doc.Raw, nil
}

// GetAllProductsData returns the full document set as a JSON array,
// searching the fallback directory chain when no directory is given.
// Unreadable files become {"error": ...} entries inside the array.
func GetAllProductsData(_ context.Context, input json.RawMessage) (string, error) {
	var in GetAllProductsDataInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	docs, _, err := products.LoadAll(in.DirectoryPath, in.Pattern)
	if err != nil {
		return ErrorPayload(err.Error()), nil
	}

	items := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Err != nil {
			items = append(items, ErrorPayload("Failed to read "+d.Name+": "+d.Err.Error()))
			continue
		}
		items = append(items, d.Doc.Raw)
	}
	return "[" + strings.Join(items, ",") + "]", nil
}
