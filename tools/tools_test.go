package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/jslattery/product-agent/tools"
)

func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	doc := `{
		"designation": "6205",
		"dimensions": [
			{"name": "Outside diameter", "value": 52, "unit": "mm", "symbol": "D"},
			{"name": "Bore diameter", "value": 25, "unit": "mm", "symbol": "d"},
			{"name": "Width", "value": 15, "unit": "mm", "symbol": "B"}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "6205.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "6306.json"), []byte(`{"designation":"6306","width":27}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRegistry_ToolNames(t *testing.T) {
	defs := tools.Registry()
	want := map[string]struct{}{
		"time_tool":                  {},
		"api_info_tool":              {},
		"api_user_tool":              {},
		"get_product_data_tool":      {},
		"get_all_products_data_tool": {},
		"get_product_kv_pairs_tool":  {},
	}
	if len(defs) != len(want) {
		t.Fatalf("unexpected number of tools: got %d want %d", len(defs), len(want))
	}
	for _, d := range defs {
		if _, ok := want[d.Name]; !ok {
			t.Errorf("unexpected tool in registry: %q", d.Name)
		}
		if d.InputSchema == nil {
			t.Errorf("%s: missing input schema", d.Name)
		}
		if d.Function == nil {
			t.Errorf("%s: missing handler", d.Name)
		}
	}
}

func TestExecute_UnknownTool(t *testing.T) {
	_, err := tools.Execute(context.Background(), tools.Registry(), "no_such_tool", nil)
	if !errors.Is(err, tools.ErrUnknownTool) {
		t.Fatalf("want ErrUnknownTool, got %v", err)
	}
}

func TestExecute_HandlerFailureBecomesErrorPayload(t *testing.T) {
	defs := []tools.Definition{{
		Name: "boom",
		Function: func(context.Context, json.RawMessage) (string, error) {
			return "", errors.New("data source unreadable")
		},
	}}
	out, err := tools.Execute(context.Background(), defs, "boom", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("handler failures must not escalate: %v", err)
	}
	if gjson.Get(out, "error").String() != "data source unreadable" {
		t.Errorf("unexpected payload: %s", out)
	}
}

func TestAPIInfo_Filters(t *testing.T) {
	out, err := tools.APIInfo(context.Background(), json.RawMessage(`{"APIname":"customersync"}`))
	if err != nil {
		t.Fatal(err)
	}
	recs := gjson.Parse(out).Array()
	if len(recs) != 1 {
		t.Fatalf("records: got %d want 1 (%s)", len(recs), out)
	}
	if recs[0].Get("target_system").String() != "SAP" {
		t.Errorf("target_system: got %s", recs[0].Get("target_system").String())
	}

	out, err = tools.APIInfo(context.Background(), json.RawMessage(`{"APIname":"nope"}`))
	if err != nil {
		t.Fatal(err)
	}
	if out != "No matching API info found." {
		t.Errorf("unexpected miss output: %s", out)
	}
}

func TestGetAllProductsData_ReturnsArray(t *testing.T) {
	dir := seedDataDir(t)
	in, _ := json.Marshal(map[string]string{"directory_path": dir})
	out, err := tools.GetAllProductsData(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	arr := gjson.Parse(out).Array()
	if len(arr) != 2 {
		t.Fatalf("documents: got %d want 2", len(arr))
	}
}

func TestGetAllProductsData_MissingDirErrorPayload(t *testing.T) {
	t.Setenv("PRODUCT_DATASET_DIR", filepath.Join(t.TempDir(), "nope"))
	in := json.RawMessage(`{"directory_path":"` + filepath.ToSlash(filepath.Join(t.TempDir(), "missing")) + `"}`)
	out, err := tools.GetAllProductsData(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gjson.Get(out, "error").String(), "no JSON files found") {
		t.Errorf("expected error payload, got %s", out)
	}
}

func TestGetProductData_ByDesignation(t *testing.T) {
	dir := seedDataDir(t)
	t.Setenv("PRODUCT_DATASET_DIR", dir)

	in := json.RawMessage(`{"designation":"6306"}`)
	out, err := tools.GetProductData(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if gjson.Get(out, "designation").String() != "6306" || gjson.Get(out, "width").Int() != 27 {
		t.Errorf("unexpected document: %s", out)
	}

	out, err = tools.GetProductData(context.Background(), json.RawMessage(`{"designation":"9999"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gjson.Get(out, "error").String(), "no product found") {
		t.Errorf("expected miss payload, got %s", out)
	}
}

func TestGetProductKVPairs_DesignationFilter(t *testing.T) {
	dir := seedDataDir(t)
	in, _ := json.Marshal(map[string]any{"designation": " 6205 ", "directory_path": dir})
	out, err := tools.GetProductKVPairs(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	items := gjson.Get(out, "items").Array()
	if len(items) != 1 {
		t.Fatalf("items: got %d want 1 (%s)", len(items), out)
	}
	if items[0].Get("designation").String() != "6205" {
		t.Errorf("designation: got %s", items[0].Get("designation").String())
	}

	kv := items[0].Get("kv").Array()
	found := map[string]gjson.Result{}
	for _, p := range kv {
		found[p.Get("path").String()] = p.Get("value")
	}
	if found["dimensions[2].symbol"].String() != "B" {
		t.Errorf("dimensions[2].symbol: got %v", found["dimensions[2].symbol"])
	}
	if found["dimensions[2].value"].Float() != 15 {
		t.Errorf("dimensions[2].value: got %v", found["dimensions[2].value"])
	}
	if found["dimensions[2].unit"].String() != "mm" {
		t.Errorf("dimensions[2].unit: got %v", found["dimensions[2].unit"])
	}
}

func TestGetProductKVPairs_LimitFloorAndTruncation(t *testing.T) {
	dir := t.TempDir()
	// 60 scalar fields: above the floor of 50, below the default of 200.
	var sb strings.Builder
	sb.WriteString(`{"designation":"many"`)
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, `,"f%02d":1`, i)
	}
	sb.WriteString(`}`)
	if err := os.WriteFile(filepath.Join(dir, "many.json"), []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	// Requested limit below the floor is raised to 50.
	in, _ := json.Marshal(map[string]any{"directory_path": dir, "limit": 10})
	out, err := tools.GetProductKVPairs(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	item := gjson.Get(out, "items.0")
	if got := len(item.Get("kv").Array()); got != 50 {
		t.Fatalf("kv pairs: got %d want 50", got)
	}
	if !item.Get("truncated").Bool() {
		t.Error("expected per-item truncated=true")
	}
	if !gjson.Get(out, "truncated").Bool() {
		t.Error("expected document-level truncated=true")
	}
}

func TestCurrentTime_Shape(t *testing.T) {
	out, err := tools.CurrentTime(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if gjson.Get(out, "current_time").String() == "" {
		t.Errorf("missing current_time: %s", out)
	}
}
