// Package products reads the product JSON documents that back the lookup
// tools. Documents live in a directory of *.json files; when no directory is
// given explicitly, a fallback chain of candidate locations is searched.
package products

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	envDatasetPath = "PRODUCT_DATASET_PATH"
	envDatasetDir  = "PRODUCT_DATASET_DIR"

	defaultDatasetPath = "./data/products/sample.json"
	defaultDatasetDir  = "./data/products"
)

// DefaultPath returns the single-product dataset file, env-overridable.
func DefaultPath() string {
	if p := os.Getenv(envDatasetPath); p != "" {
		return p
	}
	return defaultDatasetPath
}

// DefaultDir returns the product dataset directory, env-overridable.
func DefaultDir() string {
	if d := os.Getenv(envDatasetDir); d != "" {
		return d
	}
	return defaultDatasetDir
}

// FallbackDirs builds the candidate directory chain for an all-products read.
// The explicit directory (when given) is tried first, then the configured
// dataset dir, then the conventional locations.
func FallbackDirs(explicit string) []string {
	var dirs []string
	add := func(d string) {
		if d == "" {
			return
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			return
		}
		for _, seen := range dirs {
			if seen == abs {
				return
			}
		}
		dirs = append(dirs, abs)
	}
	add(explicit)
	add(DefaultDir())
	add("./data/products")
	add("./data")
	add("./")
	return dirs
}

// LoadFile reads and parses one JSON document.
func LoadFile(path string) (gjson.Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(b) {
		return gjson.Result{}, fmt.Errorf("invalid JSON in %s", path)
	}
	return gjson.ParseBytes(b), nil
}

// Document is one product file read during an all-products scan. Err is set
// when the file existed but could not be read or parsed; such entries are
// reported to the model rather than dropped.
type Document struct {
	Name string
	Doc  gjson.Result
	Err  error
}

// LoadAll reads every file matching pattern (default *.json) from the first
// fallback directory that yields at least one match. It returns the tried
// directories alongside the error so callers can surface them.
func LoadAll(explicitDir, pattern string) ([]Document, []string, error) {
	if pattern == "" {
		pattern = "*.json"
	}

	var tried []string
	for _, dir := range FallbackDirs(explicitDir) {
		tried = append(tried, dir)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)

		docs := make([]Document, 0, len(matches))
		for _, p := range matches {
			doc, err := LoadFile(p)
			docs = append(docs, Document{Name: filepath.Base(p), Doc: doc, Err: err})
		}
		return docs, tried, nil
	}
	return nil, tried, fmt.Errorf("no JSON files found in any of: %s", strings.Join(tried, ", "))
}

// designationKeys is the fallback chain of candidate identifier fields.
var designationKeys = []string{"designation", "title", "name", "product_name"}

// Designation resolves the human-meaningful product identifier from a
// document, checking the top level first and then a nested "product" object.
// Returns "" when no candidate field holds a non-empty string.
func Designation(doc gjson.Result) string {
	if !doc.IsObject() {
		return ""
	}
	for _, key := range designationKeys {
		if v := doc.Get(key); v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	if nested := doc.Get("product"); nested.IsObject() {
		for _, key := range designationKeys {
			if v := nested.Get(key); v.Type == gjson.String {
				if s := strings.TrimSpace(v.String()); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// MatchesDesignation reports whether the document's resolved identifier
// equals want under case-insensitive, trimmed comparison.
func MatchesDesignation(doc gjson.Result, want string) bool {
	got := Designation(doc)
	if got == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}
