package products

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// Index is an in-memory catalogue of product documents keyed by lowercased
// designation (falling back to the file name). Safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	byKey map[string]gjson.Result
}

func NewIndex() *Index {
	return &Index{byKey: make(map[string]gjson.Result)}
}

// Load rebuilds the index from every *.json file under the given directories
// (recursively), later directories losing to earlier ones only on key
// collision within the same walk order. Unreadable files are skipped.
// Returns the number of documents indexed.
func (ix *Index) Load(dirs ...string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.byKey = make(map[string]gjson.Result)
	count := 0
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
				return nil
			}
			doc, err := LoadFile(path)
			if err != nil {
				return nil
			}
			key := Designation(doc)
			if key == "" {
				key = filepath.Base(path)
			}
			ix.byKey[strings.ToLower(strings.TrimSpace(key))] = doc
			count++
			return nil
		})
	}
	return count
}

// Get looks up a product by designation, case-insensitively.
func (ix *Index) Get(designation string) (gjson.Result, bool) {
	key := strings.ToLower(strings.TrimSpace(designation))
	if key == "" {
		return gjson.Result{}, false
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	doc, ok := ix.byKey[key]
	return doc, ok
}

// Designations returns the indexed keys, unordered.
func (ix *Index) Designations() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	keys := make([]string, 0, len(ix.byKey))
	for k := range ix.byKey {
		keys = append(keys, k)
	}
	return keys
}
