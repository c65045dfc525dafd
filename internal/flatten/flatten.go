// Package flatten unrolls a JSON document into (path, primitive value) pairs
// in breadth-first order: all of a node's scalar members are yielded before
// any descendant of its container members. Object members are visited in
// document order, so the output is deterministic for a given document.
//
// Paths use dotted notation for object members and bracket indices for array
// elements, e.g. "dimensions[2].value". A bare scalar document yields exactly
// one pair with path "$".
package flatten

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Pair is one flattened leaf. Value is the decoded primitive: string,
// float64, bool, or nil.
type Pair struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type node struct {
	path string
	val  gjson.Result
}

// Flatten yields every leaf of doc. Any well-formed JSON value is accepted.
func Flatten(doc gjson.Result) []Pair {
	pairs, _ := FlattenLimit(doc, 0)
	return pairs
}

// FlattenLimit yields at most limit leaves (no cap when limit <= 0) and
// reports whether the document held more.
func FlattenLimit(doc gjson.Result, limit int) ([]Pair, bool) {
	var out []Pair
	truncated := false

	emit := func(path string, v gjson.Result) bool {
		out = append(out, Pair{Path: path, Value: v.Value()})
		if limit > 0 && len(out) >= limit {
			truncated = true
			return false
		}
		return true
	}

	queue := []node{{path: "", val: doc}}
	for len(queue) > 0 && !truncated {
		n := queue[0]
		queue = queue[1:]

		switch {
		case n.val.IsObject():
			n.val.ForEach(func(key, value gjson.Result) bool {
				p := key.String()
				if n.path != "" {
					p = n.path + "." + p
				}
				if value.IsObject() || value.IsArray() {
					queue = append(queue, node{path: p, val: value})
					return true
				}
				return emit(p, value)
			})
		case n.val.IsArray():
			i := 0
			n.val.ForEach(func(_, value gjson.Result) bool {
				p := bracket(n.path, i)
				i++
				if value.IsObject() || value.IsArray() {
					queue = append(queue, node{path: p, val: value})
					return true
				}
				return emit(p, value)
			})
		default:
			p := n.path
			if p == "" {
				p = "$"
			}
			emit(p, n.val)
		}
	}

	return out, truncated
}

func bracket(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
