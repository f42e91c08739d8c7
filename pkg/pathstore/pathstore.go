// Package pathstore implements generic get/set access into a JSON-shaped
// tree (map[string]any nodes, []any sequences) addressed by dot-separated
// path expressions such as "users.0.name".
//
// The package is deliberately domain-agnostic: it knows nothing about what
// the tree contains, performs no business validation, and never checks the
// type of a value it overwrites.
package pathstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors. Use errors.Is() for matching.
var (
	// ErrEmptyPath is returned when the path expression is empty.
	ErrEmptyPath = errors.New("path expression is empty")

	// ErrNotFound is returned by Get when any segment fails to resolve:
	// a missing field, an out-of-range index, or indexing a non-container.
	ErrNotFound = errors.New("no value at path")

	// ErrMissingParent is returned by Set when an intermediate segment is
	// absent. The store never invents intermediate structure.
	ErrMissingParent = errors.New("missing parent container at path")
)

// Get resolves path against root by repeated field/index lookup and returns
// the value found at the final segment.
func Get(root any, path string) (any, error) {
	segments, err := split(path)
	if err != nil {
		return nil, err
	}

	current := root
	for i, seg := range segments {
		next, ok := lookup(current, seg)
		if !ok {
			return nil, fmt.Errorf("%w: %q (segment %d)", ErrNotFound, path, i)
		}
		current = next
	}
	return current, nil
}

// Set resolves all but the last segment the same way Get does, then assigns
// value at the final segment, overwriting whatever was there. An absent
// intermediate segment fails with ErrMissingParent.
//
// root must be the tree's top-level map; assigning through a slice element
// mutates the shared backing array, so the change is visible from root.
func Set(root any, path string, value any) error {
	segments, err := split(path)
	if err != nil {
		return err
	}

	parent := root
	for i, seg := range segments[:len(segments)-1] {
		next, ok := lookup(parent, seg)
		if !ok {
			return fmt.Errorf("%w: %q (segment %d)", ErrMissingParent, path, i)
		}
		parent = next
	}

	last := segments[len(segments)-1]
	switch node := parent.(type) {
	case map[string]any:
		node[last] = value
		return nil
	case []any:
		ix, ok := index(last, len(node))
		if !ok {
			return fmt.Errorf("%w: %q (index %q)", ErrMissingParent, path, last)
		}
		node[ix] = value
		return nil
	default:
		return fmt.Errorf("%w: %q (segment %d is not a container)", ErrMissingParent, path, len(segments)-1)
	}
}

// split validates the path expression and returns its segments.
// Both "." and "/" act as separators; empty segments are invalid.
func split(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	segments := strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == '/'
	})
	if len(segments) == 0 {
		return nil, ErrEmptyPath
	}
	return segments, nil
}

// lookup resolves one segment against a node. Numeric segments index
// sequences; everything else is a field name.
func lookup(node any, seg string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[seg]
		return v, ok
	case []any:
		ix, ok := index(seg, len(n))
		if !ok {
			return nil, false
		}
		return n[ix], true
	default:
		return nil, false
	}
}

// index parses seg as a non-negative in-range sequence index.
func index(seg string, length int) (int, bool) {
	ix, err := strconv.Atoi(seg)
	if err != nil || ix < 0 || ix >= length {
		return 0, false
	}
	return ix, true
}
