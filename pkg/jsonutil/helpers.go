// Package jsonutil provides JSON output and structural diff helpers for
// Tempo's command line.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Print writes v to w as indented JSON followed by a newline.
func Print(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// Change is one difference between two JSON documents.
type Change struct {
	Path     string `json:"path"`
	Type     string `json:"type"` // "add", "update", "delete"
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
}

// Diff compares the JSON encodings of two values and returns the
// differences, ordered by path. Objects are compared key by key and
// arrays index by index; a nil value compares as an empty object.
func Diff(oldV, newV interface{}) ([]Change, error) {
	oldTree, err := toTree(oldV)
	if err != nil {
		return nil, fmt.Errorf("encoding old value: %w", err)
	}
	newTree, err := toTree(newV)
	if err != nil {
		return nil, fmt.Errorf("encoding new value: %w", err)
	}
	return diffValues("", oldTree, newTree, nil), nil
}

func toTree(v interface{}) (interface{}, error) {
	if v == nil {
		return map[string]interface{}{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree interface{}
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	if tree == nil {
		return map[string]interface{}{}, nil
	}
	return tree, nil
}

func diffValues(path string, oldVal, newVal interface{}, changes []Change) []Change {
	switch o := oldVal.(type) {
	case map[string]interface{}:
		if n, ok := newVal.(map[string]interface{}); ok {
			return diffMaps(path, o, n, changes)
		}
	case []interface{}:
		if n, ok := newVal.([]interface{}); ok {
			return diffSlices(path, o, n, changes)
		}
	}

	oldStr, newStr := toJSONStr(oldVal), toJSONStr(newVal)
	if oldStr != newStr {
		changes = append(changes, Change{Path: path, Type: "update", OldValue: oldStr, NewValue: newStr})
	}
	return changes
}

func diffMaps(prefix string, oldMap, newMap map[string]interface{}, changes []Change) []Change {
	// Collect all keys
	allKeys := make(map[string]bool)
	for k := range oldMap {
		allKeys[k] = true
	}
	for k := range newMap {
		allKeys[k] = true
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(allKeys))
	for k := range allKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		oldVal, oldExists := oldMap[k]
		newVal, newExists := newMap[k]

		switch {
		case !oldExists && newExists:
			changes = append(changes, Change{Path: path, Type: "add", NewValue: toJSONStr(newVal)})
		case oldExists && !newExists:
			changes = append(changes, Change{Path: path, Type: "delete", OldValue: toJSONStr(oldVal)})
		default:
			changes = diffValues(path, oldVal, newVal, changes)
		}
	}

	return changes
}

func diffSlices(prefix string, oldSlice, newSlice []interface{}, changes []Change) []Change {
	n := len(oldSlice)
	if len(newSlice) > n {
		n = len(newSlice)
	}
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		switch {
		case i >= len(oldSlice):
			changes = append(changes, Change{Path: path, Type: "add", NewValue: toJSONStr(newSlice[i])})
		case i >= len(newSlice):
			changes = append(changes, Change{Path: path, Type: "delete", OldValue: toJSONStr(oldSlice[i])})
		default:
			changes = diffValues(path, oldSlice[i], newSlice[i], changes)
		}
	}
	return changes
}

func toJSONStr(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// TruncateString truncates a string to maxLen runes, adding "..."
// if truncation occurred.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
