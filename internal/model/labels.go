// Package model provides data models for the observability engine.
package model

import (
	"encoding/json"
	"sort"
)

// Reserved label names carried by backend alerts. These are parsed once at
// the ingress boundary and never treated as user-facing context labels.
const (
	LabelAlertName    = "alertname"      // Alert rule name
	LabelSeverity     = "severity"       // Alert severity
	LabelService      = "service"        // Emitting service (preferred log scope)
	LabelJob          = "job"            // Scrape job (fallback log scope)
	LabelSchemaMarker = "__obs_schema__" // Internal schema marker, never displayed
)

// LabelSet is a key->value label mapping as returned by the backends.
// Ordering is irrelevant; use SortedKeys for stable iteration.
type LabelSet map[string]string

// Get returns the value for name, or empty string if absent.
func (ls LabelSet) Get(name string) string {
	return ls[name]
}

// Has reports whether the label is present with a non-empty value.
func (ls LabelSet) Has(name string) bool {
	return ls[name] != ""
}

// SortedKeys returns all label names in lexical order.
func (ls LabelSet) SortedKeys() []string {
	keys := make([]string, 0, len(ls))
	for k := range ls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsReserved reports whether a label name is reserved for internal use
// and should be excluded from user-facing label listings.
func IsReserved(name string) bool {
	switch name {
	case LabelAlertName, LabelSeverity, LabelSchemaMarker:
		return true
	}
	return false
}

// DisplayLabels returns a copy of the set without reserved labels.
func (ls LabelSet) DisplayLabels() LabelSet {
	out := make(LabelSet, len(ls))
	for k, v := range ls {
		if !IsReserved(k) {
			out[k] = v
		}
	}
	return out
}

// ParseLabelJSON parses a JSON-encoded label object into a LabelSet.
// Returns an error for anything that is not a flat string->string object.
func ParseLabelJSON(raw string) (LabelSet, error) {
	var ls LabelSet
	if err := json.Unmarshal([]byte(raw), &ls); err != nil {
		return nil, err
	}
	return ls, nil
}
