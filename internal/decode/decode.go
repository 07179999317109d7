// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decode parses YAML master data into an ordered value tree.
// Mappings become types.Record values that keep source field order, and
// timestamp scalars become types.Date or types.DateTime.
package decode

import (
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/masterdata/internal/encode"
	"github.com/pdiddy/masterdata/pkg/types"
)

const (
	timestampTag = "!!timestamp"
	binaryTag    = "!!binary"
	mergeTag     = "!!merge"
)

// keyEncoder stringifies non-string mapping keys (e.g. `1: one`).
var keyEncoder = encode.New()

// Parse decodes a single YAML document. An empty document yields nil.
func Parse(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return Value(&root)
}

// Value converts a parsed node into the value tree.
func Value(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return Value(n.Content[0])
	case yaml.AliasNode:
		return Value(n.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := Value(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		return mapping(n)
	case yaml.ScalarNode:
		return scalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %v", n.Line, n.Kind)
}

// mapping builds a record with merged (`<<`) fields first, then the
// explicit pairs in document order. An explicit key that repeats a merged
// one replaces its value in place.
func mapping(n *yaml.Node) (types.Record, error) {
	var merged []types.Record
	type field struct {
		key   string
		value any
	}
	var explicit []field

	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]

		if kn.Kind == yaml.ScalarNode && kn.ShortTag() == mergeTag {
			m, err := mergeSources(vn)
			if err != nil {
				return nil, err
			}
			merged = append(merged, m...)
			continue
		}

		key, err := mappingKey(kn)
		if err != nil {
			return nil, err
		}
		v, err := Value(vn)
		if err != nil {
			return nil, err
		}
		explicit = append(explicit, field{key, v})
	}

	rec := types.NewRecord()
	// Later sources are laid down first so earlier ones override them.
	for i := len(merged) - 1; i >= 0; i-- {
		for pair := merged[i].Oldest(); pair != nil; pair = pair.Next() {
			rec.Set(pair.Key, pair.Value)
		}
	}
	for _, f := range explicit {
		rec.Set(f.key, f.value)
	}
	return rec, nil
}

// mergeSources resolves the value of a `<<` key: a mapping or a sequence of
// mappings, earlier ones taking precedence.
func mergeSources(n *yaml.Node) ([]types.Record, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		m, err := mapping(n)
		if err != nil {
			return nil, err
		}
		return []types.Record{m}, nil
	case yaml.SequenceNode:
		var out []types.Record
		for _, c := range n.Content {
			m, err := mergeSources(c)
			if err != nil {
				return nil, err
			}
			out = append(out, m...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: merge value must be a mapping", n.Line)
}

func mappingKey(n *yaml.Node) (string, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping key must be a scalar", n.Line)
	}
	v, err := scalar(n)
	if err != nil {
		return "", err
	}
	return keyEncoder.KeyString(v)
}

func scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case timestampTag:
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		if !strings.ContainsAny(n.Value, "Tt ") {
			return types.Date{Time: t}, nil
		}
		return types.DateTime{Time: t, Zoned: hasOffset(n.Value)}, nil
	case binaryTag:
		var s string
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return []byte(s), nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// hasOffset reports whether timestamp text ends in Z or a numeric UTC offset.
func hasOffset(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		return true
	}
	tail := s
	if i := strings.LastIndexAny(s, "Tt "); i >= 0 {
		tail = s[i+1:]
	}
	return strings.ContainsAny(tail, "+-")
}
