// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"

	"github.com/pdiddy/masterdata/internal/decode"
	"github.com/pdiddy/masterdata/pkg/types"
)

// Load reads a converted JSON database. The top level must be a mapping
// whose values are mappings. Dates and timestamps come back as the ISO-8601
// strings they were written as.
func Load(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// JSON is valid YAML; the YAML decoder keeps key order.
	parsed, err := decode.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	top, ok := parsed.(types.Record)
	if !ok {
		return nil, fmt.Errorf("%s: top-level value is %s, want a mapping", path, kindOf(parsed))
	}

	doc := types.NewDocument()
	for pair := top.Oldest(); pair != nil; pair = pair.Next() {
		rec, ok := pair.Value.(types.Record)
		if !ok {
			return nil, fmt.Errorf("%s: entry %q is not a mapping", path, pair.Key)
		}
		doc.Set(pair.Key, rec)
	}
	return doc, nil
}
