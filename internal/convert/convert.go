// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns YAML master-data tables (sequences of records) into
// JSON databases keyed by a record field.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/masterdata/internal/decode"
	"github.com/pdiddy/masterdata/internal/encode"
	"github.com/pdiddy/masterdata/pkg/types"
)

var (
	// ErrMissingInput is returned when the input file does not exist.
	ErrMissingInput = errors.New("input file not found")

	// ErrNotSequence is returned when the input's top-level value is not a
	// sequence of records.
	ErrNotSequence = errors.New("top-level value is not a sequence")
)

// Result holds the outcome of converting one table.
type Result struct {
	Name string
	// Records is the number of elements in the input sequence.
	Records int
	// Converted is the number of entries in the written database.
	Converted int
	// Skipped counts records without the key field.
	Skipped int
	// Overwritten counts records whose key was already present.
	Overwritten int
}

// Converter builds keyed databases from record sequences.
type Converter struct {
	keyField string
	enc      *encode.Encoder
}

// New returns a Converter keyed by keyField, encoding with enc. A nil enc
// uses encode.New().
func New(keyField string, enc *encode.Encoder) *Converter {
	if keyField == "" {
		keyField = types.DefaultKeyField
	}
	if enc == nil {
		enc = encode.New()
	}
	return &Converter{keyField: keyField, enc: enc}
}

// KeyField returns the field records are keyed by.
func (c *Converter) KeyField() string {
	return c.keyField
}

// Index maps each record's stringified key field to the record, in input
// order. Records without the key field are skipped with a warning written
// to w. A repeated key replaces the earlier record and keeps its position.
func (c *Converter) Index(items []any, w io.Writer) (types.Document, Result, error) {
	doc := types.NewDocument()
	result := Result{Records: len(items)}

	for i, item := range items {
		rec, ok := item.(types.Record)
		var keyValue any
		if ok && rec != nil {
			keyValue, ok = rec.Get(c.keyField)
		} else {
			ok = false
		}
		if !ok {
			fmt.Fprintf(w, "warning: record %d has no %q key, skipping: %s\n", i, c.keyField, c.describe(item))
			result.Skipped++
			continue
		}

		key, err := c.enc.KeyString(keyValue)
		if err != nil {
			return nil, result, fmt.Errorf("record %d: key %q: %w", i, c.keyField, err)
		}
		if _, replaced := doc.Set(key, rec); replaced {
			result.Overwritten++
		}
	}

	result.Converted = doc.Len()
	return doc, result, nil
}

// ConvertFile reads the YAML table at input and writes the keyed JSON
// database to output, creating output's parent directories. Nothing is
// written when the input is missing, is not a sequence, or holds a value
// that cannot be encoded.
func (c *Converter) ConvertFile(input, output string, w io.Writer) (Result, error) {
	if _, err := os.Stat(input); err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingInput, input)
		}
		return Result{}, fmt.Errorf("checking input %s: %w", input, err)
	}

	fmt.Fprintf(w, "reading YAML data from %s\n", input)
	data, err := os.ReadFile(input)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", input, err)
	}

	parsed, err := decode.Parse(data)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", input, err)
	}
	items, ok := parsed.([]any)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s holds %s", ErrNotSequence, input, kindOf(parsed))
	}

	doc, result, err := c.Index(items, w)
	if err != nil {
		return result, fmt.Errorf("indexing %s: %w", input, err)
	}

	fmt.Fprintf(w, "converted %d records, writing JSON to %s\n", result.Converted, output)
	out, err := c.enc.Marshal(doc)
	if err != nil {
		return result, fmt.Errorf("encoding %s: %w", output, err)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return result, fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Fprintln(w, "conversion complete")
	return result, nil
}

// describe renders a skipped record for the warning line.
func (c *Converter) describe(v any) string {
	data, err := c.enc.Compact(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "an empty document"
	case types.Record:
		return "a mapping"
	case []any:
		return "a sequence"
	default:
		return "a scalar"
	}
}
