// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package encode writes decoded master-data values as JSON. Object keys keep
// their insertion order and text is written without ASCII or HTML escaping.
// Types JSON cannot represent natively (dates, timestamps) are rendered
// through a registry of type-to-string hooks consulted before the built-in
// rules.
package encode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdiddy/masterdata/pkg/types"
)

// ErrUnencodable is returned (wrapped) when a value has no JSON form and no
// registered hook.
var ErrUnencodable = errors.New("unencodable value")

// Encoder renders value trees as JSON.
type Encoder struct {
	indent string
	hooks  map[reflect.Type]func(any) string
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithIndent sets the per-level indentation. An empty string produces
// compact output.
func WithIndent(indent string) Option {
	return func(e *Encoder) { e.indent = indent }
}

// New returns an Encoder with two-space indentation and ISO-8601 hooks for
// time.Time, types.Date and types.DateTime. A time.Time renders like a
// zoned types.DateTime.
func New(opts ...Option) *Encoder {
	e := &Encoder{
		indent: types.DefaultIndent,
		hooks:  make(map[reflect.Type]func(any) string),
	}
	Register(e, func(t time.Time) string { return types.DateTime{Time: t, Zoned: true}.ISO() })
	Register(e, types.Date.ISO)
	Register(e, types.DateTime.ISO)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a hook that renders values of type T as JSON strings,
// replacing any hook already registered for T.
func Register[T any](e *Encoder, fn func(T) string) {
	e.hooks[reflect.TypeFor[T]()] = func(v any) string { return fn(v.(T)) }
}

// Marshal encodes v and returns the document followed by a newline.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	var compact bytes.Buffer
	if err := e.write(&compact, v, "$"); err != nil {
		return nil, err
	}
	if e.indent == "" {
		compact.WriteByte('\n')
		return compact.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", e.indent); err != nil {
		return nil, fmt.Errorf("indenting JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Compact encodes v without indentation or trailing newline.
func (e *Encoder) Compact(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.write(&buf, v, "$"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) write(buf *bytes.Buffer, v any, path string) error {
	if v != nil {
		if fn, ok := e.hooks[reflect.TypeOf(v)]; ok {
			return writeString(buf, fn(v))
		}
	}

	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	case string:
		return writeString(buf, x)
	case int:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(x, 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(x, 10))
	case uint:
		buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case float64:
		return writeFloat(buf, x, path)
	case float32:
		return writeFloat(buf, float64(x), path)
	case json.Number:
		buf.WriteString(x.String())
	case types.Record:
		return writeObject(e, buf, x, path)
	case types.Document:
		return writeObject(e, buf, x, path)
	case map[string]any:
		return e.writeMap(buf, x, path)
	case []any:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.write(buf, item, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("%w: %T at %s", ErrUnencodable, v, path)
	}
	return nil
}

func writeObject[V any](e *Encoder, buf *bytes.Buffer, om *orderedmap.OrderedMap[string, V], path string) error {
	if om == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		if pair != om.Oldest() {
			buf.WriteByte(',')
		}
		if err := writeString(buf, pair.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := e.write(buf, pair.Value, path+"."+pair.Key); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeMap handles plain Go maps, which have no order; keys are sorted as
// encoding/json does.
func (e *Encoder) writeMap(buf *bytes.Buffer, m map[string]any, path string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := e.write(buf, m[k], path+"."+k); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeFloat(buf *bytes.Buffer, f float64, path string) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: float %v at %s", ErrUnencodable, f, path)
	}
	buf.WriteString(formatFloat(f, 64))
	return nil
}

// formatFloat renders f in shortest round-trip form, always with a fraction
// or an exponent so floats never read back as integers: 1.0, 0.5, 1e+16,
// 1.5e-07. Positional form is used for exponents in [-4, 16).
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(f, 'e', -1, bitSize)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err == nil && exp >= -4 && exp < 16 {
		s := strconv.FormatFloat(f, 'f', -1, bitSize)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return e
}

// writeString appends s as a JSON string literal, leaving non-ASCII and
// HTML characters as they are. Code points YAML does not allow as literal
// text (DEL, C1 controls, U+FFFE, U+FFFF) are written as \uXXXX escapes so
// the output stays readable by the YAML-based loader.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding string: %w", err)
	}
	for _, r := range strings.TrimSuffix(tmp.String(), "\n") {
		if nonPrintable(r) {
			fmt.Fprintf(buf, `\u%04x`, r)
			continue
		}
		buf.WriteRune(r)
	}
	return nil
}

func nonPrintable(r rune) bool {
	return r == 0x7f || (r >= 0x80 && r <= 0x9f) || r == 0xfffe || r == 0xffff
}
