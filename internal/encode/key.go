// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package encode

import (
	"reflect"

	"github.com/spf13/cast"
)

// KeyString returns the text used when v becomes an object key. Temporal
// values use their registered hook and null becomes "null". Floats keep a
// fraction or exponent (1.0, 1e+21) so they never collide with integer
// keys. Other scalars use their plain text form and composites their
// compact JSON encoding.
func (e *Encoder) KeyString(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	if fn, ok := e.hooks[reflect.TypeOf(v)]; ok {
		return fn(v), nil
	}
	switch x := v.(type) {
	case float64:
		return formatFloat(x, 64), nil
	case float32:
		return formatFloat(float64(x), 32), nil
	case string, bool, int, int32, int64, uint, uint64:
		return cast.ToStringE(v)
	}
	data, err := e.Compact(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
