// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package encode

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/masterdata/pkg/types"
)

func record(kv ...any) types.Record {
	r := types.NewRecord()
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

func TestMarshalPreservesOrderAndIndents(t *testing.T) {
	doc := types.NewDocument()
	doc.Set("2", record("Id", 2, "Name", "B"))
	doc.Set("1", record("Id", 1, "Name", "A"))

	got, err := New().Marshal(doc)
	require.NoError(t, err)

	want := `{
  "2": {
    "Id": 2,
    "Name": "B"
  },
  "1": {
    "Id": 1,
    "Name": "A"
  }
}
`
	assert.Equal(t, want, string(got))
}

func TestMarshalEmptyDocument(t *testing.T) {
	got, err := New().Marshal(types.NewDocument())
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(got))
}

func TestMarshalLeavesTextUnescaped(t *testing.T) {
	r := record("Title", "残陽 <Live> & 花", "Empty", []any{})

	got, err := New(WithIndent("")).Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Title":"残陽 <Live> & 花","Empty":[]}`+"\n", string(got))
}

func TestMarshalTemporalValues(t *testing.T) {
	jst := time.FixedZone("", 9*3600)
	r := record(
		"Date", types.Date{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		"Naive", types.DateTime{Time: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		"Zoned", types.DateTime{Time: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC), Zoned: true},
		"Nested", []any{
			record("At", types.DateTime{Time: time.Date(2024, 5, 1, 9, 0, 0, 250000000, jst), Zoned: true}),
		},
		"Plain", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	)

	got, err := New(WithIndent("")).Compact(r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Date":"2024-05-01","Naive":"2024-05-01T12:30:00","Zoned":"2024-05-01T12:30:00+00:00",`+
			`"Nested":[{"At":"2024-05-01T09:00:00.250000+09:00"}],"Plain":"2024-05-01T00:00:00+00:00"}`,
		string(got))
}

func TestMarshalScalars(t *testing.T) {
	r := record("b", true, "n", nil, "f", 1.5, "u", uint64(math.MaxUint64), "i", -3, "whole", 2.0, "big", 1e21)

	got, err := New().Compact(r)
	require.NoError(t, err)
	assert.Equal(t, `{"b":true,"n":null,"f":1.5,"u":18446744073709551615,"i":-3,"whole":2.0,"big":1e+21}`, string(got))
}

func TestMarshalEscapesNonPrintable(t *testing.T) {
	r := record("Name", "a\u0080b\u009f\u007f\ufffe\uffff残")

	got, err := New().Compact(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Name":"a\u0080b\u009f\u007f\ufffe\uffff残"}`, string(got))
}

func TestMarshalUnencodable(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantPath string
	}{
		{name: "binary", value: record("Blob", []byte{0x01}), wantPath: "$.Blob"},
		{name: "nan", value: record("Score", math.NaN()), wantPath: "$.Score"},
		{name: "infinity", value: []any{1, math.Inf(1)}, wantPath: "$[1]"},
		{name: "struct", value: record("Inner", record("X", struct{}{})), wantPath: "$.Inner.X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Marshal(tt.value)
			require.ErrorIs(t, err, ErrUnencodable)
			assert.Contains(t, err.Error(), tt.wantPath)
		})
	}
}

func TestRegisterOverridesHook(t *testing.T) {
	type rarity int
	enc := New(WithIndent(""))
	Register(enc, func(r rarity) string { return "UR" })
	Register(enc, func(d types.Date) string { return d.Format("2006/01/02") })

	got, err := enc.Compact(record(
		"Rarity", rarity(4),
		"Day", types.Date{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	))
	require.NoError(t, err)
	assert.Equal(t, `{"Rarity":"UR","Day":"2024/05/01"}`, string(got))
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "int", value: 1001, want: "1001"},
		{name: "string", value: "abc", want: "abc"},
		{name: "float", value: 2.5, want: "2.5"},
		{name: "whole float", value: 1.0, want: "1.0"},
		{name: "large float", value: 1e21, want: "1e+21"},
		{name: "float at exponent cutoff", value: 1e16, want: "1e+16"},
		{name: "float below cutoff", value: 1e15, want: "1000000000000000.0"},
		{name: "small float", value: 1.5e-7, want: "1.5e-07"},
		{name: "negative float", value: -0.0001, want: "-0.0001"},
		{name: "float32", value: float32(0.1), want: "0.1"},
		{name: "bool", value: false, want: "false"},
		{name: "null", value: nil, want: "null"},
		{name: "date", value: types.Date{Time: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)}, want: "2023-01-02"},
		{name: "sequence", value: []any{1, "a"}, want: `[1,"a"]`},
		{name: "mapping", value: record("a", 1), want: `{"a":1}`},
	}

	enc := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enc.KeyString(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyStringUnencodable(t *testing.T) {
	_, err := New().KeyString([]byte("x"))
	require.ErrorIs(t, err, ErrUnencodable)
}
