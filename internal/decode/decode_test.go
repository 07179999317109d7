// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/masterdata/pkg/types"
)

func fieldNames(r types.Record) []string {
	var names []string
	for pair := r.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func TestParseKeepsFieldOrder(t *testing.T) {
	src := `
- Id: 1001
  Title: 夏めきペイン
  OrderId: 3
  Singers: "1,2"
- Title: second
  Id: 1002
`
	v, err := Parse([]byte(src))
	require.NoError(t, err)

	items, ok := v.([]any)
	require.True(t, ok, "top level should be a sequence, got %T", v)
	require.Len(t, items, 2)

	first := items[0].(types.Record)
	assert.Equal(t, []string{"Id", "Title", "OrderId", "Singers"}, fieldNames(first))
	id, _ := first.Get("Id")
	assert.Equal(t, 1001, id)
	title, _ := first.Get("Title")
	assert.Equal(t, "夏めきペイン", title)
	singers, _ := first.Get("Singers")
	assert.Equal(t, "1,2", singers)

	assert.Equal(t, []string{"Title", "Id"}, fieldNames(items[1].(types.Record)))
}

func TestParseTimestamps(t *testing.T) {
	src := `
Date: 2024-05-01
Naive: 2024-05-01 12:30:00
Zoned: 2024-05-01T12:30:00+09:00
Utc: 2024-05-01T03:30:00Z
Quoted: "2024-05-01"
Nested:
  - At: 2023-12-31
`
	v, err := Parse([]byte(src))
	require.NoError(t, err)
	r := v.(types.Record)

	date, _ := r.Get("Date")
	require.IsType(t, types.Date{}, date)
	assert.Equal(t, "2024-05-01", date.(types.Date).ISO())

	naive, _ := r.Get("Naive")
	require.IsType(t, types.DateTime{}, naive)
	assert.False(t, naive.(types.DateTime).Zoned)
	assert.Equal(t, "2024-05-01T12:30:00", naive.(types.DateTime).ISO())

	zoned, _ := r.Get("Zoned")
	require.IsType(t, types.DateTime{}, zoned)
	assert.True(t, zoned.(types.DateTime).Zoned)
	assert.Equal(t, "2024-05-01T12:30:00+09:00", zoned.(types.DateTime).ISO())

	utc, _ := r.Get("Utc")
	assert.Equal(t, "2024-05-01T03:30:00+00:00", utc.(types.DateTime).ISO())
	assert.True(t, utc.(types.DateTime).Time.Equal(time.Date(2024, 5, 1, 3, 30, 0, 0, time.UTC)))

	quoted, _ := r.Get("Quoted")
	assert.Equal(t, "2024-05-01", quoted)

	nested, _ := r.Get("Nested")
	at, _ := nested.([]any)[0].(types.Record).Get("At")
	assert.IsType(t, types.Date{}, at)
}

func TestParseScalars(t *testing.T) {
	src := `
Bool: true
Null: ~
Float: 1.25
Big: 18446744073709551615
Blob: !!binary aGk=
1: numeric key
`
	v, err := Parse([]byte(src))
	require.NoError(t, err)
	r := v.(types.Record)

	tests := []struct {
		key  string
		want any
	}{
		{"Bool", true},
		{"Null", nil},
		{"Float", 1.25},
		{"Big", uint64(18446744073709551615)},
		{"Blob", []byte("hi")},
		{"1", "numeric key"},
	}
	for _, tt := range tests {
		got, ok := r.Get(tt.key)
		require.True(t, ok, "missing key %q", tt.key)
		assert.Equal(t, tt.want, got, "key %q", tt.key)
	}
}

func TestParseAliasesAndMerge(t *testing.T) {
	src := `
base: &base
  Rarity: 3
  Type: live
card:
  <<: *base
  Id: 7
  Rarity: 4
tags: &tags [a, b]
again: *tags
`
	v, err := Parse([]byte(src))
	require.NoError(t, err)
	r := v.(types.Record)

	cardV, _ := r.Get("card")
	card := cardV.(types.Record)
	assert.Equal(t, []string{"Rarity", "Type", "Id"}, fieldNames(card), "merged fields come first")
	rarity, _ := card.Get("Rarity")
	assert.Equal(t, 4, rarity, "explicit key wins over merged key")
	typ, _ := card.Get("Type")
	assert.Equal(t, "live", typ)

	again, _ := r.Get("again")
	assert.Equal(t, []any{"a", "b"}, again)
}

func TestParseMergeOrder(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantFields []string
		wantValues map[string]any
	}{
		{
			name:       "merge then new key",
			src:        `b: &b {A: 1, B: 2}
r:
  <<: *b
  C: 3
`,
			wantFields: []string{"A", "B", "C"},
			wantValues: map[string]any{"A": 1, "B": 2, "C": 3},
		},
		{
			name:       "explicit key before merge keeps merged position",
			src:        `b: &b {A: 1, B: 2}
r:
  B: 9
  <<: *b
`,
			wantFields: []string{"A", "B"},
			wantValues: map[string]any{"A": 1, "B": 9},
		},
		{
			name:       "earlier source wins and later source leads",
			src:        `x: &x {A: 1}
y: &y {B: 2, A: 5}
r:
  <<: [*x, *y]
`,
			wantFields: []string{"B", "A"},
			wantValues: map[string]any{"A": 1, "B": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.src))
			require.NoError(t, err)
			rv, _ := v.(types.Record).Get("r")
			r := rv.(types.Record)
			assert.Equal(t, tt.wantFields, fieldNames(r))
			for k, want := range tt.wantValues {
				got, _ := r.Get(k)
				assert.Equal(t, want, got, k)
			}
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	v, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "malformed yaml", src: "- a\nb: [\n"},
		{name: "composite key", src: "? [a, b]\n: value\n"},
		{name: "bad timestamp", src: "When: !!timestamp yesterday\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}
