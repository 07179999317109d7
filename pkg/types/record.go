// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is one master-data entry: field names mapped to values in source order.
// Values are nil, bool, int, uint64, float64, string, []byte, Date, DateTime,
// []any, or a nested Record.
type Record = *orderedmap.OrderedMap[string, any]

// Document is a converted database: stringified key mapped to its Record, in
// input order.
type Document = *orderedmap.OrderedMap[string, Record]

// NewRecord returns an empty Record.
func NewRecord() Record {
	return orderedmap.New[string, any]()
}

// NewDocument returns an empty Document.
func NewDocument() Document {
	return orderedmap.New[string, Record]()
}

const (
	isoDate     = "2006-01-02"
	isoDateTime = "2006-01-02T15:04:05"
	isoMicros   = ".000000"
	isoOffset   = "-07:00"
)

// Date is a calendar date with no time of day (YAML "2024-05-01").
type Date struct {
	time.Time
}

// ISO returns the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format(isoDate)
}

// DateTime is a timestamp. Zoned is false when the source text carried no
// UTC offset; such values are rendered without one.
type DateTime struct {
	Time  time.Time
	Zoned bool
}

// ISO returns the timestamp in ISO-8601 form. Fractional seconds appear only
// when the microsecond part is non-zero.
func (t DateTime) ISO() string {
	layout := isoDateTime
	if t.Time.Nanosecond()/int(time.Microsecond) != 0 {
		layout += isoMicros
	}
	if t.Zoned {
		layout += isoOffset
	}
	return t.Time.Format(layout)
}
