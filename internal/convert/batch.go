// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"

	"github.com/pdiddy/masterdata/internal/encode"
	"github.com/pdiddy/masterdata/pkg/types"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Results []Result
	Failed  int
}

// Converted returns the number of tables written.
func (r BatchResult) Converted() int {
	return len(r.Results)
}

// Total returns the number of tables processed.
func (r BatchResult) Total() int {
	return len(r.Results) + r.Failed
}

// HasFailures reports whether any table failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts every configured table in order, printing per-table
// status to w and returning a summary. A failing table does not stop the run.
func ConvertBatch(cfg types.ConvertConfig, w io.Writer) BatchResult {
	enc := encode.New(encode.WithIndent(indentOf(cfg)))

	var batch BatchResult
	for _, db := range cfg.Databases {
		c := New(cfg.KeyFieldFor(db), enc)
		result, err := c.ConvertFile(db.Input, db.Output, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", db.Name, err)
			batch.Failed++
			continue
		}
		result.Name = db.Name
		fmt.Fprintf(w, "converted: %s (%d entries, %d skipped)\n", db.Name, result.Converted, result.Skipped)
		batch.Results = append(batch.Results, result)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		batch.Converted(), batch.Failed, batch.Total())
	return batch
}

func indentOf(cfg types.ConvertConfig) string {
	if cfg.Indent == "" {
		return types.DefaultIndent
	}
	return cfg.Indent
}
