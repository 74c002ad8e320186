package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// BatchRenderer renders batch results in input order
type BatchRenderer struct {
	out  io.Writer
	json bool
}

// NewBatchRenderer creates a new batch renderer
func NewBatchRenderer(out io.Writer, json bool) *BatchRenderer {
	return &BatchRenderer{out: out, json: json}
}

type batchItemJSON struct {
	Index  int         `json:"index"`
	Result *ResultJSON `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Render writes one block per item followed by a summary line
func (r *BatchRenderer) Render(result *usecase.BatchResult) error {
	if r.json {
		items := make([]batchItemJSON, len(result.Items))
		for i, item := range result.Items {
			items[i].Index = item.Index
			if item.Err != nil {
				items[i].Error = item.Err.Error()
				continue
			}
			res := NewResultJSON(item.Result)
			items[i].Result = &res
		}
		return writeJSON(r.out, items)
	}

	for i, item := range result.Items {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintf(r.out, "#%d ", item.Index+1)
		if item.Err != nil {
			fmt.Fprintln(r.out, FormatError(item.Err.Error()))
			continue
		}
		renderResult(r.out, item.Result)
	}

	fmt.Fprintf(r.out, "\nDecoded %d of %d payloads", result.Decoded, len(result.Items))
	if result.Failed > 0 {
		fmt.Fprintf(r.out, ", %d failed", result.Failed)
	}
	fmt.Fprintln(r.out)
	return nil
}
