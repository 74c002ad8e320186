package usecase

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
	"golang.org/x/sync/errgroup"
)

// BatchItem is the outcome of one request in a batch
type BatchItem struct {
	Index   int
	Request DecodeRequest
	Result  *domain.Result
	Err     error
}

// BatchResult holds every item of a batch in input order
type BatchResult struct {
	Items   []BatchItem
	Decoded int
	Failed  int
}

// DecodeBatch decodes many independent payloads across a bounded worker pool
type DecodeBatch struct {
	config  *config.RuntimeConfig
	decoder *Decoder
	sink    ProgressSink
}

// NewDecodeBatch creates a new DecodeBatch use case
func NewDecodeBatch(cfg *config.RuntimeConfig, decoder *Decoder, sink ProgressSink) *DecodeBatch {
	return &DecodeBatch{
		config:  cfg,
		decoder: decoder,
		sink:    sink,
	}
}

// Run decodes every request. Failures are recorded per item and never abort
// the batch; ambiguous selectors are reported, not prompted for. Cancelling
// ctx stops scheduling and marks the remaining items with the context error.
func (uc *DecodeBatch) Run(ctx context.Context, reqs []DecodeRequest) (*BatchResult, error) {
	workers := uc.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	items := make([]BatchItem, len(reqs))
	var done atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, req := range reqs {
		items[i] = BatchItem{Index: i, Request: req}
		if err := ctx.Err(); err != nil {
			items[i].Err = err
			continue
		}

		g.Go(func() error {
			item := &items[i]
			item.Result, item.Err = uc.decodeOne(ctx, req)

			n := done.Add(1)
			uc.sink.OnProgress(ctx, ProgressEvent{
				Stage:   "decoding",
				Current: int(n),
				Total:   len(reqs),
				Message: fmt.Sprintf("Decoded %d/%d payloads", n, len(reqs)),
				Spinner: true,
			})
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{Items: items}
	for _, item := range items {
		if item.Err != nil {
			result.Failed++
		} else {
			result.Decoded++
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(reqs),
		Total:   len(reqs),
		Message: fmt.Sprintf("Decoded %d payloads, %d failed", result.Decoded, result.Failed),
	})
	return result, nil
}

func (uc *DecodeBatch) decodeOne(ctx context.Context, req DecodeRequest) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := uc.decoder.decode(ctx, req, false)
	if err != nil {
		return nil, err
	}
	if err := uc.decoder.Describe(result); err != nil {
		return nil, err
	}
	return result, nil
}
