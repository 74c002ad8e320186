package usecase

import (
	"context"

	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// DecodePayload decodes a single payload and renders its message
type DecodePayload struct {
	decoder *Decoder
	sink    ProgressSink
}

// NewDecodePayload creates a new DecodePayload use case
func NewDecodePayload(decoder *Decoder, sink ProgressSink) *DecodePayload {
	return &DecodePayload{
		decoder: decoder,
		sink:    sink,
	}
}

// Run decodes req. Format failures point at a registry defect and are returned
// as errors rather than dropped.
func (uc *DecodePayload) Run(ctx context.Context, req DecodeRequest) (*domain.Result, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "decoding",
		Message: "Decoding " + req.Kind.String(),
	})

	result, err := uc.decoder.Decode(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := uc.decoder.Describe(result); err != nil {
		return nil, err
	}
	return result, nil
}
