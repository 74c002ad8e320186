package progress

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

func TestSpinnerSink_Messages(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	sink := newSpinnerSink(&buf)

	sink.Info("registry reloaded")
	sink.Error("registry reload failed")

	assert.Equal(t, "registry reloaded\nregistry reload failed\n", buf.String())
}

func TestSpinnerSink_ConcurrentProgress(t *testing.T) {
	var buf bytes.Buffer
	sink := newSpinnerSink(&buf)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "decoding", Current: i, Total: 8, Message: "decoding", Spinner: true})
		}()
	}
	wg.Wait()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "complete"})
	sink.Stop()
	assert.False(t, sink.spinner.Active())
}

func TestNewSink(t *testing.T) {
	assert.IsType(t, &NopSink{}, NewSink(true, false))
	assert.IsType(t, &NopSink{}, NewSink(false, true))
	assert.IsType(t, &SpinnerSink{}, NewSink(false, false))
}
