package usecase_test

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// recordingSink collects progress events from concurrent workers
type recordingSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
}

func (s *recordingSink) OnProgress(_ context.Context, ev usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) Info(string)  {}
func (s *recordingSink) Error(string) {}

func (s *recordingSink) last() usecase.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}

func batchRequests(t *testing.T) []usecase.DecodeRequest {
	caller := common.HexToAddress("0x000000000000000000000000000000000000aaaa")
	guardian := append(common.FromHex("0x5560e16d"), common.LeftPadBytes(caller.Bytes(), 32)...)
	revert := append(selectorBytes("Error(string)"), pack(t, []string{"string"}, "nope")...)
	balance := append(selectorBytes("balanceOf(address)"), common.LeftPadBytes(caller.Bytes(), 32)...)

	return []usecase.DecodeRequest{
		{Kind: domain.KindError, Data: guardian},
		{Kind: domain.KindError, Data: common.FromHex("0xdeadbeef")},
		{Kind: domain.KindError, Data: revert},
		{Kind: domain.KindFunction, Data: []byte{0x01}},
		{Kind: domain.KindFunction, Data: balance},
	}
}

func TestDecodeBatch_Run(t *testing.T) {
	tests := []struct {
		name    string
		workers int
	}{
		{name: "single worker", workers: 1},
		{name: "bounded pool", workers: 3},
		{name: "default pool", workers: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.RuntimeConfig{Workers: tt.workers}
			d := newDecoder(t, cfg, bundledEntries(t), nil)
			sink := &recordingSink{}
			uc := usecase.NewDecodeBatch(cfg, d, sink)

			reqs := batchRequests(t)
			result, err := uc.Run(context.Background(), reqs)
			require.NoError(t, err)
			require.Len(t, result.Items, len(reqs))
			assert.Equal(t, 3, result.Decoded)
			assert.Equal(t, 2, result.Failed)

			for i, item := range result.Items {
				assert.Equal(t, i, item.Index)
			}

			assert.Equal(t, "reverts when the caller is not a guardian", result.Items[0].Result.Message)
			assert.ErrorIs(t, result.Items[1].Err, domain.ErrUnknownSelector)
			assert.Equal(t, "nope", result.Items[2].Result.Message)
			assert.ErrorIs(t, result.Items[3].Err, domain.ErrMalformedPayload)
			assert.Equal(t, "balanceOf", result.Items[4].Result.Definition.Name)

			final := sink.last()
			assert.Equal(t, "complete", final.Stage)
			assert.Equal(t, len(reqs), final.Total)
		})
	}
}

func TestDecodeBatch_NeverPrompts(t *testing.T) {
	burn := entry(t, "Burnable", domain.KindFunction, "burn", domain.Param{Name: "amount", Type: "uint256"})
	collate := entry(t, "StorageProxy", domain.KindFunction, "collate_propagate_storage", domain.Param{Type: "bytes16"})

	selector := new(MockCandidateSelector)
	cfg := &config.RuntimeConfig{Workers: 2}
	d := newDecoder(t, cfg, []domain.Entry{burn, collate}, selector)
	uc := usecase.NewDecodeBatch(cfg, d, usecase.NopProgress{})

	payload := append(burn.Selector.Bytes(), pack(t, []string{"uint256"}, big.NewInt(1))...)
	result, err := uc.Run(context.Background(), []usecase.DecodeRequest{
		{Kind: domain.KindFunction, Data: payload},
		{Kind: domain.KindFunction, Data: payload, Hint: domain.Hint{Namespace: "Burnable"}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, result.Items[0].Err, domain.ErrAmbiguousSelector)
	require.NoError(t, result.Items[1].Err)
	assert.Equal(t, "burn", result.Items[1].Result.Definition.Name)
	selector.AssertNotCalled(t, "SelectCandidate", mock.Anything, mock.Anything)
}

func TestDecodeBatch_Cancelled(t *testing.T) {
	cfg := &config.RuntimeConfig{Workers: 1}
	d := newDecoder(t, cfg, bundledEntries(t), nil)
	uc := usecase.NewDecodeBatch(cfg, d, usecase.NopProgress{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reqs := batchRequests(t)
	result, err := uc.Run(ctx, reqs)
	require.NoError(t, err)
	assert.Equal(t, len(reqs), result.Failed)
	for _, item := range result.Items {
		assert.ErrorIs(t, item.Err, context.Canceled)
	}
}
