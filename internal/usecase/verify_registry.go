package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// VerifyRegistryResult contains the outcome of a registry check
type VerifyRegistryResult struct {
	Checked   int
	Issues    []domain.Issue
	Ambiguous []domain.Lookup
}

// OK reports whether no integrity issue was found. Ambiguous selectors are
// legitimate and do not fail verification.
func (r *VerifyRegistryResult) OK() bool {
	return len(r.Issues) == 0
}

// VerifyRegistry checks that every definition hashes to its selector
type VerifyRegistry struct {
	source   IndexSource
	verifier RegistryVerifier
	sink     ProgressSink
}

// NewVerifyRegistry creates a new VerifyRegistry use case
func NewVerifyRegistry(source IndexSource, verifier RegistryVerifier, sink ProgressSink) *VerifyRegistry {
	return &VerifyRegistry{
		source:   source,
		verifier: verifier,
		sink:     sink,
	}
}

// Run executes the verification
func (uc *VerifyRegistry) Run(ctx context.Context) (*VerifyRegistryResult, error) {
	idx := uc.source.Snapshot()
	defs := idx.Definitions()

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "verifying",
		Total:   len(defs),
		Message: fmt.Sprintf("Verifying %d definitions", len(defs)),
		Spinner: true,
	})

	result := &VerifyRegistryResult{
		Checked:   len(defs),
		Issues:    uc.verifier.Verify(defs),
		Ambiguous: idx.Ambiguous(),
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(defs),
		Total:   len(defs),
		Message: fmt.Sprintf("Verified %d definitions", len(defs)),
	})
	return result, nil
}
