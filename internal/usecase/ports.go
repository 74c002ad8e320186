package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// SelectorIndex is an immutable view over a loaded registry
type SelectorIndex interface {
	Lookup(kind domain.Kind, selector domain.Selector) domain.Lookup
	Definitions() []*domain.Definition
	Namespaces() []string
	Ambiguous() []domain.Lookup
}

// IndexSource hands out the current index. Snapshots stay valid after a reload.
type IndexSource interface {
	Snapshot() SelectorIndex
}

// RegistryLoader reads registry entries from their backing files
type RegistryLoader interface {
	Load(ctx context.Context) ([]domain.Entry, error)
	Paths() []string
}

// RegistryReloader rebuilds the index from the loader and swaps it in
type RegistryReloader interface {
	Reload(ctx context.Context) (SelectorIndex, error)
}

// RegistryWatcher reports changes to the registry files until ctx is done
type RegistryWatcher interface {
	Watch(ctx context.Context, paths []string, onChange func()) error
}

// NamespaceResolver narrows ambiguous candidates with a hint
type NamespaceResolver interface {
	// Namespace returns the namespace a hint points at, or "" if none
	Namespace(hint domain.Hint) string
	// Resolve picks the single candidate matching the hint. ok is false when
	// the hint does not narrow the set to exactly one definition.
	Resolve(candidates []*domain.Definition, hint domain.Hint) (def *domain.Definition, namespace string, ok bool)
}

// PayloadDecoder decodes ABI encoded parameter lists
type PayloadDecoder interface {
	DecodeArgs(data []byte, params []domain.Param) ([]any, error)
	DecodeTopic(topic common.Hash, param domain.Param) (any, error)
	// HashedInTopic reports whether an indexed param is only stored as a hash
	HashedInTopic(param domain.Param) (bool, error)
}

// MessageFormatter renders the notice template of a decoded definition
type MessageFormatter interface {
	Format(def *domain.Definition, values map[string]any) (string, error)
}

// CandidateSelector lets a user pick between ambiguous definitions
type CandidateSelector interface {
	SelectCandidate(ctx context.Context, lookup domain.Lookup) (*domain.Definition, error)
}

// EntrySearcher ranks definitions against a free text query
type EntrySearcher interface {
	Search(query string, defs []*domain.Definition) []*domain.Definition
}

// RegistryVerifier checks registry integrity
type RegistryVerifier interface {
	Verify(defs []*domain.Definition) []domain.Issue
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
