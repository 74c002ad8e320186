package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/lspdecode/internal/adapters/abi"
	"github.com/trebuchet-org/lspdecode/internal/adapters/interactive"
	"github.com/trebuchet-org/lspdecode/internal/adapters/message"
	"github.com/trebuchet-org/lspdecode/internal/adapters/registry"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// RegistrySet provides the selector registry: loading, indexing, reloading and lookup helpers
var RegistrySet = wire.NewSet(
	registry.NewLoader,
	wire.Bind(new(usecase.RegistryLoader), new(*registry.Loader)),

	registry.NewStore,
	wire.Bind(new(usecase.IndexSource), new(*registry.Store)),
	wire.Bind(new(usecase.RegistryReloader), new(*registry.Store)),

	registry.NewWatcher,
	wire.Bind(new(usecase.RegistryWatcher), new(*registry.Watcher)),

	registry.NewResolver,
	wire.Bind(new(usecase.NamespaceResolver), new(*registry.Resolver)),

	registry.NewFuzzySearcher,
	wire.Bind(new(usecase.EntrySearcher), new(*registry.FuzzySearcher)),

	registry.NewVerifier,
	wire.Bind(new(usecase.RegistryVerifier), new(*registry.Verifier)),
)

// CodecSet provides ABI decoding and message rendering
var CodecSet = wire.NewSet(
	abi.NewCodec,
	wire.Bind(new(usecase.PayloadDecoder), new(*abi.Codec)),

	message.NewFormatter,
	wire.Bind(new(usecase.MessageFormatter), new(*message.Formatter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.CandidateSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RegistrySet,
	CodecSet,
	InteractiveSet,
)
