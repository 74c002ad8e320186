package registry

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// deployment variants that share the interface of their base contract,
// longest first so "InitAbstract" is not cut down to "Init"
var variantSuffixes = []string{"InitAbstract", "Init", "Abstract"}

// Resolver narrows ambiguous candidates using a namespace or contract hint
type Resolver struct {
	contracts map[common.Address]string
	aliases   map[string]string
}

// NewResolver creates a resolver from the configured contract and alias tables
func NewResolver(cfg *config.RuntimeConfig) *Resolver {
	r := &Resolver{
		contracts: make(map[common.Address]string),
		aliases:   make(map[string]string),
	}
	for addr, ns := range cfg.Contracts {
		r.contracts[addr] = ns
	}
	for alias, ns := range cfg.Aliases {
		r.aliases[alias] = ns
	}
	return r
}

// Namespace returns the namespace a hint refers to. An explicit namespace wins
// over a contract address.
func (r *Resolver) Namespace(hint domain.Hint) string {
	ns := hint.Namespace
	if ns == "" && hint.Contract != nil {
		ns = r.contracts[*hint.Contract]
	}
	if target, ok := r.aliases[ns]; ok {
		return target
	}
	return ns
}

// Resolve returns the only candidate declared in the hinted namespace. Exact
// declarations win; otherwise Init/Abstract variants count as the same namespace.
func (r *Resolver) Resolve(candidates []*domain.Definition, hint domain.Hint) (*domain.Definition, string, bool) {
	ns := r.Namespace(hint)
	if ns == "" {
		return nil, "", false
	}

	exact := lo.Filter(candidates, func(d *domain.Definition, _ int) bool {
		return d.DeclaredIn(ns)
	})
	switch len(exact) {
	case 1:
		return exact[0], ns, true
	case 0:
	default:
		return nil, ns, false
	}

	base := BaseNamespace(ns)
	var (
		match     *domain.Definition
		matchedNS string
	)
	for _, d := range candidates {
		variant, ok := lo.Find(d.Namespaces, func(n string) bool {
			return BaseNamespace(n) == base
		})
		if !ok {
			continue
		}
		if match != nil {
			return nil, ns, false
		}
		match, matchedNS = d, variant
	}
	if match == nil {
		return nil, ns, false
	}
	return match, matchedNS, true
}

// BaseNamespace strips a deployment variant suffix: LSP7DigitalAssetInitAbstract
// becomes LSP7DigitalAsset
func BaseNamespace(ns string) string {
	for _, suffix := range variantSuffixes {
		if strings.HasSuffix(ns, suffix) && len(ns) > len(suffix) {
			return strings.TrimSuffix(ns, suffix)
		}
	}
	return ns
}

var _ usecase.NamespaceResolver = (*Resolver)(nil)
