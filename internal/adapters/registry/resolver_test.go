package registry

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
)

func TestBaseNamespace(t *testing.T) {
	tests := map[string]string{
		"LSP0ERC725Account":                "LSP0ERC725Account",
		"LSP0ERC725AccountInit":            "LSP0ERC725Account",
		"LSP7DigitalAssetInitAbstract":     "LSP7DigitalAsset",
		"LSP8IdentifiableDigitalAssetInit": "LSP8IdentifiableDigitalAsset",
		"LSP17ExtendableAbstract":          "LSP17Extendable",
		"Init":                             "Init",
		"":                                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, BaseNamespace(in), in)
	}
}

func TestResolver_Namespace(t *testing.T) {
	token := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	unknown := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	r := NewResolver(&config.RuntimeConfig{
		Contracts: map[common.Address]string{token: "LSP7DigitalAsset"},
		Aliases:   map[string]string{"UP": "LSP0ERC725Account"},
	})

	assert.Equal(t, "", r.Namespace(domain.Hint{}))
	assert.Equal(t, "Burnable", r.Namespace(domain.Hint{Namespace: "Burnable"}))
	assert.Equal(t, "LSP0ERC725Account", r.Namespace(domain.Hint{Namespace: "UP"}))
	assert.Equal(t, "LSP7DigitalAsset", r.Namespace(domain.Hint{Contract: &token}))
	assert.Equal(t, "", r.Namespace(domain.Hint{Contract: &unknown}))
	assert.Equal(t, "Burnable", r.Namespace(domain.Hint{Namespace: "Burnable", Contract: &token}))
}

func TestResolver_Resolve(t *testing.T) {
	idx := collisionIndex(t)
	lookup := idx.Lookup(domain.KindFunction, mustSelector(t, "0x42966c68"))
	require.Equal(t, domain.LookupAmbiguous, lookup.Status)

	storage := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	r := NewResolver(&config.RuntimeConfig{
		Contracts: map[common.Address]string{storage: "StorageProxyInit"},
	})

	tests := []struct {
		name          string
		hint          domain.Hint
		wantOK        bool
		wantSignature string
		wantNamespace string
	}{
		{
			name: "no hint",
			hint: domain.Hint{},
		},
		{
			name:          "exact namespace",
			hint:          domain.Hint{Namespace: "Burnable"},
			wantOK:        true,
			wantSignature: "burn(uint256)",
			wantNamespace: "Burnable",
		},
		{
			name:          "contract address",
			hint:          domain.Hint{Contract: &storage},
			wantOK:        true,
			wantSignature: "collate_propagate_storage(bytes16)",
			wantNamespace: "StorageProxyInit",
		},
		{
			name:          "init variant alias",
			hint:          domain.Hint{Namespace: "BurnableInitAbstract"},
			wantOK:        true,
			wantSignature: "burn(uint256)",
			wantNamespace: "Burnable",
		},
		{
			name: "unrelated namespace",
			hint: domain.Hint{Namespace: "LSP0ERC725Account"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ns, ok := r.Resolve(lookup.Candidates, tt.hint)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, def)
				return
			}
			require.NotNil(t, def)
			assert.Equal(t, tt.wantSignature, def.Signature)
			assert.Equal(t, tt.wantNamespace, ns)
		})
	}
}

func TestResolver_ExactMatchWinsOverAlias(t *testing.T) {
	exact := &domain.Definition{Signature: "a()", Namespaces: []string{"TokenInit"}}
	alias := &domain.Definition{Signature: "b()", Namespaces: []string{"Token"}}

	r := NewResolver(&config.RuntimeConfig{})
	def, ns, ok := r.Resolve([]*domain.Definition{alias, exact}, domain.Hint{Namespace: "TokenInit"})
	require.True(t, ok)
	assert.Same(t, exact, def)
	assert.Equal(t, "TokenInit", ns)

	// both candidates are variants of Token, so an alias match stays ambiguous
	_, _, ok = r.Resolve([]*domain.Definition{alias, exact}, domain.Hint{Namespace: "TokenAbstract"})
	assert.False(t, ok)
}
