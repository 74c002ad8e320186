package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot   string
	RegistryPaths []string // empty means the bundled registry

	// Resolution context
	Namespace string          // namespace hint applied to every decode
	Contract  *common.Address // contract hint, mapped through Contracts
	Contracts map[common.Address]string
	Aliases   map[string]string // namespace alias -> namespace

	// Registry settings
	Builtins bool // register Error(string) and Panic(uint256)

	// Execution settings
	Workers        int
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Config source tracking
	ConfigSource string // path of lspdecode.toml, or "" when absent
}

// ProjectFile represents the raw lspdecode.toml structure
type ProjectFile struct {
	Registry  []string          `toml:"registry"`
	Namespace string            `toml:"namespace"`
	Builtins  *bool             `toml:"builtins"`
	Workers   int               `toml:"workers"`
	Contracts map[string]string `toml:"contracts"`
	Aliases   map[string]string `toml:"aliases"`
}
