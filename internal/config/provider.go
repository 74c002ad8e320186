package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
)

// ProjectFileName is the optional per-project configuration file
const ProjectFileName = "lspdecode.toml"

// Provider creates RuntimeConfig for Wire dependency injection. Flags and
// environment override lspdecode.toml, which overrides the defaults.
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	loadEnvFiles(projectRoot)

	file, source, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		Namespace:      v.GetString("namespace"),
		Contracts:      make(map[common.Address]string),
		Aliases:        make(map[string]string),
		Builtins:       true,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive") || v.GetBool("json"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		ConfigSource:   source,
	}

	if err := applyProjectFile(cfg, file); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectFileName, err)
	}

	if paths := v.GetStringSlice("registry"); len(paths) > 0 {
		cfg.RegistryPaths = make([]string, 0, len(paths))
		for _, p := range paths {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve registry path %s: %w", p, err)
			}
			cfg.RegistryPaths = append(cfg.RegistryPaths, abs)
		}
	}
	if v.IsSet("builtins") {
		cfg.Builtins = v.GetBool("builtins")
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	if contract := v.GetString("contract"); contract != "" {
		if !common.IsHexAddress(contract) {
			return nil, fmt.Errorf("invalid contract address %q", contract)
		}
		addr := common.HexToAddress(contract)
		cfg.Contract = &addr
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to the nearest
// lspdecode.toml. Without one the current directory is the root.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	for dir := cwd; ; {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("LSPDECODE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("project_root", projectRoot)
	v.SetDefault("timeout", "1m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)

	return v
}
