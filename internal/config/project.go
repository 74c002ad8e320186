package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
)

// loadEnvFiles loads .env files so LSPDECODE_* variables can live next to the project
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectFile parses lspdecode.toml. A missing file is not an error.
func loadProjectFile(projectRoot string) (*config.ProjectFile, string, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	var file config.ProjectFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &file, "", nil
		}
		return nil, "", fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}
	return &file, path, nil
}

// applyProjectFile copies the project file settings onto cfg
func applyProjectFile(cfg *config.RuntimeConfig, file *config.ProjectFile) error {
	if cfg.Namespace == "" {
		cfg.Namespace = file.Namespace
	}
	if file.Builtins != nil {
		cfg.Builtins = *file.Builtins
	}
	cfg.Workers = file.Workers

	for _, p := range file.Registry {
		p = os.ExpandEnv(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(cfg.ProjectRoot, p)
		}
		cfg.RegistryPaths = append(cfg.RegistryPaths, p)
	}

	for addr, ns := range file.Contracts {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("contracts: invalid address %q", addr)
		}
		if strings.TrimSpace(ns) == "" {
			return fmt.Errorf("contracts: empty namespace for %s", addr)
		}
		cfg.Contracts[common.HexToAddress(addr)] = ns
	}

	for alias, ns := range file.Aliases {
		if alias == ns {
			return fmt.Errorf("aliases: %s points at itself", alias)
		}
		cfg.Aliases[alias] = ns
	}
	return nil
}
