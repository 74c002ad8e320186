package registry

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trebuchet-org/lspdecode/internal/adapters/abi"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// BundledRegistry is the name reported for the embedded registry
const BundledRegistry = "<bundled>"

//go:embed assets/lsp.json
var bundled []byte

// rawEntry is one selector record of a registry file
type rawEntry struct {
	Sig     string         `json:"sig" yaml:"sig"`
	Name    string         `json:"name" yaml:"name"`
	Type    string         `json:"type" yaml:"type"`
	Inputs  []domain.Param `json:"inputs" yaml:"inputs"`
	Outputs []domain.Param `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Devdoc  *rawDevdoc     `json:"devdoc,omitempty" yaml:"devdoc,omitempty"`
	Userdoc *rawUserdoc    `json:"userdoc,omitempty" yaml:"userdoc,omitempty"`
}

type rawDevdoc struct {
	Details string            `json:"details,omitempty" yaml:"details,omitempty"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

type rawUserdoc struct {
	Notice string `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// rawRegistry maps namespace -> selector -> entry
type rawRegistry map[string]map[string]rawEntry

// Loader reads registry files, or the bundled registry when none are configured
type Loader struct {
	paths    []string
	builtins bool
	log      *slog.Logger
}

// NewLoader creates a new registry loader
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	return &Loader{
		paths:    cfg.RegistryPaths,
		builtins: cfg.Builtins,
		log:      log.With("component", "RegistryLoader"),
	}
}

// Paths returns the registry files backing this loader
func (l *Loader) Paths() []string {
	return l.paths
}

// Load reads and normalizes every configured registry
func (l *Loader) Load(ctx context.Context) ([]domain.Entry, error) {
	var entries []domain.Entry

	if len(l.paths) == 0 {
		parsed, err := Parse(bundled, "json")
		if err != nil {
			return nil, fmt.Errorf("failed to parse bundled registry: %w", err)
		}
		l.log.Debug("loaded registry", "path", BundledRegistry, "entries", len(parsed))
		l.warnMismatched(BundledRegistry, parsed)
		entries = append(entries, parsed...)
	}

	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parsed, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		l.log.Debug("loaded registry", "path", path, "entries", len(parsed))
		l.warnMismatched(path, parsed)
		entries = append(entries, parsed...)
	}

	if l.builtins {
		entries = append(entries, Builtins()...)
	}

	SortEntries(entries)
	return entries, nil
}

// warnMismatched logs every entry whose selector key is not the hash of its
// signature. Such entries are still indexed under the key.
func (l *Loader) warnMismatched(path string, entries []domain.Entry) {
	for _, e := range entries {
		if want := abi.SelectorOf(e.Kind, e.Signature); want != e.Selector {
			l.log.Warn("selector does not match signature",
				"path", path,
				"namespace", e.Namespace,
				"selector", e.Selector.Hex(),
				"signature", e.Signature,
				"expected", want.Hex())
		}
	}
}

// LoadFile reads a single registry file. The format follows the extension.
func LoadFile(path string) ([]domain.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	entries, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	return entries, nil
}

// Parse decodes registry data in the given format ("json" or "yaml")
func Parse(data []byte, format string) ([]domain.Entry, error) {
	var raw rawRegistry
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported registry format %q", format)
	}

	var entries []domain.Entry
	for namespace, records := range raw {
		if strings.TrimSpace(namespace) == "" {
			return nil, fmt.Errorf("registry contains an empty namespace")
		}
		for key, record := range records {
			entry, err := normalize(namespace, key, record)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", namespace, key, err)
			}
			entries = append(entries, entry)
		}
	}

	SortEntries(entries)
	return entries, nil
}

// normalize turns a raw record into an entry. Type problems do not fail the
// load; they surface through verification instead.
func normalize(namespace, key string, r rawEntry) (domain.Entry, error) {
	kind, err := domain.ParseKind(r.Type)
	if err != nil {
		return domain.Entry{}, err
	}

	selector, err := domain.ParseSelector(key)
	if err != nil {
		return domain.Entry{}, err
	}
	if selector.Size() != kind.SelectorSize() {
		return domain.Entry{}, fmt.Errorf("%s selector must be %d bytes, got %d", kind, kind.SelectorSize(), selector.Size())
	}

	name := r.Name
	if name == "" {
		if open := strings.Index(r.Sig, "("); open > 0 {
			name = strings.TrimSpace(r.Sig[:open])
		}
	}
	if name == "" {
		return domain.Entry{}, fmt.Errorf("entry has neither name nor signature")
	}

	signature := r.Sig
	if signature == "" {
		signature, err = abi.Signature(name, r.Inputs)
		if err != nil {
			return domain.Entry{}, err
		}
	} else if normalized, err := abi.NormalizeSignature(signature); err == nil {
		signature = normalized
	} else {
		signature = strings.Join(strings.Fields(signature), "")
	}

	entry := domain.Entry{
		Namespace: namespace,
		Kind:      kind,
		Selector:  selector,
		Name:      name,
		Signature: signature,
		Inputs:    r.Inputs,
		Outputs:   r.Outputs,
	}
	if entry.Inputs == nil {
		entry.Inputs = []domain.Param{}
	}
	if r.Devdoc != nil {
		entry.Docs.Details = strings.TrimSpace(r.Devdoc.Details)
		entry.Docs.Params = r.Devdoc.Params
	}
	if r.Userdoc != nil {
		entry.Docs.Notice = strings.TrimSpace(r.Userdoc.Notice)
	}
	return entry, nil
}

// SortEntries orders entries by namespace, kind, selector and signature
func SortEntries(entries []domain.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Selector.Hex() != b.Selector.Hex() {
			return a.Selector.Hex() < b.Selector.Hex()
		}
		return a.Signature < b.Signature
	})
}
