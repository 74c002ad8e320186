package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// SelectorAdapter asks the user which of several definitions sharing a selector was meant
type SelectorAdapter struct {
	config *config.RuntimeConfig
	run    func(prompt *promptui.Select) (int, error)
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{
		config: cfg,
		run: func(prompt *promptui.Select) (int, error) {
			index, _, err := prompt.Run()
			return index, err
		},
	}
}

// SelectCandidate prompts for one of the candidates of an ambiguous lookup
func (s *SelectorAdapter) SelectCandidate(ctx context.Context, lookup domain.Lookup) (*domain.Definition, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	candidates := lookup.Candidates
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates provided for selection")
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	options := formatCandidateOptions(candidates)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := &promptui.Select{
		Label:             fmt.Sprintf("Selector %s matches %d %ss", lookup.Selector.Hex(), len(candidates), lookup.Kind),
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, err := s.run(promptSelect)
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return candidates[index], nil
}

// formatCandidateOptions renders "signature (Namespace, ...)" per candidate
func formatCandidateOptions(candidates []*domain.Definition) []string {
	options := make([]string, len(candidates))
	for i, c := range candidates {
		sig := color.New(color.FgWhite, color.Bold).Sprint(c.Layout())
		namespaces := color.New(color.FgBlue).Sprint(strings.Join(c.Namespaces, ", "))
		options[i] = fmt.Sprintf("%s (%s)", sig, namespaces)
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.CandidateSelector = (*SelectorAdapter)(nil)
