package render

import (
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// Renderer writes the result of a use case to its output
type Renderer[T any] interface {
	Render(result T) error
}

var (
	_ Renderer[*domain.Result]                = (*ResultRenderer)(nil)
	_ Renderer[*usecase.BatchResult]          = (*BatchRenderer)(nil)
	_ Renderer[*usecase.EntryListResult]      = (*EntriesRenderer)(nil)
	_ Renderer[*usecase.VerifyRegistryResult] = (*VerifyRenderer)(nil)
)
