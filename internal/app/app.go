package app

import (
	"log/slog"

	"github.com/trebuchet-org/lspdecode/internal/domain/config"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Decoder *usecase.Decoder

	// Use cases
	DecodePayload  *usecase.DecodePayload
	DecodeBatch    *usecase.DecodeBatch
	ListEntries    *usecase.ListEntries
	SearchEntries  *usecase.SearchEntries
	VerifyRegistry *usecase.VerifyRegistry
	WatchRegistry  *usecase.WatchRegistry
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	decoder *usecase.Decoder,
	decodePayload *usecase.DecodePayload,
	decodeBatch *usecase.DecodeBatch,
	listEntries *usecase.ListEntries,
	searchEntries *usecase.SearchEntries,
	verifyRegistry *usecase.VerifyRegistry,
	watchRegistry *usecase.WatchRegistry,
) (*App, error) {
	return &App{
		Config:         cfg,
		Log:            log,
		Decoder:        decoder,
		DecodePayload:  decodePayload,
		DecodeBatch:    decodeBatch,
		ListEntries:    listEntries,
		SearchEntries:  searchEntries,
		VerifyRegistry: verifyRegistry,
		WatchRegistry:  watchRegistry,
	}, nil
}
