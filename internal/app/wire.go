//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/lspdecode/internal/adapters"
	"github.com/trebuchet-org/lspdecode/internal/config"
	"github.com/trebuchet-org/lspdecode/internal/logging"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDecoder,
		usecase.NewDecodePayload,
		usecase.NewDecodeBatch,
		usecase.NewListEntries,
		usecase.NewSearchEntries,
		usecase.NewVerifyRegistry,
		usecase.NewWatchRegistry,

		// App
		NewApp,
	)
	return nil, nil
}
