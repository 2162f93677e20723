// Application state and initialization for ormf CLI
package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sonemaro/ormf/internal/config"
	"github.com/sonemaro/ormf/internal/logging"
	"github.com/sonemaro/ormf/internal/openrouter"
	"github.com/sonemaro/ormf/internal/ui"
)

var (
	// Version info - set during build via ldflags
	version = "dev"
	commit  = "none"

	// Command flags
	configPath  string
	profileName string
	noColor     bool

	// Resolved once per invocation
	cfg *config.Config

	// newHTTPClient builds the transport for the listing request
	newHTTPClient = func() *http.Client { return &http.Client{} }
)

// initializeApp resolves the configuration for cmd and applies the UI
// settings. allowMissing lets --config name a file that does not exist yet.
func initializeApp(cmd *cobra.Command, allowMissing bool) error {
	loaded, err := config.Load(config.LoadOptions{
		Path:         configPath,
		AllowMissing: allowMissing,
		Profile:      profileName,
		Flags:        cmd.Flags(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg = loaded

	ui.SetColor(cfg.UI.ColorEnabled && !noColor)
	return nil
}

// newLogger builds the diagnostics logger. Results never go through it.
func newLogger(w io.Writer) zerolog.Logger {
	return logging.New(w, cfg.Log.Level, ui.ColorEnabled())
}

// newClient creates the listing client from the current configuration
func newClient(logger zerolog.Logger) *openrouter.Client {
	return openrouter.NewClient(
		openrouter.WithHTTPClient(newHTTPClient()),
		openrouter.WithTimeout(cfg.Provider.Timeout),
		openrouter.WithUserAgent("ormf/"+version),
		openrouter.WithLogger(logger),
	)
}

// configFile is the file Load reads and config init writes
func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}
