package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/app"
	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/preview"
	"github.com/lazyvibe/vidjob/internal/progress"
	"github.com/lazyvibe/vidjob/internal/state"
)

// resolveConfigDir returns --config-dir or the default location.
func (o *options) resolveConfigDir() (string, error) {
	if o.configDir != "" {
		return o.configDir, nil
	}
	return app.DefaultConfigDir()
}

// loadConfig reads the config and applies --service-url.
func (o *options) loadConfig() (*app.Config, string, error) {
	dir, err := o.resolveConfigDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := app.LoadConfig(dir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	if o.serviceURL != "" {
		base, err := app.NormalizeBaseURL(o.serviceURL)
		if err != nil {
			return nil, "", err
		}
		cfg.ServiceURL = base
	}
	return cfg, dir, nil
}

// newLogger writes to the command's stderr so stdout stays clean for output.
func (o *options) newLogger(cmd *cobra.Command, cfg *app.Config) *logging.Logger {
	level := cfg.LogLevel
	if o.verbose {
		level = "debug"
	}
	return logging.New(cmd.ErrOrStderr(), level)
}

// getAPIClient loads configuration and creates a service client.
func (o *options) getAPIClient(cmd *cobra.Command) (*api.Client, *app.Config, *logging.Logger, error) {
	cfg, _, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := o.newLogger(cmd, cfg)

	client, err := api.New(api.Options{
		BaseURL:       cfg.ServiceURL,
		Timeout:       cfg.RequestTimeout(),
		OverlayUpload: api.UploadMode(cfg.OverlayUpload),
		Logger:        logger,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create service client: %w", err)
	}
	return client, cfg, logger, nil
}

// newHeadlessSession builds a session for one-shot commands. It has no live
// progress subscription and its preview registry is never started, so no
// file is ever served.
func newHeadlessSession(client *api.Client, logger *logging.Logger) *jobs.Session {
	store := state.New(state.Initial(model.ThemeLight), nil, logger)
	previews := preview.NewManager(preview.NewServer("127.0.0.1:0", logger), logger)
	return jobs.NewSession(store, client, previews, nil, logger)
}

// startReporter follows the progress stream into a terminal bar until the
// returned stop function is called.
func startReporter(cmd *cobra.Command, client *api.Client, description string, logger *logging.Logger) (stop func()) {
	stream, err := client.OpenProgressStream(cmd.Context())
	if err != nil {
		logger.Warn().Err(err).Msg("progress stream unavailable")
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		r := progress.NewReporter(cmd.ErrOrStderr(), description)
		if _, err := progress.Follow(stream, r, true); err != nil {
			logger.Debug().Err(err).Msg("progress stream ended")
		}
	}()
	return func() {
		_ = stream.Close()
		<-done
	}
}
