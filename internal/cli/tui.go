package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/app"
	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/notify"
	"github.com/lazyvibe/vidjob/internal/preview"
	"github.com/lazyvibe/vidjob/internal/progress"
	"github.com/lazyvibe/vidjob/internal/state"
	"github.com/lazyvibe/vidjob/internal/store"
	"github.com/lazyvibe/vidjob/internal/ui"
	"github.com/lazyvibe/vidjob/internal/ui/components/setup"
)

// errSetupAborted is returned when the user leaves the first-run wizard.
var errSetupAborted = errors.New("setup not completed")

// runTUI starts the interactive interface.
func runTUI(cmd *cobra.Command, opts *options) error {
	if !logging.IsTerminal(os.Stdout) || !logging.IsTerminal(os.Stdin) {
		return errors.New("the interactive UI needs a terminal; use a subcommand such as 'vidjob combine' instead")
	}

	cfg, configDir, err := opts.loadConfig()
	if err != nil {
		return err
	}

	lock, err := app.AcquireInstanceLock(configDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	// The alternate screen owns stdout, so logs go to a file.
	logFile, err := logging.OpenFile(app.LogPath(configDir))
	if err != nil {
		return err
	}
	defer logFile.Close()
	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger := logging.New(logFile, level)
	logger.Info().Str("version", Version).Str("service", cfg.ServiceURL).Msg("starting")

	prefs, err := store.NewJSONStore(configDir)
	if err != nil {
		return fmt.Errorf("failed to open preferences: %w", err)
	}
	defer prefs.Close()

	if !cfg.Initialized {
		if err := runSetupWizard(configDir, cfg, prefs); err != nil {
			if errors.Is(err, errSetupAborted) {
				return nil
			}
			return fmt.Errorf("setup wizard: %w", err)
		}
		if opts.serviceURL == "" {
			cfg, _, err = opts.loadConfig()
			if err != nil {
				return err
			}
		}
	}

	client, err := api.New(api.Options{
		BaseURL:       cfg.ServiceURL,
		Timeout:       cfg.RequestTimeout(),
		OverlayUpload: api.UploadMode(cfg.OverlayUpload),
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create service client: %w", err)
	}

	server := preview.NewServer(cfg.PreviewAddr, logger)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start preview server: %w", err)
	}
	defer server.Close()

	st := state.New(state.Initial(prefs.Theme()), prefs, logger)
	ctrl := progress.NewController(client, st, logger)
	session := jobs.NewSession(st, client, preview.NewManager(server, logger), ctrl, logger)
	defer session.Close()

	application := ui.New(ui.Options{
		Session:    session,
		Downloader: client,
		Config:     cfg,
		Notifier:   notify.NewDispatcher(logger),
		Logger:     logger,
	})
	defer application.Close()

	p := tea.NewProgram(application, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error().Err(err).Msg("ui exited")
		return fmt.Errorf("error running application: %w", err)
	}
	logger.Info().Msg("bye")
	return nil
}

// runSetupWizard runs the first-run setup wizard.
func runSetupWizard(configDir string, cfg *app.Config, prefs store.PreferenceStore) error {
	wizard := setup.New(configDir, cfg, prefs, prefs.Theme())

	finalModel, err := tea.NewProgram(wizard, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(setup.Model); !ok || !m.IsComplete() {
		return errSetupAborted
	}
	return nil
}
