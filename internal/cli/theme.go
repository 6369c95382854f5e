package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/store"
)

// newThemeCmd creates the 'theme' command.
func newThemeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or change the saved theme",
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.resolveConfigDir()
			if err != nil {
				return err
			}
			prefs, err := store.NewJSONStore(dir)
			if err != nil {
				return err
			}
			defer prefs.Close()

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), prefs.Theme())
				return nil
			}
			theme, err := model.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := prefs.SaveTheme(theme); err != nil {
				return fmt.Errorf("save theme: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", theme)
			return nil
		},
	}
}
