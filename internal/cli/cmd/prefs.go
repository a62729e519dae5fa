package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"grafanapdf/internal/events"
	"grafanapdf/internal/logging"
	"grafanapdf/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change local preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := Container.Prefs
		if JSONOutput {
			return printJSON(map[string]string{"theme": string(p.Theme()), "language": p.Language()})
		}
		fmt.Printf("Theme:    %s\n", p.Theme())
		fmt.Printf("Language: %s\n", p.Language())
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Set the color theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "toggle" {
			_, err := Container.Prefs.ToggleTheme()
			return err
		}
		return Container.Prefs.SetTheme(args[0])
	},
}

var languageCmd = &cobra.Command{
	Use:   "language [code]",
	Short: "Set the interface language (ISO-639-1 code, e.g. en or de)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Container.Prefs.SetLanguage(args[0])
	},
}

func init() {
	for _, c := range []*cobra.Command{themeCmd, languageCmd} {
		c.PreRun = func(cmd *cobra.Command, args []string) {
			Container.Bus.Subscribe(events.TopicPreferenceChanged, reportPreferenceChange)
		}
	}
	prefsCmd.AddCommand(themeCmd, languageCmd)
	RootCmd.AddCommand(prefsCmd)
}

func reportPreferenceChange(e events.Event) {
	change, ok := e.Payload.(events.PreferenceChanged)
	if !ok {
		return
	}
	logging.Debug().Str("key", change.Key).Str("value", change.Value).Msg("preference changed")
	switch change.Key {
	case prefs.Theme.Local:
		printOK("Theme set to %s.", change.Value)
	case prefs.Language.Local:
		printOK("Language set to %s.", change.Value)
	}
}
