package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Search and ask interactively",
	Long: `Opens a terminal interface for one owner's videos. Type a query and
press enter to search; from the results press 'a' to turn the query into a
cited answer or 'v' to narrow the search to the selected video.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the app for the owner named by the flags.
func newTUIApp(cmd *cobra.Command) (*tui.App, error) {
	if searchService == nil {
		return nil, errors.New("search service not configured")
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return nil, err
	}
	app, err := tui.NewApp(&tui.Ports{
		Owner:  owner,
		Search: searchService,
		Answer: answerService,
	})
	if err != nil {
		return nil, err
	}
	return app.WithContext(commandContext(cmd)), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := newTUIApp(cmd)
	if err != nil {
		return err
	}
	return app.Run()
}
