// Package statuscmder provides the status command for displaying the active
// session state of the local .strata directory.
package statuscmder

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strataco/strata/pkg/cliui"
	"github.com/strataco/strata/pkg/dotdir"
)

const statusLongDesc string = `Show the current strata session state.

Reads the local .strata/ directory (or ~/.strata/) to display the active
session, its target agent, and how long it has been running.

If no session state exists, indicates that the next message will start
a new session.

Examples:
  strata status`

const statusShortDesc string = "Show active session state"

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(configDir)
		},
	}

	return cmd
}

func runStatus(configDir string) error {
	manager := dotdir.NewManager()

	state, err := manager.LoadSessionState(configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}

	if state == nil {
		fmt.Printf("  %s No active session. Next message will start a new session.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Printf("\n  %s  %s\n", cliui.KeyStyle.Render("Session:"), cliui.NameStyle.Render(state.SessionID))
	if state.AgentID != "" {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Agent:  "), cliui.NameStyle.Render(state.AgentID))
	}
	fmt.Printf("  %s  %s\n\n",
		cliui.KeyStyle.Render("Started:"),
		cliui.DimStyle.Render(fmt.Sprintf("%s (%s ago)",
			state.StartedAt.Format(time.RFC3339),
			cliui.FormatDuration(time.Since(state.StartedAt)),
		)),
	)

	return nil
}
