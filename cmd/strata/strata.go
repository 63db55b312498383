// Package stratacmder
package stratacmder

import (
	"github.com/spf13/cobra"

	compactcmder "github.com/strataco/strata/cmd/strata/compact"
	configcmder "github.com/strataco/strata/cmd/strata/config"
	initcmder "github.com/strataco/strata/cmd/strata/init"
	statscmder "github.com/strataco/strata/cmd/strata/stats"
	statuscmder "github.com/strataco/strata/cmd/strata/status"
	versioncmder "github.com/strataco/strata/cmd/strata/version"
)

const strataLongDesc string = `Strata is layered, decay-aware memory for your agents.

Session memory holds the live context window; agent memory holds the
accumulated domain knowledge that survives sessions. Records move between
the layers through transfers and compression sweeps.

Common operations:
  strata compact       Run a compression sweep over an owner's records
  strata stats         Summarize an owner's persisted records
  strata status        Show the active session state
  strata config        Manage persistent configuration`

const strataShortDesc string = "Strata - Agent Memory"

func NewStrataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strata",
		Short: strataShortDesc,
		Long:  strataLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .strata/ directory location")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(statscmder.NewStatsCmd())
	cmd.AddCommand(compactcmder.NewCompactCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
