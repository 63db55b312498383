// Package statscmder provides the stats command for summarizing an owner's
// persisted records.
package statscmder

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strataco/strata/pkg/cliui"
	"github.com/strataco/strata/pkg/config"
	"github.com/strataco/strata/pkg/record"
	"github.com/strataco/strata/pkg/storage"
	"github.com/strataco/strata/pkg/storage/inmemory"
	"github.com/strataco/strata/pkg/storage/postgres"
	"github.com/strataco/strata/pkg/storage/sqlite"
)

const statsLongDesc string = `Summarize an owner's persisted records.

Loads the configured storage driver and prints the owner's record count,
total content size, and the distribution across kinds and importance levels.

Examples:
  strata stats --owner session-42
  strata stats --owner agent-research`

const statsShortDesc string = "Summarize an owner's records"

func NewStatsCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: statsShortDesc,
		Long:  statsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			return runStats(cmd.Context(), v, owner)
		},
	}

	cmd.Flags().StringVarP(&owner, "owner", "o", "", "Owner whose records to summarize (required)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runStats(ctx context.Context, v *viper.Viper, owner string) error {
	sink, err := openSink(ctx, v)
	if err != nil {
		return err
	}
	defer sink.Close()

	records, err := sink.ListByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("listing records for %s: %w", owner, err)
	}

	totalBytes := 0
	byKind := make(map[record.Kind]int)
	byImportance := make(map[record.Importance]int)
	for _, r := range records {
		totalBytes += len(r.Content)
		byKind[r.Kind]++
		byImportance[r.Importance]++
	}

	fmt.Printf("\n  %s  %s\n", cliui.KeyStyle.Render("Owner:  "), cliui.NameStyle.Render(owner))
	fmt.Printf("  %s  %d\n", cliui.KeyStyle.Render("Records:"), len(records))
	fmt.Printf("  %s  %d bytes\n", cliui.KeyStyle.Render("Content:"), totalBytes)

	if len(records) == 0 {
		fmt.Println()
		return nil
	}

	fmt.Printf("\n  %s\n", cliui.KeyStyle.Render("By kind"))
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("    %s %d\n", cliui.ValueStyle.Render(k+":"), byKind[record.Kind(k)])
	}

	fmt.Printf("\n  %s\n", cliui.KeyStyle.Render("By importance"))
	for imp := record.ImportanceCritical; imp >= record.ImportanceMinimal; imp-- {
		if n, ok := byImportance[imp]; ok {
			fmt.Printf("    %s %d\n", cliui.ValueStyle.Render(imp.String()+":"), n)
		}
	}
	fmt.Println()

	return nil
}

// openSink builds the storage driver named by storage.driver.
func openSink(ctx context.Context, v *viper.Viper) (storage.Driver, error) {
	switch v.GetString("storage.driver") {
	case "", "memory":
		return inmemory.NewDriver(), nil

	case "sqlite":
		path := v.GetString("storage.sqlite_path")
		if path == "" {
			return nil, fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
		return sqlite.NewDriver(path)

	case "postgres":
		url := v.GetString("storage.postgres_url")
		if url == "" {
			return nil, fmt.Errorf("storage.postgres_url is required for the postgres driver")
		}
		return postgres.NewDriver(ctx, url)

	default:
		return nil, fmt.Errorf("unknown storage driver: %q", v.GetString("storage.driver"))
	}
}
