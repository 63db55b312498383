// Package compactcmder provides the compact command for running a compression
// sweep over an owner's persisted records.
package compactcmder

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strataco/strata/pkg/cliui"
	"github.com/strataco/strata/pkg/compress"
	"github.com/strataco/strata/pkg/config"
	"github.com/strataco/strata/pkg/eventstream"
	"github.com/strataco/strata/pkg/eventstream/kafka"
	"github.com/strataco/strata/pkg/eventstream/nop"
	"github.com/strataco/strata/pkg/lifecycle"
	"github.com/strataco/strata/pkg/logger"
	"github.com/strataco/strata/pkg/storage"
	"github.com/strataco/strata/pkg/storage/inmemory"
	"github.com/strataco/strata/pkg/storage/postgres"
	"github.com/strataco/strata/pkg/storage/sqlite"
)

const compactLongDesc string = `Run a compression sweep over an owner's persisted records.

Loads the configured storage driver, selects eligible records (below the
importance threshold or older than the temporal window), compresses them,
persists the compressed records, and deletes the superseded originals.

When an event provider is configured, one compressed event is published per
produced record.

Examples:
  strata compact --owner session-42
  strata compact --owner agent-research --importance-threshold 3`

const compactShortDesc string = "Run a compression sweep"

func NewCompactCmd() *cobra.Command {
	var (
		owner        string
		threshold    uint
		temporalDays uint
	)

	cmd := &cobra.Command{
		Use:   "compact",
		Short: compactShortDesc,
		Long:  compactLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			debug, _ := cmd.Flags().GetBool("debug")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, compactFlags, []string{
				config.FlagThreshold,
				config.FlagTemporalDays,
			})

			return runCompact(cmd.Context(), v, owner, debug)
		},
	}

	cmd.Flags().StringVarP(&owner, "owner", "o", "", "Owner whose records to compact (required)")
	_ = cmd.MarkFlagRequired("owner")

	config.AddUintFlag(cmd, compactFlags, config.FlagThreshold, &threshold)
	config.AddUintFlag(cmd, compactFlags, config.FlagTemporalDays, &temporalDays)

	return cmd
}

var compactFlags = config.FlagSet{
	config.FlagThreshold: {
		Name:        "importance-threshold",
		ViperKey:    "compression.importance_threshold",
		Description: "Compress records whose importance score is below this value",
	},
	config.FlagTemporalDays: {
		Name:        "temporal-window-days",
		ViperKey:    "compression.temporal_window_days",
		Description: "Compress records older than this many days regardless of importance",
	},
}

func runCompact(ctx context.Context, v *viper.Viper, owner string, debug bool) error {
	log := logger.New(logger.WithDebug(debug), logger.WithPretty(true))

	sink, err := openSink(ctx, v)
	if err != nil {
		return err
	}

	events, err := openEvents(v)
	if err != nil {
		return err
	}

	engine, err := compress.NewEngine(compress.Config{
		ImportanceThreshold: v.GetInt("compression.importance_threshold"),
		TemporalWindow:      time.Duration(v.GetUint("compression.temporal_window_days")) * 24 * time.Hour,
		Logger:              log,
	})
	if err != nil {
		return fmt.Errorf("creating compression engine: %w", err)
	}

	manager, err := lifecycle.NewManager(lifecycle.Config{
		Sink:   sink,
		Engine: engine,
		Events: events,
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := manager.Close(); err != nil {
			log.Warn("manager close failed", "error", err)
		}
	}()

	var result compress.Result
	err = cliui.Step(os.Stdout, fmt.Sprintf("Compacting records for %s", owner), func() error {
		var sweepErr error
		result, sweepErr = manager.Compact(ctx, owner)
		return sweepErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s  %d\n", cliui.KeyStyle.Render("Eligible:  "), result.Stats.OriginalCount)
	fmt.Printf("  %s  %d\n", cliui.KeyStyle.Render("Compressed:"), result.Stats.CompressedCount)
	fmt.Printf("  %s  %d\n", cliui.KeyStyle.Render("Superseded:"), len(result.SupersededIDs))
	fmt.Printf("  %s  %.2f\n\n", cliui.KeyStyle.Render("Ratio:     "), result.Stats.Ratio)

	return nil
}

// openSink builds the storage driver named by storage.driver.
func openSink(ctx context.Context, v *viper.Viper) (storage.Driver, error) {
	switch v.GetString("storage.driver") {
	case "memory":
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

// openEvents builds the event publisher named by events.provider.
func openEvents(v *viper.Viper) (eventstream.Publisher, error) {
	switch v.GetString("events.provider") {
	case "", "nop":
		return nop.NewPublisher(), nil

	case "kafka":
		brokers := strings.Split(v.GetString("events.brokers"), ",")
		return kafka.NewPublisher(kafka.Config{
			Brokers: brokers,
			Topic:   v.GetString("events.topic"),
		})

	default:
		return nil, fmt.Errorf("unknown events provider: %q", v.GetString("events.provider"))
	}
}
