// Package configcmder provides the config command for managing persistent
// strata configuration stored in the .strata/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent strata configuration.

Configuration is stored as config.toml in the .strata/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.driver, storage.sqlite_path, storage.postgres_url,
  session.window_size, session.idle_minutes,
  compression.importance_threshold, compression.temporal_window_days,
  events.provider, events.brokers, events.topic,
  vector_store.provider, vector_store.enabled,
  embedding.provider, embedding.target, embedding.model,
  lifecycle.workers, lifecycle.queue_size

Use subcommands to get, set, or list configuration values:
  strata config set <key> <value>    Set a configuration value
  strata config get <key>            Get a configuration value
  strata config list                 List all configuration values

Examples:
  strata config set storage.driver sqlite
  strata config set session.window_size 30
  strata config get embedding.model
  strata config list`

const configShortDesc string = "Manage persistent strata configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
