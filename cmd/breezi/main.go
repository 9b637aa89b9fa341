// Command breezi serves the typed RPC API over HTTP.
//
//	breezi [serve]   run migrations, export bindings and serve HTTP
//	breezi bindings  export client bindings only
//	breezi migrate   bring the database schema up to date only
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deppfellow/breezi/internal/config"
)

// ConfigPathEnv overrides the default config file path.
const ConfigPathEnv = "BREEZI_CONFIG_PATH"

var configPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "breezi",
		Short:         "Typed RPC backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	defaultPath := config.DefaultPath
	if p := os.Getenv(ConfigPathEnv); p != "" {
		defaultPath = p
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to the YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations, export bindings and serve HTTP",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "bindings",
			Short: "Export client bindings and exit",
			Args:  cobra.NoArgs,
			RunE:  runBindings,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations and exit",
			Args:  cobra.NoArgs,
			RunE:  runMigrate,
		},
	)

	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "breezi:", err)
		os.Exit(1)
	}
}
