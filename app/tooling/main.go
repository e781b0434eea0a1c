package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jrazmi/taskboard/app/tooling/commands"
	"github.com/jrazmi/taskboard/sdk/environment"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/spf13/cobra"
)

var build = "develop"

// appName is the env prefix; tooling reads the service's own settings.
var appName = "TASKBOARD"

var log *logger.Logger

var rootCmd = &cobra.Command{
	Use:           "tooling",
	Short:         "Administrative commands for taskboard",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := environment.LoadEnv(); err != nil {
			return err
		}
		l, err := logger.NewFromEnv(appName, logger.WithService("TOOLING"))
		if err != nil {
			return err
		}
		log = l
		log.InfoContext(cmd.Context(), "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)
		return nil
	},
}

var driver string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema in the database",
	Long: `Apply every pending migration to the configured store.

Migrations are forward only and checksummed; a migration file that changed
after it was applied stops the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := driver
		if d == "" {
			d = environment.GetNamespaceEnvOrDefault(appName, "STORE_DRIVER", "sqlite")
		}
		return commands.Migrate(cmd.Context(), log, appName, d)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build)
	},
}

func init() {
	migrateCmd.Flags().StringVar(&driver, "driver", "", "store driver: sqlite or postgres (default $TASKBOARD_STORE_DRIVER)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if log != nil {
			log.ErrorContext(ctx, "tooling", "err", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
