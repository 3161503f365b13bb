package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ValentinKolb/sKV/cmd/bench"
	configcmd "github.com/ValentinKolb/sKV/cmd/config"
	"github.com/ValentinKolb/sKV/cmd/console"
	"github.com/ValentinKolb/sKV/cmd/util"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "skv",
		Short: "in-process ordered key-value engine",
		Long: fmt.Sprintf(`sKV (v%s)

An in-process ordered key-value engine built on a probabilistic skip list,
with JSON snapshot persistence, periodic autosave, a concurrent benchmark
harness and a per-goroutine logging core.`, Version),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := util.BindCommandFlags(cmd); err != nil {
				return err
			}
			return util.SetupLogging()
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(console.ConsoleCmd)
	RootCmd.AddCommand(configcmd.ConfigCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupLoggingFlags(RootCmd)

	// Initialize viper
	cobra.OnInitialize(util.InitConfig)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
