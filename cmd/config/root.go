// Package config implements the `skv config` command group: reading and
// rewriting the benchmark toggles in the structured config file.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/sKV/cmd/util"
	"github.com/ValentinKolb/sKV/lib/config"
)

var (
	// ConfigCommands represents the config command group
	ConfigCommands = &cobra.Command{
		Use:   "config",
		Short: "Read or update the benchmark configuration file",
	}

	getCmd = &cobra.Command{
		Use:   "get",
		Short: "Print the benchmark settings from the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := util.BindCommandFlags(cmd); err != nil {
				return err
			}

			settings, err := config.ReadBenchmark(viper.GetString("file"))
			if err != nil {
				return err
			}
			fmt.Printf("useProgressBar: %t\nuseRandRNG:     %t\n",
				settings.UseProgressBar, settings.UseRandRNG)
			return nil
		},
	}

	setCmd = &cobra.Command{
		Use:   "set <field> <true|false>",
		Short: "Update one benchmark setting in the config file",
		Long: util.WrapString("Updates one field of the skipListBenchmark section. " +
			"Valid fields are useProgressBar and useRandRNG."),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := util.BindCommandFlags(cmd); err != nil {
				return err
			}

			var value bool
			switch args[1] {
			case "true":
				value = true
			case "false":
				value = false
			default:
				return fmt.Errorf("value must be true or false, got %q", args[1])
			}

			if err := config.UpdateBenchmark(viper.GetString("file"), args[0], value); err != nil {
				return err
			}
			fmt.Printf("%s set to %t\n", args[0], value)
			return nil
		},
	}
)

func init() {
	// Add common flags to the config command group
	ConfigCommands.PersistentFlags().String("file", "config.json", util.WrapString("Path to the structured config file"))

	// Add subcommands
	ConfigCommands.AddCommand(getCmd)
	ConfigCommands.AddCommand(setCmd)
}
