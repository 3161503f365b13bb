// Package bench implements the `skv bench` command: it drives the
// concurrent insert/search workloads from lib/bench against a fresh index
// and prints per-phase QPS.
package bench

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/sKV/cmd/util"
	"github.com/ValentinKolb/sKV/lib/bench"
	"github.com/ValentinKolb/sKV/lib/config"
	"github.com/ValentinKolb/sKV/lib/logging"
)

var (
	// BenchCmd represents the benchmark command
	BenchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Run the concurrent insert/search benchmark",
		Long: `Runs the benchmark harness: a pool of workers inserts randomly
generated keys into a fresh skip list, then searches for random keys.
Each phase reports its wall-clock QPS.`,
		RunE:    run,
		PreRunE: processBenchConfig,
	}

	benchOpts       bench.Options
	benchConfigFile string
	benchDumpStats  bool
)

func init() {
	// add flags
	key := "threads"
	BenchCmd.Flags().Int(key, 0, util.WrapString("Number of workers to use for the benchmark (0 = number of CPUs)"))
	key = "datanum"
	BenchCmd.Flags().Int(key, 1_000_000, util.WrapString("How many operations each phase performs"))
	key = "max-level"
	BenchCmd.Flags().Int(key, 18, util.WrapString("Maximum level of the skip list"))
	key = "config"
	BenchCmd.Flags().String(key, "", util.WrapString("Path to the structured config file with the skipListBenchmark section"))
	key = "metrics"
	BenchCmd.Flags().Bool(key, false, util.WrapString("Dump the accumulated operation counters in Prometheus text format after the run"))
}

// processBenchConfig reads the flags and, when given, the structured
// config file. Config-file problems abort the command instead of silently
// running with defaults.
func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	benchOpts = bench.Options{
		Threads:  viper.GetInt("threads"),
		DataNum:  viper.GetInt("datanum"),
		MaxLevel: viper.GetInt("max-level"),
	}
	benchDumpStats = viper.GetBool("metrics")
	benchConfigFile = viper.GetString("config")

	if benchConfigFile != "" {
		settings, err := config.ReadBenchmark(benchConfigFile)
		if err != nil {
			return err
		}
		benchOpts.UseProgressBar = settings.UseProgressBar
		benchOpts.UseRandRNG = settings.UseRandRNG
	}
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("sKV benchmark")
	fmt.Printf("threads: %d, operations per phase: %d, max level: %d\n\n",
		benchOpts.Threads, benchOpts.DataNum, benchOpts.MaxLevel)

	logging.Info().Str("bench command starting").End()

	results := bench.Run(os.Stdout, benchOpts)

	fmt.Println()
	for _, r := range results {
		fmt.Printf("%-8s %10d ops %12.0f ops/s\n", r.Name, r.Ops, r.QPS)
	}

	if benchDumpStats {
		fmt.Println()
		bench.DumpMetrics(os.Stdout)
	}
	return nil
}
