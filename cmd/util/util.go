// Package util provides shared helpers for the cobra commands: help-text
// wrapping, environment bootstrap and logging setup from the persistent
// flags.
package util

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/sKV/lib/logging"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("skv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper so they can also be
// set through SKV_* environment variables.
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.InheritedFlags())
}

// SetupLoggingFlags registers the process-wide logging flags on a command.
func SetupLoggingFlags(cmd *cobra.Command) {
	key := "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("Log level (trace, debug, info, warn, error, fatal)"))

	key = "log-dir"
	cmd.PersistentFlags().String(key, "", WrapString("Route logs to rotating files in this directory instead of stdout"))

	key = "log-max-size"
	cmd.PersistentFlags().Int64(key, 0, WrapString("Maximum size of one log file in bytes before rotation (default 10 MiB)"))
}

// SetupLogging configures the logging core from the bound flag values.
// When a log directory is set, the calling goroutine and all loggers
// created afterwards write to a rotating file sink.
func SetupLogging() error {
	levelName := viper.GetString("log-level")
	level, ok := logging.ParseLevel(levelName)
	if !ok {
		logging.Warn().Str("unknown log level ").Str(levelName).Str(", keeping info").End()
		level = logging.LevelInfo
	}
	logging.SetLevel(level)

	if dir := viper.GetString("log-dir"); dir != "" {
		sink := logging.NewRotatingFileSink(&logging.RotateOptions{
			Dir:         dir,
			MaxFileSize: viper.GetInt64("log-max-size"),
		})
		logging.SetSink(sink.Sink())
	}
	return nil
}
