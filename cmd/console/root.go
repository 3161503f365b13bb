// Package console implements the `skv console` command: an interactive
// line-oriented front end for one skip list, with optional snapshot
// loading and periodic autosave.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/sKV/cmd/util"
	"github.com/ValentinKolb/sKV/lib/logging"
	"github.com/ValentinKolb/sKV/lib/skiplist"
)

var (
	// ConsoleCmd represents the interactive console command
	ConsoleCmd = &cobra.Command{
		Use:   "console",
		Short: "Interactively operate on a skip list",
		Long: `Starts an interactive console bound to one skip list. One command per
line, case sensitive:

  INSERT <k> <v>   DELETE <k>   UPDATE <k> <v>   SEARCH <k>
  DISPLAY          SIZE         CLEAR            EXIT`,
		RunE:    run,
		PreRunE: processConsoleConfig,
	}

	consoleMaxLevel int
	consoleStoreDir string
	consoleLoad     string
	consoleAutosave int
)

func init() {
	// add flags
	key := "max-level"
	ConsoleCmd.Flags().Int(key, 18, util.WrapString("Maximum level of the skip list"))
	key = "store-dir"
	ConsoleCmd.Flags().String(key, "store", util.WrapString("Directory for snapshots and autosaves"))
	key = "load"
	ConsoleCmd.Flags().String(key, "", util.WrapString("Snapshot file to load into the list on start"))
	key = "autosave"
	ConsoleCmd.Flags().Int(key, 0, util.WrapString("Autosave interval in seconds (0 disables autosave)"))
}

func processConsoleConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	consoleMaxLevel = viper.GetInt("max-level")
	consoleStoreDir = viper.GetString("store-dir")
	consoleLoad = viper.GetString("load")
	consoleAutosave = viper.GetInt("autosave")
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	list := skiplist.New[int64, string](consoleMaxLevel)
	codec := skiplist.NewCodec[int64, string](consoleStoreDir)

	if consoleLoad != "" {
		outcome, err := codec.Load(list, consoleLoad)
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d elements (%d skipped) from %s\n", outcome.Loaded, outcome.Skipped, consoleLoad)
	}

	if consoleAutosave > 0 {
		saver := skiplist.NewAutoSaver(list, codec, "console", time.Duration(consoleAutosave)*time.Second)
		defer saver.Close()
	}

	logging.Info().Str("console session started").End()
	runConsole(os.Stdin, os.Stdout, list)
	logging.Info().Str("console session ended").End()
	return nil
}

// runConsole reads commands from r until EXIT or EOF. Whitespace-only
// lines are ignored; unknown commands print an error and continue.
func runConsole(r io.Reader, w io.Writer, list *skiplist.SkipList[int64, string]) {
	scanner := bufio.NewScanner(r)

	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "INSERT":
			key, value, ok := parseKeyValue(w, fields)
			if !ok {
				continue
			}
			if list.Insert(key, value) == skiplist.Existed {
				fmt.Fprintf(w, "key %d already exists\n", key)
			} else {
				fmt.Fprintln(w, "inserted")
			}

		case "DELETE":
			key, ok := parseKey(w, fields, 2)
			if !ok {
				continue
			}
			list.Delete(key)
			fmt.Fprintln(w, "deleted")

		case "UPDATE":
			key, value, ok := parseKeyValue(w, fields)
			if !ok {
				continue
			}
			if old, found := list.UpdateAndReturnOld(key, value); found {
				fmt.Fprintf(w, "updated, old value was %q\n", old)
			} else {
				fmt.Fprintf(w, "key %d not found\n", key)
			}

		case "SEARCH":
			key, ok := parseKey(w, fields, 2)
			if !ok {
				continue
			}
			if value, found := list.Search(key); found {
				fmt.Fprintf(w, "%d -> %q\n", key, value)
			} else {
				fmt.Fprintf(w, "key %d not found\n", key)
			}

		case "DISPLAY":
			list.Display(w)

		case "SIZE":
			fmt.Fprintf(w, "%d\n", list.Size())

		case "CLEAR":
			list.Clear()
			fmt.Fprintln(w, "cleared")

		case "EXIT":
			fmt.Fprintln(w, "bye")
			return

		default:
			fmt.Fprintf(w, "unknown command %q\n", fields[0])
		}
	}
}

// parseKey extracts the integer key of a <CMD> <k> command.
func parseKey(w io.Writer, fields []string, want int) (int64, bool) {
	if len(fields) != want {
		fmt.Fprintf(w, "usage: %s <key>\n", fields[0])
		return 0, false
	}
	key, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Fprintf(w, "invalid key %q\n", fields[1])
		return 0, false
	}
	return key, true
}

// parseKeyValue extracts key and value of a <CMD> <k> <v> command. Values
// with spaces are taken verbatim from the remainder of the line.
func parseKeyValue(w io.Writer, fields []string) (int64, string, bool) {
	if len(fields) < 3 {
		fmt.Fprintf(w, "usage: %s <key> <value>\n", fields[0])
		return 0, "", false
	}
	key, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Fprintf(w, "invalid key %q\n", fields[1])
		return 0, "", false
	}
	return key, strings.Join(fields[2:], " "), true
}
