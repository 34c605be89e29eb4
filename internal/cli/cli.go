package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Export   *ExportCommand
	Tables   *TablesCommand
	Profiles *ProfilesCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	// Errors are reported once, by the caller of Run.
	parser := goflags.NewParser(&globals, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "chromexport"
	parser.LongDescription = "Export Google Chrome browsing history to text, CSV and HTML files."

	cmds := &commands{
		Export:   &ExportCommand{globals: &globals, version: version},
		Tables:   &TablesCommand{globals: &globals, version: version},
		Profiles: &ProfilesCommand{globals: &globals, version: version},
	}

	parser.AddCommand("export", "Export history entries", "Read Chrome history databases, filter them by date and URL, and write text, CSV or HTML exports.", cmds.Export)
	parser.AddCommand("tables", "List tables of history databases", "Print the sqlite_master tables of each given history database.", cmds.Tables)
	parser.AddCommand("profiles", "List Chrome profiles", "List the Chrome profiles that have a history database under the search directory.", cmds.Profiles)

	return parser, &globals, cmds
}

// Run is the main entry point for the chromexport CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("chromexport %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				fmt.Println(flagsErr.Message)
				return nil
			}
		}
		return err
	}

	return nil
}
