package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gvx/kyss/i18n"
	"github.com/gvx/kyss/internal/console"
)

// Build-time variable set by the release pipeline
var version = "dev"

// Global flags
var (
	quiet bool
	lang  string
)

var rootCmd = &cobra.Command{
	Use:   "kyss",
	Short: "Validate and inspect kyss configuration documents",
	Long: `kyss reads the kyss configuration format: nesting through indentation,
exactly one scalar kind (the string), and schemas for everything typed.

The raw tree never guesses at types, so every command here prints scalars
as strings; schema matching is what turns them into numbers, booleans,
times or decimals.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if lang != "" {
			i18n.SetLanguage(lang)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse files and report syntax errors",
	Long: `Parse each file and report syntax errors with file:line:column positions
and a caret under the offending column.

Examples:
  kyss check config.kyss
  kyss check -q deploy.kyss staging.kyss
  kyss check --watch config.kyss`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")
		if watch {
			if err := watchFiles(os.Stdout, args); err != nil {
				fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
				os.Exit(1)
			}
			return
		}
		if !checkFiles(os.Stdout, args, quiet) {
			os.Exit(1)
		}
	},
}

var jsonCmd = &cobra.Command{
	Use:   "json [file]",
	Short: "Print the raw tree of a document as JSON",
	Long: `Parse a document and print its raw tree as JSON. Reads stdin when no
file (or "-") is given. Scalars stay strings and mapping order is kept.

Examples:
  kyss json config.kyss
  kyss json --compact config.kyss
  cat config.kyss | kyss json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		compact, _ := cmd.Flags().GetBool("compact")
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if err := renderJSON(os.Stdout, path, compact); err != nil {
			fmt.Fprint(os.Stderr, console.FormatError(displayPath(path), err))
			os.Exit(1)
		}
	},
}

var fromYAMLCmd = &cobra.Command{
	Use:   "from-yaml [file]",
	Short: "Convert a YAML document to the equivalent raw tree",
	Long: `Convert a YAML document into the raw tree kyss would have produced and
print it as JSON: a migration preview. Every YAML scalar becomes a
string; duplicate keys are rejected.

Examples:
  kyss from-yaml config.yaml
  cat config.yaml | kyss from-yaml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		compact, _ := cmd.Flags().GetBool("compact")
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if err := renderFromYAML(os.Stdout, path, compact); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

func displayPath(path string) string {
	if path == "" || path == "-" {
		return "<stdin>"
	}
	return path
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress success output")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "diagnostic language (en, ja)")
	checkCmd.Flags().Bool("watch", false, "re-check whenever a file changes")
	jsonCmd.Flags().Bool("compact", false, "emit compact JSON")
	fromYAMLCmd.Flags().Bool("compact", false, "emit compact JSON")
	rootCmd.AddCommand(checkCmd, jsonCmd, fromYAMLCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
