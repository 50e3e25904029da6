package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	mergeFiles bool
	followFlag bool
	pageSize   int
	levelFlag  string
	searchFlag []string
	logicFlag  string
	fromFlag   string
	toFlag     string
	noSession  bool
)

var rootCmd = &cobra.Command{
	Use:   "loupe [files...]",
	Short: "An interactive viewer for JSONL (zerolog-style) log files",
	Long: `Loupe loads newline-delimited JSON log files and lets you narrow them
interactively: free-text search with AND/OR terms, severity thresholds,
inclusive date ranges, and sorting by any column.

Usage:
  loupe app.jsonl                  # One tab
  loupe a.jsonl b.jsonl            # One tab per file
  loupe --merge a.jsonl b.jsonl    # All files merged into one tab
  loupe -f app.jsonl               # Keep reading as the file grows
  cat app.jsonl | loupe            # Read from a pipe
  loupe                            # Restore the previous session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig()
		if err != nil {
			return err
		}
		if pageSize > 0 {
			config.PageSize = pageSize
		}

		specs := tabSpecs(args)
		if len(specs) == 0 && stdinPiped() {
			specs = []TabSpec{{Stdin: true}}
		}
		if len(specs) == 0 && !noSession {
			session, err := LoadSession()
			if err == nil {
				for _, tab := range session.Tabs {
					if len(tab.Files) > 0 {
						specs = append(specs, TabSpec{Files: tab.Files})
					}
				}
			}
		}

		initial, err := initialFilter()
		if err != nil {
			return err
		}

		return NewApp(config, specs, initial, followFlag).Run()
	},
}

// tabSpecs dedupes the positional arguments and groups them into tabs:
// one per file, or a single merged tab with --merge.
func tabSpecs(args []string) []TabSpec {
	seen := make(map[string]bool)
	var files []string
	for _, arg := range args {
		if !seen[arg] {
			seen[arg] = true
			files = append(files, arg)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if mergeFiles {
		return []TabSpec{{Files: files}}
	}
	specs := make([]TabSpec, len(files))
	for i, f := range files {
		specs[i] = TabSpec{Files: []string{f}}
	}
	return specs
}

// initialFilter translates the filter flags into the starting filter
// configuration applied to every loaded tab.
func initialFilter() (FilterState, error) {
	initial := FilterState{Level: levelFlag, Terms: searchFlag}

	switch strings.ToUpper(logicFlag) {
	case "", "AND":
		initial.Logic = SearchAnd
	case "OR":
		initial.Logic = SearchOr
	default:
		return initial, fmt.Errorf("invalid --logic %q (want AND or OR)", logicFlag)
	}

	if fromFlag != "" {
		t, ok := parseTimestamp(fromFlag)
		if !ok {
			return initial, fmt.Errorf("invalid --from timestamp %q", fromFlag)
		}
		initial.From = &t
	}
	if toFlag != "" {
		t, ok := parseTimestamp(toFlag)
		if !ok {
			return initial, fmt.Errorf("invalid --to timestamp %q", toFlag)
		}
		initial.To = &t
	}
	return initial, nil
}

func init() {
	rootCmd.Flags().BoolVar(&mergeFiles, "merge", false, "Merge all files into a single tab")
	rootCmd.Flags().BoolVarP(&followFlag, "follow", "f", false, "Keep reading lines appended to single-file tabs")
	rootCmd.Flags().IntVar(&pageSize, "page-size", 0, "Records rendered per page (default from config)")
	rootCmd.Flags().StringVar(&levelFlag, "level", "all", "Initial severity threshold (all, debug, info, warn, error, fatal)")
	rootCmd.Flags().StringArrayVar(&searchFlag, "search", nil, "Initial search term (repeatable)")
	rootCmd.Flags().StringVar(&logicFlag, "logic", "AND", "Combine search terms with AND or OR")
	rootCmd.Flags().StringVar(&fromFlag, "from", "", "Initial date range start (ISO 8601)")
	rootCmd.Flags().StringVar(&toFlag, "to", "", "Initial date range end (ISO 8601)")
	rootCmd.Flags().BoolVar(&noSession, "no-session", false, "Do not restore the previous session")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
