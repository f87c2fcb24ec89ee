package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/constellation/core/internal/domain"
)

var searchCmd = &cobra.Command{
	Use:     "search",
	Short:   "Find tracked items by tag, filename, or query",
	GroupID: GroupSearch,
}

var (
	searchTags     string
	searchMode     string
	searchFilename string
)

var searchRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a combined tag + filename search",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tagIDs := parseIDList(searchTags)
		mode := domain.SearchModeAnd
		if searchMode == "or" {
			mode = domain.SearchModeOr
		}
		var filename *string
		if cmd.Flags().Changed("filename") {
			filename = &searchFilename
		}
		items, err := svc.Search.Combined(rootCtx, tagIDs, mode, filename)
		if err != nil {
			FatalError("%v", err)
		}
		printResults(items)
		return nil
	},
}

var searchCQLCmd = &cobra.Command{
	Use:   "cql <expr>",
	Short: "Run a Constellation Query Language expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := svc.Search.CQL(rootCtx, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		printResults(items)
		return nil
	},
}

var searchHistoryLimit int

var searchHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently run searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := svc.Search.RecentHistory(rootCtx, searchHistoryLimit)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(history)
		return nil
	},
}

func printResults(items []*domain.Item) {
	if jsonOutput {
		printJSON(items)
		return
	}
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.FormatInt(it.ID, 10), it.Path.String()}
	}
	printTable([]string{"id", "path"}, rows)
}

func init() {
	searchRunCmd.Flags().StringVar(&searchTags, "tags", "", "Comma-separated tag ids")
	searchRunCmd.Flags().StringVar(&searchMode, "mode", "and", `Tag combination mode: "and" or "or"`)
	searchRunCmd.Flags().StringVar(&searchFilename, "filename", "", "Filename substring")
	searchHistoryCmd.Flags().IntVar(&searchHistoryLimit, "limit", 20, "Maximum number of entries to return")
	searchCmd.AddCommand(searchRunCmd, searchCQLCmd, searchHistoryCmd)
}
