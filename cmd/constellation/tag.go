package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:     "tag",
	Short:   "Manage tags",
	GroupID: GroupItems,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <group-id> <value>",
	Short: "Create a tag within a tag group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := svc.CreateTag(rootCtx, parseID(args[0]), args[1])
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(tag)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := svc.ListTags(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			printJSON(tags)
			return nil
		}
		rows := make([][]string, len(tags))
		for i, t := range tags {
			rows[i] = []string{strconv.FormatInt(t.ID, 10), strconv.FormatInt(t.GroupID, 10), t.Value.String()}
		}
		printTable([]string{"id", "group", "value"}, rows)
		return nil
	},
}

var tagSearchQuery string
var tagSearchGroup int64

var tagSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search tags by value, optionally scoped to a group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var groupID *int64
		if cmd.Flags().Changed("group") {
			groupID = &tagSearchGroup
		}
		tags, err := svc.SearchTags(rootCtx, tagSearchQuery, groupID)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(tags)
		return nil
	},
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename <id> <value>",
	Short: "Rename a tag's value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.UpdateTagValue(rootCtx, parseID(args[0]), args[1]); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a tag and every item association referencing it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.DeleteTag(rootCtx, parseID(args[0])); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var tagUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show how many items carry each tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := svc.TagUsageCounts(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(counts)
		return nil
	},
}

var tagMergeCmd = &cobra.Command{
	Use:   "merge <source-id> <target-id>",
	Short: "Reassign every item from the source tag to the target tag, then delete the source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.MergeTag(rootCtx, parseID(args[0]), parseID(args[1])); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

func init() {
	tagSearchCmd.Flags().StringVar(&tagSearchQuery, "query", "", "Substring to match against tag values")
	tagSearchCmd.Flags().Int64Var(&tagSearchGroup, "group", 0, "Restrict the search to this tag group id")
	tagCmd.AddCommand(tagAddCmd, tagListCmd, tagSearchCmd, tagRenameCmd, tagRmCmd, tagUsageCmd, tagMergeCmd)
}
