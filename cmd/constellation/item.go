package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:     "item",
	Short:   "Manage tracked items (files and directories)",
	GroupID: GroupItems,
}

var itemAddDir bool

var itemAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Start tracking a file or directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := svc.CreateItem(rootCtx, args[0], itemAddDir)
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			printJSON(item)
			return nil
		}
		printTable([]string{"id", "path"}, [][]string{{strconv.FormatInt(item.ID, 10), item.Path.String()}})
		return nil
	},
}

var itemGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Look up a tracked item by path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := svc.GetItemByPath(rootCtx, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(item)
		return nil
	},
}

var itemRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Soft-delete a tracked item",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := parseID(args[0])
		if err := svc.DeleteItem(rootCtx, id); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var itemRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Undo a soft delete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := parseID(args[0])
		if err := svc.RestoreItem(rootCtx, id); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var itemPurgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Permanently delete a tracked item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := parseID(args[0])
		if err := svc.PurgeItem(rootCtx, id); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var itemListDeletedCmd = &cobra.Command{
	Use:   "list-deleted",
	Short: "List soft-deleted items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := svc.ListDeletedItems(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			printJSON(items)
			return nil
		}
		rows := make([][]string, len(items))
		for i, it := range items {
			rows[i] = []string{strconv.FormatInt(it.ID, 10), it.Path.String()}
		}
		printTable([]string{"id", "path"}, rows)
		return nil
	},
}

var itemTagCmd = &cobra.Command{
	Use:   "tag <item-id> <tag-id>",
	Short: "Attach a tag to an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.AddTag(rootCtx, parseID(args[0]), parseID(args[1])); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var itemUntagCmd = &cobra.Command{
	Use:   "untag <item-id> <tag-id>",
	Short: "Remove a tag from an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.RemoveTag(rootCtx, parseID(args[0]), parseID(args[1])); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var itemTagsCmd = &cobra.Command{
	Use:   "tags <item-id>",
	Short: "List the tag ids attached to an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagIDs, err := svc.ItemTags(rootCtx, parseID(args[0]))
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(tagIDs)
		return nil
	},
}

func init() {
	itemAddCmd.Flags().BoolVar(&itemAddDir, "dir", false, "Track a directory rather than a file")
	itemCmd.AddCommand(itemAddCmd, itemGetCmd, itemRmCmd, itemRestoreCmd, itemPurgeCmd, itemListDeletedCmd, itemTagCmd, itemUntagCmd, itemTagsCmd)
}

// parseID parses a decimal entity id, exiting fatally on failure.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		FatalError("invalid id %q: %v", s, err)
	}
	return id
}
