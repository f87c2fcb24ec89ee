package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:     "group",
	Short:   "Manage tag groups",
	GroupID: GroupItems,
}

var groupAddColor string

var groupAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		group, err := svc.CreateTagGroup(rootCtx, args[0], groupAddColor)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(group)
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tag groups in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := svc.ListTagGroups(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			printJSON(groups)
			return nil
		}
		rows := make([][]string, len(groups))
		for i, g := range groups {
			color := ""
			if g.Color != nil {
				color = g.Color.String()
			}
			rows[i] = []string{strconv.FormatInt(g.ID, 10), g.Name, color}
		}
		printTable([]string{"id", "name", "color"}, rows)
		return nil
	},
}

var groupUpdateColor string

var groupUpdateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "Rename and/or recolor a tag group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.UpdateTagGroup(rootCtx, parseID(args[0]), args[1], groupUpdateColor); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var groupRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a tag group and every tag within it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.DeleteTagGroup(rootCtx, parseID(args[0])); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var groupReorderCmd = &cobra.Command{
	Use:   "reorder <id,id,...>",
	Short: "Reassign display order by the given comma-separated id list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parts := strings.Split(args[0], ",")
		ids := make([]int64, len(parts))
		for i, p := range parts {
			ids[i] = parseID(strings.TrimSpace(p))
		}
		if err := svc.ReorderTagGroups(rootCtx, ids); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

func init() {
	groupAddCmd.Flags().StringVar(&groupAddColor, "color", "", "Hex color (#RGB, #RRGGBB, or #RRGGBBAA)")
	groupUpdateCmd.Flags().StringVar(&groupUpdateColor, "color", "", "Hex color; omit to clear the group's color")
	groupCmd.AddCommand(groupAddCmd, groupListCmd, groupUpdateCmd, groupRmCmd, groupReorderCmd)
}
