package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Short:   "Manage reusable tag templates",
	GroupID: GroupItems,
}

var templateTagIDs string

var templateAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := svc.CreateTagTemplate(rootCtx, args[0], parseIDList(templateTagIDs))
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(tmpl)
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tag templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpls, err := svc.ListTagTemplates(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(tmpls)
		return nil
	},
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "Rename a template and replace its tag id set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.UpdateTagTemplate(rootCtx, parseID(args[0]), args[1], parseIDList(templateTagIDs)); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var templateRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a tag template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.DeleteTagTemplate(rootCtx, parseID(args[0])); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var templateApplyCmd = &cobra.Command{
	Use:   "apply <item-id> <template-id>",
	Short: "Attach every tag in a template to an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.ApplyTagTemplate(rootCtx, parseID(args[0]), parseID(args[1])); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

func init() {
	templateAddCmd.Flags().StringVar(&templateTagIDs, "tags", "", "Comma-separated tag ids")
	templateUpdateCmd.Flags().StringVar(&templateTagIDs, "tags", "", "Comma-separated tag ids")
	templateCmd.AddCommand(templateAddCmd, templateListCmd, templateUpdateCmd, templateRmCmd, templateApplyCmd)
}

func parseIDList(s string) []int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, len(parts))
	for i, p := range parts {
		ids[i] = parseID(strings.TrimSpace(p))
	}
	return ids
}
