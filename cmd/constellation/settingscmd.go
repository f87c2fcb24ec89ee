package main

import "github.com/spf13/cobra"

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Short:   "View and change settings",
	GroupID: GroupSystem,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a setting's value, stored or default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		val, ok, err := svc.Settings.Get(rootCtx, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if !ok {
			FatalError("unknown setting %q", args[0])
		}
		if jsonOutput {
			printJSON(map[string]string{args[0]: val})
			return nil
		}
		cmd.Println(val)
		return nil
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every known setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := svc.Settings.GetAll(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(all)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Override a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Settings.Set(rootCtx, args[0], args[1]); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Revert a setting to its built-in default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Settings.Reset(rootCtx, args[0]); err != nil {
			FatalError("%v", err)
		}
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsListCmd, settingsSetCmd, settingsResetCmd)
}
