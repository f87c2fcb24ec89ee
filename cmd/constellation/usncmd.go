package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var usnCmd = &cobra.Command{
	Use:     "usn",
	Short:   "Reconcile tracked items against the NTFS USN journal",
	GroupID: GroupSystem,
}

var usnRefreshDrives string

var usnRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reconcile renamed/moved/deleted items since the last checkpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var result any
		if usnRefreshDrives == "" {
			r, err := svc.USN.RefreshAll(rootCtx)
			if err != nil {
				FatalError("%v", err)
			}
			result = r
		} else {
			drives := make([]byte, 0)
			for _, part := range strings.Split(usnRefreshDrives, ",") {
				part = strings.ToUpper(strings.TrimSpace(part))
				if part == "" {
					continue
				}
				drives = append(drives, part[0])
			}
			r, err := svc.USN.Refresh(rootCtx, drives)
			if err != nil {
				FatalError("%v", err)
			}
			result = r
		}
		printJSON(result)
		return nil
	},
}

var usnStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show each NTFS drive's checkpoint state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := svc.USN.DriveStatusAll(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(statuses)
		return nil
	},
}

func init() {
	usnRefreshCmd.Flags().StringVar(&usnRefreshDrives, "drives", "", "Comma-separated drive letters (default: every NTFS drive)")
	usnCmd.AddCommand(usnRefreshCmd, usnStatusCmd)
}
