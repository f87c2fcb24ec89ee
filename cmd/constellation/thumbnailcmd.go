package main

import (
	"encoding/base64"
	"os"

	"github.com/spf13/cobra"
)

var thumbnailCmd = &cobra.Command{
	Use:     "thumbnail",
	Short:   "Generate and manage cached file thumbnails",
	GroupID: GroupSystem,
}

var thumbnailSize uint32

var thumbnailGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Return a WebP thumbnail for a file, generating and caching it if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			FatalError("%v", err)
		}
		data, err := svc.Thumbnail.GetThumbnail(rootCtx, args[0], info.ModTime().Unix(), uint64(info.Size()), thumbnailSize)
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			printJSON(map[string]string{"webp_base64": base64.StdEncoding.EncodeToString(data)})
			return nil
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var thumbnailStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the thumbnail cache's current size and entry count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := svc.Thumbnail.CacheStatsNow(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(stats)
		return nil
	},
}

var thumbnailClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached thumbnail",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := svc.Thumbnail.ClearCache(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(stats)
		return nil
	},
}

var thumbnailEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Evict the oldest cache entries until under the configured size limit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		freed, err := svc.Thumbnail.EvictCache(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		printJSON(map[string]uint64{"freed_bytes": freed})
		return nil
	},
}

func init() {
	thumbnailGetCmd.Flags().Uint32Var(&thumbnailSize, "size", 256, "Requested thumbnail edge size, in pixels")
	thumbnailCmd.AddCommand(thumbnailGetCmd, thumbnailStatsCmd, thumbnailClearCmd, thumbnailEvictCmd)
}
