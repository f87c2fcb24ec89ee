// Command constellation is the CLI surface over the Constellation file
// tagging index: item/tag/tag-group/template/search/settings/usn-refresh/
// thumbnail operations, dispatched against a single per-user SQLite store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/constellation/core/internal/service"
)

var (
	dbPath     string
	jsonOutput bool
	verbose    bool

	svc *service.Services
	log *slog.Logger

	rootCtx context.Context
)

const (
	GroupItems   = "items"
	GroupSearch  = "search"
	GroupSystem  = "system"
)

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupItems, Title: "Items & Tags:"},
		&cobra.Group{ID: GroupSearch, Title: "Search:"},
		&cobra.Group{ID: GroupSystem, Title: "System:"},
	)

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Application data directory (default: OS per-user config dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")

	rootCmd.AddCommand(itemCmd, tagCmd, groupCmd, templateCmd, searchCmd, settingsCmd, usnCmd, thumbnailCmd)
}

func initViper() {
	viper.SetEnvPrefix("CONSTELLATION")
	viper.AutomaticEnv()
	if dir, err := service.AppDataDir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		_ = viper.ReadInConfig()
	}
}

var rootCmd = &cobra.Command{
	Use:   "constellation",
	Short: "Constellation — per-user file tagging index",
	Long:  "Tag files and directories across your drives, then find them instantly by tag, name, or query.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("json") {
			jsonOutput = viper.GetBool("json")
		}
		if !cmd.Flags().Changed("db") && dbPath == "" {
			dbPath = viper.GetString("db")
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		var handler slog.Handler
		if jsonOutput {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		} else {
			handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		}
		log = slog.New(handler)

		if skipServiceInit(cmd) {
			return nil
		}

		appDataDir := dbPath
		if appDataDir == "" {
			dir, err := service.AppDataDir()
			if err != nil {
				return fmt.Errorf("resolve app data directory: %w", err)
			}
			appDataDir = dir
		}

		rootCtx = context.Background()
		opened, err := service.Open(rootCtx, appDataDir, log)
		if err != nil {
			return fmt.Errorf("open constellation store: %w", err)
		}
		svc = opened
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		return svc.Close()
	},
}

// skipServiceInit reports whether cmd needs no open Services graph:
// cobra's built-in help/completion commands, or the bare root command
// with no subcommand (which just prints help).
func skipServiceInit(cmd *cobra.Command) bool {
	if cmd.Parent() == nil {
		return true
	}
	switch cmd.Name() {
	case "help", "completion", "bash", "zsh", "fish", "powershell":
		return true
	}
	return false
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
