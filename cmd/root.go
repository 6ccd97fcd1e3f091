package cmd

import (
	"fmt"
	"os"

	"TimeCanvasGo/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "timecanvas",
	Short: "TimeCanvas: log time blocks and see the gaps in your day",
	Long: `timecanvas serves the TimeCanvas API: time blocks with a feeling and the
tasks done in them, rebuilt into a daily timeline with unaccounted gaps.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory containing the .env file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(timelineCmd)
}

// loadConfig 读取并校验配置，缺失必填项时返回错误
func loadConfig() (config.Config, error) {
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return conf, fmt.Errorf("无法加载配置: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("配置无效: %w", err)
	}
	return conf, nil
}
