package cmd

import (
	"fmt"

	"TimeCanvasGo/config"
	"TimeCanvasGo/store"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database tables",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := config.OpenDB(conf)
	if err != nil {
		return fmt.Errorf("无法初始化数据库: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date.")
	return nil
}
