package main

import (
	"fmt"

	"folio/internal/config"
	"folio/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Create the postgres schema",
	Long:        `Create the folder and document tables when missing. With --drop the tables are removed first; this is refused in the prod environment.`,
	Annotations: map[string]string{skipStores: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		drop, _ := cmd.Flags().GetBool("drop")
		cfg := cli.cfg

		if cfg.StorageDriver != config.StorageDriverPostgres {
			fmt.Printf("%s storage needs no migration\n", cfg.StorageDriver)
			return nil
		}
		if drop && cfg.Environment == "prod" {
			return fmt.Errorf("refusing to drop tables in the prod environment")
		}

		ctx := cmd.Context()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if drop {
			if err := postgres.DropTables(ctx, pool, tables); err != nil {
				return err
			}
			fmt.Printf("%s dropped %s, %s\n", okText("✓"), tables.Documents, tables.Folders)
		}
		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			return err
		}
		fmt.Printf("%s schema ready (prefix %q)\n", okText("✓"), cfg.TablePrefix)
		return nil
	},
}

func init() {
	migrateCmd.Flags().Bool("drop", false, "drop the tables before creating them")
	rootCmd.AddCommand(migrateCmd)
}
