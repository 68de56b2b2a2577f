package main

import (
	"fmt"
	"log/slog"
	"os"

	"folio/internal/config"
	docsysSvc "folio/internal/domain/services/docsystem"
	"folio/internal/repository"
	serviceAuth "folio/internal/service/auth"
	serviceDocsys "folio/internal/service/docsystem"
	"folio/internal/service/docsystem/converter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// skipStores marks commands that manage the backend themselves
const skipStores = "skip-stores"

// app holds what PersistentPreRunE opened for the running command
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	stores  *repository.Stores
	folders docsysSvc.FolderService
	docs    docsysSvc.DocumentService
	listing docsysSvc.ListingService
	imports docsysSvc.ImportService
}

var (
	cli = &app{}

	storageFlag string
)

var rootCmd = &cobra.Command{
	Use:           "folioctl",
	Short:         "Administer a folio folder and document store",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if storageFlag != "" {
			cfg.StorageDriver = storageFlag
		}
		cli.cfg = cfg
		cli.logger = config.NewLogger(cfg, os.Stderr, nil)

		if cmd.Annotations[skipStores] == "true" {
			return nil
		}
		return cli.open(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cli.stores != nil {
			cli.stores.Close()
		}
	},
}

func (a *app) open(cmd *cobra.Command) error {
	stores, err := repository.Open(cmd.Context(), a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.wire(stores)
	return nil
}

// wire builds the services over stores
func (a *app) wire(stores *repository.Stores) {
	a.stores = stores
	validator := serviceDocsys.NewResourceValidator(stores.Folders)
	a.folders = serviceDocsys.NewFolderService(stores.Folders, stores.Tx, validator, a.cfg.RootFolderName, a.logger)
	a.docs = serviceDocsys.NewDocumentService(stores.Documents, a.folders, stores.Tx, validator, serviceAuth.NewOwnerBasedAuthorizer(), a.logger)
	a.listing = serviceDocsys.NewListingService(stores.Folders, stores.Documents, stores.Listing, a.logger)
	a.imports = serviceDocsys.NewImportService(a.folders, a.docs, validator, converter.NewRegistry(), a.logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "storage driver override (postgres or badger)")
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText("error:"), err)
		return err
	}
	return nil
}
