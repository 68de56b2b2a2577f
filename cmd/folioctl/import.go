package main

import (
	"fmt"
	"io"
	"os"

	docsysSvc "folio/internal/domain/services/docsystem"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir|file>",
	Short: "Import markdown, text and HTML files as documents",
	Long: `Import a directory tree, a .zip archive or a single file. Directories become
folders; .md, .markdown, .txt, .text, .html and .htm files become documents.
Everything lands under the root folder unless --parent is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		parent, _ := cmd.Flags().GetString("parent")

		req := &docsysSvc.ImportRequest{OwnerID: owner}
		if parent != "" {
			req.ParentID = &parent
		}

		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}

		var result *docsysSvc.ImportResult
		if info.IsDir() {
			result, err = cli.imports.ImportFS(cmd.Context(), os.DirFS(args[0]), req)
		} else {
			var f *os.File
			f, err = os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			result, err = cli.imports.ImportFile(cmd.Context(), info.Name(), f, req)
		}
		if err != nil {
			return err
		}

		printImportResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func printImportResult(w io.Writer, result *docsysSvc.ImportResult) {
	for _, doc := range result.Documents {
		fmt.Fprintf(w, "%s %s %s\n", okText("✓"), doc.Path, faint(doc.ID))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "%s %s: %s\n", errorText("✗"), e.File, e.Error)
	}
	s := result.Summary
	fmt.Fprintf(w, "%d folders, %d documents created, %d skipped, %d failed\n", s.Folders, s.Created, s.Skipped, s.Failed)
}

func init() {
	importCmd.Flags().String("owner", "import", "owner id recorded on the imported documents")
	importCmd.Flags().String("parent", "", "folder to import into (default: root)")
	rootCmd.AddCommand(importCmd)
}
