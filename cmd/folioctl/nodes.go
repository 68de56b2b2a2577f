package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"folio/internal/config"
	models "folio/internal/domain/models/docsystem"
	docsysSvc "folio/internal/domain/services/docsystem"

	"github.com/spf13/cobra"
)

var initRootCmd = &cobra.Command{
	Use:   "init-root",
	Short: "Create the root folder if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := cli.folders.EnsureRoot(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(formatFolderHeader(root))
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls [folder-id]",
	Short: "List a folder's children",
	Long:  `List the folders and documents directly under a folder, oldest first. Without an id the root folder is listed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		var folder *models.Folder
		if len(args) == 1 {
			detail, err := cli.listing.GetFolder(ctx, args[0])
			if err != nil {
				return err
			}
			folder = &detail.Folder
		} else {
			top, err := cli.listing.ListTopLevel(ctx)
			if err != nil {
				return err
			}
			if top == nil {
				fmt.Println("No root folder yet. Run `folioctl init-root`.")
				return nil
			}
			folder = &top.Folder
		}

		items, err := cli.listing.ListChildrenPage(ctx, folder.ID, limit, offset)
		if err != nil {
			return err
		}

		fmt.Print(formatFolderHeader(folder))
		if len(items) == 0 {
			fmt.Println(faint("  (empty)"))
			return nil
		}
		for _, item := range items {
			fmt.Print(formatChild(item))
		}
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the whole hierarchy",
	Long:  `Print the root folder and everything below it, then any detached folders with their contents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderTree(cmd.Context(), os.Stdout, cli.listing)
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <document-id>",
	Short: "Show a document",
	Long:  `Display a document with its content rendered as markdown. Use --raw for the stored text.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		doc, err := cli.docs.GetDocument(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}

		if raw {
			fmt.Print(doc.Content)
			return nil
		}
		fmt.Print(formatDocumentHeader(doc))
		fmt.Print(renderMarkdown(doc.Content))
		return nil
	},
}

// renderTree writes the root subtree followed by detached subtrees
func renderTree(ctx context.Context, w io.Writer, listing docsysSvc.ListingService) error {
	summaries, err := listing.ListFolderSummaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(w, "(no folders)")
		return nil
	}

	var roots []models.Folder
	for _, s := range summaries {
		if s.IsRoot || s.ParentID == nil {
			roots = append(roots, s.Folder)
		}
	}

	for i := range roots {
		label := roots[i].Name
		if roots[i].IsRoot {
			label += " (root)"
		} else {
			label += " (detached)"
		}
		fmt.Fprintln(w, bold(label))
		if err := renderSubtree(ctx, w, listing, roots[i].ID, "", 0); err != nil {
			return err
		}
	}
	return nil
}

func renderSubtree(ctx context.Context, w io.Writer, listing docsysSvc.ListingService, folderID, indent string, depth int) error {
	if depth >= config.MaxHierarchyDepth {
		fmt.Fprintln(w, indent+"└── …")
		return nil
	}

	items, err := listing.ListChildren(ctx, folderID)
	if err != nil {
		return err
	}

	for i, item := range items {
		branch, next := "├── ", "│   "
		if i == len(items)-1 {
			branch, next = "└── ", "    "
		}
		name := item.Name
		if item.IsFolder() {
			name = cyan(name + "/")
		}
		fmt.Fprintln(w, indent+branch+name)
		if item.IsFolder() {
			if err := renderSubtree(ctx, w, listing, item.ID, indent+next, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	lsCmd.Flags().Int("limit", 0, "maximum children to show (0 for all)")
	lsCmd.Flags().Int("offset", 0, "children to skip")
	catCmd.Flags().Bool("raw", false, "print the stored markdown without rendering")

	rootCmd.AddCommand(initRootCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(catCmd)
}
