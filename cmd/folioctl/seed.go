package main

import (
	"context"
	"fmt"
	"io"

	models "folio/internal/domain/models/docsystem"
	docsysSvc "folio/internal/domain/services/docsystem"

	"github.com/spf13/cobra"
)

// seedFolder is a folder with its documents and subfolders, created in order
type seedFolder struct {
	name      string
	documents []seedDocument
	folders   []seedFolder
}

type seedDocument struct {
	title   string
	content string
}

func getSeedTree() []seedFolder {
	return []seedFolder{
		{
			name: "Chapters",
			documents: []seedDocument{
				{
					title: "Chapter 1 - The Beginning",
					content: "# The Beginning\n\nThe morning sun cast long shadows across the cobblestone streets of Eldergrove. " +
						"**Aria** stood at the window of her small apartment, watching the city wake. Today was the day everything would change.\n",
				},
				{
					title: "Chapter 2 - The Academy",
					content: "# The Academy\n\nThe gates of the Academy of Arcane Arts rose before her, older than the city itself.\n\n" +
						"- Find the registrar\n- Avoid the east tower\n",
				},
			},
		},
		{
			name: "Characters",
			documents: []seedDocument{
				{title: "Aria", content: "# Aria\n\nA nineteen year old apprentice with more curiosity than caution.\n"},
				{title: "Professor Thorne", content: "# Professor Thorne\n\nKeeper of the east tower. Speaks rarely, *remembers everything*.\n"},
			},
			folders: []seedFolder{
				{
					name: "Minor",
					documents: []seedDocument{
						{title: "The Registrar", content: "Runs the admissions office. Allergic to paperwork that is not her own.\n"},
					},
				},
			},
		},
		{
			name: "World Building",
			documents: []seedDocument{
				{title: "Eldergrove", content: "# Eldergrove\n\nA river city built on the ruins of three older ones.\n"},
			},
		},
	}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the store with sample folders and documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		if cli.cfg.Environment == "prod" {
			return fmt.Errorf("refusing to seed the prod environment")
		}
		return seed(cmd.Context(), cmd.OutOrStdout(), cli.folders, cli.docs, owner)
	},
}

// seed creates the sample tree under the root folder
func seed(ctx context.Context, w io.Writer, folders docsysSvc.FolderService, docs docsysSvc.DocumentService, owner string) error {
	root, err := folders.EnsureRoot(ctx)
	if err != nil {
		return err
	}

	var created int
	var walk func(parent *models.Folder, tree []seedFolder, path string) error
	walk = func(parent *models.Folder, tree []seedFolder, path string) error {
		for _, sf := range tree {
			folder, err := folders.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{Name: sf.name, FolderID: &parent.ID})
			if err != nil {
				return fmt.Errorf("create folder %s%s: %w", path, sf.name, err)
			}
			folderPath := path + sf.name + "/"

			for _, sd := range sf.documents {
				title := sd.title
				doc, err := docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
					OwnerID:  owner,
					Title:    &title,
					Content:  sd.content,
					FolderID: &folder.ID,
				})
				if err != nil {
					return fmt.Errorf("create document %s%s: %w", folderPath, sd.title, err)
				}
				created++
				fmt.Fprintf(w, "%s %s%s %s\n", okText("✓"), folderPath, doc.Title, faint(doc.ID))
			}

			if err := walk(folder, sf.folders, folderPath); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, getSeedTree(), "/"); err != nil {
		return err
	}
	fmt.Fprintf(w, "seeded %d documents under %s\n", created, root.Name)
	return nil
}

func init() {
	seedCmd.Flags().String("owner", "seed", "owner id recorded on the seeded documents")
	rootCmd.AddCommand(seedCmd)
}
