package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"folio/internal/config"
	models "folio/internal/domain/models/docsystem"
	docsysSvc "folio/internal/domain/services/docsystem"
	"folio/internal/repository"
	"folio/internal/repository/kv"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	color.NoColor = true

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := kv.Open("", logger)
	require.NoError(t, err)
	stores := repository.NewKVStores(store)
	t.Cleanup(stores.Close)

	a := &app{cfg: &config.Config{RootFolderName: "Library"}, logger: logger}
	a.wire(stores)
	return a
}

func TestSeedAndTree(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, seed(ctx, &out, a.folders, a.docs, "seed"))
	assert.Contains(t, out.String(), "seeded 6 documents under Library")

	page, err := a.listing.ListDocuments(ctx, pageAll())
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)
	for _, d := range page.Items {
		assert.Equal(t, "seed", d.OwnerID)
	}

	var tree bytes.Buffer
	require.NoError(t, renderTree(ctx, &tree, a.listing))
	lines := strings.Split(strings.TrimRight(tree.String(), "\n"), "\n")
	assert.Equal(t, "Library (root)", lines[0])
	assert.Equal(t, "├── Chapters/", lines[1])
	assert.Equal(t, "│   ├── Chapter 1 - The Beginning", lines[2])
	assert.Equal(t, "│   └── Chapter 2 - The Academy", lines[3])
	assert.Contains(t, tree.String(), "│   └── Minor/\n│       └── The Registrar\n")
	assert.Equal(t, "└── World Building/", lines[len(lines)-2])
	assert.Equal(t, "    └── Eldergrove", lines[len(lines)-1])
}

func TestRenderTree_Detached(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	var empty bytes.Buffer
	require.NoError(t, renderTree(ctx, &empty, a.listing))
	assert.Equal(t, "(no folders)\n", empty.String())

	_, err := a.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	var tree bytes.Buffer
	require.NoError(t, seedDetached(ctx, a))
	require.NoError(t, renderTree(ctx, &tree, a.listing))

	assert.Equal(t, "Library (root)\nloose (detached)\n└── inner/\n", tree.String())
}

func pageAll() models.PageOptions {
	return models.PageOptions{Page: 1, PerPage: models.MaxPerPage}
}

// seedDetached creates a parentless folder holding one subfolder
func seedDetached(ctx context.Context, a *app) error {
	loose, err := a.folders.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{Name: "loose"})
	if err != nil {
		return err
	}
	_, err = a.folders.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{Name: "inner", FolderID: &loose.ID})
	return err
}
