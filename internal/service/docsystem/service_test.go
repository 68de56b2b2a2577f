package docsystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/docsystem"
	docsysSvc "folio/internal/domain/services/docsystem"
	"folio/internal/httputil"
	"folio/internal/repository"
	"folio/internal/repository/kv"
	"folio/internal/service/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances one second per reading
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	stores  *repository.Stores
	folders docsysSvc.FolderService
	docs    docsysSvc.DocumentService
	listing docsysSvc.ListingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := kv.Open("", logger)
	require.NoError(t, err)
	stores := repository.NewKVStores(store)
	t.Cleanup(stores.Close)

	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	validator := NewResourceValidator(stores.Folders)
	folders := NewFolderService(stores.Folders, stores.Tx, validator, "Default Folder", logger, WithClock(clock.Now))
	docs := NewDocumentService(stores.Documents, folders, stores.Tx, validator, auth.NewOwnerBasedAuthorizer(), logger, WithClock(clock.Now))
	listing := NewListingService(stores.Folders, stores.Documents, stores.Listing, logger)

	return &fixture{stores: stores, folders: folders, docs: docs, listing: listing}
}

func (f *fixture) mkdir(t *testing.T, name string, parent *models.Folder) *models.Folder {
	t.Helper()
	req := &docsysSvc.CreateFolderRequest{Name: name}
	if parent != nil {
		req.FolderID = &parent.ID
	}
	folder, err := f.folders.CreateFolder(context.Background(), req)
	require.NoError(t, err)
	return folder
}

func (f *fixture) mkdoc(t *testing.T, title, owner string, parent *models.Folder) *models.Document {
	t.Helper()
	req := &docsysSvc.CreateDocumentRequest{OwnerID: owner, Title: &title, Content: "body of " + title}
	if parent != nil {
		req.FolderID = &parent.ID
	}
	doc, err := f.docs.CreateDocument(context.Background(), req)
	require.NoError(t, err)
	return doc
}

// snapshot captures every folder's parent and every document
func (f *fixture) snapshot(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	out := ""
	root, err := f.stores.Folders.FindRoot(ctx)
	require.NoError(t, err)
	if root != nil {
		out += "root=" + root.ID + ";"
	}
	folders, err := f.stores.Folders.ListNonRoot(ctx)
	require.NoError(t, err)
	for _, folder := range folders {
		parent := "-"
		if folder.ParentID != nil {
			parent = *folder.ParentID
		}
		out += fmt.Sprintf("%s:%s:%s:%s;", folder.ID, folder.Name, parent, folder.UpdatedAt)
	}
	docs, err := f.stores.Documents.List(ctx, 0, 0)
	require.NoError(t, err)
	for _, doc := range docs {
		out += fmt.Sprintf("%s:%s:%s:%s:%s;", doc.ID, doc.Title, doc.Content, doc.OwnerID, doc.ParentID)
	}
	return out
}

func TestCreateFolder_EmptyNameRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	before := f.snapshot(t)

	for _, name := range []string{"", "   "} {
		_, err := f.folders.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{Name: name, FolderID: &root.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	assert.Equal(t, before, f.snapshot(t))
}

func TestCreateFolder_MissingParent(t *testing.T) {
	f := newFixture(t)
	missing := "0190f5c2-0000-7000-8000-000000000000"

	_, err := f.folders.CreateFolder(context.Background(), &docsysSvc.CreateFolderRequest{Name: "x", FolderID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := f.stores.Folders.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateFolder_DetachedWithoutParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	detached := f.mkdir(t, "loose", nil)
	assert.Nil(t, detached.ParentID)
	assert.False(t, detached.IsRoot)

	children, err := f.listing.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestMoveFolder_UnderDescendantDetectsCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	a := f.mkdir(t, "a", root)
	b := f.mkdir(t, "b", a)
	c := f.mkdir(t, "c", b)
	f.mkdoc(t, "note", "u1", c)

	before := f.snapshot(t)

	for _, target := range []*models.Folder{a, b, c} {
		_, err := f.folders.MoveFolder(ctx, a.ID, &target.ID)
		assert.ErrorIs(t, err, domain.ErrCycleDetected, "move a under %s", target.Name)

		var cycleErr *domain.CycleError
		if assert.True(t, errors.As(err, &cycleErr)) {
			assert.Equal(t, a.ID, cycleErr.FolderID)
		}
	}

	assert.Equal(t, before, f.snapshot(t))
}

func TestMoveFolder_Reparents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	a := f.mkdir(t, "a", root)
	b := f.mkdir(t, "b", root)

	moved, err := f.folders.MoveFolder(ctx, b.ID, &a.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, a.ID, *moved.ParentID)
	assert.True(t, moved.UpdatedAt.After(b.UpdatedAt))

	underA, err := f.listing.ListChildren(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, underA, 1)
	assert.Equal(t, b.ID, underA[0].ID)

	detached, err := f.folders.MoveFolder(ctx, b.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, detached.ParentID)
}

func TestMoveFolder_RootCannotBeAttached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	loose := f.mkdir(t, "loose", nil)

	_, err = f.folders.MoveFolder(ctx, root.ID, &loose.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.stores.Folders.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)
}

func TestAncestorChainsTerminate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	nodes := []*models.Folder{root}
	for i := 0; i < 6; i++ {
		nodes = append(nodes, f.mkdir(t, fmt.Sprintf("n%d", i), nodes[i/2]))
	}

	// Every ordered pair of moves; the cycle-forming ones must fail
	for _, child := range nodes[1:] {
		for _, parent := range nodes {
			_, _ = f.folders.MoveFolder(ctx, child.ID, &parent.ID)
		}
	}

	all, err := f.stores.Folders.ListNonRoot(ctx)
	require.NoError(t, err)
	for _, folder := range all {
		current := folder.ParentID
		steps := 0
		for current != nil {
			steps++
			require.LessOrEqual(t, steps, len(nodes), "ancestor chain of %s does not terminate", folder.Name)
			current, err = f.stores.Folders.GetParentID(ctx, *current)
			require.NoError(t, err)
		}
	}
}

// requireChainsTerminate walks every folder's ancestors and fails when a
// chain revisits a folder
func requireChainsTerminate(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	all, err := f.stores.Folders.ListNonRoot(ctx)
	require.NoError(t, err)
	for _, folder := range all {
		seen := map[string]bool{folder.ID: true}
		current := folder.ParentID
		for current != nil {
			require.False(t, seen[*current], "ancestor chain of %s loops", folder.Name)
			seen[*current] = true
			current, err = f.stores.Folders.GetParentID(ctx, *current)
			require.NoError(t, err)
		}
	}
}

func TestMoveFolder_ConcurrentCrossMovesNeverFormCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	a := f.mkdir(t, "a", root)
	b := f.mkdir(t, "b", root)

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		start := make(chan struct{})
		errs := make([]error, 2)
		moves := [][2]string{{a.ID, b.ID}, {b.ID, a.ID}}
		for i, m := range moves {
			wg.Add(1)
			go func(i int, child, parent string) {
				defer wg.Done()
				<-start
				_, errs[i] = f.folders.MoveFolder(ctx, child, &parent)
			}(i, m[0], m[1])
		}
		close(start)
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrCycleDetected, "round %d", round)
		}
		require.Equal(t, 1, succeeded, "round %d: exactly one cross move wins", round)
		requireChainsTerminate(t, f)

		// back to siblings under the root
		for _, id := range []string{a.ID, b.ID} {
			_, err := f.folders.MoveFolder(ctx, id, &root.ID)
			require.NoError(t, err)
		}
	}
}

func TestMoveFolder_UnderDeepLeaf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// deeper than any fixed walk bound would allow
	const depth = 5000
	parent := f.mkdir(t, "d0", nil)
	top := parent
	for i := 1; i < depth; i++ {
		parent = f.mkdir(t, fmt.Sprintf("d%d", i), parent)
	}
	loose := f.mkdir(t, "loose", nil)

	moved, err := f.folders.MoveFolder(ctx, loose.ID, &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, parent.ID, *moved.ParentID)

	_, err = f.folders.MoveFolder(ctx, top.ID, &loose.ID)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestRenameFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	folder := f.mkdir(t, "old", nil)

	renamed, err := f.folders.RenameFolder(ctx, folder.ID, "  new  ")
	require.NoError(t, err)
	assert.Equal(t, "new", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(folder.UpdatedAt))
	assert.Equal(t, folder.CreatedAt.Unix(), renamed.CreatedAt.Unix())

	_, err = f.folders.RenameFolder(ctx, folder.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.folders.RenameFolder(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateFolder_RenameAndMoveTogether(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	target := f.mkdir(t, "target", nil)
	folder := f.mkdir(t, "folder", nil)
	name := "moved"

	updated, err := f.folders.UpdateFolder(ctx, folder.ID, &docsysSvc.UpdateFolderRequest{
		Name:     &name,
		FolderID: httputil.Set(&target.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "moved", updated.Name)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, target.ID, *updated.ParentID)

	_, err = f.folders.UpdateFolder(ctx, folder.ID, &docsysSvc.UpdateFolderRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEnsureRoot_ConcurrentCallsCreateOneRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 16
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			root, err := f.folders.EnsureRoot(ctx)
			errs[i] = err
			if root != nil {
				ids[i] = root.ID
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	count, err := f.stores.Folders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	root, err := f.stores.Folders.FindRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Default Folder", root.Name)
	assert.True(t, root.IsRoot)
	assert.Nil(t, root.ParentID)
}

func TestDeleteFolder_CascadesOnlyThroughSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	doomed := f.mkdir(t, "doomed", root)
	inner := f.mkdir(t, "inner", doomed)
	f.mkdoc(t, "d1", "u", doomed)
	f.mkdoc(t, "d2", "u", inner)
	keep := f.mkdir(t, "keep", root)
	kept := f.mkdoc(t, "k1", "u", keep)
	f.mkdoc(t, "k2", "u", nil)

	foldersBefore, err := f.stores.Folders.Count(ctx)
	require.NoError(t, err)
	docsBefore, err := f.stores.Documents.Count(ctx)
	require.NoError(t, err)

	require.NoError(t, f.folders.DeleteFolder(ctx, doomed.ID))

	foldersAfter, err := f.stores.Folders.Count(ctx)
	require.NoError(t, err)
	docsAfter, err := f.stores.Documents.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, foldersBefore-foldersAfter)
	assert.Equal(t, 2, docsBefore-docsAfter)

	_, err = f.stores.Folders.GetByID(ctx, inner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.docs.GetDocument(ctx, kept.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.folders.DeleteFolder(ctx, doomed.ID), domain.ErrNotFound)
}

func TestDeleteRoot_EnsureRootRecreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.mkdoc(t, "in root", "u", nil)
	root, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root.ID, doc.ParentID)

	require.NoError(t, f.folders.DeleteFolder(ctx, root.ID))

	top, err := f.listing.ListTopLevel(ctx)
	require.NoError(t, err)
	assert.Nil(t, top)
	_, err = f.docs.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	fresh, err := f.folders.EnsureRoot(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, root.ID, fresh.ID)
	assert.True(t, fresh.IsRoot)
}

func TestDocument_NonOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.mkdoc(t, "mine", "alice", nil)
	before := f.snapshot(t)

	title := "stolen"
	_, err := f.docs.UpdateDocument(ctx, doc.ID, &docsysSvc.UpdateDocumentRequest{CallerID: "bob", Title: &title})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	empty := ""
	_, err = f.docs.UpdateDocument(ctx, doc.ID, &docsysSvc.UpdateDocumentRequest{CallerID: "bob", Title: &empty})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.docs.DeleteDocument(ctx, doc.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, before, f.snapshot(t))
}

func TestDocument_OwnerUpdatesAndDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.mkdoc(t, "draft", "alice", nil)

	content := "final text"
	updated, err := f.docs.UpdateDocument(ctx, doc.ID, &docsysSvc.UpdateDocumentRequest{CallerID: "alice", Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Title)
	assert.Equal(t, "final text", updated.Content)
	assert.Equal(t, "alice", updated.OwnerID)
	assert.True(t, updated.UpdatedAt.After(doc.UpdatedAt))

	empty := " "
	_, err = f.docs.UpdateDocument(ctx, doc.ID, &docsysSvc.UpdateDocumentRequest{CallerID: "alice", Title: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, f.docs.DeleteDocument(ctx, doc.ID, "alice"))
	_, err = f.docs.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.docs.UpdateDocument(ctx, doc.ID, &docsysSvc.UpdateDocumentRequest{CallerID: "alice", Content: &content})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDocument_DefaultsToRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{OwnerID: "u", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDocumentTitle, first.Title)

	got, err := f.docs.GetDocument(ctx, first.ID)
	require.NoError(t, err)

	root, err := f.stores.Folders.FindRoot(ctx)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, root.ID, got.ParentID)

	second, err := f.docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{OwnerID: "u", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, first.ParentID, second.ParentID)
}

func TestCreateDocument_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := "0190f5c2-0000-7000-8000-000000000000"
	tooLong := strings.Repeat("x", 101)
	empty := ""

	tests := []struct {
		name    string
		req     *docsysSvc.CreateDocumentRequest
		wantErr error
	}{
		{"missing parent", &docsysSvc.CreateDocumentRequest{OwnerID: "u", FolderID: &missing}, domain.ErrNotFound},
		{"empty title", &docsysSvc.CreateDocumentRequest{OwnerID: "u", Title: &empty}, domain.ErrValidation},
		{"title too long", &docsysSvc.CreateDocumentRequest{OwnerID: "u", Title: &tooLong}, domain.ErrValidation},
		{"no owner", &docsysSvc.CreateDocumentRequest{}, domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.docs.CreateDocument(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	n, err := f.stores.Documents.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
