package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/singulaarityy/Ferrum-Store/internal/accesspolicy"
	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

type listingFixture struct {
	folders   *fakeFolderRepo
	files     *fakeFileRepo
	users     *fakeUserRepo
	perms     *fakePermRepo
	listing   *ListingService
	folderSvc *FolderService
}

// newListingFixture builds a world where user-a owns folder "docs"
// containing one file, plus real caches on miniredis.
func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	users := newFakeUserRepo(
		&models.User{ID: "user-a", Role: models.RoleStudent},
		&models.User{ID: "user-b", Role: models.RoleStudent},
		&models.User{ID: "admin-1", Role: models.RoleAdmin},
	)
	folders := newFakeFolderRepo(
		&models.Folder{ID: "docs", Name: "Docs", OwnerID: "user-a"},
	)
	files := newFakeFileRepo(
		&models.File{ID: "file-1", Name: "a.pdf", FolderID: strptr("docs"), OwnerID: "user-a", StorageKey: "docs/file-1", Size: 1024},
	)
	perms := newFakePermRepo()

	listings, permCache, _, _ := testCaches(t)
	logger := slog.Default()
	resolver := NewAccessResolver(users, perms, permCache, accesspolicy.Default(), logger)

	return &listingFixture{
		folders:   folders,
		files:     files,
		users:     users,
		perms:     perms,
		listing:   NewListingService(folders, files, resolver, listings, logger),
		folderSvc: NewFolderService(folders, perms, users, fakeTxManager{}, resolver, listings, permCache, logger),
	}
}

func TestListFolderOwnerSeesChildren(t *testing.T) {
	fx := newListingFixture(t)

	got, err := fx.listing.ListFolder(context.Background(), testIdentity("user-a", models.RoleStudent), "docs")
	if err != nil {
		t.Fatalf("ListFolder: %v", err)
	}
	if got.Folder.ID != "docs" {
		t.Errorf("folder id = %q", got.Folder.ID)
	}
	if len(got.Files) != 1 || got.Files[0].Name != "a.pdf" {
		t.Errorf("files = %+v, want [a.pdf]", got.Files)
	}
	if len(got.Subfolders) != 0 {
		t.Errorf("subfolders = %+v, want empty", got.Subfolders)
	}
}

func TestListFolderDeniedWithoutGrant(t *testing.T) {
	fx := newListingFixture(t)

	// user-b: student, non-owner, no grant.
	_, err := fx.listing.ListFolder(context.Background(), testIdentity("user-b", models.RoleStudent), "docs")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want forbidden", err)
	}

	// Admin sees the same folder.
	got, err := fx.listing.ListFolder(context.Background(), testIdentity("admin-1", models.RoleAdmin), "docs")
	if err != nil {
		t.Fatalf("admin ListFolder: %v", err)
	}
	if len(got.Files) != 1 || got.Files[0].Name != "a.pdf" {
		t.Errorf("admin files = %+v, want [a.pdf]", got.Files)
	}
}

func TestListFolderGrantedViewerSeesIdenticalChildren(t *testing.T) {
	fx := newListingFixture(t)
	ctx := context.Background()

	direct, err := fx.listing.ListFolder(ctx, testIdentity("user-a", models.RoleStudent), "docs")
	if err != nil {
		t.Fatal(err)
	}

	fx.perms.grant("docs", "user-b", models.PermissionViewer)

	// This read is served from the cache populated by the owner's read.
	shared, err := fx.listing.ListFolder(ctx, testIdentity("user-b", models.RoleStudent), "docs")
	if err != nil {
		t.Fatalf("viewer ListFolder: %v", err)
	}
	if len(shared.Files) != len(direct.Files) || shared.Files[0].ID != direct.Files[0].ID {
		t.Errorf("viewer children %+v differ from owner children %+v", shared.Files, direct.Files)
	}
}

func TestListFolderPopulatesCache(t *testing.T) {
	fx := newListingFixture(t)
	ctx := context.Background()
	ident := testIdentity("user-a", models.RoleStudent)

	if _, err := fx.listing.ListFolder(ctx, ident, "docs"); err != nil {
		t.Fatal(err)
	}
	fileReads, folderReads := fx.files.reads, fx.folders.reads

	if _, err := fx.listing.ListFolder(ctx, ident, "docs"); err != nil {
		t.Fatal(err)
	}
	if fx.files.reads != fileReads || fx.folders.reads != folderReads {
		t.Errorf("second listing hit the store (files %d->%d, folders %d->%d)",
			fileReads, fx.files.reads, folderReads, fx.folders.reads)
	}
}

func TestListFolderEmptyIsCachedAsConfirmedEmpty(t *testing.T) {
	fx := newListingFixture(t)
	ctx := context.Background()
	ident := testIdentity("user-b", models.RoleStudent)

	// The virtual root of user-b has no children at all.
	first, err := fx.listing.ListFolder(ctx, ident, models.VirtualRootID)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Files) != 0 || len(first.Subfolders) != 0 {
		t.Fatalf("expected empty root, got %+v", first)
	}
	reads := fx.files.reads + fx.folders.reads

	// Confirmed-empty must not thrash the store.
	if _, err := fx.listing.ListFolder(ctx, ident, models.VirtualRootID); err != nil {
		t.Fatal(err)
	}
	if fx.files.reads+fx.folders.reads != reads {
		t.Error("confirmed-empty listing hit the store again")
	}
}

func TestListVirtualRoot(t *testing.T) {
	fx := newListingFixture(t)
	ctx := context.Background()

	// Give user-b a top-level folder and a root file; user-a's root must
	// not see them.
	fx.folders.folders["b-top"] = &models.Folder{ID: "b-top", Name: "B Top", OwnerID: "user-b"}
	fx.files.files["b-file"] = &models.File{ID: "b-file", Name: "b.txt", OwnerID: "user-b"}

	got, err := fx.listing.ListFolder(ctx, testIdentity("user-b", models.RoleStudent), models.VirtualRootID)
	if err != nil {
		t.Fatalf("root listing: %v", err)
	}
	if got.Folder.ID != models.VirtualRootID || got.Folder.OwnerID != "user-b" {
		t.Errorf("synthesized root = %+v", got.Folder)
	}
	if got.Folder.IsPublic {
		t.Error("virtual root must never be public")
	}
	if len(got.Subfolders) != 1 || got.Subfolders[0].ID != "b-top" {
		t.Errorf("root subfolders = %+v", got.Subfolders)
	}
	if len(got.Files) != 1 || got.Files[0].ID != "b-file" {
		t.Errorf("root files = %+v", got.Files)
	}

	// user-a's root is disjoint even though both are addressed as "root":
	// it holds only user-a's own top-level folder.
	gotA, err := fx.listing.ListFolder(ctx, testIdentity("user-a", models.RoleStudent), models.VirtualRootID)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotA.Subfolders) != 1 || gotA.Subfolders[0].ID != "docs" {
		t.Errorf("user-a root subfolders = %+v, want [docs]", gotA.Subfolders)
	}
	if len(gotA.Files) != 0 {
		t.Errorf("user-a root leaked files: %+v", gotA.Files)
	}
}

func TestListVirtualRootUnauthenticated(t *testing.T) {
	fx := newListingFixture(t)

	_, err := fx.listing.ListFolder(context.Background(), nil, models.VirtualRootID)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("got %v, want unauthenticated", err)
	}
}

func TestListFolderNotFound(t *testing.T) {
	fx := newListingFixture(t)

	_, err := fx.listing.ListFolder(context.Background(), testIdentity("user-a", models.RoleStudent), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestPublicFolderListableByAnyone(t *testing.T) {
	fx := newListingFixture(t)
	fx.folders.folders["pub"] = &models.Folder{ID: "pub", Name: "Pub", OwnerID: "user-a", IsPublic: true}

	// Folder-level access grants full content visibility, including to
	// unauthenticated callers.
	got, err := fx.listing.ListFolder(context.Background(), nil, "pub")
	if err != nil {
		t.Fatalf("public listing unauthenticated: %v", err)
	}
	if got.Folder.ID != "pub" {
		t.Errorf("folder = %+v", got.Folder)
	}
}

func TestCreateFolderInvalidatesParentListing(t *testing.T) {
	fx := newListingFixture(t)
	ctx := context.Background()
	ident := testIdentity("user-a", models.RoleStudent)

	// Prime the cache.
	before, err := fx.listing.ListFolder(ctx, ident, "docs")
	if err != nil {
		t.Fatal(err)
	}
	if len(before.Subfolders) != 0 {
		t.Fatalf("precondition: docs has subfolders %+v", before.Subfolders)
	}

	parent := "docs"
	if _, err := fx.folderSvc.CreateFolder(ctx, ident, &models.CreateFolderRequest{
		Name:     "Reports",
		ParentID: &parent,
	}); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	// The stale cached listing must be gone; the next read sees the child.
	after, err := fx.listing.ListFolder(ctx, ident, "docs")
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Subfolders) != 1 || after.Subfolders[0].Name != "Reports" {
		t.Errorf("post-create listing = %+v, want [Reports]", after.Subfolders)
	}
}
