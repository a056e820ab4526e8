package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

var (
	owner    = domain.Identity{UID: "owner-1", Role: domain.RoleCanteenOwner}
	intruder = domain.Identity{UID: "owner-2", Role: domain.RoleCanteenOwner}
	student  = domain.Identity{UID: "user-1", Role: domain.RoleCustomer}
)

func newCatalogEnv(t *testing.T) (*CatalogService, *mockCatalog, *mockImages, domain.Canteen) {
	t.Helper()
	catalog := newMockCatalog()
	images := newMockImages()
	svc := NewCatalogService(catalog, images)

	canteen, err := svc.RegisterCanteen(context.Background(), owner, "  Main Canteen ", "Block A")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return svc, catalog, images, canteen
}

func TestCatalogService_RegisterCanteen(t *testing.T) {
	svc, catalog, _, canteen := newCatalogEnv(t)
	ctx := context.Background()

	if canteen.Name != "Main Canteen" || canteen.OwnerID != "owner-1" || !canteen.Open {
		t.Errorf("unexpected canteen: %+v", canteen)
	}
	if _, err := catalog.GetCanteen(ctx, canteen.ID); err != nil {
		t.Errorf("expected canteen persisted, got: %v", err)
	}

	if _, err := svc.RegisterCanteen(ctx, student, "Stall", ""); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("customer: expected ErrForbidden, got: %v", err)
	}
	if _, err := svc.RegisterCanteen(ctx, owner, "   ", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank name: expected ErrValidation, got: %v", err)
	}
}

func TestCatalogService_OwnerOnlyMutations(t *testing.T) {
	svc, _, _, canteen := newCatalogEnv(t)
	ctx := context.Background()

	if _, err := svc.SetCanteenOpen(ctx, intruder.UID, canteen.ID, false); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("set open: expected ErrForbidden, got: %v", err)
	}
	if _, err := svc.AddMenuItem(ctx, intruder.UID, domain.MenuItem{CanteenID: canteen.ID, Name: "Tea", Price: 10}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("add item: expected ErrForbidden, got: %v", err)
	}
	if _, err := svc.SetCanteenOpen(ctx, owner.UID, "missing", false); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown canteen: expected ErrNotFound, got: %v", err)
	}

	updated, err := svc.SetCanteenOpen(ctx, owner.UID, canteen.ID, false)
	if err != nil {
		t.Fatalf("set open failed: %v", err)
	}
	if updated.Open {
		t.Error("expected canteen closed")
	}
}

func TestCatalogService_MenuLifecycle(t *testing.T) {
	svc, _, _, canteen := newCatalogEnv(t)
	ctx := context.Background()

	item, err := svc.AddMenuItem(ctx, owner.UID, domain.MenuItem{CanteenID: canteen.ID, Name: "Tea", Price: 10, Available: true, ImageURL: "ignored"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.ID == "" || item.ImageURL != "" {
		t.Errorf("expected generated id and no image, got %+v", item)
	}

	if _, err := svc.AddMenuItem(ctx, owner.UID, domain.MenuItem{CanteenID: canteen.ID, Name: "Bad", Price: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative price: expected ErrValidation, got: %v", err)
	}

	item.Price = 12
	item.Name = "Masala Tea"
	updated, err := svc.UpdateMenuItem(ctx, owner.UID, item)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Price != 12 || !updated.CreatedAt.Equal(item.CreatedAt) {
		t.Errorf("unexpected update: %+v", updated)
	}

	menu, _ := svc.ListMenu(ctx, canteen.ID)
	if len(menu) != 1 || menu[0].Name != "Masala Tea" {
		t.Errorf("unexpected menu: %+v", menu)
	}

	if err := svc.DeleteMenuItem(ctx, owner.UID, canteen.ID, item.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	menu, _ = svc.ListMenu(ctx, canteen.ID)
	if len(menu) != 0 {
		t.Errorf("expected empty menu, got %+v", menu)
	}

	if _, err := svc.ListMenu(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown canteen: expected ErrNotFound, got: %v", err)
	}
}

func TestCatalogService_MenuImages(t *testing.T) {
	svc, _, images, canteen := newCatalogEnv(t)
	ctx := context.Background()

	item, _ := svc.AddMenuItem(ctx, owner.UID, domain.MenuItem{CanteenID: canteen.ID, Name: "Dosa", Price: 50, Available: true})

	if _, err := svc.UploadMenuImage(ctx, owner.UID, canteen.ID, item.ID, "text/plain", []byte("hi")); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad content type: expected ErrValidation, got: %v", err)
	}
	if _, err := svc.UploadMenuImage(ctx, owner.UID, canteen.ID, item.ID, "image/png", make([]byte, maxImageSize+1)); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("oversized: expected ErrValidation, got: %v", err)
	}
	if _, err := svc.UploadMenuImage(ctx, intruder.UID, canteen.ID, item.ID, "image/png", []byte{1}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("intruder: expected ErrForbidden, got: %v", err)
	}

	withImage, err := svc.UploadMenuImage(ctx, owner.UID, canteen.ID, item.ID, "image/png", []byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	path := item.ImagePath()
	if withImage.ImageURL != "https://cdn.test/"+path {
		t.Errorf("unexpected image url %q", withImage.ImageURL)
	}

	// Editing the item keeps the uploaded picture.
	withImage.Price = 55
	updated, _ := svc.UpdateMenuItem(ctx, owner.UID, withImage)
	if updated.ImageURL != withImage.ImageURL {
		t.Errorf("expected image kept, got %q", updated.ImageURL)
	}

	if err := svc.DeleteMenuItem(ctx, owner.UID, canteen.ID, item.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := images.objects[path]; ok {
		t.Error("expected image removed with the item")
	}
}

func TestCatalogService_UploadWithoutStorage(t *testing.T) {
	svc := NewCatalogService(newMockCatalog(), nil)
	_, err := svc.UploadMenuImage(context.Background(), owner.UID, "c", "i", "image/png", []byte{1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}
}
