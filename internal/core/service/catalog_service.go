package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/port"
)

const maxImageSize = 5 << 20

type CatalogService struct {
	catalog port.CatalogRepository
	images  port.ObjectStorage
	now     func() time.Time
}

func NewCatalogService(catalog port.CatalogRepository, images port.ObjectStorage) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		images:  images,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *CatalogService) RegisterCanteen(ctx context.Context, owner domain.Identity, name, location string) (domain.Canteen, error) {
	if owner.Role != domain.RoleCanteenOwner {
		return domain.Canteen{}, fmt.Errorf("%w: only canteen owners can register a canteen", domain.ErrForbidden)
	}

	now := s.now()
	canteen := domain.Canteen{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		OwnerID:   owner.UID,
		Location:  strings.TrimSpace(location),
		Open:      true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := canteen.Validate(); err != nil {
		return domain.Canteen{}, err
	}
	if err := s.catalog.SaveCanteen(ctx, canteen); err != nil {
		return domain.Canteen{}, err
	}

	log.WithFields(log.Fields{"canteen_id": canteen.ID, "owner_id": owner.UID}).Info("canteen registered")
	return canteen, nil
}

func (s *CatalogService) GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error) {
	return s.catalog.GetCanteen(ctx, canteenID)
}

func (s *CatalogService) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	return s.catalog.ListCanteens(ctx)
}

// OwnedCanteen loads the canteen and checks that ownerUID runs it.
func (s *CatalogService) OwnedCanteen(ctx context.Context, ownerUID, canteenID string) (*domain.Canteen, error) {
	canteen, err := s.catalog.GetCanteen(ctx, canteenID)
	if err != nil {
		return nil, err
	}
	if canteen.OwnerID != ownerUID {
		return nil, fmt.Errorf("%w: canteen %s belongs to another owner", domain.ErrForbidden, canteenID)
	}
	return canteen, nil
}

func (s *CatalogService) SetCanteenOpen(ctx context.Context, ownerUID, canteenID string, open bool) (*domain.Canteen, error) {
	canteen, err := s.OwnedCanteen(ctx, ownerUID, canteenID)
	if err != nil {
		return nil, err
	}
	canteen.Open = open
	canteen.UpdatedAt = s.now()
	if err := s.catalog.SaveCanteen(ctx, *canteen); err != nil {
		return nil, err
	}
	return canteen, nil
}

func (s *CatalogService) ListMenu(ctx context.Context, canteenID string) ([]domain.MenuItem, error) {
	if _, err := s.catalog.GetCanteen(ctx, canteenID); err != nil {
		return nil, err
	}
	return s.catalog.ListMenuItems(ctx, canteenID)
}

func (s *CatalogService) AddMenuItem(ctx context.Context, ownerUID string, item domain.MenuItem) (domain.MenuItem, error) {
	if _, err := s.OwnedCanteen(ctx, ownerUID, item.CanteenID); err != nil {
		return domain.MenuItem{}, err
	}
	if err := item.Validate(); err != nil {
		return domain.MenuItem{}, err
	}

	now := s.now()
	item.ID = uuid.New().String()
	item.ImageURL = ""
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := s.catalog.SaveMenuItem(ctx, item); err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}

// UpdateMenuItem replaces the editable fields; id, image and creation time
// are kept from the stored item.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, ownerUID string, item domain.MenuItem) (domain.MenuItem, error) {
	if _, err := s.OwnedCanteen(ctx, ownerUID, item.CanteenID); err != nil {
		return domain.MenuItem{}, err
	}
	if err := item.Validate(); err != nil {
		return domain.MenuItem{}, err
	}
	existing, err := s.catalog.GetMenuItem(ctx, item.CanteenID, item.ID)
	if err != nil {
		return domain.MenuItem{}, err
	}

	item.ImageURL = existing.ImageURL
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = s.now()
	if err := s.catalog.SaveMenuItem(ctx, item); err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, ownerUID, canteenID, itemID string) error {
	if _, err := s.OwnedCanteen(ctx, ownerUID, canteenID); err != nil {
		return err
	}
	item, err := s.catalog.GetMenuItem(ctx, canteenID, itemID)
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteMenuItem(ctx, canteenID, itemID); err != nil {
		return err
	}

	if item.ImageURL != "" && s.images != nil {
		if err := s.images.Delete(ctx, item.ImagePath()); err != nil {
			log.WithError(err).WithField("item_id", itemID).Warn("menu item deleted but image was not")
		}
	}
	return nil
}

func (s *CatalogService) UploadMenuImage(ctx context.Context, ownerUID, canteenID, itemID, contentType string, data []byte) (domain.MenuItem, error) {
	if s.images == nil {
		return domain.MenuItem{}, fmt.Errorf("%w: image storage is not configured", domain.ErrValidation)
	}
	if len(data) == 0 || len(data) > maxImageSize {
		return domain.MenuItem{}, fmt.Errorf("%w: image must be between 1 byte and %d bytes", domain.ErrValidation, maxImageSize)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return domain.MenuItem{}, fmt.Errorf("%w: unsupported content type %q", domain.ErrValidation, contentType)
	}
	if _, err := s.OwnedCanteen(ctx, ownerUID, canteenID); err != nil {
		return domain.MenuItem{}, err
	}
	item, err := s.catalog.GetMenuItem(ctx, canteenID, itemID)
	if err != nil {
		return domain.MenuItem{}, err
	}

	url, err := s.images.Upload(ctx, item.ImagePath(), contentType, data)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("upload image for %s: %w", itemID, err)
	}
	item.ImageURL = url
	item.UpdatedAt = s.now()
	if err := s.catalog.SaveMenuItem(ctx, *item); err != nil {
		return domain.MenuItem{}, err
	}
	return *item, nil
}
