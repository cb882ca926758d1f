// package services defines the remote catalog, media index and reachability interfaces and their REST implementations
package services

import (
	"context"

	"github.com/desertthunder/galx/internal/models"
)

// Catalog reads item listings and galleries and writes galleries back.
type Catalog interface {
	// ListItemIDs returns every item id sorted by date in the given order.
	// A page that fails to decode aborts the fetch with [shared.ErrDecode].
	ListItemIDs(ctx context.Context, order models.Order) ([]models.ItemID, error)

	// ListAllItemIDs returns every item id without requesting an order.
	ListAllItemIDs(ctx context.Context) ([]models.ItemID, error)

	// GetItem fetches the current state of one item.
	GetItem(ctx context.Context, id models.ItemID) (*models.Item, error)

	// PutGallery replaces the gallery of an item and returns the HTTP status.
	PutGallery(ctx context.Context, id models.ItemID, images []models.ImageRef) (int, error)
}

// MediaIndex resolves image references to media library ids.
//
// The bool result is false when nothing matched; the error is reserved for transport and decode failures.
type MediaIndex interface {
	ResolveByURL(ctx context.Context, url string) (models.MediaID, bool, error)
	ResolveByTitle(ctx context.Context, title string) (models.MediaID, bool, error)
	Resolve(ctx context.Context, ref models.MediaRef) (models.MediaID, bool, error)
}

// Prober checks whether an image URL can be fetched.
type Prober interface {
	Exists(ctx context.Context, url string) bool
}

var (
	_ Catalog    = (*CatalogService)(nil)
	_ MediaIndex = (*MediaService)(nil)
	_ Prober     = (*ReachabilityService)(nil)
)
