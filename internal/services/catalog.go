package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

const defaultItemsPath = "/wp-json/wc/v3/products"

// CatalogService implements [Catalog] against a WooCommerce style products endpoint.
type CatalogService struct {
	client    *Client
	itemsPath string
}

// NewCatalogService creates a catalog service rooted at itemsPath.
func NewCatalogService(client *Client, itemsPath string) *CatalogService {
	if itemsPath == "" {
		itemsPath = defaultItemsPath
	}
	return &CatalogService{client: client, itemsPath: itemsPath}
}

// ListItemIDs fetches every item id in date order.
func (s *CatalogService) ListItemIDs(ctx context.Context, order models.Order) ([]models.ItemID, error) {
	return s.listIDs(ctx, map[string]string{
		"orderby": "date",
		"order":   order.Direction(),
	})
}

// ListAllItemIDs fetches every item id in the catalog's default order.
func (s *CatalogService) ListAllItemIDs(ctx context.Context) ([]models.ItemID, error) {
	return s.listIDs(ctx, nil)
}

// listIDs pages the listing until a short or empty page. Any failing page aborts the fetch.
func (s *CatalogService) listIDs(ctx context.Context, extra map[string]string) ([]models.ItemID, error) {
	var ids []models.ItemID

	for page := 1; ; page++ {
		params := map[string]string{
			"per_page": strconv.Itoa(pageSize),
			"page":     strconv.Itoa(page),
		}
		for k, v := range extra {
			params[k] = v
		}

		resp, err := s.client.Get(ctx, s.itemsPath, params)
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("%w: listing page %d returned status %d", shared.ErrTransport, page, resp.StatusCode)
		}

		var items []struct {
			ID models.ItemID `json:"id"`
		}
		if err := decodeJSON(resp.Body, &items); err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}

		for _, item := range items {
			ids = append(ids, item.ID)
		}

		if len(items) < pageSize {
			return ids, nil
		}
	}
}

// GetItem fetches one item with its current gallery.
func (s *CatalogService) GetItem(ctx context.Context, id models.ItemID) (*models.Item, error) {
	resp, err := s.client.Get(ctx, s.itemPath(id), nil)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: item %d", shared.ErrNotFound, id)
	case !resp.IsSuccess():
		return nil, fmt.Errorf("%w: item %d returned status %d", shared.ErrTransport, id, resp.StatusCode)
	}

	var item models.Item
	if err := decodeJSON(resp.Body, &item); err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	if item.ID == 0 {
		item.ID = id
	}
	return &item, nil
}

// PutGallery replaces the gallery of item id and returns the response status.
// A non-200 status is not an error here.
func (s *CatalogService) PutGallery(ctx context.Context, id models.ItemID, images []models.ImageRef) (int, error) {
	if images == nil {
		images = []models.ImageRef{}
	}

	resp, err := s.client.Put(ctx, s.itemPath(id), map[string]any{"images": images})
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

func (s *CatalogService) itemPath(id models.ItemID) string {
	return fmt.Sprintf("%s/%d", s.itemsPath, id)
}
