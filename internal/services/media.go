package services

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

const (
	defaultMediaPath = "/wp-json/wp/v2/media"

	// mediaPageCap bounds how many search pages are scanned per lookup.
	mediaPageCap = 10
)

type mediaTitle struct {
	Rendered string `json:"rendered"`
}

// MediaItem is one media library search result.
type MediaItem struct {
	ID        models.MediaID `json:"id"`
	Title     mediaTitle     `json:"title"`
	Slug      string         `json:"slug"`
	SourceURL string         `json:"source_url"`
}

// MediaService implements [MediaIndex] against a WordPress media endpoint.
type MediaService struct {
	client    *Client
	mediaPath string
	logger    *log.Logger
}

// NewMediaService creates a media resolver rooted at mediaPath.
func NewMediaService(client *Client, mediaPath string) *MediaService {
	if mediaPath == "" {
		mediaPath = defaultMediaPath
	}
	return &MediaService{client: client, mediaPath: mediaPath, logger: client.logger}
}

// Resolve dispatches on the reference kind.
func (s *MediaService) Resolve(ctx context.Context, ref models.MediaRef) (models.MediaID, bool, error) {
	if ref.IsURL() {
		return s.ResolveByURL(ctx, ref.Value)
	}
	return s.ResolveByTitle(ctx, ref.Value)
}

// ResolveByURL searches by the URL's filename and matches source_url exactly.
func (s *MediaService) ResolveByURL(ctx context.Context, url string) (models.MediaID, bool, error) {
	id, ok, err := s.search(ctx, shared.FileName(url), func(m MediaItem) bool {
		return m.SourceURL == url
	})
	if ok {
		s.logger.Debug("resolved media by url", "url", url, "id", id)
	}
	return id, ok, err
}

// ResolveByTitle searches by title and compares the normalized title, slug and filename stem
// of each candidate against the normalized query. The first match wins.
func (s *MediaService) ResolveByTitle(ctx context.Context, title string) (models.MediaID, bool, error) {
	want := shared.NormalizeTitle(title)
	if want == "" {
		return 0, false, nil
	}

	id, ok, err := s.search(ctx, title, func(m MediaItem) bool {
		return shared.NormalizeTitle(m.Title.Rendered) == want ||
			shared.NormalizeTitle(m.Slug) == want ||
			shared.NormalizeTitle(shared.FileStem(m.SourceURL)) == want
	})
	if ok {
		s.logger.Debug("resolved media by title", "title", title, "id", id)
	}
	return id, ok, err
}

// search pages the media endpoint until match succeeds, a short page, a non-success page or the page cap.
func (s *MediaService) search(ctx context.Context, query string, match func(MediaItem) bool) (models.MediaID, bool, error) {
	for page := 1; page <= mediaPageCap; page++ {
		resp, err := s.client.Get(ctx, s.mediaPath, map[string]string{
			"search":   query,
			"per_page": strconv.Itoa(pageSize),
			"page":     strconv.Itoa(page),
		})
		if err != nil {
			return 0, false, err
		}
		if !resp.IsSuccess() {
			s.logger.Warn("media search stopped", "query", query, "page", page, "status", resp.StatusCode)
			return 0, false, nil
		}

		var items []MediaItem
		if err := decodeJSON(resp.Body, &items); err != nil {
			return 0, false, err
		}

		for _, item := range items {
			if match(item) {
				return item.ID, true, nil
			}
		}

		if len(items) < pageSize {
			break
		}
	}

	s.logger.Debug("media not found", "query", query)
	return 0, false, nil
}
