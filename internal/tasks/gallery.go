package tasks

import (
	"context"
	"net/http"
	"slices"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/services"
)

// Action summarizes what happened to one item.
type Action string

const (
	ActionAdded     Action = "added"
	ActionRemoved   Action = "removed"
	ActionAppended  Action = "appended"
	ActionUnchanged Action = "unchanged"
	ActionFailed    Action = "failed"
)

// Outcome is the result of mutating one item's gallery.
type Outcome struct {
	ItemID  models.ItemID
	MediaID models.MediaID // target id in by-id mode, zero in append mode
	Action  Action
	Status  int // PUT status, zero when nothing was written
	Count   int // gallery length after the update
	Message string
	Err     error
}

// Failed reports whether the item could not be brought to the requested state.
func (o Outcome) Failed() bool { return o.Action == ActionFailed }

// GalleryMutator computes and pushes new galleries one item at a time.
//
// Each call performs exactly one GetItem and at most one PutGallery.
type GalleryMutator struct {
	catalog services.Catalog
	media   services.MediaIndex
	prober  services.Prober
	log     *ProgressLog
}

// NewGalleryMutator creates a mutator writing its lines to plog.
func NewGalleryMutator(catalog services.Catalog, media services.MediaIndex, prober services.Prober, plog *ProgressLog) *GalleryMutator {
	return &GalleryMutator{catalog: catalog, media: media, prober: prober, log: plog}
}

// AppendNewURLs appends each reachable, resolvable URL that is not already in the gallery.
// Existing entries are never removed or reordered. The full gallery is pushed once at the end.
func (m *GalleryMutator) AppendNewURLs(ctx context.Context, id models.ItemID, urls []string) Outcome {
	out := Outcome{ItemID: id}

	item, err := m.catalog.GetItem(ctx, id)
	if err != nil {
		return m.fail(out, m.log.NumberedWarn("Error updating %d: %v", id, err), err)
	}

	gallery := slices.Clone(item.Images)
	added := 0
	for _, url := range urls {
		if !m.prober.Exists(ctx, url) {
			m.log.NumberedWarn("Image URL not found or unreachable: %s", url)
			continue
		}
		if gallery.HasSrc(url) {
			m.log.Numbered("Image URL already exists in gallery: %s", url)
			continue
		}

		mid, ok, err := m.media.ResolveByURL(ctx, url)
		switch {
		case err != nil:
			m.log.NumberedWarn("Error resolving %s: %v", url, err)
			continue
		case !ok:
			m.log.NumberedWarn("Image not found in Media Library: %s", url)
			continue
		case gallery.HasID(mid):
			m.log.Numbered("Image ID %d already in gallery: %s", mid, url)
			continue
		}

		gallery = append(gallery, models.Image{ID: mid, Src: url})
		added++
		m.log.Numbered("Image added by ID: %s (ID: %d)", url, mid)
	}

	status, err := m.catalog.PutGallery(ctx, id, gallery.Refs())
	out.Status = status
	if err != nil {
		return m.fail(out, m.log.NumberedWarn("Error updating %d: %v", id, err), err)
	}
	if status != http.StatusOK {
		return m.fail(out, m.log.NumberedWarn("Failed %s (Status %d)", item.Title(), status), nil)
	}

	out.Action = ActionUnchanged
	if added > 0 {
		out.Action = ActionAppended
	}
	out.Count = len(gallery)
	out.Message = m.log.Numbered("Updated %s - Total images: %d", item.Title(), len(gallery)).Text
	return out
}

// ApplyByID adds or removes mid in the item's gallery according to req.
// A mutation that changes nothing is logged and not pushed.
func (m *GalleryMutator) ApplyByID(ctx context.Context, id models.ItemID, mid models.MediaID, req models.MutationRequest) Outcome {
	out := Outcome{ItemID: id, MediaID: mid}

	item, err := m.catalog.GetItem(ctx, id)
	if err != nil {
		return m.fail(out, m.log.Errorf("Product %d: Error: %v", id, err), err)
	}

	ids := item.Images.IDs()
	out.Count = len(ids)

	switch req.Mode {
	case models.ModeRemove:
		if !slices.Contains(ids, mid) {
			out.Action = ActionUnchanged
			out.Message = m.log.Printf("Product %d: Image ID %d not in gallery.", id, mid).Text
			return out
		}
		ids = RemoveID(ids, mid)
		out.Action = ActionRemoved
		m.log.Printf("Product %d: Removed image ID %d from gallery.", id, mid)
	default:
		if slices.Contains(ids, mid) {
			out.Action = ActionUnchanged
			out.Message = m.log.Printf("Product %d: Image ID %d already in gallery.", id, mid).Text
			return out
		}
		ids = InsertAt(ids, mid, req.Position.Index(len(ids)))
		out.Action = ActionAdded
		m.log.Printf("Product %d: Added image ID %d to gallery at %s.", id, mid, req.Position)
	}

	status, err := m.catalog.PutGallery(ctx, id, models.IDRefs(ids))
	out.Status = status
	if err != nil {
		return m.fail(out, m.log.Errorf("Product %d: Error: %v", id, err), err)
	}
	if status != http.StatusOK {
		return m.fail(out, m.log.Warnf("Product %d: Update failed (Status %d)", id, status), nil)
	}

	out.Count = len(ids)
	out.Message = m.log.Printf("Product %d: Gallery updated. Total images: %d", id, len(ids)).Text
	return out
}

func (m *GalleryMutator) fail(out Outcome, entry Entry, err error) Outcome {
	out.Action = ActionFailed
	out.Message = entry.Text
	out.Err = err
	return out
}

// InsertAt returns a copy of ids with id inserted at idx, clamped to [0, len(ids)].
func InsertAt(ids []models.MediaID, id models.MediaID, idx int) []models.MediaID {
	idx = max(0, min(idx, len(ids)))
	out := make([]models.MediaID, 0, len(ids)+1)
	out = append(out, ids[:idx]...)
	out = append(out, id)
	return append(out, ids[idx:]...)
}

// RemoveID returns a copy of ids without any occurrence of id, preserving order.
func RemoveID(ids []models.MediaID, id models.MediaID) []models.MediaID {
	out := make([]models.MediaID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
