// package models defines the data model for gallery reconciliation
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/galx/internal/shared"
)

// ItemID identifies a catalog item.
type ItemID int64

// MediaID identifies an uploaded image in the remote media library.
type MediaID int64

// Batch is an ordered slice of item ids processed as one scheduling unit.
type Batch []ItemID

// Image is one gallery entry as returned by the item API.
type Image struct {
	ID   MediaID `json:"id"`
	Src  string  `json:"src"`
	Name string  `json:"name"`
}

// Item is a catalog entry with its current gallery.
type Item struct {
	ID     ItemID  `json:"id"`
	Name   string  `json:"name"`
	Images Gallery `json:"images"`
}

// Title returns the item name, or "ID n" when the catalog has none.
func (i Item) Title() string {
	if i.Name == "" {
		return fmt.Sprintf("ID %d", i.ID)
	}
	return i.Name
}

// ImageRef is one entry of a gallery update: a media id when known, otherwise a source URL.
type ImageRef struct {
	ID  MediaID `json:"id,omitempty"`
	Src string  `json:"src,omitempty"`
}

// Gallery is the ordered image list of an item. Order is display order.
type Gallery []Image

// IDs returns the non-zero media ids in gallery order.
func (g Gallery) IDs() []MediaID {
	ids := make([]MediaID, 0, len(g))
	for _, img := range g {
		if img.ID != 0 {
			ids = append(ids, img.ID)
		}
	}
	return ids
}

// HasID reports whether any entry carries id.
func (g Gallery) HasID(id MediaID) bool {
	for _, img := range g {
		if img.ID != 0 && img.ID == id {
			return true
		}
	}
	return false
}

// HasSrc reports whether any entry has exactly src as its source URL.
func (g Gallery) HasSrc(src string) bool {
	for _, img := range g {
		if img.Src == src {
			return true
		}
	}
	return false
}

// Refs converts the gallery to update entries, preferring ids over URLs.
func (g Gallery) Refs() []ImageRef {
	refs := make([]ImageRef, 0, len(g))
	for _, img := range g {
		if img.ID != 0 {
			refs = append(refs, ImageRef{ID: img.ID})
		} else {
			refs = append(refs, ImageRef{Src: img.Src})
		}
	}
	return refs
}

// IDRefs wraps each id as a bare id reference.
func IDRefs(ids []MediaID) []ImageRef {
	refs := make([]ImageRef, len(ids))
	for i, id := range ids {
		refs[i] = ImageRef{ID: id}
	}
	return refs
}

// MediaRefKind distinguishes URL references from title references.
type MediaRefKind int

const (
	MediaRefTitle MediaRefKind = iota
	MediaRefURL
)

// MediaRef is an image reference supplied by the user.
type MediaRef struct {
	Kind  MediaRefKind
	Value string
}

// ParseMediaRef classifies s. Values beginning with http:// or https:// are URLs; anything else is a title.
func ParseMediaRef(s string) (MediaRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MediaRef{}, fmt.Errorf("%w: image reference is empty", shared.ErrValidation)
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return MediaRef{Kind: MediaRefURL, Value: s}, nil
	}
	return MediaRef{Kind: MediaRefTitle, Value: s}, nil
}

func (r MediaRef) IsURL() bool { return r.Kind == MediaRefURL }

func (r MediaRef) String() string { return r.Value }

// Order selects the date ordering of the item listing.
type Order string

const (
	OrderOldest Order = "oldest"
	OrderNewest Order = "newest"
)

// ParseOrder accepts "oldest" or "newest". Empty input defaults to oldest.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderOldest:
		return OrderOldest, nil
	case OrderNewest:
		return OrderNewest, nil
	default:
		return "", fmt.Errorf("%w: order must be oldest or newest, got %q", shared.ErrValidation, s)
	}
}

// Direction returns the listing sort direction.
func (o Order) Direction() string {
	if o == OrderNewest {
		return "desc"
	}
	return "asc"
}

// Mode is the gallery mutation applied by a run.
type Mode string

const (
	ModeAdd    Mode = "add"
	ModeRemove Mode = "remove"
)

// ParseMode accepts "add" or "remove". Empty input defaults to add.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAdd:
		return ModeAdd, nil
	case ModeRemove:
		return ModeRemove, nil
	default:
		return "", fmt.Errorf("%w: mode must be add or remove, got %q", shared.ErrValidation, s)
	}
}

// PositionKind is where an added image is inserted.
type PositionKind string

const (
	PositionStart PositionKind = "start"
	PositionEnd   PositionKind = "end"
	PositionIndex PositionKind = "index"
)

// Position is an insertion point. Offset is kept as entered; see [Position.Index].
type Position struct {
	Kind   PositionKind
	Offset string
}

// ParsePosition accepts "start", "end" or "index". The offset is only meaningful for index.
func ParsePosition(kind, offset string) (Position, error) {
	switch PositionKind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", PositionEnd:
		return Position{Kind: PositionEnd}, nil
	case PositionStart:
		return Position{Kind: PositionStart}, nil
	case PositionIndex:
		return Position{Kind: PositionIndex, Offset: strings.TrimSpace(offset)}, nil
	default:
		return Position{}, fmt.Errorf("%w: position must be start, end or index, got %q", shared.ErrValidation, kind)
	}
}

// Index resolves the insertion index for a gallery of length n.
// Offsets are clamped to [0, n]; an unparseable offset appends.
func (p Position) Index(n int) int {
	switch p.Kind {
	case PositionStart:
		return 0
	case PositionIndex:
		idx, err := strconv.Atoi(p.Offset)
		if err != nil {
			return n
		}
		return max(0, min(idx, n))
	default:
		return n
	}
}

func (p Position) String() string { return string(p.Kind) }

// MutationRequest is applied uniformly to every item of a batch.
type MutationRequest struct {
	Mode     Mode
	Target   MediaRef
	Position Position
}

// ReplaceLimit caps how many items the bulk flow touches. Zero means all.
type ReplaceLimit int

const AllItems ReplaceLimit = 0

// ParseReplaceLimit accepts a positive integer or the literal ALL.
func ParseReplaceLimit(s string) (ReplaceLimit, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "ALL") {
		return AllItems, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer or ALL, got %q", shared.ErrValidation, s)
	}
	return ReplaceLimit(n), nil
}

// Apply truncates ids to the limit.
func (l ReplaceLimit) Apply(ids []ItemID) []ItemID {
	if l == AllItems || int(l) >= len(ids) {
		return ids
	}
	return ids[:l]
}

func (l ReplaceLimit) String() string {
	if l == AllItems {
		return "ALL"
	}
	return strconv.Itoa(int(l))
}
