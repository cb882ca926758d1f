package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

type putCall struct {
	id     models.ItemID
	images []models.ImageRef
}

// fakeCatalog is an in-memory catalog. Galleries are updated on successful PUTs.
type fakeCatalog struct {
	mu        sync.Mutex
	ids       []models.ItemID
	items     map[models.ItemID]*models.Item
	listErr   error
	getErr    map[models.ItemID]error
	putStatus map[models.ItemID]int
	putErr    error
	listCalls int
	gets      []models.ItemID
	puts      []putCall
	onGet     func(id models.ItemID)
	// honorCtx makes GetItem and PutGallery fail once ctx is done, like a real transport.
	honorCtx bool
}

func newFakeCatalog(ids ...models.ItemID) *fakeCatalog {
	c := &fakeCatalog{
		ids:       ids,
		items:     make(map[models.ItemID]*models.Item),
		getErr:    make(map[models.ItemID]error),
		putStatus: make(map[models.ItemID]int),
	}
	for _, id := range ids {
		c.items[id] = &models.Item{ID: id, Name: fmt.Sprintf("Item %d", id)}
	}
	return c
}

func (c *fakeCatalog) withGallery(id models.ItemID, images ...models.Image) *fakeCatalog {
	c.items[id] = &models.Item{ID: id, Name: fmt.Sprintf("Item %d", id), Images: images}
	if !slices.Contains(c.ids, id) {
		c.ids = append(c.ids, id)
	}
	return c
}

func (c *fakeCatalog) ListItemIDs(ctx context.Context, order models.Order) ([]models.ItemID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	if c.listErr != nil {
		return nil, c.listErr
	}
	ids := slices.Clone(c.ids)
	if order == models.OrderNewest {
		slices.Reverse(ids)
	}
	return ids, nil
}

func (c *fakeCatalog) ListAllItemIDs(ctx context.Context) ([]models.ItemID, error) {
	return c.ListItemIDs(ctx, models.OrderOldest)
}

func (c *fakeCatalog) GetItem(ctx context.Context, id models.ItemID) (*models.Item, error) {
	c.mu.Lock()
	c.gets = append(c.gets, id)
	hook := c.onGet
	err := c.getErr[id]
	item, ok := c.items[id]
	var cp models.Item
	if ok {
		cp = *item
		cp.Images = slices.Clone(item.Images)
	}
	c.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	if c.honorCtx && ctx.Err() != nil {
		return nil, fmt.Errorf("%w: GET item %d: %w", shared.ErrTransport, id, ctx.Err())
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: item %d", shared.ErrNotFound, id)
	}
	return &cp, nil
}

func (c *fakeCatalog) PutGallery(ctx context.Context, id models.ItemID, images []models.ImageRef) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts = append(c.puts, putCall{id: id, images: slices.Clone(images)})
	if c.honorCtx && ctx.Err() != nil {
		return 0, fmt.Errorf("%w: PUT item %d: %w", shared.ErrTransport, id, ctx.Err())
	}
	if c.putErr != nil {
		return 0, c.putErr
	}
	if status, ok := c.putStatus[id]; ok && status != http.StatusOK {
		return status, nil
	}

	gallery := make(models.Gallery, len(images))
	for i, ref := range images {
		gallery[i] = models.Image{ID: ref.ID, Src: ref.Src}
	}
	if item, ok := c.items[id]; ok {
		item.Images = gallery
	}
	return http.StatusOK, nil
}

func (c *fakeCatalog) galleryIDs(id models.ItemID) []models.MediaID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[id].Images.IDs()
}

func (c *fakeCatalog) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.puts)
}

func (c *fakeCatalog) touched() []models.ItemID {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []models.ItemID
	for _, id := range c.gets {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// fakeMedia resolves from fixed maps.
type fakeMedia struct {
	mu      sync.Mutex
	byURL   map[string]models.MediaID
	byTitle map[string]models.MediaID
	err     error
	calls   int
}

func (m *fakeMedia) ResolveByURL(ctx context.Context, url string) (models.MediaID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, false, m.err
	}
	id, ok := m.byURL[url]
	return id, ok, nil
}

func (m *fakeMedia) ResolveByTitle(ctx context.Context, title string) (models.MediaID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, false, m.err
	}
	id, ok := m.byTitle[title]
	return id, ok, nil
}

func (m *fakeMedia) Resolve(ctx context.Context, ref models.MediaRef) (models.MediaID, bool, error) {
	if ref.IsURL() {
		return m.ResolveByURL(ctx, ref.Value)
	}
	return m.ResolveByTitle(ctx, ref.Value)
}

func (m *fakeMedia) resolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakeProber treats every URL not in down as reachable.
type fakeProber struct {
	down map[string]bool
}

func (p *fakeProber) Exists(ctx context.Context, url string) bool {
	return !p.down[url]
}

// fakeRecorder stores journal calls in memory.
type fakeRecorder struct {
	mu       sync.Mutex
	runs     []RunInfo
	changes  []Outcome
	finished map[string][2]int
	startErr error
}

func (r *fakeRecorder) StartRun(ctx context.Context, info RunInfo) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return "", r.startErr
	}
	r.runs = append(r.runs, info)
	return fmt.Sprintf("run-%d", len(r.runs)), nil
}

func (r *fakeRecorder) RecordChange(ctx context.Context, runID string, outcome Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, outcome)
	return nil
}

func (r *fakeRecorder) FinishRun(ctx context.Context, runID string, items, failures int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished == nil {
		r.finished = make(map[string][2]int)
	}
	r.finished[runID] = [2]int{items, failures}
	return nil
}

func newTestScheduler(catalog *fakeCatalog, media *fakeMedia, recorder Recorder) *Scheduler {
	logger := shared.NewLogger(io.Discard)
	return NewScheduler(catalog, media, &fakeProber{}, NewProgressLog(logger), recorder, logger)
}

func titleRef(title string) models.MediaRef {
	return models.MediaRef{Kind: models.MediaRefTitle, Value: title}
}
