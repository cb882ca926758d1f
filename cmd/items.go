package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// ItemsList prints every item id in date order, or unordered with --unordered.
func (r *Runner) ItemsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	var (
		ids []models.ItemID
		err error
	)

	if cmd.Bool("unordered") {
		ids, err = r.catalog.ListAllItemIDs(ctx)
	} else {
		order, perr := models.ParseOrder(firstNonEmpty(cmd.String("order"), r.config.Run.Order))
		if perr != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, perr)
		}
		ids, err = r.catalog.ListItemIDs(ctx, order)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(ids, false)
	}

	for _, id := range ids {
		r.writePlain("%d\n", id)
	}
	r.writePlainln("%s items", humanize.Comma(int64(len(ids))))
	return nil
}

// ItemsShow prints one item and its gallery.
func (r *Runner) ItemsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	id := cmd.Int("id")
	if id <= 0 {
		return fmt.Errorf("%w: --id must be positive", shared.ErrMissingArgument)
	}

	item, err := r.catalog.GetItem(ctx, models.ItemID(id))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(item, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s (#%d)", item.Title(), item.ID))
	if len(item.Images) == 0 {
		r.writePlain("No images.\n")
		return nil
	}
	for i, img := range item.Images {
		r.writePlain("%d. %d %s\n", i+1, img.ID, img.Src)
	}
	return nil
}

// MediaResolve looks up a media library id by exact source URL or normalized title.
func (r *Runner) MediaResolve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	url, title := cmd.String("url"), cmd.String("title")

	if url == "" && title == "" {
		return fmt.Errorf("%w: either --url or --title must be provided", shared.ErrMissingArgument)
	}
	if url != "" && title != "" {
		return fmt.Errorf("%w: cannot specify both --url and --title", shared.ErrInvalidArgument)
	}

	var (
		id  models.MediaID
		ok  bool
		err error
	)
	if url != "" {
		id, ok, err = r.media.ResolveByURL(ctx, url)
	} else {
		id, ok, err = r.media.ResolveByTitle(ctx, title)
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no media matches %q", shared.ErrNotFound, firstNonEmpty(url, title))
	}

	r.writePlain("%d\n", id)
	return nil
}
