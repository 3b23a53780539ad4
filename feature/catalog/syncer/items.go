package syncer

import (
	"context"
	"fmt"
	"time"

	"catalog-mirror/core/reconcile"
	"catalog-mirror/core/remote"
	"catalog-mirror/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// SyncItems mirrors the offers of the given artists. A nil list means every configured artist,
// which also lets the run remove items of artists that are no longer configured.
//
// Every touched item is stamped with the run watermark. An artist's older items are swept
// once all of its pages were fetched; an artist whose pages failed keeps its rows.
// Tag and image rows whose item is gone are removed at the end, even after a failure.
func (s *Syncer) SyncItems(ctx context.Context, run *reconcile.Run, artistIDs []int64) (res reconcile.Result, err error) {
	res = reconcile.Result{Scope: reconcile.ScopeItems, Watermark: run.Watermark}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	full := artistIDs == nil
	if full {
		artistIDs = s.opts.ArtistIDs
	}
	if len(artistIDs) == 0 {
		res.Skipped = true
		res.Reason = "no artists configured"
		s.logger.Warn("Item sync skipped", zap.String("run_id", run.ID), zap.String("reason", res.Reason))
		return res, nil
	}

	var runErr error
	for _, artistID := range artistIDs {
		if err := s.syncArtistItems(ctx, run, artistID, &res); err != nil {
			runErr = fmt.Errorf("item sync of artist %d failed: %w", artistID, err)
			break
		}
		if s.opts.GlobalSweep {
			continue
		}
		n, err := reconcile.SweepStrays(ctx, s.db, "items", "last_modified", run.Watermark,
			reconcile.SweepFilter{Column: "artist_id", Include: []int64{artistID}})
		if err != nil {
			runErr = err
			break
		}
		res.Deleted += n
	}

	if runErr == nil {
		if filter, ok := s.finalSweep(full, artistIDs); ok {
			n, err := reconcile.SweepStrays(ctx, s.db, "items", "last_modified", run.Watermark, filter)
			if err != nil {
				runErr = err
			}
			res.Deleted += n
		}
	}

	for _, table := range []string{"item_tags", "item_images"} {
		n, err := reconcile.CleanupOrphans(ctx, s.db, table, "item_id", "items", "id")
		if err != nil {
			if runErr == nil {
				runErr = err
			}
			continue
		}
		res.Orphans += n
	}

	s.logger.Info("Items synced",
		zap.String("run_id", run.ID),
		zap.Int("artists", len(artistIDs)),
		zap.Int("pages", res.Pages),
		zap.Int("items", res.Upserted),
		zap.Int64("strays", res.Deleted),
		zap.Int64("orphans", res.Orphans),
		zap.Bool("failed", runErr != nil))

	return res, runErr
}

// finalSweep picks the sweep that follows a successful pass over every artist.
// Per-artist sweeping leaves only items of artists that are no longer configured, which are
// judged on full runs only. A global sweep covers the run's artists, or everything on full runs.
func (s *Syncer) finalSweep(full bool, artistIDs []int64) (reconcile.SweepFilter, bool) {
	switch {
	case s.opts.GlobalSweep && full:
		return reconcile.SweepFilter{}, true
	case s.opts.GlobalSweep:
		return reconcile.SweepFilter{Column: "artist_id", Include: artistIDs}, true
	case full:
		return reconcile.SweepFilter{Column: "artist_id", Exclude: artistIDs}, true
	default:
		return reconcile.SweepFilter{}, false
	}
}

func (s *Syncer) syncArtistItems(ctx context.Context, run *reconcile.Run, artistID int64, res *reconcile.Result) error {
	pages, err := pageLoop(ctx, func(page int) (int, error) {
		p, err := s.client.ListOffers(ctx, artistID, page)
		if err != nil {
			return 0, err
		}
		run.Notify(reconcile.Event{Scope: reconcile.ScopeItems, ArtistID: artistID, Page: page, TotalPages: int(p.TotalPages), Records: len(p.Offers)})
		s.logger.Debug("Offer page fetched",
			zap.String("run_id", run.ID),
			zap.Int64("artist_id", artistID),
			zap.Int("page", page),
			zap.Int("offers", len(p.Offers)))

		for _, offer := range p.Offers {
			children, err := s.storeItem(ctx, run, offer)
			if err != nil {
				return 0, err
			}
			res.Upserted++
			res.Children += children
		}
		return int(p.TotalPages), nil
	})
	res.Pages += pages
	return err
}

// storeItem upserts one offer with its tags and images and returns the number of child rows written.
func (s *Syncer) storeItem(ctx context.Context, run *reconcile.Run, offer remote.Offer) (int, error) {
	item := buildItem(offer, run.Watermark)

	if item.OfferType == remote.OfferTypeBuyButton && item.CampaignID != "" {
		item.InStockQuantity, item.SkuData = s.lookupStock(ctx, run, item.ID, item.CampaignID)
	}

	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(models.ItemUpdateColumns),
	}).Create(&item).Error
	if err != nil {
		return 0, fmt.Errorf("failed to store item %d: %w", item.ID, err)
	}

	if err := db.Where("item_id = ?", item.ID).Delete(&models.ItemTag{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear tags of item %d: %w", item.ID, err)
	}
	written := 0
	if names := dedupe(offer.Tags); len(names) > 0 {
		tags := make([]models.ItemTag, 0, len(names))
		for _, name := range names {
			tags = append(tags, models.ItemTag{ItemID: item.ID, TagName: name})
		}
		if err := db.Create(&tags).Error; err != nil {
			return 0, fmt.Errorf("failed to store tags of item %d: %w", item.ID, err)
		}
		written += len(tags)
	}

	if err := db.Where("item_id = ?", item.ID).Delete(&models.ItemImage{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear images of item %d: %w", item.ID, err)
	}
	if remoteImages := offer.Images(); len(remoteImages) > 0 {
		images := make([]models.ItemImage, 0, len(remoteImages))
		for i, img := range remoteImages {
			images = append(images, models.ItemImage{
				ItemID:    item.ID,
				Position:  i,
				SourceURL: string(img.SourceURL),
				SmallURL:  string(img.SmallURL),
				MediumURL: string(img.MediumURL),
				LargeURL:  string(img.LargeURL),
			})
		}
		if err := db.Create(&images).Error; err != nil {
			return 0, fmt.Errorf("failed to store images of item %d: %w", item.ID, err)
		}
		written += len(images)
	}

	return written, nil
}

// lookupStock sums SKU stock for a campaign. Failures count as no stock.
func (s *Syncer) lookupStock(ctx context.Context, run *reconcile.Run, itemID int64, campaignID string) (int64, datatypes.JSON) {
	skus, err := s.client.GetSkus(ctx, campaignID)
	if err != nil {
		s.logger.Warn("SKU lookup failed, assuming no stock",
			zap.String("run_id", run.ID),
			zap.Int64("item_id", itemID),
			zap.String("campaign_id", campaignID),
			zap.Error(err))
		return 0, nil
	}
	if !skus.OK() {
		return 0, nil
	}
	return skus.InStock(), models.EncodeBlob(skus.Response.Skus)
}

func buildItem(o remote.Offer, watermark time.Time) models.Item {
	return models.Item{
		ID:                int64(o.ID),
		ArtistID:          int64(o.ArtistID),
		CampaignID:        o.CampaignID(),
		ReportingName:     string(o.ReportingName),
		Name:              string(o.Name),
		Description:       string(o.Description),
		OfferType:         string(o.OfferType),
		ProductType:       string(o.ProductType),
		Price:             float64(o.Price),
		Currency:          string(o.Currency),
		PosterImage:       string(o.PosterImage),
		PosterImageSource: string(o.PosterImageSource),
		EmbedCode:         string(o.EmbedCode),
		Width:             int(o.Width),
		Height:            int(o.Height),
		URL:               string(o.URL),
		OfferURL:          string(o.OfferURL),
		MobileURL:         string(o.MobileURL),
		Campaign:          models.EncodeBlob(o.Campaign),
		LastModified:      watermark,
		CreatedDate:       time.Now().UTC(),
	}
}
