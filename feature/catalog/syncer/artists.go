package syncer

import (
	"context"
	"fmt"
	"time"

	"catalog-mirror/core/reconcile"
	"catalog-mirror/core/remote"
	"catalog-mirror/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncArtists rebuilds the artist table and each artist's tag vocabulary.
// The table is emptied before the first page is fetched, so a failed run leaves it partial.
func (s *Syncer) SyncArtists(ctx context.Context, run *reconcile.Run) (res reconcile.Result, err error) {
	res = reconcile.Result{Scope: reconcile.ScopeArtists}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Artist{}).Error; err != nil {
		return res, fmt.Errorf("failed to truncate artists: %w", err)
	}

	pages, err := pageLoop(ctx, func(page int) (int, error) {
		p, err := s.client.ListArtists(ctx, page)
		if err != nil {
			return 0, err
		}
		run.Notify(reconcile.Event{Scope: reconcile.ScopeArtists, Page: page, TotalPages: int(p.TotalPages), Records: len(p.Artists)})

		for _, a := range p.Artists {
			tags, err := s.storeArtist(ctx, a)
			if err != nil {
				return 0, err
			}
			res.Upserted++
			res.Children += tags
		}
		return int(p.TotalPages), nil
	})
	res.Pages = pages
	if err != nil {
		return res, err
	}

	s.logger.Info("Artists synced",
		zap.String("run_id", run.ID),
		zap.Int("pages", res.Pages),
		zap.Int("artists", res.Upserted),
		zap.Int("tags", res.Children))
	return res, nil
}

func (s *Syncer) storeArtist(ctx context.Context, a remote.Artist) (int, error) {
	db := s.db.WithContext(ctx)
	artist := models.Artist{
		ID:          int64(a.ID),
		Name:        string(a.Name),
		AvatarImage: string(a.AvatarImage),
		URL:         string(a.URL),
		Description: string(a.Description),
		Website:     string(a.Website),
	}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&artist).Error; err != nil {
		return 0, fmt.Errorf("failed to store artist %d: %w", artist.ID, err)
	}

	// Tags stored without an artist (artist_id 0) are legacy rows and are replaced too.
	if err := db.Where("artist_id IN ?", []int64{0, artist.ID}).Delete(&models.Tag{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear tags of artist %d: %w", artist.ID, err)
	}

	names := dedupe(a.SpinTags)
	if len(names) == 0 {
		return 0, nil
	}
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, models.Tag{ArtistID: artist.ID, Name: name})
	}
	if err := db.Create(&tags).Error; err != nil {
		return 0, fmt.Errorf("failed to store tags of artist %d: %w", artist.ID, err)
	}
	return len(tags), nil
}

// dedupe drops blanks and repeated values, keeping first occurrences in order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
