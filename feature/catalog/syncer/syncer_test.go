package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"catalog-mirror/core/database"
	"catalog-mirror/core/reconcile"
	"catalog-mirror/core/remote"
	"catalog-mirror/core/remote/mocks"
	"catalog-mirror/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	return db
}

func offer(id, artistID int64, name string) remote.Offer {
	return remote.Offer{
		ID:        remote.FlexInt(id),
		ArtistID:  remote.FlexInt(artistID),
		Name:      remote.FlexString(name),
		OfferType: remote.OfferTypeEmailForMedia,
		Price:     9.99,
		Currency:  "USD",
		Tags:      remote.StringList{"rock", "live", "rock"},
		Campaign:  json.RawMessage(`{"product":{"images":[{"source_url":"s1","small_url":"sm1","medium_url":"md1","large_url":"lg1"}]}}`),
	}
}

func offerPage(total int64, offers ...remote.Offer) *remote.OfferPage {
	return &remote.OfferPage{TotalPages: remote.FlexInt(total), Offers: offers}
}

func itemIDs(t *testing.T, db *gorm.DB) []int64 {
	t.Helper()
	var ids []int64
	require.NoError(t, db.Model(&models.Item{}).Order("id").Pluck("id", &ids).Error)
	return ids
}

func seedItem(t *testing.T, db *gorm.DB, id, artistID int64, lastModified time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Item{ID: id, ArtistID: artistID, Name: "stale", LastModified: lastModified, CreatedDate: lastModified}).Error)
	require.NoError(t, db.Create(&models.ItemTag{ItemID: id, TagName: "old"}).Error)
}

func TestSyncItems_StampsWatermarkAndSweepsStrays(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	client := new(mocks.Client)
	s := New(db, client, zap.NewNop(), Options{ArtistIDs: []int64{10}, CredentialsSet: true})

	seedItem(t, db, 99, 10, time.Now().UTC().Add(-24*time.Hour))
	client.On("ListOffers", mock.Anything, int64(10), 1).Return(offerPage(2, offer(1, 10, "One")), nil)
	client.On("ListOffers", mock.Anything, int64(10), 2).Return(offerPage(2, offer(2, 10, "Two")), nil)

	run := reconcile.NewRun(nil)
	res, err := s.SyncItems(ctx, run, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, int64(1), res.Deleted)
	assert.Equal(t, int64(1), res.Orphans)
	assert.Equal(t, []int64{1, 2}, itemIDs(t, db))

	var items []models.Item
	require.NoError(t, db.Find(&items).Error)
	for _, it := range items {
		assert.True(t, it.LastModified.Equal(run.Watermark), "item %d carries the run watermark", it.ID)
	}

	var tags []string
	require.NoError(t, db.Model(&models.ItemTag{}).Where("item_id = ?", 1).Order("tag_name").Pluck("tag_name", &tags).Error)
	assert.Equal(t, []string{"live", "rock"}, tags)

	var images []models.ItemImage
	require.NoError(t, db.Where("item_id = ?", 1).Find(&images).Error)
	require.Len(t, images, 1)
	assert.Equal(t, "lg1", images[0].URL(models.ImageLarge))
	client.AssertExpectations(t)
}

func TestSyncItems_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	client := new(mocks.Client)
	s := New(db, client, zap.NewNop(), Options{ArtistIDs: []int64{10}, CredentialsSet: true})

	client.On("ListOffers", mock.Anything, int64(10), 1).Return(offerPage(1, offer(1, 10, "One"), offer(2, 10, "Two")), nil)

	_, err := s.SyncItems(ctx, reconcile.NewRun(nil), nil)
	require.NoError(t, err)

	var first models.Item
	require.NoError(t, db.First(&first, 1).Error)

	time.Sleep(1100 * time.Millisecond)
	_, err = s.SyncItems(ctx, reconcile.NewRun(nil), nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, itemIDs(t, db))

	var second models.Item
	require.NoError(t, db.First(&second, 1).Error)
	assert.True(t, second.CreatedDate.Equal(first.CreatedDate), "created_date keeps the first-seen date")
	assert.True(t, second.LastModified.After(first.LastModified))

	var tagCount, imageCount int64
	require.NoError(t, db.Model(&models.ItemTag{}).Count(&tagCount).Error)
	require.NoError(t, db.Model(&models.ItemImage{}).Count(&imageCount).Error)
	assert.Equal(t, int64(4), tagCount)
	assert.Equal(t, int64(2), imageCount)
}

func TestSyncItems_PageFailureKeepsArtistRows(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	client := new(mocks.Client)
	s := New(db, client, zap.NewNop(), Options{ArtistIDs: []int64{10, 20}, CredentialsSet: true})

	old := time.Now().UTC().Add(-24 * time.Hour)
	seedItem(t, db, 98, 10, old)
	seedItem(t, db, 99, 20, old)

	client.On("ListOffers", mock.Anything, int64(10), 1).Return(offerPage(1, offer(1, 10, "One")), nil)
	client.On("ListOffers", mock.Anything, int64(20), 1).Return(offerPage(2, offer(2, 20, "Two")), nil)
	client.On("ListOffers", mock.Anything, int64(20), 2).Return(nil, errors.New("connection reset"))

	res, err := s.SyncItems(ctx, reconcile.NewRun(nil), nil)
	assert.ErrorContains(t, err, "artist 20")

	// Artist 10 completed and was swept; artist 20 keeps its stale row.
	assert.Equal(t, []int64{1, 2, 99}, itemIDs(t, db))
	assert.Equal(t, int64(1), res.Deleted)
}

func TestSyncItems_NoArtistsIsNoop(t *testing.T) {
	db := setupDB(t)
	client := new(mocks.Client)
	s := New(db, client, zap.NewNop(), Options{CredentialsSet: true})

	seedItem(t, db, 99, 10, time.Now().UTC().Add(-time.Hour))

	res, err := s.SyncItems(context.Background(), reconcile.NewRun(nil), nil)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, []int64{99}, itemIDs(t, db))
	client.AssertNotCalled(t, "ListOffers", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncItems_DeconfiguredArtists(t *testing.T) {
	ctx := context.Background()
	old := time.Now().UTC().Add(-time.Hour)

	tests := []struct {
		name     string
		override []int64
		global   bool
		want     []int64
	}{
		{"Full run removes other artists", nil, false, []int64{1}},
		{"Override keeps other artists", []int64{10}, false, []int64{1, 99}},
		{"Global full run", nil, true, []int64{1}},
		{"Global override keeps other artists", []int64{10}, true, []int64{1, 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			client := new(mocks.Client)
			s := New(db, client, zap.NewNop(), Options{ArtistIDs: []int64{10}, CredentialsSet: true, GlobalSweep: tt.global})

			seedItem(t, db, 99, 30, old)
			client.On("ListOffers", mock.Anything, int64(10), 1).Return(offerPage(1, offer(1, 10, "One")), nil)

			_, err := s.SyncItems(ctx, reconcile.NewRun(nil), tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.want, itemIDs(t, db))
		})
	}
}

func TestSyncItems_StockLookup(t *testing.T) {
	ctx := context.Background()

	buy := offer(1, 10, "Vinyl")
	buy.OfferType = remote.OfferTypeBuyButton
	buy.OfferURL = "https://store.example.com/buy?cId=777&x=1"

	ok := &remote.SkuResult{Status: "ok"}
	ok.Response.Skus = json.RawMessage(`[{"in_stock_quantity":3},{"in_stock_quantity":"4"}]`)

	tests := []struct {
		name  string
		skus  *remote.SkuResult
		err   error
		stock int64
	}{
		{"Sums quantities", ok, nil, 7},
		{"Lookup error counts as none", nil, errors.New("timeout"), 0},
		{"Failed status counts as none", &remote.SkuResult{Status: "error"}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			client := new(mocks.Client)
			s := New(db, client, zap.NewNop(), Options{ArtistIDs: []int64{10}, CredentialsSet: true})

			client.On("ListOffers", mock.Anything, int64(10), 1).Return(offerPage(1, buy), nil)
			client.On("GetSkus", mock.Anything, "777").Return(tt.skus, tt.err)

			_, err := s.SyncItems(ctx, reconcile.NewRun(nil), nil)
			require.NoError(t, err)

			var item models.Item
			require.NoError(t, db.First(&item, 1).Error)
			assert.Equal(t, tt.stock, item.InStockQuantity)
			assert.Equal(t, "777", item.CampaignID)
		})
	}
}

func TestSyncArtists_ReplacesTableAndTags(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	client := new(mocks.Client)
	s := New(db, client, zap.NewNop(), Options{CredentialsSet: true})

	require.NoError(t, db.Create(&models.Artist{ID: 5, Name: "Gone"}).Error)
	require.NoError(t, db.Create(&[]models.Tag{{ArtistID: 0, Name: "legacy"}, {ArtistID: 7, Name: "stale"}}).Error)

	client.On("ListArtists", mock.Anything, 1).Return(&remote.ArtistPage{
		TotalPages: 1,
		Artists: []remote.Artist{
			{ID: 7, Name: "Band", SpinTags: remote.StringList{"rock", "", "rock", "live"}},
			{ID: 8, Name: "Solo"},
		},
	}, nil)

	res, err := s.SyncArtists(ctx, reconcile.NewRun(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 2, res.Children)

	var ids []int64
	require.NoError(t, db.Model(&models.Artist{}).Order("id").Pluck("id", &ids).Error)
	assert.Equal(t, []int64{7, 8}, ids)

	var tags []models.Tag
	require.NoError(t, db.Order("id").Find(&tags).Error)
	require.Len(t, tags, 2)
	assert.Equal(t, "rock", tags[0].Name)
	assert.Equal(t, "live", tags[1].Name)
}

func TestSyncOrders_Upserts(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	client := new(mocks.Client)
	s := New(db, client, zap.NewNop(), Options{CredentialsSet: true})

	page := func(qty int64) *remote.OrderPage {
		return &remote.OrderPage{TotalPages: 1, Orders: []remote.Order{{
			ID:              100,
			ArtistID:        10,
			CreatedAt:       "2024-05-01 10:00:00",
			Subtotal:        20,
			ShippingAddress: &remote.Address{City: "Berlin"},
			Items: []remote.OrderItem{{
				ID:            500,
				CampaignID:    "777",
				Quantity:      remote.FlexInt(qty),
				SkuAttributes: json.RawMessage(`{"size":"L"}`),
			}},
		}}}
	}

	client.On("ListOrders", mock.Anything, 1).Return(page(1), nil).Once()
	client.On("ListOrders", mock.Anything, 1).Return(page(3), nil).Once()

	for i := 0; i < 2; i++ {
		res, err := s.SyncOrders(ctx, reconcile.NewRun(nil))
		require.NoError(t, err)
		assert.Equal(t, 1, res.Upserted)
		assert.Equal(t, 1, res.Children)
	}

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, 100).Error)
	assert.Equal(t, "Berlin", order.ShippingAddressCity)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(100), order.Items[0].OrderID)
	assert.Equal(t, int64(3), order.Items[0].Quantity)
	assert.JSONEq(t, `{"size":"L"}`, string(order.Items[0].SkuAttributes))
}

func TestRun_Skips(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing credentials", func(t *testing.T) {
		client := new(mocks.Client)
		s := New(setupDB(t), client, zap.NewNop(), Options{})

		report, err := s.Run(ctx, reconcile.ScopeAll, RunOptions{})
		require.NoError(t, err)
		assert.True(t, report.Skipped)
		client.AssertNotCalled(t, "CheckAuth", mock.Anything)
	})

	t.Run("Rejected credentials", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("CheckAuth", mock.Anything).Return(&remote.APIError{StatusCode: 401})
		s := New(setupDB(t), client, zap.NewNop(), Options{CredentialsSet: true})

		report, err := s.Run(ctx, reconcile.ScopeAll, RunOptions{})
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.True(t, remote.IsUnauthorized(err))
		assert.True(t, report.Skipped)
		assert.Equal(t, "remote API rejected the configured credentials", report.Reason)
		client.AssertNotCalled(t, "ListArtists", mock.Anything, mock.Anything)
	})

	t.Run("Probe unreachable", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("CheckAuth", mock.Anything).Return(&remote.APIError{Detail: "dial tcp: refused", URL: "http://api/artist"})
		s := New(setupDB(t), client, zap.NewNop(), Options{CredentialsSet: true})

		report, err := s.Run(ctx, reconcile.ScopeAll, RunOptions{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthorized)
		assert.True(t, report.Skipped)
		assert.Contains(t, report.Reason, "dial tcp: refused")
	})

	t.Run("Already running", func(t *testing.T) {
		s := New(setupDB(t), new(mocks.Client), zap.NewNop(), Options{CredentialsSet: true})
		s.mu.Lock()
		defer s.mu.Unlock()

		_, err := s.Run(ctx, reconcile.ScopeItems, RunOptions{})
		assert.ErrorIs(t, err, ErrSyncInProgress)
	})
}

func TestRun_FullRecordsBookkeeping(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	client := new(mocks.Client)
	s := New(db, client, zap.NewNop(), Options{ArtistIDs: []int64{10}, CredentialsSet: true})

	client.On("CheckAuth", mock.Anything).Return(nil)
	client.On("ListArtists", mock.Anything, 1).Return(&remote.ArtistPage{TotalPages: 1, Artists: []remote.Artist{{ID: 10, Name: "Band"}}}, nil)
	client.On("ListOffers", mock.Anything, int64(10), 1).Return(offerPage(1, offer(1, 10, "One")), nil)
	client.On("ListOrders", mock.Anything, 1).Return(&remote.OrderPage{TotalPages: 1}, nil)

	var events []reconcile.Event
	var completed []reconcile.Scope
	s.OnComplete(func(scope reconcile.Scope) { completed = append(completed, scope) })

	report, err := s.Run(ctx, reconcile.ScopeAll, RunOptions{Observer: func(e reconcile.Event) { events = append(events, e) }})
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Len(t, events, 3)
	assert.Equal(t, []reconcile.Scope{reconcile.ScopeArtists, reconcile.ScopeItems, reconcile.ScopeOrders}, completed)

	st, err := s.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.LastFullSync)
	assert.Len(t, st.LastSync, 3)
	assert.Equal(t, int64(1), st.Artists)
	assert.Equal(t, int64(1), st.Items)
	assert.False(t, st.Running)
}

func TestSyncArtists_DatabaseFailure(t *testing.T) {
	sqlDB, sm, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	sm.ExpectBegin()
	sm.ExpectExec("DELETE FROM `artists`").WillReturnError(errors.New("table locked"))
	sm.ExpectRollback()

	client := new(mocks.Client)
	s := New(db, client, zap.NewNop(), Options{CredentialsSet: true})

	_, err = s.SyncArtists(context.Background(), reconcile.NewRun(nil))
	assert.ErrorContains(t, err, "failed to truncate artists")
	client.AssertNotCalled(t, "ListArtists", mock.Anything, mock.Anything)
	assert.NoError(t, sm.ExpectationsWereMet())
}
