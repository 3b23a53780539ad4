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

// SyncOrders upserts every remote order and its line items. Orders are never deleted locally.
func (s *Syncer) SyncOrders(ctx context.Context, run *reconcile.Run) (res reconcile.Result, err error) {
	res = reconcile.Result{Scope: reconcile.ScopeOrders}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	pages, err := pageLoop(ctx, func(page int) (int, error) {
		p, err := s.client.ListOrders(ctx, page)
		if err != nil {
			return 0, err
		}
		run.Notify(reconcile.Event{Scope: reconcile.ScopeOrders, Page: page, TotalPages: int(p.TotalPages), Records: len(p.Orders)})

		for _, o := range p.Orders {
			lines, err := s.storeOrder(ctx, o)
			if err != nil {
				return 0, err
			}
			res.Upserted++
			res.Children += lines
		}
		return int(p.TotalPages), nil
	})
	res.Pages = pages
	if err != nil {
		return res, err
	}

	s.logger.Info("Orders synced",
		zap.String("run_id", run.ID),
		zap.Int("pages", res.Pages),
		zap.Int("orders", res.Upserted),
		zap.Int("order_items", res.Children))
	return res, nil
}

func (s *Syncer) storeOrder(ctx context.Context, o remote.Order) (int, error) {
	order := buildOrder(o)
	lines := make([]models.OrderItem, 0, len(o.Items))
	for _, li := range o.Items {
		lines = append(lines, buildOrderItem(order.ID, li))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&order).Error; err != nil {
			return fmt.Errorf("failed to store order %d: %w", order.ID, err)
		}
		if len(lines) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to store items of order %d: %w", order.ID, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

func buildOrder(o remote.Order) models.Order {
	order := models.Order{
		ID:                       int64(o.ID),
		ArtistID:                 int64(o.ArtistID),
		PlacedAt:                 string(o.CreatedAt),
		Subtotal:                 float64(o.Subtotal),
		Tax:                      float64(o.Tax),
		Currency:                 string(o.Currency),
		Phone:                    string(o.Phone),
		ShippingMethodCalculator: string(o.ShippingMethodCalculator),
		ShippingMethodCode:       string(o.ShippingMethodCode),
		Reshipment:               string(o.Reshipment),
		Fan:                      string(o.Fan),
		DetailsURL:               string(o.DetailsURL),
		ExchangeRate:             float64(o.ExchangeRate),
	}
	if a := o.ShippingAddress; a != nil {
		order.ShippingAddressFirstName = string(a.FirstName)
		order.ShippingAddressLastName = string(a.LastName)
		order.ShippingAddressAddress1 = string(a.Address1)
		order.ShippingAddressAddress2 = string(a.Address2)
		order.ShippingAddressCity = string(a.City)
		order.ShippingAddressState = string(a.State)
		order.ShippingAddressPostalCode = string(a.PostalCode)
		order.ShippingAddressCountry = string(a.Country)
		order.ShippingAddressPhone = string(a.Phone)
	}
	return order
}

// buildOrderItem maps a line item. The parent order id always wins over anything in the payload.
func buildOrderItem(orderID int64, li remote.OrderItem) models.OrderItem {
	return models.OrderItem{
		ID:              int64(li.ID),
		OrderID:         orderID,
		CampaignID:      string(li.CampaignID),
		LineItemID:      string(li.LineItemID),
		SpinName:        string(li.SpinName),
		ProductID:       string(li.ProductID),
		ProductName:     string(li.ProductName),
		ProductType:     string(li.ProductType),
		MerchandiseType: string(li.MerchandiseType),
		Quantity:        int64(li.Quantity),
		SkuID:           string(li.SkuID),
		SkuUPC:          string(li.SkuUPC),
		SkuAttributes:   models.EncodeBlob(li.SkuAttributes),
		FactorySku:      string(li.FactorySku),
		Shipped:         string(li.Shipped),
		Status:          string(li.Status),
		Weight:          models.EncodeBlob(li.Weight),
		BundleSkuID:     string(li.BundleSkuID),
		ShippingDate:    string(li.ShippingDate),
	}
}
