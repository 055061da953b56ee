package sync

import (
	"context"
	"errors"
	"time"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
)

// ImportOrders pulls the marketplace's orders and upserts them locally,
// resolved by (marketplace order ID, marketplace type). Orders flow one way;
// nothing is pushed back. Returns the imported and failed counts; a failure
// to obtain the order list aborts the pass.
func (s *Service) ImportOrders(ctx context.Context) (imported, failed int, err error) {
	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		s.logger.Error("Failed to list marketplace orders", err)
		return 0, 0, err
	}

	for _, mo := range orders {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return imported, failed, ctxErr
		}

		if itemErr := s.importOrder(ctx, mo); itemErr != nil {
			s.logger.WithFields(map[string]interface{}{
				"marketplace_order_id": mo.ID,
			}).Error("Failed to import order", itemErr)
			failed++
			continue
		}
		imported++
	}

	s.logger.WithFields(map[string]interface{}{
		"imported": imported,
		"failed":   failed,
	}).Info("Order import finished")

	return imported, failed, nil
}

func (s *Service) importOrder(ctx context.Context, mo domain.MarketplaceOrder) error {
	order := s.toInternalOrder(mo)

	existing, err := s.orders.GetByMarketplaceID(ctx, mo.ID, s.marketplaceType)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if existing == nil {
		return s.orders.Create(ctx, order)
	}

	order.ID = existing.ID
	order.CreatedAt = existing.CreatedAt
	return s.orders.Update(ctx, order)
}

// toInternalOrder maps a marketplace order onto the internal shape. The
// placed-at timestamp is parsed leniently; a malformed value stays unset.
func (s *Service) toInternalOrder(mo domain.MarketplaceOrder) *domain.Order {
	order := &domain.Order{
		MarketplaceID:   mo.ID,
		MarketplaceType: s.marketplaceType,
		Status:          mo.Status,
		TotalPrice:      mo.TotalPrice,
		Currency:        mo.Currency,
		BuyerName:       mo.BuyerName,
		BuyerPhone:      mo.BuyerPhone,
		BuyerEmail:      mo.BuyerEmail,
	}

	if mo.PlacedAt != "" {
		if placedAt, err := time.Parse(time.RFC3339, mo.PlacedAt); err == nil {
			order.PlacedAt = &placedAt
		}
	}

	for _, item := range mo.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductMarketplaceID: item.ProductID,
			Name:                 item.Name,
			SKU:                  item.SKU,
			Quantity:             item.Quantity,
			UnitPrice:            item.UnitPrice,
		})
	}

	return order
}
