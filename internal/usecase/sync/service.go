// Package sync drives one synchronization pass between the internal product
// store and the external marketplace. A pass never fails atomically: each
// item is tried in isolation and the outcome is a tally of imported, exported
// and failed items.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/mapper"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ResultCache defines the cache operations the sync service touches after a
// pass: the marketplace product list goes stale and the last result is kept
// for the API surface.
type ResultCache interface {
	SetLastSyncResult(ctx context.Context, marketplaceType string, result domain.SyncResult) error
	InvalidateMarketplaceProducts(ctx context.Context, marketplaceType string) error
}

// CompletedEvent is published on the sync.events subject after every pass.
type CompletedEvent struct {
	MarketplaceType string            `json:"marketplace_type"`
	Direction       string            `json:"direction"`
	Result          domain.SyncResult `json:"result"`
	FinishedAt      time.Time         `json:"finished_at"`
}

// Service is the sync orchestrator.
type Service struct {
	products        domain.ProductRepository
	orders          domain.OrderRepository
	client          domain.MarketplaceClient
	mapper          *mapper.Mapper
	cache           ResultCache
	publisher       EventPublisher
	logger          *logger.Logger
	marketplaceType string
	workers         int
}

// NewService creates a sync orchestrator. workers bounds concurrency across
// distinct products; 1 keeps each pass strictly sequential.
func NewService(
	products domain.ProductRepository,
	orders domain.OrderRepository,
	client domain.MarketplaceClient,
	m *mapper.Mapper,
	cache ResultCache,
	publisher EventPublisher,
	marketplaceType string,
	workers int,
	log *logger.Logger,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		products:        products,
		orders:          orders,
		client:          client,
		mapper:          m,
		cache:           cache,
		publisher:       publisher,
		marketplaceType: marketplaceType,
		workers:         workers,
		logger:          log,
	}
}

// Sync runs one synchronization pass in the given direction. productIDs, when
// non-empty, restricts the pass to those marketplace IDs (import) or internal
// products (export). The returned result is always meaningful: a non-nil
// error means the pass could not start or was cancelled, and the result
// covers whatever completed before that.
func (s *Service) Sync(ctx context.Context, direction domain.SyncDirection, productIDs []string) (domain.SyncResult, error) {
	var result domain.SyncResult
	started := time.Now()

	var err error
	switch direction {
	case domain.DirectionImport:
		result, err = s.runImport(ctx, productIDs, false)
	case domain.DirectionExport:
		result, err = s.runExport(ctx, productIDs)
	case domain.DirectionBoth:
		// Import first, pulling only products unknown locally: the export leg
		// pushes local state next, so a stale pull must not overwrite the
		// edits it is about to publish.
		result, err = s.runImport(ctx, productIDs, true)
		if err == nil {
			var exported domain.SyncResult
			exported, err = s.runExport(ctx, productIDs)
			result.Add(exported)
		}
	default:
		return result, domain.ErrInvalidInput
	}

	s.logger.WithFields(map[string]interface{}{
		"direction":   string(direction),
		"imported":    result.Imported,
		"exported":    result.Exported,
		"failed":      result.Failed,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("Sync pass finished")

	s.finishPass(ctx, direction, result)

	return result, err
}

// finishPass invalidates read-side caches and publishes the completion event.
// Neither failure affects the pass outcome.
func (s *Service) finishPass(ctx context.Context, direction domain.SyncDirection, result domain.SyncResult) {
	if err := s.cache.InvalidateMarketplaceProducts(ctx, s.marketplaceType); err != nil {
		s.logger.Warnf("Failed to invalidate marketplace product cache: %v", err)
	}
	if err := s.cache.SetLastSyncResult(ctx, s.marketplaceType, result); err != nil {
		s.logger.Warnf("Failed to cache sync result: %v", err)
	}

	event := CompletedEvent{
		MarketplaceType: s.marketplaceType,
		Direction:       string(direction),
		Result:          result,
		FinishedAt:      time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal sync completed event", err)
		return
	}
	if err := s.publisher.Publish(ctx, "sync.events", data); err != nil {
		s.logger.Warnf("Failed to publish sync completed event: %v", err)
	}
}

// runImport pulls marketplace products and persists them locally. A failure
// to obtain the product list aborts the pass; per-item failures are counted
// and skipped. With localWins set, products that already exist locally are
// left untouched and the item is a successful no-op.
func (s *Service) runImport(ctx context.Context, marketplaceIDs []string, localWins bool) (domain.SyncResult, error) {
	var result domain.SyncResult

	items, err := s.fetchImportTargets(ctx, marketplaceIDs, &result)
	if err != nil {
		return result, err
	}

	imported, failed, err := s.forEach(ctx, len(items), func(i int) error {
		return s.importOne(ctx, items[i], localWins)
	})
	result.Imported += imported
	result.Failed += failed

	return result, err
}

// fetchImportTargets resolves the marketplace products to import. With an
// explicit ID set each product is fetched individually and a fetch failure
// counts as that item failing; without one the whole list is pulled and a
// list failure means the pass could not start.
func (s *Service) fetchImportTargets(ctx context.Context, marketplaceIDs []string, result *domain.SyncResult) ([]domain.MarketplaceProduct, error) {
	if len(marketplaceIDs) == 0 {
		items, err := s.client.List(ctx)
		if err != nil {
			s.logger.Error("Failed to list marketplace products", err)
			return nil, err
		}
		return items, nil
	}

	items := make([]domain.MarketplaceProduct, 0, len(marketplaceIDs))
	for _, id := range marketplaceIDs {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		mp, err := s.client.GetByID(ctx, id)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"marketplace_id": id,
			}).Error("Failed to fetch marketplace product", err)
			result.Failed++
			continue
		}
		items = append(items, *mp)
	}
	return items, nil
}

// importOne maps one marketplace product and creates or updates the matching
// internal product, resolved by (marketplace ID, marketplace type).
func (s *Service) importOne(ctx context.Context, mp domain.MarketplaceProduct, localWins bool) error {
	incoming := s.mapper.ToInternal(mp)

	existing, err := s.products.GetByMarketplaceID(ctx, mp.ID, s.marketplaceType)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if existing == nil {
		if err := s.products.Create(ctx, incoming); err != nil {
			return err
		}
		s.logger.WithFields(map[string]interface{}{
			"product_id":     incoming.ID,
			"marketplace_id": mp.ID,
		}).Debug("Imported new product")
		return nil
	}

	if localWins {
		s.logger.WithFields(map[string]interface{}{
			"product_id":     existing.ID,
			"marketplace_id": mp.ID,
		}).Debug("Product known locally, keeping local state")
		return nil
	}

	mergeImported(existing, incoming)
	if err := s.products.Update(ctx, existing); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"product_id":     existing.ID,
		"marketplace_id": mp.ID,
	}).Debug("Updated product from marketplace")
	return nil
}

// mergeImported overwrites the mutable fields of an existing product with the
// freshly imported state, preserving internal identity and everything the
// marketplace representation does not carry: mappings held by other
// marketplace types, the variant parent link, and variants when the import
// brought none.
func mergeImported(existing, incoming *domain.Product) {
	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt
	if incoming.ExternalID == "" {
		incoming.ExternalID = existing.ExternalID
	}
	if incoming.ParentProductID == nil {
		incoming.ParentProductID = existing.ParentProductID
	}
	if len(incoming.Variants) == 0 {
		incoming.Variants = existing.Variants
	}
	for mpType, mpID := range existing.MarketplaceMappings {
		if incoming.MarketplaceMappings == nil {
			incoming.MarketplaceMappings = make(map[string]string)
		}
		if _, ok := incoming.MarketplaceMappings[mpType]; !ok {
			incoming.MarketplaceMappings[mpType] = mpID
		}
	}
	*existing = *incoming
}

// runExport pushes internal products to the marketplace. Products without a
// marketplace ID are created there and the assigned ID is written back;
// products that already have one are updated.
func (s *Service) runExport(ctx context.Context, productIDs []string) (domain.SyncResult, error) {
	var result domain.SyncResult

	targets, err := s.fetchExportTargets(ctx, productIDs, &result)
	if err != nil {
		return result, err
	}

	exported, failed, err := s.forEach(ctx, len(targets), func(i int) error {
		return s.exportOne(ctx, targets[i])
	})
	result.Exported += exported
	result.Failed += failed

	return result, err
}

// fetchExportTargets resolves the internal products to export: the explicit
// ID set, or every product tagged with this marketplace type.
func (s *Service) fetchExportTargets(ctx context.Context, productIDs []string, result *domain.SyncResult) ([]*domain.Product, error) {
	if len(productIDs) == 0 {
		targets, err := s.products.GetByMarketplaceType(ctx, s.marketplaceType)
		if err != nil {
			s.logger.Error("Failed to load export targets", err)
			return nil, err
		}
		return targets, nil
	}

	ids, invalid := parseUUIDs(productIDs)
	result.Failed += invalid

	targets, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load export targets", err)
		return nil, err
	}
	return targets, nil
}

// exportOne maps one internal product and pushes it to the marketplace,
// branching on whether the marketplace already knows it.
func (s *Service) exportOne(ctx context.Context, p *domain.Product) error {
	mp := s.mapper.ToExternal(p)

	if p.MarketplaceID == "" {
		created, err := s.client.Create(ctx, mp)
		if err != nil {
			return err
		}

		// The write-back is mandatory: without it the next export would
		// create a duplicate listing.
		if created.ID != "" {
			p.SetMarketplaceID(s.marketplaceType, created.ID)
			if err := s.products.Update(ctx, p); err != nil {
				return err
			}
		} else {
			s.logger.WithFields(map[string]interface{}{
				"product_id": p.ID,
			}).Warn("Marketplace created listing without returning an ID")
		}

		s.logger.WithFields(map[string]interface{}{
			"product_id":     p.ID,
			"marketplace_id": created.ID,
		}).Debug("Created marketplace listing")
		return nil
	}

	if _, err := s.client.Update(ctx, mp); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"product_id":     p.ID,
		"marketplace_id": p.MarketplaceID,
	}).Debug("Updated marketplace listing")
	return nil
}

// forEach runs fn over n items with per-item isolation: an item's error is
// counted, logged by the caller and never aborts its siblings. Cancellation
// stops the remaining batch and is returned; cancelled items count as neither
// success nor failure. With workers > 1 items run concurrently on a bounded
// pool and the tally uses atomic counters.
func (s *Service) forEach(ctx context.Context, n int, fn func(i int) error) (succeeded, failed int, err error) {
	if s.workers <= 1 {
		for i := 0; i < n; i++ {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return succeeded, failed, ctxErr
			}
			if itemErr := fn(i); itemErr != nil {
				s.logger.Error("Sync item failed", itemErr)
				failed++
				continue
			}
			succeeded++
		}
		return succeeded, failed, nil
	}

	var (
		okCount   atomic.Int64
		failCount atomic.Int64
		wg        sync.WaitGroup
		sem       = make(chan struct{}, s.workers)
	)

	var cancelled error
	for i := 0; i < n; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			cancelled = ctxErr
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			if itemErr := fn(i); itemErr != nil {
				s.logger.Error("Sync item failed", itemErr)
				failCount.Add(1)
				return
			}
			okCount.Add(1)
		}(i)
	}
	wg.Wait()

	return int(okCount.Load()), int(failCount.Load()), cancelled
}

func parseUUIDs(raw []string) (ids []uuid.UUID, invalid int) {
	ids = make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			invalid++
			continue
		}
		ids = append(ids, id)
	}
	return ids, invalid
}
