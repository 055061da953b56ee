package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
)

// SyncJob is a synchronization request consumed from the sync.jobs subject.
type SyncJob struct {
	Direction   string    `json:"direction"`
	ProductIDs  []string  `json:"product_ids,omitempty"`
	WithOrders  bool      `json:"with_orders,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Syncer is the part of the sync orchestrator the worker drives.
type Syncer interface {
	Sync(ctx context.Context, direction domain.SyncDirection, productIDs []string) (domain.SyncResult, error)
	ImportOrders(ctx context.Context) (imported, failed int, err error)
}

// SyncWorker processes sync jobs pulled from JetStream. Passes are serialized
// so no two jobs mutate the same products concurrently.
type SyncWorker struct {
	syncer Syncer
	logger *logger.Logger

	mu      sync.Mutex
	running sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(syncer Syncer, log *logger.Logger) *SyncWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &SyncWorker{
		syncer: syncer,
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// HandleJob decodes and runs one sync job. The returned error makes JetStream
// redeliver the message; a pass that ran but had failed items is still an
// acked success, since re-running the whole job would not help those items.
func (w *SyncWorker) HandleJob(data []byte) error {
	var job SyncJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.logger.Error("Failed to unmarshal sync job", err)
		return fmt.Errorf("failed to unmarshal job: %w", err)
	}

	direction, err := domain.ParseSyncDirection(job.Direction)
	if err != nil {
		w.logger.Error("Sync job carries an unknown direction", err)
		// Malformed jobs are not retryable; drop without redelivery.
		return nil
	}

	w.logger.WithFields(map[string]interface{}{
		"direction":    job.Direction,
		"product_ids":  len(job.ProductIDs),
		"with_orders":  job.WithOrders,
		"requested_at": job.RequestedAt,
	}).Info("Received sync job")

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ctx.Err(); err != nil {
		w.logger.Info("Worker shutting down, leaving job for redelivery")
		return err
	}

	w.running.Add(1)
	defer w.running.Done()

	result, err := w.syncer.Sync(w.ctx, direction, job.ProductIDs)
	if err != nil {
		w.logger.Error("Sync pass could not complete", err)
		return err
	}

	if job.WithOrders {
		imported, failed, err := w.syncer.ImportOrders(w.ctx)
		if err != nil {
			w.logger.Error("Order import could not complete", err)
			return err
		}
		w.logger.WithFields(map[string]interface{}{
			"orders_imported": imported,
			"orders_failed":   failed,
		}).Info("Order import finished for sync job")
	}

	w.logger.WithFields(map[string]interface{}{
		"imported": result.Imported,
		"exported": result.Exported,
		"failed":   result.Failed,
	}).Info("Sync job finished")

	return nil
}

// Shutdown stops accepting jobs and waits for the in-flight pass to finish.
func (w *SyncWorker) Shutdown(ctx context.Context) error {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Sync worker drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out waiting for in-flight sync pass: %w", ctx.Err())
	}
}
