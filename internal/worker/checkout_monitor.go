package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mkarpova/storefront/internal/domain/model"
)

// LedgerFacade exposes the subset of application functionality required by the worker.
type LedgerFacade interface {
	StaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]model.Transaction, error)
}

// CheckoutMonitor periodically reports checkout ledger entries that stayed
// pending past the configured age. It only observes; the webhook flow remains
// the sole writer of terminal ledger states.
type CheckoutMonitor struct {
	facade       LedgerFacade
	pollInterval time.Duration
	maxAge       time.Duration
	batchSize    int
	logger       *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewCheckoutMonitor constructs the stale checkout monitor.
func NewCheckoutMonitor(facade LedgerFacade, pollInterval, maxAge time.Duration, batchSize int, logger *slog.Logger) *CheckoutMonitor {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &CheckoutMonitor{
		facade:       facade,
		pollInterval: pollInterval,
		maxAge:       maxAge,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Start launches background monitoring.
func (m *CheckoutMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go m.loop(runCtx)
}

// Stop waits for the monitor loop to finish.
func (m *CheckoutMonitor) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *CheckoutMonitor) loop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scan(ctx)
		}
	}
}

func (m *CheckoutMonitor) scan(ctx context.Context) {
	cutoff := time.Now().Add(-m.maxAge)
	entries, err := m.facade.StaleCheckouts(ctx, cutoff, m.batchSize)
	if err != nil {
		m.logger.Error("stale checkout scan failed", slog.String("error", err.Error()))
		return
	}

	for _, entry := range entries {
		m.logger.Warn("checkout still pending past deadline",
			slog.String("transaction_id", entry.ID),
			slog.String("user_id", entry.UserID),
			slog.Int64("amount", entry.Amount),
			slog.Time("created_at", entry.CreatedAt),
		)
	}
}
