package alert

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/metrics"
)

var (
	ErrNoHealthy = errors.New("no healthy providers")
	ErrNoAcquire = errors.New("provider not acquired")
)

// Dispatcher spreads alerts round-robin over ready providers and retries up to
// a fixed number of attempts.
type Dispatcher struct {
	providers   []Provider
	next        atomic.Uint64
	maxAttempts int
}

func NewDispatcher(provs []Provider, maxAttempts int) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Dispatcher{providers: provs, maxAttempts: maxAttempts}
}

// Len is the number of configured providers.
func (d *Dispatcher) Len() int { return len(d.providers) }

func (d *Dispatcher) pick() (Provider, error) {
	ready := make([]Provider, 0, len(d.providers))
	for _, p := range d.providers {
		if p.Ready() {
			ready = append(ready, p)
		}
	}
	if len(ready) == 0 {
		return nil, ErrNoHealthy
	}

	n := d.next.Add(1)
	return ready[int((n-1)%uint64(len(ready)))], nil
}

func (d *Dispatcher) attempt(ctx context.Context, a Alert) (string, error) {
	p, err := d.pick()
	if err != nil {
		return "", err
	}
	if !p.Acquire() {
		return p.Name(), ErrNoAcquire
	}
	return p.Name(), p.Notify(ctx, a)
}

// Notify delivers a to one provider. It returns the last attempt's error when
// every attempt fails.
func (d *Dispatcher) Notify(ctx context.Context, a Alert) error {
	var last error
	for i := 0; i < d.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := d.attempt(ctx, a)
		if err == nil {
			metrics.AlertsTotal.WithLabelValues("sent").Inc()
			logger.Log.Info("alert delivered", zap.String("provider", name), zap.String("snapshot_id", a.SnapshotID))
			return nil
		}
		logger.Log.Warn("alert attempt failed", zap.String("provider", name), zap.Int("attempt", i+1), zap.Error(err))
		last = err
	}

	metrics.AlertsTotal.WithLabelValues("failed").Inc()
	return last
}
