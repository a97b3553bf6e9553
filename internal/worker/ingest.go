package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
	"github.com/jmehdipour/rfm-dashboard/internal/kafka"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/metrics"
	"github.com/jmehdipour/rfm-dashboard/internal/model"
	"github.com/jmehdipour/rfm-dashboard/internal/repository"
)

// Source is the part of the Kafka consumer the worker needs.
type Source interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msgs ...kafka.Message) error
}

// Ingest upserts customer record envelopes into the segments store in batches.
// A batch is flushed when it reaches BatchSize or every BatchWait, and its
// messages are committed only after the upsert succeeds. Poison messages are
// committed with the batch they arrived in. While a full batch cannot be
// flushed no new messages are read, and the flush is retried every BatchWait.
type Ingest struct {
	Source    Source
	Repo      repository.SegmentsRepository
	BatchSize int
	BatchWait time.Duration

	// FlushTimeout bounds the final flush after ctx is cancelled.
	FlushTimeout time.Duration
}

func NewIngest(src Source, repo repository.SegmentsRepository) *Ingest {
	return &Ingest{
		Source:       src,
		Repo:         repo,
		BatchSize:    500,
		BatchWait:    time.Second,
		FlushTimeout: 5 * time.Second,
	}
}

// Run blocks until ctx is cancelled, then flushes what is buffered.
func (w *Ingest) Run(ctx context.Context) error {
	if w.Source == nil || w.Repo == nil {
		return errors.New("ingest: source and repository are required")
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 500
	}
	if w.BatchWait <= 0 {
		w.BatchWait = time.Second
	}
	if w.FlushTimeout <= 0 {
		w.FlushTimeout = 5 * time.Second
	}

	msgCh := make(chan kafka.Message, w.BatchSize)
	go w.fetch(ctx, msgCh)

	b := newBatch()
	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	for {
		// a full batch that failed to flush stops intake; the tick retries it
		in := msgCh
		if b.size() >= w.BatchSize {
			in = nil
		}

		select {
		case <-ctx.Done():
			w.drain(b, msgCh)
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.FlushTimeout)
			w.flush(fctx, b)
			cancel()
			return nil

		case m, ok := <-in:
			if !ok {
				msgCh = nil
				continue
			}
			w.accept(b, m)
			if b.size() >= w.BatchSize {
				w.flush(ctx, b)
			}

		case <-tick.C:
			w.flush(ctx, b)
		}
	}
}

// drain accepts messages already fetched without blocking.
func (w *Ingest) drain(b *batch, in <-chan kafka.Message) {
	for {
		select {
		case m, ok := <-in:
			if !ok {
				return
			}
			w.accept(b, m)
		default:
			return
		}
	}
}

func (w *Ingest) fetch(ctx context.Context, out chan<- kafka.Message) {
	defer close(out)
	for {
		m, err := w.Source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Warn("kafka fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(200 * time.Millisecond):
			}
			continue
		}
		select {
		case out <- m:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Ingest) accept(b *batch, m kafka.Message) {
	rec, err := Decode(m.Value)
	if err != nil {
		metrics.IngestRecordsTotal.WithLabelValues("rejected").Inc()
		logger.Log.Warn("rejected envelope",
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		b.skip(m)
		return
	}
	b.add(m, rec)
}

// flush upserts the buffered records and commits their messages. On error the
// batch is kept for the next attempt.
func (w *Ingest) flush(ctx context.Context, b *batch) {
	if b.empty() {
		return
	}

	recs := b.records()
	if len(recs) > 0 {
		if err := w.Repo.UpsertBatch(ctx, recs); err != nil {
			metrics.IngestRecordsTotal.WithLabelValues("failed").Add(float64(len(recs)))
			logger.Log.Error("ingest flush failed", zap.Int("records", len(recs)), zap.Error(err))
			return
		}
		metrics.IngestRecordsTotal.WithLabelValues("stored").Add(float64(len(recs)))
	}

	if err := w.Source.Commit(ctx, b.msgs...); err != nil {
		// records are stored; redelivery only repeats idempotent upserts
		logger.Log.Error("kafka commit failed", zap.Int("messages", len(b.msgs)), zap.Error(err))
		return
	}

	logger.Log.Info("ingest flushed", zap.Int("records", len(recs)), zap.Int("messages", len(b.msgs)))
	b.reset()
}

// Decode parses and validates one envelope.
func Decode(value []byte) (model.CustomerRecord, error) {
	var env model.RecordEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return model.CustomerRecord{}, fmt.Errorf("bad envelope json: %w", err)
	}
	if strings.TrimSpace(env.ID) == "" {
		return model.CustomerRecord{}, errors.New("envelope missing id")
	}

	rec := env.Record
	rec.CustomerID = strings.TrimSpace(rec.CustomerID)
	if rec.CustomerID == "" {
		return model.CustomerRecord{}, errors.New("record missing customer_id")
	}
	if err := analytics.CheckRecord(rec); err != nil {
		return model.CustomerRecord{}, fmt.Errorf("customer_id %q: %w", rec.CustomerID, err)
	}
	return rec, nil
}

// batch keeps the latest record per customer in arrival order plus every
// message that must be committed with it.
type batch struct {
	order []string
	byID  map[string]model.CustomerRecord
	msgs  []kafka.Message
}

func newBatch() *batch {
	return &batch{byID: make(map[string]model.CustomerRecord)}
}

func (b *batch) add(m kafka.Message, rec model.CustomerRecord) {
	if _, ok := b.byID[rec.CustomerID]; !ok {
		b.order = append(b.order, rec.CustomerID)
	}
	b.byID[rec.CustomerID] = rec
	b.msgs = append(b.msgs, m)
}

func (b *batch) skip(m kafka.Message) { b.msgs = append(b.msgs, m) }

func (b *batch) size() int   { return len(b.msgs) }
func (b *batch) empty() bool { return len(b.msgs) == 0 }

func (b *batch) records() []model.CustomerRecord {
	out := make([]model.CustomerRecord, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.byID[id])
	}
	return out
}

func (b *batch) reset() {
	b.order = b.order[:0]
	b.msgs = b.msgs[:0]
	clear(b.byID)
}
