package worker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jmehdipour/rfm-dashboard/internal/kafka"
	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

type fakeSource struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	commits   chan struct{}
}

func newFakeSource(values ...string) *fakeSource {
	s := &fakeSource{commits: make(chan struct{}, 16)}
	for i, v := range values {
		s.queue = append(s.queue, kafka.Message{Offset: int64(i), Value: []byte(v)})
	}
	return s
}

func (s *fakeSource) Fetch(ctx context.Context) (kafka.Message, error) {
	s.mu.Lock()
	if len(s.queue) > 0 {
		m := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		return m, nil
	}
	s.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (s *fakeSource) Commit(_ context.Context, msgs ...kafka.Message) error {
	s.mu.Lock()
	for _, m := range msgs {
		s.committed = append(s.committed, m.Offset)
	}
	s.mu.Unlock()
	s.commits <- struct{}{}
	return nil
}

func (s *fakeSource) offsets() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.committed...)
}

type fakeRepo struct {
	mu      sync.Mutex
	failN   int
	calls   int
	batches [][]model.CustomerRecord
}

func (r *fakeRepo) List(context.Context) ([]model.CustomerRecord, error) { return nil, nil }

func (r *fakeRepo) UpsertBatch(_ context.Context, recs []model.CustomerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failN > 0 {
		r.failN--
		return errors.New("store unavailable")
	}
	r.batches = append(r.batches, append([]model.CustomerRecord(nil), recs...))
	return nil
}

func (r *fakeRepo) stored() [][]model.CustomerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]model.CustomerRecord(nil), r.batches...)
}

func (r *fakeRepo) attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func envelope(id, customer string, recency float64) string {
	return `{"id":"` + id + `","record":{"customer_id":"` + customer + `","recency":` +
		formatFloat(recency) + `,"frequency":2,"monetary":10,"rfm_score":"321","segment":"Gold","clv_6m":null}}`
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func waitCommit(t *testing.T, s *fakeSource) {
	t.Helper()
	select {
	case <-s.commits:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for commit")
	}
}

func runIngest(t *testing.T, w *Ingest) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("run: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop")
		}
	}
}

func TestIngest_FlushesOnSizeAndCommitsPoison(t *testing.T) {
	src := newFakeSource(
		envelope("e1", "C1", 10),
		`{not json`,
		envelope("e3", "C3", 400),
		envelope("e4", "C4", 50),
	)
	repo := &fakeRepo{}
	w := NewIngest(src, repo)
	w.BatchSize = 2
	w.BatchWait = time.Hour

	stop := runIngest(t, w)
	waitCommit(t, src)
	waitCommit(t, src)
	stop()

	got := repo.stored()
	if len(got) != 2 {
		t.Fatalf("batches = %+v, want 2", got)
	}
	if len(got[0]) != 1 || got[0][0].CustomerID != "C1" {
		t.Errorf("first batch = %+v, want only C1", got[0])
	}
	if len(got[1]) != 2 || got[1][0].CustomerID != "C3" || got[1][1].CustomerID != "C4" {
		t.Errorf("second batch = %+v, want C3,C4", got[1])
	}
	offs := src.offsets()
	want := []int64{0, 1, 2, 3}
	if len(offs) != len(want) {
		t.Fatalf("committed = %v, want %v", offs, want)
	}
	for i := range want {
		if offs[i] != want[i] {
			t.Fatalf("committed = %v, want %v", offs, want)
		}
	}
}

func TestIngest_FlushesOnTick(t *testing.T) {
	src := newFakeSource(envelope("e1", "C1", 10))
	repo := &fakeRepo{}
	w := NewIngest(src, repo)
	w.BatchSize = 100
	w.BatchWait = 20 * time.Millisecond

	stop := runIngest(t, w)
	waitCommit(t, src)
	stop()

	if got := repo.stored(); len(got) != 1 || got[0][0].CustomerID != "C1" {
		t.Fatalf("batches = %+v", got)
	}
}

func TestIngest_FailedFlushIsRetriedWithoutCommit(t *testing.T) {
	src := newFakeSource(envelope("e1", "C1", 10), envelope("e2", "C2", 20), envelope("e3", "C3", 30))
	repo := &fakeRepo{failN: 2}
	w := NewIngest(src, repo)
	w.BatchSize = 1
	w.BatchWait = 20 * time.Millisecond

	stop := runIngest(t, w)
	for i := 0; i < 3; i++ {
		waitCommit(t, src)
	}
	stop()

	// intake pauses while the full batch is failing, so no batch outgrows BatchSize
	got := repo.stored()
	if len(got) != 3 {
		t.Fatalf("batches = %+v, want 3", got)
	}
	for i, id := range []string{"C1", "C2", "C3"} {
		if len(got[i]) != 1 || got[i][0].CustomerID != id {
			t.Fatalf("batch %d = %+v, want only %s", i, got[i], id)
		}
	}
	if repo.attempts() != 5 {
		t.Fatalf("upsert attempts = %d, want 5", repo.attempts())
	}
	offs := src.offsets()
	if len(offs) != 3 || offs[0] != 0 || offs[1] != 1 || offs[2] != 2 {
		t.Fatalf("committed = %v, want [0 1 2]", offs)
	}
}

func TestIngest_LatestRecordWins(t *testing.T) {
	src := newFakeSource(envelope("e1", "C1", 10), envelope("e2", "C1", 99))
	repo := &fakeRepo{}
	w := NewIngest(src, repo)
	w.BatchSize = 2
	w.BatchWait = time.Hour

	stop := runIngest(t, w)
	waitCommit(t, src)
	stop()

	got := repo.stored()
	if len(got) != 1 || len(got[0]) != 1 || got[0][0].Recency != 99 {
		t.Fatalf("batch = %+v", got)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", envelope("e1", "C1", 10), false},
		{"bad json", `{`, true},
		{"missing id", `{"record":{"customer_id":"C1","segment":"Gold"}}`, true},
		{"missing customer", `{"id":"e","record":{"segment":"Gold"}}`, true},
		{"negative recency", envelope("e1", "C1", -1), true},
		{"empty segment", `{"id":"e","record":{"customer_id":"C1","segment":""}}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.value))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
