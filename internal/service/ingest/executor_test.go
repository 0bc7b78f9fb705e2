package ingest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/panganid/pangan-ingest/internal/domain"
)

// fakeStore models the backend's upsert contract: one row per natural key,
// later writes overwrite the price.
type fakeStore struct {
	rows     map[domain.ObservationKey]int64
	failOn   map[int]error
	batchNum int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[domain.ObservationKey]int64), failOn: make(map[int]error)}
}

func (f *fakeStore) UpsertPrices(_ context.Context, observations []domain.PriceObservation) error {
	defer func() { f.batchNum++ }()
	if err, ok := f.failOn[f.batchNum]; ok {
		return err
	}
	for _, obs := range observations {
		f.rows[obs.Key()] = obs.Price
	}
	return nil
}

func TestStoreExecutorIdempotence(t *testing.T) {
	st := newFakeStore()
	e := NewStoreExecutor(st)

	batch := []domain.PriceObservation{
		obs("beras", "31", "2026-02-26", 12000),
		obs("beras", "31", "2026-02-27", 12500),
	}

	e.Execute(context.Background(), [][]domain.PriceObservation{batch})
	first := len(st.rows)

	e.Execute(context.Background(), [][]domain.PriceObservation{batch})
	if len(st.rows) != first {
		t.Fatalf("repeat submission changed row count: %d -> %d", first, len(st.rows))
	}
	if first != 2 {
		t.Fatalf("stored %d rows, want 2", first)
	}
	if st.rows[batch[0].Key()] != 12000 || st.rows[batch[1].Key()] != 12500 {
		t.Error("prices drifted on repeat of identical input")
	}
}

func TestStoreExecutorOverwritesOnConflict(t *testing.T) {
	st := newFakeStore()
	e := NewStoreExecutor(st)

	e.Execute(context.Background(), [][]domain.PriceObservation{{obs("beras", "31", "2026-02-26", 12000)}})
	e.Execute(context.Background(), [][]domain.PriceObservation{{obs("beras", "31", "2026-02-26", 12300)}})

	if len(st.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(st.rows))
	}
	if got := st.rows[obs("beras", "31", "2026-02-26", 0).Key()]; got != 12300 {
		t.Errorf("price = %d, want the later 12300", got)
	}
}

func TestStoreExecutorPartialFailure(t *testing.T) {
	st := newFakeStore()
	boom := errors.New("backend rejected batch")
	st.failOn[1] = boom

	var batches [][]domain.PriceObservation
	for _, slug := range []string{"bawang", "beras", "gula"} {
		batches = append(batches, []domain.PriceObservation{obs(slug, "31", "2026-02-26", 10000)})
	}

	summary := NewStoreExecutor(st).Execute(context.Background(), batches)

	if summary.Inserted != 2 {
		t.Errorf("inserted = %d, want 2", summary.Inserted)
	}
	if summary.Failed != 1 {
		t.Errorf("failed = %d, want 1", summary.Failed)
	}
	if err, ok := summary.BatchErrors[1]; !ok || !errors.Is(err, boom) {
		t.Errorf("failure not attributed to batch 1: %v", summary.BatchErrors)
	}
	// batch after the failing one was still processed
	if _, ok := st.rows[obs("gula", "31", "2026-02-26", 0).Key()]; !ok {
		t.Error("batch after the failure was not processed")
	}
}

func TestSQLExecutorRendersBatchStatement(t *testing.T) {
	var buf bytes.Buffer
	e := NewSQLExecutor(&buf)

	summary := e.Execute(context.Background(), [][]domain.PriceObservation{{
		obs("beras-kualitas-bawah-i", "31", "2026-02-26", 12000),
		obs("beras-kualitas-bawah-i", "32", "2026-02-26", 11800),
	}})

	if summary.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", summary.Inserted)
	}

	out := buf.String()
	for _, want := range []string{
		"('31',12000,'2026-02-26'::date)",
		"('32',11800,'2026-02-26'::date)",
		"WHERE c.slug='beras-kualitas-bawah-i'",
		"ON CONFLICT (commodity_id,province_id,date,market_type,source) DO UPDATE SET price=EXCLUDED.price;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSQLOutputRoundTripsThroughDumpExtractor(t *testing.T) {
	records := []domain.PriceObservation{
		obs("beras-kualitas-bawah-i", "31", "2026-02-26", 12000),
		obs("gula-pasir-lokal", "32", "2026-02-27", 17500),
	}

	var buf bytes.Buffer
	NewSQLExecutor(&buf).Execute(context.Background(), Batch(records, 200))

	extractor := NewDumpExtractor(testResolver())
	got, err := extractor.Extract(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(got) != len(records) {
		t.Fatalf("round trip yielded %d records, want %d", len(got), len(records))
	}
	for i := range got {
		if got[i].Key() != records[i].Key() || got[i].Price != records[i].Price {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], records[i])
		}
	}
}
