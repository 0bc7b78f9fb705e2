package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/panganid/pangan-ingest/internal/domain/dto"
)

type fakeFetcher struct {
	mu          sync.Mutex
	sessionErr  error
	fetchErrOn  map[string]error
	rows        map[string][]dto.GridRow
	fetchedIDs  []string
	sessionInit bool
}

func (f *fakeFetcher) InitSession(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionInit = true
	return f.sessionErr
}

func (f *fakeFetcher) FetchCommodityGrid(_ context.Context, externalID string, _, _ time.Time) ([]dto.GridRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchedIDs = append(f.fetchedIDs, externalID)
	if err, ok := f.fetchErrOn[externalID]; ok {
		return nil, err
	}
	return f.rows[externalID], nil
}

func jakartaRow(price string) dto.GridRow {
	return dto.GridRow{Name: "DKI Jakarta", Level: 1, Cells: map[string]string{"26/02/2026": price}}
}

func TestGridSourceFetchesEveryCommodity(t *testing.T) {
	fetcher := &fakeFetcher{rows: map[string][]dto.GridRow{
		"com_1":  {jakartaRow("12.000")},
		"com_21": {jakartaRow("17.500")},
	}}

	source := NewGridSource(fetcher, testResolver(), GridOptions{DaysBack: 2, LagDays: 1})
	got, err := source.Records(context.Background())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}

	if len(fetcher.fetchedIDs) != 21 {
		t.Errorf("fetched %d commodities, want 21", len(fetcher.fetchedIDs))
	}
	if !fetcher.sessionInit {
		t.Error("session was never initialized")
	}
	if len(got) != 2 {
		t.Fatalf("got %d observations, want 2", len(got))
	}
	// fetch-order determinism: com_1 before com_21
	if got[0].CommoditySlug != "beras-kualitas-bawah-i" || got[1].CommoditySlug != "gula-pasir-lokal" {
		t.Errorf("order = %q, %q", got[0].CommoditySlug, got[1].CommoditySlug)
	}
}

func TestGridSourceSessionFailureFallsBack(t *testing.T) {
	fetcher := &fakeFetcher{
		sessionErr: errors.New("handshake refused"),
		rows:       map[string][]dto.GridRow{"com_1": {jakartaRow("12.000")}},
	}

	source := NewGridSource(fetcher, testResolver(), GridOptions{DaysBack: 2, LagDays: 1})
	got, err := source.Records(context.Background())
	if err != nil {
		t.Fatalf("Records after session fallback: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d observations, want 1", len(got))
	}
}

func TestGridSourceToleratesCommodityFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		fetchErrOn: map[string]error{"com_1": errors.New("grid timeout")},
		rows:       map[string][]dto.GridRow{"com_21": {jakartaRow("17.500")}},
	}

	source := NewGridSource(fetcher, testResolver(), GridOptions{DaysBack: 2, LagDays: 1})
	got, err := source.Records(context.Background())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 1 || got[0].CommoditySlug != "gula-pasir-lokal" {
		t.Errorf("got %+v, want only the surviving commodity", got)
	}
}

func TestGridSourceBoundedWorkers(t *testing.T) {
	fetcher := &fakeFetcher{rows: map[string][]dto.GridRow{"com_1": {jakartaRow("12.000")}}}

	source := NewGridSource(fetcher, testResolver(), GridOptions{DaysBack: 2, LagDays: 1, Workers: 4})
	got, err := source.Records(context.Background())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}

	if len(fetcher.fetchedIDs) != 21 {
		t.Errorf("fetched %d commodities, want 21", len(fetcher.fetchedIDs))
	}
	if len(got) != 1 {
		t.Errorf("got %d observations, want 1", len(got))
	}
}

func TestGridSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{sessionErr: context.Canceled}
	source := NewGridSource(fetcher, testResolver(), GridOptions{DaysBack: 2, LagDays: 1})

	if _, err := source.Records(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
