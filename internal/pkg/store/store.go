package store

import (
	"context"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	ListCommodities(ctx context.Context) ([]*domain.Commodity, error)
	ListProvinces(ctx context.Context) ([]*domain.Province, error)
	UpsertPrices(ctx context.Context, observations []domain.PriceObservation) error
	ListProvincePrices(ctx context.Context, opts ListProvincePricesOpts) ([]*ProvincePrice, error)
	InsertIngestLog(ctx context.Context, log *domain.IngestLog) error
	ListIngestLogs(ctx context.Context, limit int) ([]*domain.IngestLog, error)
}

type store struct {
	pool *Pool
}

func NewStore(pool *Pool) Store {
	return &store{pool}
}
