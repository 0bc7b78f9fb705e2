package store

import (
	"context"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/store/xpgx"
)

var (
	commodityColumns = []string{"id", "name", "slug", "unit", "category", "created_at", "updated_at"}
	provinceColumns  = []string{"id", "name", "slug", "created_at", "updated_at"}
)

// ListCommodities returns all seeded commodities. The ingestion pipeline
// reads this once per run to build its slug -> id table.
func (s *store) ListCommodities(ctx context.Context) ([]*domain.Commodity, error) {
	query := builder().Select(commodityColumns...).
		From(tableCommodities).
		OrderBy("id")

	selected, err := xpgx.Selectx[domain.Commodity](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListProvinces(ctx context.Context) ([]*domain.Province, error) {
	query := builder().Select(provinceColumns...).
		From(tableProvinces).
		OrderBy("id")

	selected, err := xpgx.Selectx[domain.Province](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
