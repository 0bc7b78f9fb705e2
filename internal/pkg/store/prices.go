package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/store/xpgx"
)

var priceColumns = []string{"commodity_id", "province_id", "price", "market_type", "date", "source"}

// UpsertPrices writes one batch of observations as a single multi-row
// insert. On a natural-key conflict only the price column is overwritten,
// which makes resubmitting overlapping batches safe.
func (s *store) UpsertPrices(ctx context.Context, observations []domain.PriceObservation) error {
	if len(observations) == 0 {
		return nil
	}

	query := builder().Insert(tablePrices).
		Columns(priceColumns...)

	for _, obs := range observations {
		query = query.Values(obs.CommodityID, obs.ProvinceID, obs.Price, obs.MarketType, obs.Date, obs.Source)
	}

	query = query.Suffix(fmt.Sprintf(`on conflict %s do update set price = excluded.price`, priceConflictTarget))

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

type ListProvincePricesOpts struct {
	CommoditySlug string
	Date          string
	MarketType    string
}

// ProvincePrice is one province's stored price for a commodity and date.
type ProvincePrice struct {
	ProvinceID   string `db:"province_id"`
	ProvinceName string `db:"province_name"`
	Price        int64  `db:"price"`
}

func (s *store) ListProvincePrices(ctx context.Context, opts ListProvincePricesOpts) ([]*ProvincePrice, error) {
	query := builder().Select("p.province_id", "pr.name as province_name", "p.price").
		From(tablePrices + " p").
		Join(tableProvinces + " pr on pr.id = p.province_id").
		Join(tableCommodities + " c on c.id = p.commodity_id").
		Where(sq.Eq{"c.slug": opts.CommoditySlug}).
		Where(sq.Eq{"p.date": opts.Date}).
		Where(sq.Eq{"p.market_type": opts.MarketType}).
		OrderBy("p.province_id")

	selected, err := xpgx.Selectx[ProvincePrice](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
