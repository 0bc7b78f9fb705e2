package prices

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/constants"
	"github.com/panganid/pangan-ingest/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewPricesService(store store.Store) *Service {
	return &Service{store: store}
}

type NationalAverage struct {
	CommoditySlug string          `json:"commodity_slug"`
	Date          string          `json:"date"`
	MarketType    string          `json:"market_type"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
	MinPrice      int64           `json:"min_price"`
	MaxPrice      int64           `json:"max_price"`
	ProvinceCount int             `json:"province_count"`
}

// GetNationalAverage aggregates the stored province-level prices for one
// commodity and date into a countrywide summary.
func (s *Service) GetNationalAverage(ctx context.Context, slug, date string) (*NationalAverage, error) {
	rows, err := s.store.ListProvincePrices(ctx, store.ListProvincePricesOpts{
		CommoditySlug: slug,
		Date:          date,
		MarketType:    constants.MarketTraditional,
	})
	if err != nil {
		return nil, fmt.Errorf("store.ListProvincePrices: %w", err)
	}
	if len(rows) == 0 {
		return nil, constants.ErrDBNotFound
	}

	sum := decimal.Zero
	minPrice, maxPrice := rows[0].Price, rows[0].Price
	for _, row := range rows {
		sum = sum.Add(decimal.NewFromInt(row.Price))
		if row.Price < minPrice {
			minPrice = row.Price
		}
		if row.Price > maxPrice {
			maxPrice = row.Price
		}
	}

	return &NationalAverage{
		CommoditySlug: slug,
		Date:          date,
		MarketType:    constants.MarketTraditional,
		AvgPrice:      sum.Div(decimal.NewFromInt(int64(len(rows)))).Round(2),
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		ProvinceCount: len(rows),
	}, nil
}

func (s *Service) ListCommodities(ctx context.Context) ([]*domain.Commodity, error) {
	commodities, err := s.store.ListCommodities(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListCommodities: %w", err)
	}
	return commodities, nil
}

func (s *Service) ListProvinces(ctx context.Context) ([]*domain.Province, error) {
	provinces, err := s.store.ListProvinces(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListProvinces: %w", err)
	}
	return provinces, nil
}

func (s *Service) ListIngestLogs(ctx context.Context, limit int) ([]*domain.IngestLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	logs, err := s.store.ListIngestLogs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("store.ListIngestLogs: %w", err)
	}
	return logs, nil
}
