package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/panganid/pangan-ingest/internal/pkg/constants"
)

const (
	tableCommodities = "commodities"
	tableProvinces   = "provinces"
	tablePrices      = "prices"
	tableIngestLogs  = "ingest_logs"
)

// priceConflictTarget is the natural key of the prices table.
const priceConflictTarget = "(commodity_id, province_id, date, market_type, source)"

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns the dollar-placeholder squirrel builder every query starts from.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
