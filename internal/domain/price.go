package domain

import "time"

type Commodity struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Unit      string    `db:"unit" json:"unit"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

type Province struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// PriceObservation is one (commodity, province, date) price point. The tuple
// (CommodityID, ProvinceID, Date, MarketType, Source) is the natural key
// used as the conflict target on every upsert.
type PriceObservation struct {
	CommodityID int64  `db:"commodity_id" json:"commodity_id"`
	// CommoditySlug identifies the commodity in paths that run without a
	// database connection; the numeric id may still be unresolved there.
	CommoditySlug string `db:"-" json:"-"`
	ProvinceID    string `db:"province_id" json:"province_id"`
	Price         int64  `db:"price" json:"price"`
	MarketType    string `db:"market_type" json:"market_type"`
	Date          string `db:"date" json:"date"`
	Source        string `db:"source" json:"source"`
}

// Key returns the natural-key tuple in a comparable form. The slug stands
// in for the commodity id so that keys stay distinct before ids resolve.
func (p PriceObservation) Key() ObservationKey {
	return ObservationKey{
		CommoditySlug: p.CommoditySlug,
		ProvinceID:    p.ProvinceID,
		Date:          p.Date,
		MarketType:    p.MarketType,
		Source:        p.Source,
	}
}

type ObservationKey struct {
	CommoditySlug string
	ProvinceID    string
	Date          string
	MarketType    string
	Source        string
}

type IngestStatus string

const (
	IngestStatusSuccess IngestStatus = "success"
	IngestStatusPartial IngestStatus = "partial"
	IngestStatusFailed  IngestStatus = "failed"
)

// IngestLog is the persisted record of one pipeline run.
type IngestLog struct {
	ID              int64        `db:"id" json:"id"`
	RunID           string       `db:"run_id" json:"run_id"`
	IngestDate      string       `db:"ingest_date" json:"ingest_date"`
	Source          string       `db:"source" json:"source"`
	Status          IngestStatus `db:"status" json:"status"`
	Commodities     int          `db:"commodities" json:"commodities"`
	Provinces       int          `db:"provinces" json:"provinces"`
	RowsInserted    int          `db:"rows_inserted" json:"rows_inserted"`
	ErrorMessage    *string      `db:"error_message" json:"error_message,omitempty"`
	DurationSeconds float64      `db:"duration_seconds" json:"duration_seconds"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
