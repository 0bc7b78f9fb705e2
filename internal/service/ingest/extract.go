package ingest

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/domain/dto"
	"github.com/panganid/pangan-ingest/internal/pkg/constants"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
)

// nationalAggregateName labels the countrywide-average grid row.
const nationalAggregateName = "Semua Provinsi"

var dateKeyPattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// parsePrice parses a localized integer price string ("44.750", "12,000").
// Placeholders ("-", "0", empty) and non-positive values mean no
// observation, not a zero price.
func parsePrice(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" || raw == "0" {
		return 0, false
	}

	cleaned := strings.NewReplacer(".", "", ",", "").Replace(raw)
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

// parseDateKey normalizes a dd/mm/yyyy column key to ISO form. Keys of any
// other shape are non-date columns and are rejected without diagnostics.
func parseDateKey(key string) (string, bool) {
	if !dateKeyPattern.MatchString(key) {
		return "", false
	}

	t, err := time.Parse("02/01/2006", key)
	if err != nil {
		return "", false
	}

	return t.Format("2006-01-02"), true
}

// GridExtractor turns raw grid rows into normalized observations.
type GridExtractor struct {
	resolver *Resolver
}

func NewGridExtractor(resolver *Resolver) *GridExtractor {
	return &GridExtractor{resolver: resolver}
}

// Extract applies the per-row filtering rules: drop national-aggregate and
// sub-province rows, parse each date-keyed cell, resolve the province name.
// Rows with unknown names are skipped with a diagnostic; nothing here is
// fatal to the run.
func (e *GridExtractor) Extract(ctx context.Context, rows []dto.GridRow, slug string) []domain.PriceObservation {
	commodityID, ok := e.resolver.CommodityID(slug)
	if !ok && e.resolver.ReferenceLoaded() {
		logger.Warnf(ctx, "commodity slug %q missing from reference table, skipping", slug)
		return nil
	}

	observations := make([]domain.PriceObservation, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if row.Level == 0 || name == nationalAggregateName {
			continue
		}
		if row.Level > 1 {
			continue
		}

		provinceID, ok := e.resolver.ResolveProvince(name)
		if !ok {
			logger.Warnf(ctx, "unknown province name %q, skipping row", name)
			continue
		}

		for key, cell := range row.Cells {
			date, ok := parseDateKey(key)
			if !ok {
				continue
			}

			price, ok := parsePrice(cell)
			if !ok {
				continue
			}

			observations = append(observations, domain.PriceObservation{
				CommodityID:   commodityID,
				CommoditySlug: slug,
				ProvinceID:    provinceID,
				Price:         price,
				MarketType:    constants.MarketTraditional,
				Date:          date,
				Source:        constants.SourceBI,
			})
		}
	}

	return observations
}
