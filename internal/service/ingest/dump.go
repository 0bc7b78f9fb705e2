package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/constants"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
)

// Statement shapes produced by earlier capture runs. Single-row statements
// carry the full record inline; batched statements carry a VALUES list and
// name the slug once in the WHERE clause.
var (
	dumpRowPattern    = regexp.MustCompile(`SELECT id, '(\w+)', (\d+), 'traditional', '([\d-]+)', 'bi' FROM commodities WHERE slug='([^']+)'`)
	dumpValuesPattern = regexp.MustCompile(`\('(\w+)',(\d+),'([\d-]+)'::date\)`)
	dumpSlugPattern   = regexp.MustCompile(`WHERE c\.slug='([^']+)'`)
)

// DumpExtractor recovers observations from captured statement text.
// Commodity resolution is delayed to the slug -> id table loaded for the
// run; unknown slugs are skipped, not fatal.
type DumpExtractor struct {
	resolver *Resolver
}

func NewDumpExtractor(resolver *Resolver) *DumpExtractor {
	return &DumpExtractor{resolver: resolver}
}

// Extract scans the dump line by line. Lines matching neither statement
// shape are boilerplate and skipped silently. Dumps captured through
// PowerShell redirects arrive as UTF-16LE; the decoder strips the BOM and
// transcodes transparently.
func (e *DumpExtractor) Extract(ctx context.Context, r io.Reader) ([]domain.PriceObservation, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var observations []domain.PriceObservation
	for scanner.Scan() {
		line := scanner.Text()

		if m := dumpRowPattern.FindStringSubmatch(line); m != nil {
			e.appendRecord(ctx, &observations, m[4], m[1], m[2], m[3])
			continue
		}

		if m := dumpSlugPattern.FindStringSubmatch(line); m != nil {
			slug := m[1]
			for _, tuple := range dumpValuesPattern.FindAllStringSubmatch(line, -1) {
				e.appendRecord(ctx, &observations, slug, tuple[1], tuple[2], tuple[3])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dump: %w", err)
	}

	return observations, nil
}

func (e *DumpExtractor) appendRecord(ctx context.Context, out *[]domain.PriceObservation, slug, provinceID, priceStr, date string) {
	if !e.resolver.KnownSlug(slug) {
		logger.Warnf(ctx, "unknown commodity slug %q, skipping record", slug)
		return
	}

	// without a loaded reference table ids stay zero and the statement
	// renderer resolves the slug at execution time; with one loaded, a
	// missing slug has no row to reference and the record is dropped
	commodityID, ok := e.resolver.CommodityID(slug)
	if !ok && e.resolver.ReferenceLoaded() {
		logger.Warnf(ctx, "commodity slug %q missing from reference table, skipping record", slug)
		return
	}

	price, err := strconv.ParseInt(strings.TrimSpace(priceStr), 10, 64)
	if err != nil || price <= 0 {
		logger.Warnf(ctx, "unparseable price %q for slug %q", priceStr, slug)
		return
	}

	*out = append(*out, domain.PriceObservation{
		CommodityID:   commodityID,
		CommoditySlug: slug,
		ProvinceID:    provinceID,
		Price:         price,
		MarketType:    constants.MarketTraditional,
		Date:          date,
		Source:        constants.SourceBI,
	})
}
