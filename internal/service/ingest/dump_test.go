package ingest

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf16"
)

const dumpFixture = `-- captured 2026-02-28
INSERT INTO prices (commodity_id, province_id, price, market_type, date, source) SELECT id, '31', 12000, 'traditional', '2026-02-26', 'bi' FROM commodities WHERE slug='beras-kualitas-bawah-i' ON CONFLICT (commodity_id,province_id,date,market_type,source) DO UPDATE SET price=EXCLUDED.price;
INSERT INTO prices (commodity_id, province_id, price, market_type, date, source) SELECT id, '32', 11500, 'traditional', '2026-02-26', 'bi' FROM commodities WHERE slug='komoditas-tak-dikenal' ON CONFLICT (commodity_id,province_id,date,market_type,source) DO UPDATE SET price=EXCLUDED.price;
SQL output complete.
`

func TestDumpExtractorSingleRowStatements(t *testing.T) {
	e := NewDumpExtractor(testResolver())

	got, err := e.Extract(context.Background(), strings.NewReader(dumpFixture))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// the unknown slug and the boilerplate lines are skipped
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	rec := got[0]
	if rec.CommodityID != 1 || rec.ProvinceID != "31" || rec.Price != 12000 || rec.Date != "2026-02-26" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestDumpExtractorValuesStatements(t *testing.T) {
	e := NewDumpExtractor(testResolver())

	line := "INSERT INTO prices (commodity_id,province_id,price,market_type,date,source) " +
		"SELECT c.id,v.pid,v.price,'traditional',v.d,'bi' " +
		"FROM (VALUES ('31',12000,'2026-02-26'::date),('32',11800,'2026-02-27'::date)) AS v(pid,price,d) " +
		"CROSS JOIN commodities c WHERE c.slug='gula-pasir-lokal' " +
		"ON CONFLICT (commodity_id,province_id,date,market_type,source) DO UPDATE SET price=EXCLUDED.price;"

	got, err := e.Extract(context.Background(), strings.NewReader(line))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].CommodityID != 21 || got[1].CommodityID != 21 {
		t.Errorf("commodity ids = %d, %d; want 21", got[0].CommodityID, got[1].CommodityID)
	}
	if got[1].ProvinceID != "32" || got[1].Price != 11800 || got[1].Date != "2026-02-27" {
		t.Errorf("unexpected second record: %+v", got[1])
	}
}

func TestDumpExtractorWithoutReferenceTable(t *testing.T) {
	// the statement-output path runs without a database, so no slug -> id
	// table is ever loaded; records must still come through
	e := NewDumpExtractor(NewResolver())

	got, err := e.Extract(context.Background(), strings.NewReader(dumpFixture))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].CommodityID != 0 {
		t.Errorf("commodity id = %d, want 0 before reference load", got[0].CommodityID)
	}
	if got[0].CommoditySlug != "beras-kualitas-bawah-i" {
		t.Errorf("slug = %q", got[0].CommoditySlug)
	}
}

func TestDumpExtractorSkipsSlugMissingFromReference(t *testing.T) {
	// curated slug, but absent from the loaded reference table: there is
	// no commodity row to reference, so the record must be dropped
	r := NewResolver()
	r.SetSlugIDs(map[string]int64{"gula-pasir-lokal": 21})
	e := NewDumpExtractor(r)

	got, err := e.Extract(context.Background(), strings.NewReader(dumpFixture))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d records, want 0", len(got))
	}
}

func TestDumpExtractorUTF16Input(t *testing.T) {
	line := "INSERT INTO prices (commodity_id, province_id, price, market_type, date, source) " +
		"SELECT id, '31', 12000, 'traditional', '2026-02-26', 'bi' FROM commodities " +
		"WHERE slug='beras-kualitas-bawah-i' ON CONFLICT (commodity_id,province_id,date,market_type,source) " +
		"DO UPDATE SET price=EXCLUDED.price;\n"

	// PowerShell redirects write UTF-16LE with a BOM
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	for _, u := range utf16.Encode([]rune(line)) {
		buf.WriteByte(byte(u))
		buf.WriteByte(byte(u >> 8))
	}

	e := NewDumpExtractor(testResolver())
	got, err := e.Extract(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records from UTF-16 dump, want 1", len(got))
	}
	if got[0].Price != 12000 {
		t.Errorf("price = %d, want 12000", got[0].Price)
	}
}
