package ingest

import (
	"context"
	"fmt"

	"github.com/panganid/pangan-ingest/internal/pkg/store"
)

// ExternalCommodity pairs a BI commodity id with our canonical slug.
type ExternalCommodity struct {
	ExternalID string
	Slug       string
}

// biCommodities lists every commodity the PIHPS grid endpoint serves,
// in fetch order. Curated against GetRefCommodityAndCategory.
var biCommodities = []ExternalCommodity{
	{"com_1", "beras-kualitas-bawah-i"},
	{"com_2", "beras-kualitas-bawah-ii"},
	{"com_3", "beras-kualitas-medium-i"},
	{"com_4", "beras-kualitas-medium-ii"},
	{"com_5", "beras-kualitas-super-i"},
	{"com_6", "beras-kualitas-super-ii"},
	{"com_7", "daging-ayam-ras-segar"},
	{"com_8", "daging-sapi-kualitas-1"},
	{"com_9", "daging-sapi-kualitas-2"},
	{"com_10", "telur-ayam-ras-segar"},
	{"com_11", "bawang-merah-ukuran-sedang"},
	{"com_12", "bawang-putih-ukuran-sedang"},
	{"com_13", "cabai-merah-besar"},
	{"com_14", "cabai-merah-keriting"},
	{"com_15", "cabai-rawit-hijau"},
	{"com_16", "cabai-rawit-merah"},
	{"com_17", "minyak-goreng-curah"},
	{"com_18", "minyak-goreng-kemasan-bermerek-1"},
	{"com_19", "minyak-goreng-kemasan-bermerek-2"},
	{"com_20", "gula-pasir-kualitas-premium"},
	{"com_21", "gula-pasir-lokal"},
}

// biProvinceCodes maps BI display names (including known spelling
// variants) to BPS province codes.
var biProvinceCodes = map[string]string{
	"Aceh":                        "11",
	"Sumatera Utara":              "12",
	"Sumatera Barat":              "13",
	"Riau":                        "14",
	"Kepulauan Riau":              "21",
	"Jambi":                       "15",
	"Bengkulu":                    "17",
	"Sumatera Selatan":            "16",
	"Kep. Bangka Belitung":        "19",
	"Kepulauan Bangka Belitung":   "19",
	"Lampung":                     "18",
	"Banten":                      "36",
	"Jawa Barat":                  "32",
	"DKI Jakarta":                 "31",
	"Jawa Tengah":                 "33",
	"DI Yogyakarta":               "34",
	"Jawa Timur":                  "35",
	"Bali":                        "51",
	"Nusa Tenggara Barat":         "52",
	"Nusa Tenggara Timur":         "53",
	"Kalimantan Barat":            "61",
	"Kalimantan Selatan":          "63",
	"Kalimantan Tengah":           "62",
	"Kalimantan Timur":            "64",
	"Kalimantan Utara":            "65",
	"Gorontalo":                   "75",
	"Sulawesi Selatan":            "73",
	"Sulawesi Tenggara":           "74",
	"Sulawesi Tengah":             "72",
	"Sulawesi Utara":              "71",
	"Sulawesi Barat":              "76",
	"Maluku":                      "81",
	"Maluku Utara":                "82",
	"Papua":                       "91",
	"Papua Barat":                 "92",
	"Papua Barat Daya":            "96",
	"Papua Selatan":               "93",
	"Papua Tengah":                "94",
	"Papua Pegunungan":            "95",
}

// Resolver translates external source identifiers into canonical ones.
// The static tables are fixed at construction; the slug -> id table is
// loaded once per run from the store.
type Resolver struct {
	provinceCodes  map[string]string
	commoditySlugs map[string]string
	knownSlugs     map[string]struct{}
	slugIDs        map[string]int64
}

func NewResolver() *Resolver {
	slugs := make(map[string]string, len(biCommodities))
	known := make(map[string]struct{}, len(biCommodities))
	for _, c := range biCommodities {
		slugs[c.ExternalID] = c.Slug
		known[c.Slug] = struct{}{}
	}

	return &Resolver{
		provinceCodes:  biProvinceCodes,
		commoditySlugs: slugs,
		knownSlugs:     known,
	}
}

// Commodities returns the fetch list in its curated order.
func (r *Resolver) Commodities() []ExternalCommodity {
	return biCommodities
}

func (r *Resolver) ResolveProvince(displayName string) (string, bool) {
	code, ok := r.provinceCodes[displayName]
	return code, ok
}

func (r *Resolver) ResolveCommodity(externalID string) (string, bool) {
	slug, ok := r.commoditySlugs[externalID]
	return slug, ok
}

// KnownSlug reports whether slug belongs to the curated commodity set.
// Unlike CommodityID it needs no database round trip.
func (r *Resolver) KnownSlug(slug string) bool {
	_, ok := r.knownSlugs[slug]
	return ok
}

// ReferenceLoaded reports whether a slug -> id table was loaded for this
// run. While false, ids are allowed to stay zero; once true, a slug absent
// from the table cannot be stored and must be skipped.
func (r *Resolver) ReferenceLoaded() bool {
	return r.slugIDs != nil
}

// CommodityID returns the numeric id for a slug, once LoadSlugIDs ran.
func (r *Resolver) CommodityID(slug string) (int64, bool) {
	id, ok := r.slugIDs[slug]
	return id, ok
}

// SlugForID is the reverse lookup over the loaded reference table.
func (r *Resolver) SlugForID(id int64) (string, bool) {
	for slug, known := range r.slugIDs {
		if known == id {
			return slug, true
		}
	}
	return "", false
}

// LoadSlugIDs fetches the commodity reference table and builds the
// slug -> id lookup. Must complete before any upsert referencing ids.
func (r *Resolver) LoadSlugIDs(ctx context.Context, st store.Store) error {
	commodities, err := st.ListCommodities(ctx)
	if err != nil {
		return fmt.Errorf("store.ListCommodities: %w", err)
	}

	r.slugIDs = make(map[string]int64, len(commodities))
	for _, c := range commodities {
		r.slugIDs[c.Slug] = c.ID
	}

	return nil
}

// SetSlugIDs injects a prebuilt lookup, used by tests.
func (r *Resolver) SetSlugIDs(slugIDs map[string]int64) {
	r.slugIDs = slugIDs
}
