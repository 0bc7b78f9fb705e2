package ingest

import "testing"

func TestResolveProvinceVariants(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"DKI Jakarta", "31", true},
		{"Kep. Bangka Belitung", "19", true},
		{"Kepulauan Bangka Belitung", "19", true},
		{"Papua Pegunungan", "95", true},
		{"Jawa Timur", "35", true},
		{"Atlantis", "", false},
		{"Semua Provinsi", "", false},
	}

	for _, tt := range tests {
		got, ok := r.ResolveProvince(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ResolveProvince(%q) = (%q, %v); want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveCommodity(t *testing.T) {
	r := NewResolver()

	if slug, ok := r.ResolveCommodity("com_1"); !ok || slug != "beras-kualitas-bawah-i" {
		t.Errorf("ResolveCommodity(com_1) = (%q, %v)", slug, ok)
	}
	if slug, ok := r.ResolveCommodity("com_21"); !ok || slug != "gula-pasir-lokal" {
		t.Errorf("ResolveCommodity(com_21) = (%q, %v)", slug, ok)
	}
	if _, ok := r.ResolveCommodity("com_99"); ok {
		t.Error("ResolveCommodity(com_99) should not resolve")
	}
}

func TestCommodityIDLookup(t *testing.T) {
	r := testResolver()

	if id, ok := r.CommodityID("beras-kualitas-bawah-i"); !ok || id != 1 {
		t.Errorf("CommodityID = (%d, %v)", id, ok)
	}
	if _, ok := r.CommodityID("tidak-ada"); ok {
		t.Error("unknown slug should not resolve to an id")
	}
	if slug, ok := r.SlugForID(21); !ok || slug != "gula-pasir-lokal" {
		t.Errorf("SlugForID(21) = (%q, %v)", slug, ok)
	}
}

func TestKnownSlug(t *testing.T) {
	r := NewResolver()

	if !r.KnownSlug("cabai-rawit-merah") {
		t.Error("curated slug not recognized")
	}
	if r.KnownSlug("komoditas-tak-dikenal") {
		t.Error("unknown slug recognized")
	}
}

func TestCommoditiesListIsComplete(t *testing.T) {
	r := NewResolver()

	commodities := r.Commodities()
	if len(commodities) != 21 {
		t.Fatalf("fetch list has %d commodities, want 21", len(commodities))
	}

	seen := make(map[string]struct{})
	for _, c := range commodities {
		if _, dup := seen[c.Slug]; dup {
			t.Errorf("duplicate slug %q in fetch list", c.Slug)
		}
		seen[c.Slug] = struct{}{}
	}
}
