package domain

import "strings"

// Brands the seller operates on the marketplace, keyed by catalog stem. The
// display name is the value found in the export's brand column.
var brandDisplayNames = map[string]string{
	"alura": "ALURA store",
	"rossa": "ALURA Fashion",
}

// KnownBrands returns the display names of every configured brand.
func KnownBrands() []string {
	names := make([]string, 0, len(brandDisplayNames))
	for _, name := range brandDisplayNames {
		names = append(names, name)
	}
	return names
}

// BrandForCatalogStem resolves a catalog file stem (e.g. "alura") to the
// brand display name used in export files. Unknown stems resolve to
// themselves so new catalogs keep working without a code change.
func BrandForCatalogStem(stem string) string {
	if name, ok := brandDisplayNames[strings.ToLower(stem)]; ok {
		return name
	}
	return stem
}

// IsKnownBrand reports whether the given display name belongs to a
// configured brand.
func IsKnownBrand(name string) bool {
	for _, display := range brandDisplayNames {
		if display == name {
			return true
		}
	}
	return false
}
