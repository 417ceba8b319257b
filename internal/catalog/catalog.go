package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Product is one catalog entry for a product code.
type Product struct {
	UnitPrice float64 `json:"unit_price"`
}

// Catalog maps a lower-cased product code to its catalog entry.
type Catalog map[string]Product

// UnitPrice returns the configured unit cost for a code. Codes missing from
// the catalog cost 0; the second return value lets callers surface the gap
// instead of silently understating cost of goods.
func (c Catalog) UnitPrice(code string) (float64, bool) {
	product, ok := c[strings.ToLower(code)]
	return product.UnitPrice, ok
}

type brandFile struct {
	Products map[string]Product `json:"products"`
}

// Store loads per-brand product catalogs from a configuration directory.
// Each <stem>.json file holds the catalog of one brand.
type Store struct {
	configDir string
}

func NewStore(configDir string) *Store {
	return &Store{configDir: configDir}
}

// LoadMerged loads every brand catalog and merges them into one. Files are
// merged in lexical path order and later files overwrite earlier ones on key
// collision (last-write-wins); this order is part of the contract.
func (s *Store) LoadMerged() (Catalog, error) {
	paths, err := s.catalogPaths()
	if err != nil {
		return nil, err
	}

	merged := make(Catalog)
	for _, path := range paths {
		catalog, err := loadCatalogFile(path)
		if err != nil {
			return nil, err
		}
		for code, product := range catalog {
			merged[code] = product
		}
	}

	return merged, nil
}

// LoadBrand loads the catalog of a single brand by catalog stem.
func (s *Store) LoadBrand(stem string) (Catalog, error) {
	return loadCatalogFile(filepath.Join(s.configDir, stem+".json"))
}

// InferBrand resolves the brand of a dataset that has no brand column. The
// fingerprint is the product-code prefix of the first campaign entry: each
// campaign is named "<product code> | <campaign title>", and the code is
// looked up against every brand catalog. Returns the brand display name, or
// empty if no catalog claims the code.
func (s *Store) InferBrand(table *domain.Table) string {
	if !table.HasColumn(domain.ColCampaign) || table.Empty() {
		return ""
	}

	campaign := table.Rows[0][domain.ColCampaign]
	code := strings.ToLower(strings.TrimSpace(strings.SplitN(campaign, " | ", 2)[0]))
	if code == "" {
		return ""
	}

	paths, err := s.catalogPaths()
	if err != nil {
		logrus.WithError(err).Warn("catalog: cannot list brand catalogs for inference")
		return ""
	}

	for _, path := range paths {
		catalog, err := loadCatalogFile(path)
		if err != nil {
			logrus.WithError(err).WithField("catalog", path).Warn("catalog: skipping unreadable catalog")
			continue
		}
		if _, ok := catalog[code]; ok {
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			return domain.BrandForCatalogStem(stem)
		}
	}

	logrus.WithField("product_code", code).Warn("catalog: brand could not be inferred")
	return ""
}

func (s *Store) catalogPaths() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.configDir, "*.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "listing catalogs in %s", s.configDir)
	}
	sort.Strings(paths)
	return paths, nil
}

func loadCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog %s", path)
	}

	var file brandFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "decoding catalog %s", path)
	}

	catalog := make(Catalog, len(file.Products))
	for code, product := range file.Products {
		catalog[strings.ToLower(code)] = product
	}

	return catalog, nil
}
