package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketplace-report-api/internal/catalog"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

func testPeriod(t *testing.T, start, end string) domain.Period {
	t.Helper()
	startDate, err := time.Parse(time.DateOnly, start)
	require.NoError(t, err)
	endDate, err := time.Parse(time.DateOnly, end)
	require.NoError(t, err)
	period, err := domain.NewPeriod(startDate, endDate)
	require.NoError(t, err)
	return period
}

func testCatalogStore(t *testing.T) *catalog.Store {
	t.Helper()
	dir := t.TempDir()
	content := `{"products": {"Dress-01": {"unit_price": 450}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alura.json"), []byte(content), 0o644))
	return catalog.NewStore(dir)
}

func salesTable(rows ...domain.Row) *domain.Table {
	table := domain.NewTable([]string{
		domain.ColBrand, domain.ColSupplierArticle, domain.ColPaymentReason,
		domain.ColSaleDate, domain.ColOrderDate, domain.ColRetailPrice,
	})
	for _, row := range rows {
		table.Append(row)
	}
	return table
}

func adsTable(rows ...domain.Row) *domain.Table {
	table := domain.NewTable([]string{domain.ColCampaign, domain.ColDebitDate, domain.ColAdAmount})
	for _, row := range rows {
		table.Append(row)
	}
	return table
}

func TestFilterBrandAndPeriod(t *testing.T) {
	filter := NewPeriodFilter(testCatalogStore(t))
	period := testPeriod(t, "2025-03-10", "2025-03-16")

	sales := salesTable(
		domain.Row{domain.ColBrand: "ALURA store", domain.ColSaleDate: "2025-03-12", domain.ColSupplierArticle: "dress-01"},
		domain.Row{domain.ColBrand: "ALURA store", domain.ColSaleDate: "2025-03-01", domain.ColSupplierArticle: "dress-01"},
		domain.Row{domain.ColBrand: "ALURA Fashion", domain.ColSaleDate: "2025-03-12", domain.ColSupplierArticle: "skirt-02"},
	)
	ads := adsTable(
		domain.Row{domain.ColCampaign: "Dress-01 | Spring", domain.ColDebitDate: "2025-03-16 23:30", domain.ColAdAmount: "100"},
		domain.Row{domain.ColCampaign: "Dress-01 | Spring", domain.ColDebitDate: "2025-03-17 00:10", domain.ColAdAmount: "50"},
	)

	data, err := filter.Filter([]NormalizedFile{
		{Kind: domain.FileKindPrimarySales, Path: "main_data/sales.xlsx", Table: sales},
		{Kind: domain.FileKindAdvertisingSpend, Path: "reklama/ads.xlsx", Table: ads},
	}, "ALURA store", period)
	require.NoError(t, err)

	// Brand and date scoping: other brand and out-of-period rows are gone.
	require.Len(t, data.Sales.Rows, 1)
	assert.Equal(t, "2025-03-12", data.Sales.Rows[0][domain.ColSaleDate])

	// The advertising cutoff is exclusive at end + 1 day: 23:30 on the last
	// day stays, 00:10 past it does not.
	require.Len(t, data.Ads.Rows, 1)
	assert.Equal(t, "2025-03-16 23:30", data.Ads.Rows[0][domain.ColDebitDate])

	assert.Nil(t, data.Storage)
}

func TestFilterSalesKeepsRowWhenAnyDateColumnMatches(t *testing.T) {
	filter := NewPeriodFilter(testCatalogStore(t))
	period := testPeriod(t, "2025-03-10", "2025-03-16")

	sales := salesTable(
		// Sale date outside the period, order date inside: kept.
		domain.Row{domain.ColBrand: "ALURA store", domain.ColSaleDate: "2025-03-20", domain.ColOrderDate: "2025-03-15"},
	)
	ads := adsTable(
		domain.Row{domain.ColCampaign: "Dress-01 | Spring", domain.ColDebitDate: "2025-03-12 10:00", domain.ColAdAmount: "10"},
	)

	data, err := filter.Filter([]NormalizedFile{
		{Kind: domain.FileKindPrimarySales, Path: "sales.xlsx", Table: sales},
		{Kind: domain.FileKindAdvertisingSpend, Path: "ads.xlsx", Table: ads},
	}, "ALURA store", period)
	require.NoError(t, err)

	assert.Len(t, data.Sales.Rows, 1)
}

func TestFilterInfersBrandForAdsWithoutBrandColumn(t *testing.T) {
	filter := NewPeriodFilter(testCatalogStore(t))
	period := testPeriod(t, "2025-03-10", "2025-03-16")

	sales := salesTable(
		domain.Row{domain.ColBrand: "ALURA Fashion", domain.ColSaleDate: "2025-03-12"},
	)
	// The campaign code belongs to the alura catalog, so the whole ads file
	// is attributed to "ALURA store" and skipped for "ALURA Fashion".
	ads := adsTable(
		domain.Row{domain.ColCampaign: "Dress-01 | Spring", domain.ColDebitDate: "2025-03-12 10:00", domain.ColAdAmount: "10"},
	)

	_, err := filter.Filter([]NormalizedFile{
		{Kind: domain.FileKindPrimarySales, Path: "sales.xlsx", Table: sales},
		{Kind: domain.FileKindAdvertisingSpend, Path: "ads.xlsx", Table: ads},
	}, "ALURA Fashion", period)

	assert.ErrorIs(t, err, ErrNoDataForPeriod)
}

func TestFilterDeduplicatesAcrossFiles(t *testing.T) {
	filter := NewPeriodFilter(testCatalogStore(t))
	period := testPeriod(t, "2025-03-10", "2025-03-16")

	row := domain.Row{
		domain.ColBrand: "ALURA store", domain.ColSaleDate: "2025-03-12",
		domain.ColSupplierArticle: "dress-01", domain.ColRetailPrice: "1000",
	}
	ads := adsTable(
		domain.Row{domain.ColCampaign: "Dress-01 | Spring", domain.ColDebitDate: "2025-03-12 10:00", domain.ColAdAmount: "10"},
	)

	data, err := filter.Filter([]NormalizedFile{
		{Kind: domain.FileKindPrimarySales, Path: "a.xlsx", Table: salesTable(row)},
		{Kind: domain.FileKindPrimarySales, Path: "b.xlsx", Table: salesTable(row)},
		{Kind: domain.FileKindAdvertisingSpend, Path: "ads.xlsx", Table: ads},
	}, "ALURA store", period)
	require.NoError(t, err)

	// The overlapping export row survives exactly once.
	assert.Len(t, data.Sales.Rows, 1)
}

func TestFilterIsIdempotent(t *testing.T) {
	filter := NewPeriodFilter(testCatalogStore(t))
	period := testPeriod(t, "2025-03-10", "2025-03-16")

	files := []NormalizedFile{
		{Kind: domain.FileKindPrimarySales, Path: "sales.xlsx", Table: salesTable(
			domain.Row{domain.ColBrand: "ALURA store", domain.ColSaleDate: "2025-03-12", domain.ColSupplierArticle: "dress-01"},
		)},
		{Kind: domain.FileKindAdvertisingSpend, Path: "ads.xlsx", Table: adsTable(
			domain.Row{domain.ColCampaign: "Dress-01 | Spring", domain.ColDebitDate: "2025-03-12 10:00", domain.ColAdAmount: "10"},
		)},
	}

	first, err := filter.Filter(files, "ALURA store", period)
	require.NoError(t, err)

	// Filtering the already-filtered data again changes nothing.
	second, err := filter.Filter([]NormalizedFile{
		{Kind: domain.FileKindPrimarySales, Path: "sales.xlsx", Table: first.Sales},
		{Kind: domain.FileKindAdvertisingSpend, Path: "ads.xlsx", Table: first.Ads},
	}, "ALURA store", period)
	require.NoError(t, err)

	assert.Equal(t, first.Sales.Rows, second.Sales.Rows)
	assert.Equal(t, first.Ads.Rows, second.Ads.Rows)
}

func TestFilterNoMandatoryData(t *testing.T) {
	filter := NewPeriodFilter(testCatalogStore(t))
	period := testPeriod(t, "2025-03-10", "2025-03-16")

	sales := salesTable(
		domain.Row{domain.ColBrand: "ALURA store", domain.ColSaleDate: "2025-03-12"},
	)

	// Sales present but no advertising data at all.
	_, err := filter.Filter([]NormalizedFile{
		{Kind: domain.FileKindPrimarySales, Path: "sales.xlsx", Table: sales},
	}, "ALURA store", period)

	assert.ErrorIs(t, err, ErrNoDataForPeriod)
}
