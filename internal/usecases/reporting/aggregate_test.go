package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	currencymocks "github.com/vfg2006/marketplace-report-api/infrastructure/currency/mocks"
	"github.com/vfg2006/marketplace-report-api/internal/catalog"
	"github.com/vfg2006/marketplace-report-api/internal/config"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Report: config.Report{
			CommissionRate: 0.20,
			UpsellRate:     0.05,
		},
	}
}

func identityConverter(t *testing.T) *currencymocks.MockConverter {
	t.Helper()
	ctrl := gomock.NewController(t)
	converter := currencymocks.NewMockConverter(ctrl)
	converter.EXPECT().Convert(gomock.Any()).DoAndReturn(func(amount float64) float64 {
		return amount
	}).AnyTimes()
	return converter
}

func testProducts() catalog.Catalog {
	return catalog.Catalog{
		"dress-01": {UnitPrice: 450},
	}
}

// fullSalesTable builds the sales rows shared by the aggregation tests:
// two sales and one return of dress-01 at 1000 each, one unattributed
// penalty row and the subscription withholding row.
func fullSalesTable() *domain.Table {
	table := domain.NewTable([]string{
		domain.ColSupplierArticle, domain.ColPaymentReason, domain.ColRetailPrice,
		domain.ColAcquiringFee, domain.ColPayout, domain.ColDeliveryServices,
		domain.ColPenaltyKind, domain.ColTotalPenalties, domain.ColWithholdings,
		domain.ColPaidAcceptance, domain.ColStorageFee,
	})

	table.Append(domain.Row{
		domain.ColSupplierArticle: "dress-01", domain.ColPaymentReason: domain.OutcomeSale,
		domain.ColRetailPrice: "1000", domain.ColAcquiringFee: "15", domain.ColPayout: "900",
		domain.ColDeliveryServices: "50", domain.ColPenaltyKind: "Штраф за габариты",
		domain.ColTotalPenalties: "25", domain.ColPaidAcceptance: "10", domain.ColStorageFee: "15",
	})
	table.Append(domain.Row{
		domain.ColSupplierArticle: "dress-01", domain.ColPaymentReason: domain.OutcomeSale,
		domain.ColRetailPrice: "1000", domain.ColAcquiringFee: "15", domain.ColPayout: "900",
		domain.ColDeliveryServices: "50",
	})
	table.Append(domain.Row{
		domain.ColSupplierArticle: "dress-01", domain.ColPaymentReason: domain.OutcomeReturn,
		domain.ColRetailPrice: "1000", domain.ColAcquiringFee: "15", domain.ColPayout: "900",
		domain.ColDeliveryServices: "50",
	})
	// Penalty row not attributed to any product code.
	table.Append(domain.Row{
		domain.ColPenaltyKind: "Прочие удержания", domain.ColTotalPenalties: "100",
	})
	// Subscription and promo withholdings.
	table.Append(domain.Row{
		domain.ColPenaltyKind: domain.WithholdingKindJam, domain.ColWithholdings: "40",
	})
	table.Append(domain.Row{
		domain.ColPenaltyKind: domain.WithholdingKindWBPromo, domain.ColWithholdings: "20",
	})

	return table
}

func fullAdsTable() *domain.Table {
	table := domain.NewTable([]string{domain.ColCampaign, domain.ColDebitDate, domain.ColAdAmount})
	table.Append(domain.Row{domain.ColCampaign: "Dress-01 | Spring push", domain.ColAdAmount: "100"})
	table.Append(domain.Row{domain.ColCampaign: "Other-99 | Unrelated", domain.ColAdAmount: "50"})
	return table
}

func fullStorageTable() *domain.Table {
	table := domain.NewTable([]string{domain.ColSellerArticle, domain.ColStorageDate, domain.ColStorageAmount})
	table.Append(domain.Row{domain.ColSellerArticle: "dress-01", domain.ColStorageAmount: "30"})
	table.Append(domain.Row{domain.ColSellerArticle: "dress-01", domain.ColStorageAmount: "20"})
	return table
}

func TestAggregateSummary(t *testing.T) {
	aggregator := NewAggregator(testConfig(), identityConverter(t))
	data := &FilteredData{Sales: fullSalesTable(), Ads: fullAdsTable()}

	aggregates := aggregator.AggregateSummary(data, testProducts())
	require.Len(t, aggregates, 1)

	agg := aggregates[0]
	assert.Equal(t, "dress-01", agg.ProductCode)
	assert.Equal(t, 1, agg.SalesCount) // 2 sales - 1 return
	assert.InDelta(t, 1000.0, agg.NetRevenue, 0.001)
	assert.InDelta(t, 200.0, agg.CommissionWB, 0.001)
	assert.InDelta(t, 15.0, agg.AcquiringFee, 0.001)
	assert.InDelta(t, 900.0, agg.PayoutAmount, 0.001)
	assert.InDelta(t, 150.0, agg.LogisticsCost, 0.001)
	assert.InDelta(t, 450.0, agg.CostOfGoods, 0.001)
	assert.InDelta(t, 50.0, agg.UpsellFee, 0.001)
	assert.True(t, agg.CostKnown)
}

func TestAggregateSummaryUnknownCost(t *testing.T) {
	aggregator := NewAggregator(testConfig(), identityConverter(t))
	data := &FilteredData{Sales: fullSalesTable(), Ads: fullAdsTable()}

	aggregates := aggregator.AggregateSummary(data, catalog.Catalog{})
	require.Len(t, aggregates, 1)

	assert.False(t, aggregates[0].CostKnown)
	assert.Zero(t, aggregates[0].CostOfGoods)
}

func TestAggregateDetailed(t *testing.T) {
	aggregator := NewAggregator(testConfig(), identityConverter(t))
	data := &FilteredData{Sales: fullSalesTable(), Ads: fullAdsTable(), Storage: fullStorageTable()}

	aggregates, counts := aggregator.AggregateDetailed(data, testProducts())
	require.Len(t, aggregates, 1)

	agg := aggregates[0]
	assert.InDelta(t, 50.0, agg.StorageCost, 0.001)
	// Attributed penalties plus the whole unattributed share (single code).
	assert.InDelta(t, 125.0, agg.Penalties, 0.001)
	assert.InDelta(t, 40.0, agg.Withholdings, 0.001)
	assert.InDelta(t, 10.0, agg.ReceivingFee, 0.001)
	// Only the campaign containing the product code counts.
	assert.InDelta(t, 100.0, agg.AdSpend, 0.001)

	// 1000 - 200 - 15 - 150 - 50 - 125 - 40 - 10
	assert.InDelta(t, 410.0, agg.ToBank, 0.001)
	// 410 - 100 - 450 - 50
	assert.InDelta(t, -190.0, agg.NetProfit, 0.001)

	assert.Equal(t, "100.00%", agg.BuyoutRatePct)
	assert.Equal(t, 1, counts.numerator)
	assert.Equal(t, 1, counts.denominator)
}

func TestAggregateDetailedBuyoutWithCancellations(t *testing.T) {
	sales := fullSalesTable()
	sales.Append(domain.Row{
		domain.ColSupplierArticle: "dress-01", domain.ColPaymentReason: domain.OutcomeCancel,
	})

	aggregator := NewAggregator(testConfig(), identityConverter(t))
	data := &FilteredData{Sales: sales, Ads: fullAdsTable(), Storage: fullStorageTable()}

	aggregates, counts := aggregator.AggregateDetailed(data, testProducts())
	require.Len(t, aggregates, 1)

	// 1 kept out of 1 kept + 1 canceled.
	assert.Equal(t, "50.00%", aggregates[0].BuyoutRatePct)
	assert.Equal(t, 1, counts.numerator)
	assert.Equal(t, 2, counts.denominator)
}

func TestApplyPercentages(t *testing.T) {
	aggregates := []domain.ProductAggregate{
		{
			ProductCode: "dress-01", NetRevenue: 1000, LogisticsCost: 150,
			StorageCost: 50, AdSpend: 100, CostOfGoods: 450, NetProfit: -190,
		},
	}

	ApplyPercentages(aggregates)

	agg := aggregates[0]
	assert.Equal(t, "100.00%", agg.RevenueSharePct)
	assert.Equal(t, "15.00%", agg.LogisticsPct)
	assert.Equal(t, "5.00%", agg.StorageOfOwnPct)
	assert.Equal(t, "100.00%", agg.StorageOfTotalPct)
	assert.Equal(t, "10.00%", agg.AdSpendPct)
	assert.Equal(t, "45.00%", agg.CostPct)
	assert.Equal(t, "-19.00%", agg.NetProfitPct)
}

func TestApplyPercentagesZeroDenominators(t *testing.T) {
	aggregates := []domain.ProductAggregate{
		{ProductCode: "dress-01"},
	}

	ApplyPercentages(aggregates)

	agg := aggregates[0]
	assert.Empty(t, agg.RevenueSharePct)
	assert.Empty(t, agg.LogisticsPct)
	assert.Empty(t, agg.StorageOfOwnPct)
	assert.Empty(t, agg.StorageOfTotalPct)
	assert.Empty(t, agg.NetProfitPct)
}

func TestFinesBreakdown(t *testing.T) {
	aggregator := NewAggregator(testConfig(), identityConverter(t))

	fines := aggregator.FinesBreakdown(fullSalesTable())
	require.Len(t, fines, 2)

	assert.Equal(t, "Штраф за габариты", fines[0].Kind)
	assert.InDelta(t, 25.0, fines[0].Amount, 0.001)
	assert.Equal(t, "Прочие удержания", fines[1].Kind)
	assert.InDelta(t, 100.0, fines[1].Amount, 0.001)
}

func TestSummaryTotals(t *testing.T) {
	aggregator := NewAggregator(testConfig(), identityConverter(t))
	data := &FilteredData{Sales: fullSalesTable(), Ads: fullAdsTable()}

	aggregates := aggregator.AggregateSummary(data, testProducts())
	fines := aggregator.FinesBreakdown(data.Sales)
	totals := aggregator.SummaryTotals(data, aggregates, fines)

	assert.InDelta(t, 15.0, totals.StorageTotal, 0.001)
	assert.InDelta(t, 40.0, totals.JamWithholding, 0.001)
	assert.InDelta(t, 20.0, totals.WBPromoSpend, 0.001)
	assert.InDelta(t, 10.0, totals.ReceivingTotal, 0.001)
	// Converted raw ad spend minus the withholdings already billed through
	// the marketplace account: 150 - 40 - 20.
	assert.InDelta(t, 90.0, totals.OwnAccountAds, 0.001)
	// 900 payout - 150 logistics - 15 storage - 125 fines - 40 jam - 20 promo.
	assert.InDelta(t, 550.0, totals.TransferredToBank, 0.001)
}
