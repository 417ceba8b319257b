package reporting

import (
	"fmt"
	"strings"

	"github.com/vfg2006/marketplace-report-api/infrastructure/currency"
	"github.com/vfg2006/marketplace-report-api/internal/catalog"
	"github.com/vfg2006/marketplace-report-api/internal/config"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
	"github.com/vfg2006/marketplace-report-api/pkg/utils"
)

// Aggregator computes the per-product-code financial rollup. Absolute
// amounts are computed in a first pass; percentage columns need every
// code's absolutes and are derived in a second pass (ApplyPercentages).
type Aggregator struct {
	commissionRate float64
	upsellRate     float64
	converter      currency.Converter
}

func NewAggregator(cfg *config.Config, converter currency.Converter) *Aggregator {
	return &Aggregator{
		commissionRate: cfg.Report.CommissionRate,
		upsellRate:     cfg.Report.UpsellRate,
		converter:      converter,
	}
}

// buyoutCounts carries the shipped/returned/canceled event counts the
// buyout rate is derived from. The brand-level rate is numerator-sum over
// denominator-sum, not an average of per-code rates.
type buyoutCounts struct {
	numerator   int // shipped - returned
	denominator int // shipped - returned + canceled
}

// AggregateDetailed computes the full per-code rollup. The code set is the
// one tracked by the storage report; penalty and withholding even-splits
// use the distinct-code counts mandated for each (sales codes for
// unattributed penalties, storage codes for the subscription withholding).
func (a *Aggregator) AggregateDetailed(data *FilteredData, products catalog.Catalog) ([]domain.ProductAggregate, buyoutCounts) {
	codes := distinctValues(data.Storage, domain.ColSellerArticle)
	salesCodeCount := len(distinctValues(data.Sales, domain.ColSupplierArticle))

	unattributedPenalties := sumRows(data.Sales, domain.ColTotalPenalties, func(row domain.Row) bool {
		return strings.TrimSpace(row[domain.ColSupplierArticle]) == ""
	})

	jamTotal := sumRows(data.Sales, domain.ColWithholdings, func(row domain.Row) bool {
		return row[domain.ColPenaltyKind] == domain.WithholdingKindJam
	})

	// Even splits, computed once per report and reused per code.
	var penaltyShare, withholdingShare float64
	if salesCodeCount > 0 {
		penaltyShare = unattributedPenalties / float64(salesCodeCount)
	}
	if len(codes) > 0 {
		withholdingShare = jamTotal / float64(len(codes))
	}

	aggregates := make([]domain.ProductAggregate, 0, len(codes))
	totals := buyoutCounts{}

	for _, code := range codes {
		agg := a.aggregateSales(code, data.Sales, products)

		agg.StorageCost = a.converter.Convert(sumRows(data.Storage, domain.ColStorageAmount, func(row domain.Row) bool {
			return strings.EqualFold(row[domain.ColSellerArticle], code)
		}))

		agg.Penalties = sumRows(data.Sales, domain.ColTotalPenalties, func(row domain.Row) bool {
			return strings.EqualFold(row[domain.ColSupplierArticle], code)
		}) + penaltyShare

		agg.Withholdings = utils.RoundWithTwoDecimalPlace(withholdingShare)

		agg.ReceivingFee = sumRows(data.Sales, domain.ColPaidAcceptance, func(row domain.Row) bool {
			return strings.EqualFold(row[domain.ColSupplierArticle], code)
		})

		agg.AdSpend = a.converter.Convert(adSpendFor(code, data.Ads))

		agg.ToBank = agg.NetRevenue - agg.CommissionWB - agg.AcquiringFee - agg.LogisticsCost -
			agg.StorageCost - agg.Penalties - agg.Withholdings - agg.ReceivingFee
		agg.NetProfit = agg.ToBank - agg.AdSpend - agg.CostOfGoods - agg.UpsellFee

		counts := buyoutFor(code, data.Sales)
		totals.numerator += counts.numerator
		totals.denominator += counts.denominator
		agg.BuyoutRatePct = formatRatioPct(float64(counts.numerator), float64(counts.denominator))

		aggregates = append(aggregates, agg)
	}

	return aggregates, totals
}

// AggregateSummary computes the lighter per-code rollup of the summary
// variant: no per-code storage, penalties, withholdings or receiving split.
func (a *Aggregator) AggregateSummary(data *FilteredData, products catalog.Catalog) []domain.ProductAggregate {
	codes := distinctValues(data.Sales, domain.ColSupplierArticle)

	aggregates := make([]domain.ProductAggregate, 0, len(codes))
	for _, code := range codes {
		aggregates = append(aggregates, a.aggregateSales(code, data.Sales, products))
	}
	return aggregates
}

// aggregateSales fills the fields derivable from the sales rows alone.
func (a *Aggregator) aggregateSales(code string, sales *domain.Table, products catalog.Catalog) domain.ProductAggregate {
	salesCount := countRows(sales, func(row domain.Row) bool {
		return strings.EqualFold(row[domain.ColSupplierArticle], code) &&
			row[domain.ColPaymentReason] == domain.OutcomeSale
	}) - countRows(sales, func(row domain.Row) bool {
		return strings.EqualFold(row[domain.ColSupplierArticle], code) &&
			row[domain.ColPaymentReason] == domain.OutcomeReturn
	})

	netRevenue := sumByOutcome(sales, code, domain.OutcomeSale, domain.ColRetailPrice) -
		sumByOutcome(sales, code, domain.OutcomeReturn, domain.ColRetailPrice)

	acquiring := sumByOutcome(sales, code, domain.OutcomeSale, domain.ColAcquiringFee) -
		sumByOutcome(sales, code, domain.OutcomeReturn, domain.ColAcquiringFee)

	payout := sumByOutcome(sales, code, domain.OutcomeSale, domain.ColPayout) -
		sumByOutcome(sales, code, domain.OutcomeReturn, domain.ColPayout) +
		sumByOutcome(sales, code, domain.OutcomeVoluntaryRefund, domain.ColPayout)

	logistics := sumRows(sales, domain.ColDeliveryServices, func(row domain.Row) bool {
		return strings.EqualFold(row[domain.ColSupplierArticle], code)
	})

	unitCost, costKnown := products.UnitPrice(code)

	return domain.ProductAggregate{
		ProductCode:   code,
		SalesCount:    salesCount,
		NetRevenue:    netRevenue,
		CommissionWB:  netRevenue * a.commissionRate,
		AcquiringFee:  acquiring,
		PayoutAmount:  payout,
		LogisticsCost: logistics,
		UnitCost:      unitCost,
		CostOfGoods:   unitCost * float64(salesCount),
		UpsellFee:     netRevenue * a.upsellRate,
		CostKnown:     costKnown,
	}
}

// FinesBreakdown sums penalties per penalty kind, over rows that actually
// carry a penalty amount.
func (a *Aggregator) FinesBreakdown(sales *domain.Table) []domain.FineRow {
	var kinds []string
	seen := make(map[string]struct{})
	for _, row := range sales.Rows {
		kind := strings.TrimSpace(row[domain.ColPenaltyKind])
		if kind == "" || utils.ParseAmount(row[domain.ColTotalPenalties]) == 0 {
			continue
		}
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}

	fines := make([]domain.FineRow, 0, len(kinds))
	for _, kind := range kinds {
		fines = append(fines, domain.FineRow{
			Kind: kind,
			Amount: sumRows(sales, domain.ColTotalPenalties, func(row domain.Row) bool {
				return strings.TrimSpace(row[domain.ColPenaltyKind]) == kind
			}),
		})
	}
	return fines
}

// SummaryTotals computes the brand-level figures: aggregate storage, the
// subscription ("Джем") withholding, marketplace-account advertising,
// receiving fees, the bank transfer and own-account advertising.
func (a *Aggregator) SummaryTotals(data *FilteredData, aggregates []domain.ProductAggregate, fines []domain.FineRow) domain.SummaryTotals {
	storageTotal := sumRows(data.Sales, domain.ColStorageFee, nil)
	jam := sumRows(data.Sales, domain.ColWithholdings, func(row domain.Row) bool {
		return row[domain.ColPenaltyKind] == domain.WithholdingKindJam
	})
	wbPromo := sumRows(data.Sales, domain.ColWithholdings, func(row domain.Row) bool {
		return row[domain.ColPenaltyKind] == domain.WithholdingKindWBPromo
	})
	receiving := sumRows(data.Sales, domain.ColPaidAcceptance, nil)

	adsRaw := sumRows(data.Ads, domain.ColAdAmount, nil)
	ownAds := a.converter.Convert(adsRaw) - jam - wbPromo

	var payoutTotal, logisticsTotal, finesTotal float64
	for _, agg := range aggregates {
		payoutTotal += agg.PayoutAmount
		logisticsTotal += agg.LogisticsCost
	}
	for _, fine := range fines {
		finesTotal += fine.Amount
	}

	return domain.SummaryTotals{
		StorageTotal:      storageTotal,
		JamWithholding:    jam,
		WBPromoSpend:      wbPromo,
		ReceivingTotal:    receiving,
		TransferredToBank: payoutTotal - logisticsTotal - storageTotal - finesTotal - jam - wbPromo,
		OwnAccountAds:     ownAds,
	}
}

// ApplyPercentages derives the percentage columns once every code's
// absolute values are known. Zero denominators yield a blank value, never a
// division failure.
func ApplyPercentages(aggregates []domain.ProductAggregate) {
	var totalRevenue, totalStorage float64
	for _, agg := range aggregates {
		totalRevenue += agg.NetRevenue
		totalStorage += agg.StorageCost
	}

	for i := range aggregates {
		agg := &aggregates[i]
		agg.RevenueSharePct = formatRatioPct(agg.NetRevenue, totalRevenue)
		agg.LogisticsPct = formatRatioPct(agg.LogisticsCost, agg.NetRevenue)
		agg.StorageOfOwnPct = formatRatioPct(agg.StorageCost, agg.NetRevenue)
		agg.StorageOfTotalPct = formatRatioPct(agg.StorageCost, totalStorage)
		agg.AdSpendPct = formatRatioPct(agg.AdSpend, agg.NetRevenue)
		agg.CostPct = formatRatioPct(agg.CostOfGoods, agg.NetRevenue)
		agg.NetProfitPct = formatRatioPct(agg.NetProfit, agg.NetRevenue)
	}
}

// buyoutFor counts the delivery outcome events of one code: shipped
// (sales), returned and canceled before delivery.
func buyoutFor(code string, sales *domain.Table) buyoutCounts {
	shipped := countRows(sales, func(row domain.Row) bool {
		return strings.EqualFold(row[domain.ColSupplierArticle], code) &&
			row[domain.ColPaymentReason] == domain.OutcomeSale
	})
	returned := countRows(sales, func(row domain.Row) bool {
		return strings.EqualFold(row[domain.ColSupplierArticle], code) &&
			row[domain.ColPaymentReason] == domain.OutcomeReturn
	})
	canceled := countRows(sales, func(row domain.Row) bool {
		return strings.EqualFold(row[domain.ColSupplierArticle], code) &&
			row[domain.ColPaymentReason] == domain.OutcomeCancel
	})

	kept := shipped - returned
	return buyoutCounts{numerator: kept, denominator: kept + canceled}
}

// adSpendFor sums advertising rows whose campaign name contains the product
// code as a case-insensitive substring. Returns the raw, pre-conversion
// amount.
func adSpendFor(code string, ads *domain.Table) float64 {
	lowered := strings.ToLower(code)
	return sumRows(ads, domain.ColAdAmount, func(row domain.Row) bool {
		return strings.Contains(strings.ToLower(row[domain.ColCampaign]), lowered)
	})
}

// formatRatioPct renders num/den as a percentage with two decimals; a zero
// denominator is a defined blank result.
func formatRatioPct(num, den float64) string {
	if den == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f%%", utils.RoundWithTwoDecimalPlace(num/den*100))
}

// distinctValues returns the non-empty distinct values of a column in first
// occurrence order.
func distinctValues(table *domain.Table, column string) []string {
	if table == nil {
		return nil
	}
	var values []string
	seen := make(map[string]struct{})
	for _, row := range table.Rows {
		value := strings.TrimSpace(row[column])
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, value)
	}
	return values
}

func countRows(table *domain.Table, match func(domain.Row) bool) int {
	count := 0
	for _, row := range table.Rows {
		if match(row) {
			count++
		}
	}
	return count
}

// sumRows sums a numeric column over matching rows; a nil matcher sums the
// whole column.
func sumRows(table *domain.Table, column string, match func(domain.Row) bool) float64 {
	var sum float64
	for _, row := range table.Rows {
		if match == nil || match(row) {
			sum += utils.ParseAmount(row[column])
		}
	}
	return sum
}

func sumByOutcome(sales *domain.Table, code, outcome, column string) float64 {
	return sumRows(sales, column, func(row domain.Row) bool {
		return strings.EqualFold(row[domain.ColSupplierArticle], code) &&
			row[domain.ColPaymentReason] == outcome
	})
}
