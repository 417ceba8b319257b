package reporting

import (
	"github.com/vfg2006/marketplace-report-api/infrastructure/currency"
	"github.com/vfg2006/marketplace-report-api/internal/catalog"
	"github.com/vfg2006/marketplace-report-api/internal/config"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
	"github.com/vfg2006/marketplace-report-api/pkg/utils"
)

// Assembler turns filtered data into the final report bundle: the per-code
// rollup, fines breakdown, summary totals, corrections and the totals row,
// in the order the formatting layer writes them out.
type Assembler struct {
	aggregator  *Aggregator
	corrections *Corrections
}

func NewAssembler(cfg *config.Config, converter currency.Converter) *Assembler {
	return &Assembler{
		aggregator:  NewAggregator(cfg, converter),
		corrections: NewCorrections(),
	}
}

// Assemble builds the bundle. The detailed variant needs storage data; when
// it is absent the summary variant is produced regardless of what was
// requested, and the Detailed flag on the bundle reports what was actually
// built.
func (a *Assembler) Assemble(data *FilteredData, products catalog.Catalog, brand string, period domain.Period, detailed bool) *domain.ReportBundle {
	detailed = detailed && data.Storage != nil

	var aggregates []domain.ProductAggregate
	var counts buyoutCounts
	if detailed {
		aggregates, counts = a.aggregator.AggregateDetailed(data, products)
	} else {
		aggregates = a.aggregator.AggregateSummary(data, products)
		counts = brandBuyout(data.Sales)
	}
	ApplyPercentages(aggregates)

	fines := a.aggregator.FinesBreakdown(data.Sales)
	summary := a.aggregator.SummaryTotals(data, aggregates, fines)
	corrections, buyoutRate := a.corrections.Build(data, counts)

	bundle := &domain.ReportBundle{
		Brand:       brand,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Detailed:    detailed,
		Products:    aggregates,
		Fines:       fines,
		Summary:     summary,
		Corrections: corrections,
		Totals:      totalsRow(aggregates),
		BuyoutRate:  buyoutRate,
	}

	if detailed {
		for _, agg := range aggregates {
			bundle.NetProfit += agg.NetProfit
		}
	} else {
		var payout, logistics, cogs, upsell float64
		for _, agg := range aggregates {
			payout += agg.PayoutAmount
			logistics += agg.LogisticsCost
			cogs += agg.CostOfGoods
			upsell += agg.UpsellFee
		}
		bundle.NetProfit = payout - summary.OwnAccountAds - cogs - logistics - upsell -
			summary.StorageTotal - summary.JamWithholding - summary.WBPromoSpend
	}
	bundle.NetProfit = utils.RoundWithTwoDecimalPlace(bundle.NetProfit)

	bundle.MissingSalesDates = missingDates(data.Sales, salesDateColumns(data.Sales), period)
	bundle.MissingAdDates = missingDates(data.Ads, []string{domain.ColDebitDate}, period)

	return bundle
}

// brandBuyout counts delivery outcomes over the whole sales set; the
// summary variant has no per-code split to sum over.
func brandBuyout(sales *domain.Table) buyoutCounts {
	shipped := countRows(sales, func(row domain.Row) bool {
		return row[domain.ColPaymentReason] == domain.OutcomeSale
	})
	returned := countRows(sales, func(row domain.Row) bool {
		return row[domain.ColPaymentReason] == domain.OutcomeReturn
	})
	canceled := countRows(sales, func(row domain.Row) bool {
		return row[domain.ColPaymentReason] == domain.OutcomeCancel
	})

	kept := shipped - returned
	return buyoutCounts{numerator: kept, denominator: kept + canceled}
}

// totalsRow sums the monetary columns of every code into the "Итого" row.
// Percentage fields stay blank there.
func totalsRow(aggregates []domain.ProductAggregate) domain.ProductAggregate {
	var totals domain.ProductAggregate
	for _, agg := range aggregates {
		totals.SalesCount += agg.SalesCount
		totals.NetRevenue += agg.NetRevenue
		totals.CommissionWB += agg.CommissionWB
		totals.AcquiringFee += agg.AcquiringFee
		totals.PayoutAmount += agg.PayoutAmount
		totals.LogisticsCost += agg.LogisticsCost
		totals.StorageCost += agg.StorageCost
		totals.Penalties += agg.Penalties
		totals.Withholdings += agg.Withholdings
		totals.ReceivingFee += agg.ReceivingFee
		totals.ToBank += agg.ToBank
		totals.AdSpend += agg.AdSpend
		totals.CostOfGoods += agg.CostOfGoods
		totals.UpsellFee += agg.UpsellFee
		totals.NetProfit += agg.NetProfit
	}
	return totals
}

// missingDates lists the calendar days of the period for which none of the
// given date columns carries a row. The result feeds the completeness
// warning on the report response; it never blocks generation.
func missingDates(table *domain.Table, columns []string, period domain.Period) []string {
	if table == nil || len(columns) == 0 {
		return nil
	}

	present := make(map[string]struct{})
	for _, row := range table.Rows {
		for _, col := range columns {
			if d, ok := utils.ParseDay(row[col]); ok {
				present[d.Format("2006-01-02")] = struct{}{}
			}
		}
	}

	var missing []string
	for d := period.Start; !d.After(period.End); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		if _, ok := present[day]; !ok {
			missing = append(missing, day)
		}
	}
	return missing
}
