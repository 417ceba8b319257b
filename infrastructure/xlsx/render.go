package xlsx

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

// WriteBundle writes the final report bundle to a single sheet named for the
// report period. Only plain values are written; styling, column sizing and
// image cards belong to the downstream formatting layer.
func WriteBundle(bundle *domain.ReportBundle, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := domain.Period{Start: bundle.PeriodStart, End: bundle.PeriodEnd}.Label()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	w := &sheetWriter{f: f, sheet: sheet}

	// Section order is fixed: rollup, fines, summary, cost block, net
	// profit, corrections, totals, percentages.
	w.row(
		"Артикул поставщика", "Кол-во продаж", "Выручка (продажи - возвраты)", "Выручка %",
		"Комиссия WB", "Комиссия эквайринга", "Сумма к перечислению",
		"Логистика", "Логистика %",
		"Хранение на складе", "Хранение % от собственного дохода", "Хранение % от всей суммы",
		"Штрафы", "Джем", "Приемка товара", "Перечислено банку",
		"Реклама", "Реклама %",
		"Себестоимость единицы товара", "Общая себестоимость", "Себестоимость %",
		"Upsell-услуги", "Чистая Прибыль", "Чистая Прибыль %", "Выкуп",
	)
	for _, p := range bundle.Products {
		w.row(
			p.ProductCode, p.SalesCount, p.NetRevenue, p.RevenueSharePct,
			p.CommissionWB, p.AcquiringFee, p.PayoutAmount,
			p.LogisticsCost, p.LogisticsPct,
			p.StorageCost, p.StorageOfOwnPct, p.StorageOfTotalPct,
			p.Penalties, p.Withholdings, p.ReceivingFee, p.ToBank,
			p.AdSpend, p.AdSpendPct,
			p.UnitCost, p.CostOfGoods, p.CostPct,
			p.UpsellFee, p.NetProfit, p.NetProfitPct, p.BuyoutRatePct,
		)
	}

	w.row()
	w.row("Виды штрафов", "Штрафы")
	for _, fine := range bundle.Fines {
		w.row(fine.Kind, fine.Amount)
	}

	w.row()
	w.row("Хранение на складе", "Джем", "Реклама со счёта WB", "Приемка товара", "Перечислено банку", "Реклама с собственного счёта")
	w.row(
		bundle.Summary.StorageTotal, bundle.Summary.JamWithholding, bundle.Summary.WBPromoSpend,
		bundle.Summary.ReceivingTotal, bundle.Summary.TransferredToBank, bundle.Summary.OwnAccountAds,
	)

	w.row()
	w.row("Чистая Прибыль", bundle.NetProfit)

	w.row()
	w.row("Корректировки")
	for _, corr := range bundle.Corrections {
		w.row(string(corr.Reason), corr.Amount)
	}

	w.row()
	t := bundle.Totals
	w.row("Итого", t.SalesCount, t.NetRevenue, t.CommissionWB, t.AcquiringFee, t.PayoutAmount,
		t.LogisticsCost, t.StorageCost, t.Penalties, t.Withholdings, t.ReceivingFee,
		t.ToBank, t.AdSpend, t.CostOfGoods, t.UpsellFee, t.NetProfit)
	w.row("Выкуп, %", bundle.BuyoutRate)

	if w.err != nil {
		return w.err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving report %s", path)
	}

	return nil
}

// sheetWriter appends rows sequentially, remembering the first write error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	line  int
	err   error
}

func (w *sheetWriter) row(values ...interface{}) {
	w.line++
	if w.err != nil || len(values) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.line)
	if err != nil {
		w.err = errors.Wrap(err, "computing cell coordinates")
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = errors.Wrapf(err, "writing report row %d", w.line)
	}
}
